package renderer

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// HitTMin is the smallest ray parameter accepted for scene hits. It skips
// spurious hits on the surface a scattered ray starts from.
const HitTMin = 0.001

// Background is the sky seen by rays that escape the scene
type Background struct {
	Bottom core.Vec3 // Color looking straight down
	Top    core.Vec3 // Color looking straight up
}

// DefaultBackground returns the white to light blue sky gradient
func DefaultBackground() Background {
	return Background{
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
		Top:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Color returns the gradient color for a ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map the y-component from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Lerp(b.Top, t)
}

// Raytracer renders a world through a camera. It holds no mutable state, so a
// single instance is shared by every worker.
type Raytracer struct {
	world      geometry.Intersectable
	camera     *Camera
	config     Config
	background Background
	logger     core.Logger
}

// NewRaytracer validates its inputs and creates a raytracer. A nil logger discards output.
func NewRaytracer(world geometry.Intersectable, camera *Camera, config Config, logger core.Logger) (*Raytracer, error) {
	if world == nil {
		return nil, fmt.Errorf("%w: no world to render", ErrInvalidConfig)
	}
	if !world.BoundingBox().IsValid() {
		return nil, fmt.Errorf("%w: world is empty", ErrInvalidConfig)
	}
	if camera == nil {
		return nil, fmt.Errorf("%w: no camera", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NopLogger{}
	}

	return &Raytracer{
		world:      world,
		camera:     camera,
		config:     config,
		background: DefaultBackground(),
		logger:     logger,
	}, nil
}

// SetBackground replaces the sky gradient. It must not be called during Render.
func (rt *Raytracer) SetBackground(background Background) {
	rt.background = background
}

// Config returns the render configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// RayColor returns the radiance carried back along r after at most depth bounces
func (rt *Raytracer) RayColor(r core.Ray, depth int, rng *core.PCG32) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.world.Hit(r, HitTMin, math.Inf(1))
	if !isHit {
		return rt.background.Color(r)
	}
	if hit.Material == nil {
		return core.Vec3{}
	}

	scatter, didScatter := hit.Material.Scatter(r, hit, rng)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, rng))
}

// pixelRNG returns the generator owned by pixel (i, j)
func (rt *Raytracer) pixelRNG(i, j int) *core.PCG32 {
	return core.NewPCG32(rt.config.SeedState+uint64(j), rt.config.SeedSequence+uint64(i))
}

// RenderPixel returns the averaged linear color of pixel (i, j), j = 0 being the top row.
// The result depends only on the pixel coordinates and the configured seeds.
func (rt *Raytracer) RenderPixel(i, j int) core.Vec3 {
	rng := rt.pixelRNG(i, j)
	width := float64(rt.config.Width)
	height := float64(rt.config.Height)
	row := float64(rt.config.Height - 1 - j)

	var colorAccum core.Vec3
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		s := (float64(i) + rng.Float64()) / width
		t := (row + rng.Float64()) / height

		ray := rt.camera.GetRay(s, t, rng)
		colorAccum = colorAccum.Add(rt.RayColor(ray, rt.config.MaxDepth, rng))
	}

	return colorAccum.Divide(float64(rt.config.SamplesPerPixel))
}

// RenderTile renders the pixels inside bounds into buffer and returns the number
// of camera rays traced
func (rt *Raytracer) RenderTile(bounds image.Rectangle, buffer []byte) int {
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			offset := (j*rt.config.Width + i) * 3
			r, g, b := ColorToBytes(rt.RenderPixel(i, j))
			buffer[offset] = r
			buffer[offset+1] = g
			buffer[offset+2] = b
		}
	}
	return bounds.Dx() * bounds.Dy() * rt.config.SamplesPerPixel
}

// Render renders the whole image on the worker pool and returns a row-major RGB
// buffer, top row first
func (rt *Raytracer) Render() ([]byte, RenderStats, error) {
	start := time.Now()
	width, height := rt.config.Width, rt.config.Height
	buffer := make([]byte, width*height*3)

	tiles := NewTileGrid(width, height, rt.config.TileSize)
	pool := NewWorkerPool(rt, rt.config.NumWorkers, len(tiles))

	rt.logger.Printf("Rendering %dx%d at %d spp: %d tiles on %d workers\n",
		width, height, rt.config.SamplesPerPixel, len(tiles), pool.GetNumWorkers())

	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: taskID, Buffer: buffer})
	}
	pool.Start()

	stats := RenderStats{
		TotalPixels: width * height,
		Tiles:       len(tiles),
		Workers:     pool.GetNumWorkers(),
	}
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.TotalSamples += result.Samples
	}
	pool.Stop()

	stats.Duration = time.Since(start)
	rt.logger.Printf("Render completed in %v (%d samples, %.0f samples/s)\n",
		stats.Duration, stats.TotalSamples, stats.SamplesPerSecond())

	return buffer, stats, nil
}

// InspectResult describes what the center ray of a pixel hits
type InspectResult struct {
	Ray       core.Ray
	Hit       bool
	HitRecord *material.HitRecord
	Depth     float64 // Distance of the hit from the lens along the view direction
}

// Inspect casts the unjittered ray through the center of pixel (x, y) from the
// lens center and returns the nearest hit
func (rt *Raytracer) Inspect(x, y int) (InspectResult, error) {
	if x < 0 || x >= rt.config.Width || y < 0 || y >= rt.config.Height {
		return InspectResult{}, fmt.Errorf("pixel (%d,%d) outside %dx%d image", x, y, rt.config.Width, rt.config.Height)
	}

	s := (float64(x) + 0.5) / float64(rt.config.Width)
	t := (float64(rt.config.Height-1-y) + 0.5) / float64(rt.config.Height)
	ray := rt.camera.GetCenterRay(s, t)

	hit, isHit := rt.world.Hit(ray, HitTMin, math.Inf(1))
	if !isHit {
		return InspectResult{Ray: ray}, nil
	}

	_, _, w := rt.camera.Basis()
	depth := hit.Point.Subtract(rt.camera.Origin()).Dot(w.Negate())
	return InspectResult{Ray: ray, Hit: true, HitRecord: hit, Depth: depth}, nil
}

// ColorToBytes gamma-corrects (gamma 2) a linear color and converts it to 8 bits per channel
func ColorToBytes(c core.Vec3) (r, g, b uint8) {
	return channelToByte(c.X), channelToByte(c.Y), channelToByte(c.Z)
}

func channelToByte(v float64) uint8 {
	v = math.Sqrt(v)
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Max(0, math.Min(1, v)) * 255)
}
