package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// bvhSequence is the PCG32 stream used for BVH split axes
const bvhSequence = 54

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	CameraConfig renderer.CameraConfig
	Config       renderer.Config
	Background   renderer.Background
	Objects      []geometry.Intersectable // Objects in the scene
	UseBVH       bool                     // Build a BVH instead of a flat list
	BVHSeed      uint64                   // Seeds the random split axes of the BVH

	world geometry.Intersectable
	bvh   *geometry.BVHNode
}

// newScene creates a scene with the default render config sized to the camera's aspect ratio
func newScene(name string, cameraConfig renderer.CameraConfig) *Scene {
	s := &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		Config:       renderer.DefaultConfig(),
		Background:   renderer.DefaultBackground(),
		BVHSeed:      42,
	}
	s.Resize(s.Config.Width)
	return s
}

// Add appends objects to the scene. Preprocess must be called again afterwards.
func (s *Scene) Add(objects ...geometry.Intersectable) {
	s.Objects = append(s.Objects, objects...)
	s.world = nil
	s.bvh = nil
}

// Resize sets the image width and derives the height from the camera aspect ratio
func (s *Scene) Resize(width int) {
	s.Config.Width = width
	s.Config.Height = renderer.HeightForAspect(width, s.CameraConfig.AspectRatio)
}

// SetAspectRatio changes the camera aspect ratio and recomputes the image height
func (s *Scene) SetAspectRatio(aspectRatio float64) {
	s.CameraConfig.AspectRatio = aspectRatio
	s.Resize(s.Config.Width)
}

// Preprocess builds the world the renderer traverses: a BVH over all objects
// when UseBVH is set, a flat list otherwise
func (s *Scene) Preprocess() error {
	s.bvh = nil
	if !s.UseBVH {
		s.world = geometry.NewList(s.Objects...)
		return nil
	}

	bvh, err := geometry.NewBVH(s.Objects, core.NewPCG32(s.BVHSeed, bvhSequence))
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	s.bvh = bvh
	s.world = bvh
	return nil
}

// World returns the preprocessed world, or nil before Preprocess
func (s *Scene) World() geometry.Intersectable {
	return s.world
}

// BVHStats returns the structure of the scene BVH, if one was built
func (s *Scene) BVHStats() (geometry.BVHStats, bool) {
	if s.bvh == nil {
		return geometry.BVHStats{}, false
	}
	return s.bvh.Stats(), true
}

// NewRaytracer validates the camera, preprocesses the scene if needed and
// returns a raytracer ready to render it
func (s *Scene) NewRaytracer(logger core.Logger) (*renderer.Raytracer, error) {
	if err := s.CameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	if s.world == nil {
		if err := s.Preprocess(); err != nil {
			return nil, err
		}
	}

	rt, err := renderer.NewRaytracer(s.world, renderer.NewCamera(s.CameraConfig), s.Config, logger)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	rt.SetBackground(s.Background)
	return rt, nil
}
