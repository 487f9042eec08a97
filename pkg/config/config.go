// Package config loads render settings from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Vector is a JSON [x, y, z] triple
type Vector [3]float64

// Vec3 converts the triple to a core.Vec3
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraOverride replaces parts of a scene's camera. Nil or zero fields keep the scene's value.
type CameraOverride struct {
	LookFrom      *Vector  `json:"lookFrom,omitempty"`
	LookAt        *Vector  `json:"lookAt,omitempty"`
	Up            *Vector  `json:"up,omitempty"`
	VFov          float64  `json:"vfov,omitempty"`
	Aperture      *float64 `json:"aperture,omitempty"`
	FocusDistance float64  `json:"focusDistance,omitempty"`
}

// Config is a complete render run. Zero fields are filled with defaults on Load;
// AspectRatio, the seeds, UseBVH and Camera fall back to the scene's own values.
type Config struct {
	Scene           string          `json:"scene"`
	Width           int             `json:"width"`
	AspectRatio     float64         `json:"aspectRatio,omitempty"`
	SamplesPerPixel int             `json:"samplesPerPixel"`
	MaxDepth        int             `json:"maxDepth"`
	SeedState       *uint64         `json:"seedState,omitempty"`
	SeedSequence    *uint64         `json:"seedSequence,omitempty"`
	Workers         int             `json:"workers"`
	TileSize        int             `json:"tileSize"`
	Output          string          `json:"output"`
	UseBVH          *bool           `json:"useBVH,omitempty"`
	Camera          *CameraOverride `json:"camera,omitempty"`
}

const (
	DefaultScene           = "default"
	DefaultWidth           = 400
	DefaultSamplesPerPixel = 100
	DefaultMaxDepth        = 50
	DefaultTileSize        = 32
)

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

// Load reads a JSON config file, fills defaults and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// fillDefaults replaces fields absent from the file (zero) with defaults.
// Negative values are left for Validate to reject.
func (c *Config) fillDefaults() {
	if c.Scene == "" {
		c.Scene = DefaultScene
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.SamplesPerPixel == 0 {
		c.SamplesPerPixel = DefaultSamplesPerPixel
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.TileSize == 0 {
		c.TileSize = DefaultTileSize
	}
}

// Validate reports the first invalid field
func (c *Config) Validate() error {
	if !scene.Exists(c.Scene) {
		return fmt.Errorf("%w: %q (available: %s)", scene.ErrUnknownScene, c.Scene, strings.Join(scene.Names(), ", "))
	}
	switch {
	case c.Width <= 0:
		return fmt.Errorf("%w: width %d must be positive", renderer.ErrInvalidConfig, c.Width)
	case c.AspectRatio < 0:
		return fmt.Errorf("%w: aspect ratio %g must not be negative", renderer.ErrInvalidConfig, c.AspectRatio)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d must be positive", renderer.ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth %d must be positive", renderer.ErrInvalidConfig, c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d must not be negative", renderer.ErrInvalidConfig, c.Workers)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d must be positive", renderer.ErrInvalidConfig, c.TileSize)
	}
	return nil
}

// Apply writes the configuration onto a scene
func (c *Config) Apply(s *scene.Scene) {
	s.Resize(c.Width)
	if c.AspectRatio > 0 {
		s.SetAspectRatio(c.AspectRatio)
	}

	s.Config.SamplesPerPixel = c.SamplesPerPixel
	s.Config.MaxDepth = c.MaxDepth
	s.Config.NumWorkers = c.Workers
	s.Config.TileSize = c.TileSize
	if c.SeedState != nil {
		s.Config.SeedState = *c.SeedState
	}
	if c.SeedSequence != nil {
		s.Config.SeedSequence = *c.SeedSequence
	}
	if c.UseBVH != nil {
		s.UseBVH = *c.UseBVH
	}

	if cam := c.Camera; cam != nil {
		if cam.LookFrom != nil {
			s.CameraConfig.LookFrom = cam.LookFrom.Vec3()
		}
		if cam.LookAt != nil {
			s.CameraConfig.LookAt = cam.LookAt.Vec3()
		}
		if cam.Up != nil {
			s.CameraConfig.Up = cam.Up.Vec3()
		}
		if cam.VFov > 0 {
			s.CameraConfig.VFov = cam.VFov
		}
		if cam.Aperture != nil {
			s.CameraConfig.Aperture = *cam.Aperture
		}
		if cam.FocusDistance > 0 {
			s.CameraConfig.FocusDistance = cam.FocusDistance
		}
	}
}

// BuildScene creates the configured scene with all overrides applied
func (c *Config) BuildScene() (*scene.Scene, error) {
	s, err := scene.New(c.Scene)
	if err != nil {
		return nil, err
	}
	c.Apply(s)
	if err := s.CameraConfig.Validate(); err != nil {
		return nil, err
	}
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
