package renderer

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrInvalidConfig is wrapped by every configuration validation failure
var ErrInvalidConfig = errors.New("invalid render configuration")

// Config contains the image and sampling parameters of a render
type Config struct {
	Width           int    // Image width in pixels
	Height          int    // Image height in pixels
	SamplesPerPixel int    // Camera rays averaged per pixel
	MaxDepth        int    // Maximum ray bounce depth
	SeedState       uint64 // Per-pixel generators use state SeedState+row
	SeedSequence    uint64 // and sequence SeedSequence+column
	TileSize        int    // Edge length of the square tiles handed to workers
	NumWorkers      int    // Parallel workers (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          HeightForAspect(400, 16.0/9.0),
		SamplesPerPixel: 100,
		MaxDepth:        50,
		SeedState:       17,
		SeedSequence:    23,
		TileSize:        32,
		NumWorkers:      runtime.NumCPU(),
	}
}

// HeightForAspect returns the image height for a width and aspect ratio, never less than 1
func HeightForAspect(width int, aspectRatio float64) int {
	return max(1, int(float64(width)/aspectRatio))
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth %d must be positive", ErrInvalidConfig, c.MaxDepth)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d must be positive", ErrInvalidConfig, c.TileSize)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: worker count %d must not be negative", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}
