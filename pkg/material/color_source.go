package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at the given surface coordinates and 3D point
	Evaluate(u, v float64, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(u, v float64, point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker is a procedural 3D checkerboard. The pattern alternates with the sign of
// sin(Scale*x)*sin(Scale*y)*sin(Scale*z), so it is independent of surface parameterization.
type Checker struct {
	Even  ColorSource
	Odd   ColorSource
	Scale float64
}

// NewChecker creates a checkerboard alternating between two solid colors
func NewChecker(even, odd core.Vec3, scale float64) *Checker {
	return &Checker{
		Even:  NewSolidColor(even),
		Odd:   NewSolidColor(odd),
		Scale: scale,
	}
}

// Evaluate picks the even or odd source for the cell containing point
func (c *Checker) Evaluate(u, v float64, point core.Vec3) core.Vec3 {
	sines := math.Sin(c.Scale*point.X) * math.Sin(c.Scale*point.Y) * math.Sin(c.Scale*point.Z)
	if sines < 0 {
		return c.Odd.Evaluate(u, v, point)
	}
	return c.Even.Evaluate(u, v, point)
}
