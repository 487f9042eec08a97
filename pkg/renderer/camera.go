package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig describes the pose and lens of a thin-lens camera
type CameraConfig struct {
	LookFrom      core.Vec3 // Eye position (center of the lens)
	LookAt        core.Vec3 // Point the camera is aimed at
	Up            core.Vec3 // Up reference, need not be orthogonal to the view direction
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter; 0 gives a pinhole camera
	FocusDistance float64   // Distance to the plane in perfect focus
}

// Validate checks that the configuration describes a usable camera
func (c CameraConfig) Validate() error {
	viewDir := c.LookAt.Subtract(c.LookFrom)
	switch {
	case viewDir.LengthSquared() == 0:
		return fmt.Errorf("%w: camera lookFrom and lookAt coincide", ErrInvalidConfig)
	case viewDir.Cross(c.Up).LengthSquared() == 0:
		return fmt.Errorf("%w: camera up vector is zero or parallel to the view direction", ErrInvalidConfig)
	case c.VFov <= 0 || c.VFov >= 180:
		return fmt.Errorf("%w: vertical fov %g must be in (0, 180)", ErrInvalidConfig, c.VFov)
	case c.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio %g must be positive", ErrInvalidConfig, c.AspectRatio)
	case c.Aperture < 0:
		return fmt.Errorf("%w: aperture %g must not be negative", ErrInvalidConfig, c.Aperture)
	case c.FocusDistance <= 0:
		return fmt.Errorf("%w: focus distance %g must be positive", ErrInvalidConfig, c.FocusDistance)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal basis: right, up, backwards
	lensRadius      float64
}

// NewCamera builds a camera from config. The viewport lies on the focus plane.
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := viewportHeight * config.AspectRatio

	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.LookFrom
	horizontal := u.Multiply(config.FocusDistance * viewportWidth)
	vertical := v.Multiply(config.FocusDistance * viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(config.FocusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}
}

// GetRay generates a ray for image-plane coordinates (s, t) in [0,1], s to the
// right and t upwards. The origin is offset by a lens sample drawn from rng.
func (c *Camera) GetRay(s, t float64, rng *core.PCG32) core.Ray {
	rd := core.RandomInUnitDisk(rng).Multiply(c.lensRadius)
	offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	return c.rayFrom(c.origin.Add(offset), s, t)
}

// GetCenterRay returns the ray through (s, t) from the lens center, without a lens sample
func (c *Camera) GetCenterRay(s, t float64) core.Ray {
	return c.rayFrom(c.origin, s, t)
}

func (c *Camera) rayFrom(origin core.Vec3, s, t float64) core.Ray {
	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))
	return core.NewRay(origin, target.Subtract(origin))
}

// Basis returns the camera's right, up and backward unit vectors
func (c *Camera) Basis() (u, v, w core.Vec3) {
	return c.u, c.v, c.w
}

// Origin returns the lens center
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}
