package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// degenerateThreshold is the squared length below which a diffuse direction
// is treated as cancelled out
const degenerateThreshold = 1e-16

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedoTexture ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedoTexture}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit *HitRecord, rng *core.PCG32) (ScatterResult, bool) {
	sample := core.RandomInUnitSphere(rng).Normalize()
	direction := diffuseDirection(hit.Normal, sample)

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: l.Albedo.Evaluate(hit.U, hit.V, hit.Point),
	}, true
}

// diffuseDirection offsets the normal by a unit sample, falling back to the
// normal when the two nearly cancel
func diffuseDirection(normal, unitSample core.Vec3) core.Vec3 {
	direction := normal.Add(unitSample)
	if direction.LengthSquared() < degenerateThreshold {
		return normal
	}
	return direction
}
