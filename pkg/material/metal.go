package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material. Fuzzness is used as given; values above 1
// can scatter rays below the surface, which Scatter does not filter out.
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}
}

// Scatter implements the Material interface for metal scattering.
// Rays arriving from behind the surface normal are absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit *HitRecord, rng *core.PCG32) (ScatterResult, bool) {
	if rayIn.Direction.Dot(hit.Normal) >= 0 {
		return ScatterResult{}, false
	}

	reflected := reflect(rayIn.Direction, hit.Normal)
	perturbation := core.RandomInUnitSphere(rng).Multiply(m.Fuzzness)

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected.Add(perturbation)),
		Attenuation: m.Albedo,
	}, true
}
