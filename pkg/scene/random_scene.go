package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// DefaultRandomSeed seeds the random scene registered as "random"
const DefaultRandomSeed = 42

// randomGridHalfSize is the grid extent: small spheres are placed for a, b in [-11, 11)
const randomGridHalfSize = 11

// NewRandomScene creates a ground sphere covered in small random spheres plus
// three large feature spheres. The layout depends only on seed.
func NewRandomScene(seed uint64) *Scene {
	s := newScene("random", renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	})
	s.UseBVH = true
	s.BVHSeed = seed
	s.Config.SamplesPerPixel = 50

	rng := core.NewPCG32(seed, 1)

	ground := material.NewTexturedLambertian(material.NewChecker(
		core.NewVec3(0.2, 0.3, 0.1),
		core.NewVec3(0.9, 0.9, 0.9),
		10.0,
	))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground))

	glass := material.NewDielectric(1.5)
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -randomGridHalfSize; a < randomGridHalfSize; a++ {
		for b := -randomGridHalfSize; b < randomGridHalfSize; b++ {
			chooseMat := rng.Float64()
			center := core.NewVec3(
				float64(a)+0.9*rng.Float64(),
				0.2,
				float64(b)+0.9*rng.Float64(),
			)

			// Keep the space around the large metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(rng, 0, 1).MultiplyVec(core.RandomVec3(rng, 0, 1))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.RandomVec3(rng, 0.5, 1)
				fuzz := rng.FloatBetween(0, 0.5)
				mat = material.NewMetal(albedo, fuzz)
			default:
				mat = glass
			}
			s.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)
	return s
}
