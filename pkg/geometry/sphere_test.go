package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_ReferenceCase(t *testing.T) {
	mat := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, mat)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.T != 0.5 {
		t.Errorf("Expected t=0.5, got %f", hit.T)
	}
	if hit.Normal != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}
	if !hit.FrontFace {
		t.Error("Expected front face")
	}
	if hit.Material != mat {
		t.Error("Expected the sphere's material on the hit record")
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	if hit.Point.Subtract(core.NewVec3(1, 0, 0)).Length() > 1e-9 {
		t.Errorf("Expected hit point (1,0,0), got %v", hit.Point)
	}
}

func TestSphere_Hit_OpenInterval(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Roots are t=1 and t=3
	tests := []struct {
		name      string
		tMin      float64
		tMax      float64
		expectHit bool
		expectedT float64
	}{
		{"both roots inside", 0.001, 1000, true, 1},
		{"tMax equals near root", 0.001, 1, false, 0},
		{"tMax before near root", 0.001, 0.5, false, 0},
		{"tMin equals near root", 1, 1000, true, 3},
		{"tMin equals far root", 3, 1000, false, 0},
		{"tMin past far root", 3.5, 1000, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.tMin, tt.tMax)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if !isHit {
				return
			}
			if hit.T != tt.expectedT {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.T <= tt.tMin || hit.T >= tt.tMax {
				t.Errorf("Hit t=%f outside (%f, %f)", hit.T, tt.tMin, tt.tMax)
			}
		})
	}
}

func TestSphere_Hit_TAlwaysInsideInterval(t *testing.T) {
	rng := core.NewPCG32(11, 13)
	for i := 0; i < 2000; i++ {
		sphere := NewSphere(core.RandomVec3(rng, -5, 5), rng.FloatBetween(0.1, 3), nil)
		ray := core.NewRay(core.RandomVec3(rng, -10, 10), core.RandomVec3(rng, -1, 1))
		tMin := rng.FloatBetween(0, 2)
		tMax := tMin + rng.FloatBetween(0, 20)

		if hit, isHit := sphere.Hit(ray, tMin, tMax); isHit {
			if hit.T <= tMin || hit.T >= tMax {
				t.Fatalf("Hit t=%f outside (%f, %f)", hit.T, tMin, tMax)
			}
			if math.Abs(hit.Normal.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit normal, got length %f", hit.Normal.Length())
			}
			if hit.Normal.Dot(ray.Direction) > 0 {
				t.Fatalf("Normal should face against the ray: %v vs %v", hit.Normal, ray.Direction)
			}
		}
	}
}

func TestSphere_NegativeRadiusFlipsNormal(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), -1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000)
	if !isHit {
		t.Fatal("Expected hit")
	}
	// Outward normal points inward, so the outside surface is seen as a back face
	if hit.FrontFace {
		t.Error("Expected back face for a negative-radius sphere")
	}
	if hit.Normal != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected normal facing the ray, got %v", hit.Normal)
	}

	box := sphere.BoundingBox()
	if !box.IsValid() || box.Min != core.NewVec3(-1, -1, -1) {
		t.Errorf("Expected ordered bounding box, got %+v", box)
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.5, nil)
	box := sphere.BoundingBox()
	if box.Min != core.NewVec3(0.5, 1.5, 2.5) || box.Max != core.NewVec3(1.5, 2.5, 3.5) {
		t.Errorf("Unexpected bounding box %+v", box)
	}
}

func TestSphereUV(t *testing.T) {
	tests := []struct {
		name string
		p    core.Vec3
		u, v float64
	}{
		{"+X", core.NewVec3(1, 0, 0), 0.5, 0.5},
		{"+Y", core.NewVec3(0, 1, 0), 0.5, 1.0},
		{"-Y", core.NewVec3(0, -1, 0), 0.5, 0.0},
		{"-X", core.NewVec3(-1, 0, 0), 0.0, 0.5},
		{"+Z", core.NewVec3(0, 0, 1), 0.25, 0.5},
		{"-Z", core.NewVec3(0, 0, -1), 0.75, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := sphereUV(tt.p)
			if math.Abs(u-tt.u) > 1e-9 || math.Abs(v-tt.v) > 1e-9 {
				t.Errorf("Expected (%f, %f), got (%f, %f)", tt.u, tt.v, u, v)
			}
		})
	}
}
