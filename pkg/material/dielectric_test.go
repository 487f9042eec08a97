package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	// 30 degrees from the normal, entering from outside
	incident := core.NewVec3(0.5, -math.Sqrt(3)/2, 0)
	ray := core.Ray{Origin: core.NewVec3(-0.5, 1, 0), Direction: incident}
	hit := &HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	reflected := core.NewVec3(0.5, math.Sqrt(3)/2, 0)
	// Snell with eta = 1/1.5: sin(theta_t) = 0.5 / 1.5
	sinT := 0.5 / 1.5
	refracted := core.NewVec3(sinT, -math.Sqrt(1-sinT*sinT), 0)

	refractions := 0
	for seed := uint64(0); seed < 200; seed++ {
		result, scattered := glass.Scatter(ray, hit, core.NewPCG32(seed, 1))
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Attenuation != core.NewVec3(1, 1, 1) {
			t.Fatalf("Expected white attenuation, got %v", result.Attenuation)
		}

		dir := result.Scattered.Direction
		switch {
		case dir.Subtract(refracted).Length() < 1e-9:
			refractions++
		case dir.Subtract(reflected).Length() < 1e-9:
		default:
			t.Fatalf("Direction %v is neither the reflection nor the 1/1.5 refraction", dir)
		}
	}

	// Schlick reflectance is about 4% here
	if refractions < 150 {
		t.Errorf("Expected mostly refraction near normal incidence, got %d/200", refractions)
	}
}

func TestDielectricExitUsesIndex(t *testing.T) {
	glass := NewDielectric(1.5)

	// Exiting at 20 degrees: sin(theta_t) = 1.5 * sin(20deg), below the critical angle
	sinI := math.Sin(20 * math.Pi / 180)
	incident := core.NewVec3(sinI, -math.Sqrt(1-sinI*sinI), 0)
	hit := &HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), FrontFace: false, Material: glass}

	sawRefraction := false
	for seed := uint64(0); seed < 100; seed++ {
		result, _ := glass.Scatter(core.NewRay(core.NewVec3(0, 1, 0), incident), hit, core.NewPCG32(seed, 3))
		if result.Scattered.Direction.Y < 0 {
			sawRefraction = true
			if math.Abs(result.Scattered.Direction.X-1.5*sinI) > 1e-9 {
				t.Fatalf("Expected tangential component %f, got %f", 1.5*sinI, result.Scattered.Direction.X)
			}
		}
	}
	if !sawRefraction {
		t.Error("Expected refraction below the critical angle")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: rayDirection}

	// Back face: ray is exiting the material
	hit := &HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false,
		Material:  glass,
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	for seed := uint64(0); seed < 100; seed++ {
		result, scattered := glass.Scatter(ray, hit, core.NewPCG32(seed, seed))
		if !scattered {
			t.Error("Dielectric should always scatter")
		}

		if result.Scattered.Direction.Y <= 0 {
			t.Errorf("Expected total internal reflection (ray going up), got %+v", result.Scattered.Direction)
		}
		if math.Abs(result.Scattered.Direction.X-rayDirection.X) > 1e-10 {
			t.Errorf("Expected X component %.6f, got %.6f", rayDirection.X, result.Scattered.Direction.X)
		}
	}
}

func TestReflectanceFunction(t *testing.T) {
	// Normal incidence (0 degrees) - should be about 4% for air->glass
	r0 := Reflectance(1.0, 1.0/1.5)
	if math.Abs(r0-0.04) > 1e-12 {
		t.Errorf("Normal incidence reflectance = %.6f, expected 0.04", r0)
	}

	// Grazing incidence (90 degrees) - total reflection
	r90 := Reflectance(0.0, 1.0/1.5)
	if math.Abs(r90-1.0) > 1e-12 {
		t.Errorf("Grazing incidence reflectance = %.6f, expected 1", r90)
	}

	// Monotonic between the two
	prev := r90
	for cos := 0.1; cos <= 1.0; cos += 0.1 {
		r := Reflectance(cos, 1.0/1.5)
		if r > prev {
			t.Errorf("Reflectance should decrease with cosine: R(%.1f)=%f > %f", cos, r, prev)
		}
		prev = r
	}
}
