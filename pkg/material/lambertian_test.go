package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestLambertian_ScatterStaysInNormalHemisphere(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.3, 0.3)
	lambertian := NewLambertian(albedo)
	rng := core.NewPCG32(42, 54)

	normal := core.NewVec3(0, 0, 1)
	hit := &HitRecord{
		Point:     core.NewVec3(1, 2, 3),
		Normal:    normal,
		FrontFace: true,
		Material:  lambertian,
	}
	ray := core.NewRay(core.NewVec3(1, 2, 4), core.NewVec3(0, 0, -1))

	for i := 0; i < 500; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, rng)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if scatter.Attenuation != albedo {
			t.Fatalf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}
		if scatter.Scattered.Origin != hit.Point {
			t.Fatalf("Expected scattered origin at hit point, got %v", scatter.Scattered.Origin)
		}
		dir := scatter.Scattered.Direction
		if dir.LengthSquared() < degenerateThreshold {
			t.Fatalf("Degenerate direction escaped: %v", dir)
		}
		// normal + unit vector never points below the tangent plane
		if dir.Dot(normal) < 0 {
			t.Fatalf("Scatter direction below surface: %v", dir)
		}
		if dir.Length() > 2+1e-12 {
			t.Fatalf("Scatter direction longer than normal+unit: %v", dir)
		}
	}
}

func TestLambertian_DegenerateFallback(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)

	tests := []struct {
		name     string
		sample   core.Vec3
		expected core.Vec3
	}{
		{"exact cancellation", core.NewVec3(0, -1, 0), normal},
		{"near cancellation", core.NewVec3(0, -1+1e-9, 0), normal},
		{"regular sample", core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diffuseDirection(normal, tt.sample)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestLambertian_TexturedAlbedo(t *testing.T) {
	checker := NewChecker(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0), math.Pi)
	lambertian := NewTexturedLambertian(checker)
	rng := core.NewPCG32(1, 1)

	hit := &HitRecord{Point: core.NewVec3(0.5, 0.5, 0.5), Normal: core.NewVec3(0, 1, 0), FrontFace: true}
	scatter, _ := lambertian.Scatter(core.NewRay(core.NewVec3(0.5, 2, 0.5), core.NewVec3(0, -1, 0)), hit, rng)
	if scatter.Attenuation != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected even color at positive cell, got %v", scatter.Attenuation)
	}

	hit.Point = core.NewVec3(-0.5, 0.5, 0.5)
	scatter, _ = lambertian.Scatter(core.NewRay(core.NewVec3(-0.5, 2, 0.5), core.NewVec3(0, -1, 0)), hit, rng)
	if scatter.Attenuation != core.NewVec3(0, 0, 0) {
		t.Errorf("Expected odd color at negative cell, got %v", scatter.Attenuation)
	}
}

func TestSetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 0, 1)

	var front HitRecord
	front.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), outward)
	if !front.FrontFace || front.Normal != outward {
		t.Errorf("Expected front face with outward normal, got %+v", front)
	}

	var back HitRecord
	back.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), outward)
	if back.FrontFace || back.Normal != outward.Negate() {
		t.Errorf("Expected back face with flipped normal, got %+v", back)
	}
}
