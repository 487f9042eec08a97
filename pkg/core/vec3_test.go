package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"multiply scalar", a.Multiply(2), NewVec3(2, 4, 6)},
		{"multiply vec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"divide scalar", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"divide vec", b.DivideVec(a), NewVec3(4, -2.5, 2)},
		{"add scalar", a.AddScalar(1), NewVec3(2, 3, 4)},
		{"subtract scalar", a.SubtractScalar(1), NewVec3(0, 1, 2)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"cross anticommutes", NewVec3(0, 1, 0).Cross(NewVec3(1, 0, 0)), NewVec3(0, 0, -1)},
		{"lerp", NewVec3(1, 1, 1).Lerp(NewVec3(0.5, 0.7, 1.0), 0.5), NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_DotAndLength(t *testing.T) {
	v := NewVec3(2, 3, 6)
	if v.Dot(NewVec3(1, 1, 1)) != 11 {
		t.Errorf("Expected dot 11, got %f", v.Dot(NewVec3(1, 1, 1)))
	}
	if v.LengthSquared() != 49 {
		t.Errorf("Expected squared length 49, got %f", v.LengthSquared())
	}
	if v.Length() != 7 {
		t.Errorf("Expected length 7, got %f", v.Length())
	}

	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length after normalize, got %f", n.Length())
	}
}

func TestVec3_NormalizeZeroIsNotFinite(t *testing.T) {
	n := Vec3{}.Normalize()
	if !math.IsNaN(n.X) || !math.IsNaN(n.Y) || !math.IsNaN(n.Z) {
		t.Errorf("Expected NaN components for zero vector, got %v", n)
	}
}

func TestVec3_Axis(t *testing.T) {
	v := NewVec3(7, 8, 9)
	for axis, expected := range []float64{7, 8, 9} {
		if v.Axis(axis) != expected {
			t.Errorf("Axis(%d) = %f, expected %f", axis, v.Axis(axis), expected)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for axis 3")
		}
	}()
	v.Axis(3)
}

func TestVec3_ClampAndSqrt(t *testing.T) {
	c := NewVec3(-0.5, 0.25, 4).Clamp(0, 1)
	if c != NewVec3(0, 0.25, 1) {
		t.Errorf("Unexpected clamp result %v", c)
	}
	s := NewVec3(0.25, 1, 0).Sqrt()
	if s != NewVec3(0.5, 1, 0) {
		t.Errorf("Unexpected sqrt result %v", s)
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	rng := NewPCG32(1, 2)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitSphere(rng)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Sample %d outside unit sphere: %v", i, p)
		}
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	rng := NewPCG32(3, 4)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(rng)
		if p.Z != 0 {
			t.Fatalf("Disk sample %d left the z=0 plane: %v", i, p)
		}
		if p.X < 0 || p.Y < 0 {
			t.Fatalf("Disk sample %d outside [0,1)^2: %v", i, p)
		}
		if p.LengthSquared() >= 1 {
			t.Fatalf("Disk sample %d outside unit circle: %v", i, p)
		}
	}
}

func TestRandomVec3_Range(t *testing.T) {
	rng := NewPCG32(5, 6)
	for i := 0; i < 1000; i++ {
		v := RandomVec3(rng, -2, 3)
		for axis := 0; axis < 3; axis++ {
			if v.Axis(axis) < -2 || v.Axis(axis) >= 3 {
				t.Fatalf("Component out of range: %v", v)
			}
		}
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if ray.At(1.5) != NewVec3(1, 3, 0) {
		t.Errorf("Unexpected point %v", ray.At(1.5))
	}
}
