package core

import (
	"math"
	"testing"
)

func TestVec3_BasicOperations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Cross", a.Cross(b), NewVec3(27, 6, -13)},
		{"Lerp midpoint", a.Lerp(b, 0.5), NewVec3(2.5, -1.5, 4.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const tolerance = 1e-12
			if tt.result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}

	if dot := a.Dot(b); dot != 12 {
		t.Errorf("Expected dot product 12, got %f", dot)
	}
	if lsq := a.LengthSquared(); lsq != 14 {
		t.Errorf("Expected squared length 14, got %f", lsq)
	}
	if l := NewVec3(3, 4, 0).Length(); l != 5 {
		t.Errorf("Expected length 5, got %f", l)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Z-0.8) > 1e-12 {
		t.Errorf("Expected (0.6, 0, 0.8), got %v", v)
	}

	// Zero vector stays zero instead of producing NaNs
	zero := Vec3{}.Normalize()
	if !zero.Equals(Vec3{}) {
		t.Errorf("Expected zero vector, got %v", zero)
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"one component large", NewVec3(1e-9, 1e-3, 0), false},
		{"unit", NewVec3(1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v): expected %t, got %t", tt.v, tt.expected, got)
			}
		})
	}
}

func TestReflect(t *testing.T) {
	v := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)
	r := Reflect(v, n)
	expected := NewVec3(1, 1, 0)
	if !r.Equals(expected) {
		t.Errorf("Expected %v, got %v", expected, r)
	}
}

func TestRefract(t *testing.T) {
	n := NewVec3(0, 1, 0)

	t.Run("matched indices pass straight through", func(t *testing.T) {
		uv := NewVec3(1, -1, 0).Normalize()
		r := Refract(uv, n, 1.0)
		if r.Subtract(uv).Length() > 1e-12 {
			t.Errorf("Expected %v, got %v", uv, r)
		}
	})

	t.Run("Snell's law", func(t *testing.T) {
		// 45 degrees from air into glass
		uv := NewVec3(1, -1, 0).Normalize()
		ratio := 1.0 / 1.5
		r := Refract(uv, n, ratio)

		sinIn := math.Sqrt(1 - math.Pow(uv.Negate().Dot(n), 2))
		sinOut := math.Sqrt(1 - math.Pow(r.Negate().Dot(n), 2))
		if math.Abs(sinOut-ratio*sinIn) > 1e-12 {
			t.Errorf("Expected sin(out) = %f, got %f", ratio*sinIn, sinOut)
		}
		if math.Abs(r.Length()-1) > 1e-12 {
			t.Errorf("Expected refracted direction to stay unit length, got %f", r.Length())
		}
	})
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))
	p := ray.At(1.5)
	expected := NewVec3(1, 2, 0)
	if !p.Equals(expected) {
		t.Errorf("Expected %v, got %v", expected, p)
	}
}

func TestDegreesToRadians(t *testing.T) {
	if r := DegreesToRadians(180); math.Abs(r-math.Pi) > 1e-15 {
		t.Errorf("Expected pi, got %f", r)
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := NewVec3(0, 0, 1)

	var front HitRecord
	front.SetFaceNormal(NewRay(NewVec3(0, 0, 2), NewVec3(0, 0, -1)), outward)
	if !front.FrontFace || !front.Normal.Equals(outward) {
		t.Errorf("Expected front face with outward normal, got front=%t normal=%v", front.FrontFace, front.Normal)
	}

	var back HitRecord
	back.SetFaceNormal(NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1)), outward)
	if back.FrontFace || !back.Normal.Equals(outward.Negate()) {
		t.Errorf("Expected back face with flipped normal, got front=%t normal=%v", back.FrontFace, back.Normal)
	}
}
