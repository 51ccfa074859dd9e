package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// testMaterial is a distinguishable no-op material
type testMaterial struct {
	name string
}

func (m *testMaterial) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

var forward = core.NewInterval(0.001, math.Inf(1))

func TestNewSphere_ClampsNegativeRadius(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), -2, nil)
	if sphere.Radius != 0 {
		t.Errorf("Expected radius 0, got %f", sphere.Radius)
	}
}

func TestSphere_Hit_ZeroRadiusNeverHits(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -1), -2, nil)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), // through the center
		core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -3)), // unnormalized
	}
	for _, ray := range rays {
		if hit, isHit := sphere.Hit(ray, forward); isHit {
			t.Errorf("Expected no hit on a zero-radius sphere, got %+v", hit)
		}
	}
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, forward)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
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
			name:           "non-unit direction",
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
			hit, isHit := sphere.Hit(ray, forward)

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

func TestSphere_Hit_SmallerPositiveRoot(t *testing.T) {
	center := core.NewVec3(0.3, -0.2, -5)
	radius := 1.5
	sphere := NewSphere(center, radius, nil)

	origin := core.NewVec3(0.1, 0.4, 1)
	direction := center.Subtract(origin).Add(core.NewVec3(0.2, 0.1, 0)).Multiply(0.7)
	ray := core.NewRay(origin, direction)

	// Solve the quadratic independently in the standard form
	oc := origin.Subtract(center)
	a := direction.Dot(direction)
	b := 2 * oc.Dot(direction)
	c := oc.Dot(oc) - radius*radius
	expected := (-b - math.Sqrt(b*b-4*a*c)) / (2 * a)

	hit, isHit := sphere.Hit(ray, forward)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-expected) > 1e-9 {
		t.Errorf("Expected t=%f, got t=%f", expected, hit.T)
	}
	if !hit.FrontFace {
		t.Error("Ray from outside should hit the front face")
	}
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Errorf("Normal should be unit length, got %f", hit.Normal.Length())
	}
}

func TestSphere_Hit_InsideNormalIsFlipped(t *testing.T) {
	center := core.NewVec3(1, 2, 3)
	sphere := NewSphere(center, 2.0, nil)
	ray := core.NewRay(core.NewVec3(1.5, 2, 3), core.NewVec3(1, 1, 0))

	hit, isHit := sphere.Hit(ray, forward)
	if !isHit {
		t.Fatal("Expected hit from inside the sphere")
	}
	if hit.FrontFace {
		t.Error("Expected back face hit from inside")
	}

	outward := hit.Point.Subtract(center).Divide(2.0)
	if hit.Normal.Subtract(outward.Negate()).Length() > 1e-9 {
		t.Errorf("Expected normal %v, got %v", outward.Negate(), hit.Normal)
	}
}

func TestSphere_Hit_RespectsInterval(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name      string
		rayT      core.Interval
		expectHit bool
		expectedT float64
	}{
		{"both roots inside", core.NewInterval(0.001, 100), true, 4},
		{"near root excluded", core.NewInterval(4.5, 100), true, 6},
		{"both roots excluded", core.NewInterval(0.001, 3), false, 0},
		{"boundary is exclusive", core.NewInterval(4, 6), false, 0},
		{"empty interval", core.EmptyInterval, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.rayT)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if isHit && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
		})
	}
}

func TestSphere_Hit_CarriesMaterial(t *testing.T) {
	mat := &testMaterial{name: "shared"}
	sphere := NewSphere(core.NewVec3(0, 0, -2), 0.5, mat)

	hit, isHit := sphere.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), forward)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.Material != core.Material(mat) {
		t.Errorf("Expected hit to reference the sphere's material, got %v", hit.Material)
	}
}
