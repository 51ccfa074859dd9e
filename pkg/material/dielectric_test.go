package material

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.NewRay(core.NewVec3(0, 1, 0), rayDirection)

	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(42))
	if !scattered {
		t.Error("Dielectric should always scatter")
	}

	expectedAttenuation := core.NewVec3(1.0, 1.0, 1.0)
	if result.Attenuation != expectedAttenuation {
		t.Errorf("Expected attenuation %v, got %v", expectedAttenuation, result.Attenuation)
	}

	// Both branches are reachable depending on the random draw
	hasReflection := false
	hasRefraction := false
	for seed := int64(0); seed < 1000 && (!hasReflection || !hasRefraction); seed++ {
		result, _ := glass.Scatter(ray, hit, core.NewSeededSampler(seed))
		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	if !hasRefraction || !hasReflection {
		t.Errorf("Expected both reflection and refraction, got reflection=%t refraction=%t", hasReflection, hasRefraction)
	}
}

func TestDielectric_ReflectionDecidedBySchlick(t *testing.T) {
	glass := NewDielectric(1.5)
	direction := core.NewVec3(1, -1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(-1, 1, 0), direction)
	hit := core.HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	reflectance := Reflectance(math.Sqrt(0.5), 1/1.5)

	// A draw below the reflectance reflects
	below, _ := glass.Scatter(ray, hit, fixedSampler{value: reflectance / 2})
	expectedReflect := core.Reflect(direction, hit.Normal)
	if below.Scattered.Direction.Subtract(expectedReflect).Length() > 1e-12 {
		t.Errorf("Expected reflection %v, got %v", expectedReflect, below.Scattered.Direction)
	}

	// A draw above the reflectance refracts
	above, _ := glass.Scatter(ray, hit, fixedSampler{value: 0.99})
	expectedRefract := core.Refract(direction, hit.Normal, 1/1.5)
	if above.Scattered.Direction.Subtract(expectedRefract).Length() > 1e-12 {
		t.Errorf("Expected refraction %v, got %v", expectedRefract, above.Scattered.Direction)
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Exiting glass at a shallow angle
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, 0, 0), rayDirection)

	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false,
		Material:  glass,
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatal("Test setup error: expected total internal reflection conditions")
	}

	expected := core.Reflect(rayDirection, hit.Normal)
	for seed := int64(0); seed < 50; seed++ {
		result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(seed))
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
			t.Fatalf("Expected total internal reflection %v, got %v", expected, result.Scattered.Direction)
		}
	}
}

func TestDielectric_IndexMatchedDoesNotBend(t *testing.T) {
	matched := NewDielectric(1.0)
	normal := core.NewVec3(0, 1, 0)

	directions := []core.Vec3{
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, -1, 0),
		core.NewVec3(5, -1, 2),
		core.NewVec3(50, -1, 0),
	}

	for _, frontFace := range []bool{true, false} {
		for _, dir := range directions {
			hit := core.HitRecord{Normal: normal, FrontFace: frontFace}
			unit := dir.Normalize()
			for seed := int64(0); seed < 20; seed++ {
				result, _ := matched.Scatter(core.NewRay(core.NewVec3(0, 1, 0), dir), hit, core.NewSeededSampler(seed))
				if result.Scattered.Direction.Subtract(unit).Length() > 1e-9 {
					t.Fatalf("Index-matched dielectric bent %v into %v", unit, result.Scattered.Direction)
				}
			}
		}
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"normal incidence air to glass", 1.0, 1 / 1.5, 0.04},
		{"normal incidence glass to air", 1.0, 1.5, 0.04},
		{"grazing incidence", 0.0, 1 / 1.5, 1.0},
		{"index matched", 0.3, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflectance(tt.cosine, tt.ratio)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}
