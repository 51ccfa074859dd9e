package scene

import (
	"context"
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

func TestByName_AllPresets(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := ByName(name)
			if err != nil {
				t.Fatalf("ByName(%q) error: %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Expected scene name %q, got %q", name, s.Name)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Preset has no objects")
			}
			if s.CameraConfig.Width <= 0 || s.CameraConfig.AspectRatio <= 0 {
				t.Errorf("Invalid camera config %+v", s.CameraConfig)
			}
			if s.SamplingConfig.SamplesPerPixel <= 0 || s.SamplingConfig.MaxDepth <= 0 {
				t.Errorf("Invalid sampling config %+v", s.SamplingConfig)
			}
		})
	}

	if _, err := ByName("cornell"); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestNewDefaultScene(t *testing.T) {
	s := NewDefaultScene()

	camera := renderer.NewCamera(s.CameraConfig)
	if camera.Width() != 400 || camera.Height() != 225 {
		t.Errorf("Expected 400x225 image, got %dx%d", camera.Width(), camera.Height())
	}
	if s.SamplingConfig.SamplesPerPixel != 100 || s.SamplingConfig.MaxDepth != 50 {
		t.Errorf("Expected 100 spp and depth 50, got %+v", s.SamplingConfig)
	}

	objects := s.World.Objects()
	if len(objects) != 5 {
		t.Fatalf("Expected 5 spheres, got %d", len(objects))
	}

	tests := []struct {
		center core.Vec3
		radius float64
	}{
		{core.NewVec3(0, -100.5, -1), 100},
		{core.NewVec3(0, 0, -1.2), 0.5},
		{core.NewVec3(-1, 0, -1), 0.5},
		{core.NewVec3(-1, 0, -1), 0.4},
		{core.NewVec3(1, 0, -1), 0.5},
	}
	for i, tt := range tests {
		sphere, ok := objects[i].(*geometry.Sphere)
		if !ok {
			t.Fatalf("Object %d is not a sphere", i)
		}
		if sphere.Center != tt.center || sphere.Radius != tt.radius {
			t.Errorf("Sphere %d: expected %v r=%g, got %v r=%g", i, tt.center, tt.radius, sphere.Center, sphere.Radius)
		}
	}

	bubble, ok := objects[3].(*geometry.Sphere).Material.(*material.Dielectric)
	if !ok || math.Abs(bubble.RefractiveIndex-1.0/1.5) > 1e-12 {
		t.Errorf("Expected air bubble material, got %v", objects[3].(*geometry.Sphere).Material)
	}
	right, ok := objects[4].(*geometry.Sphere).Material.(*material.Metal)
	if !ok || right.Fuzzness != 1.0 {
		t.Errorf("Expected fully fuzzy metal, got %v", objects[4].(*geometry.Sphere).Material)
	}
}

func TestCameraOverrides(t *testing.T) {
	s := NewDefaultScene(renderer.CameraConfig{Width: 32, VFov: 60})
	if s.CameraConfig.Width != 32 || s.CameraConfig.VFov != 60 {
		t.Errorf("Overrides not applied: %+v", s.CameraConfig)
	}
	if s.CameraConfig.AspectRatio != 16.0/9.0 {
		t.Errorf("Non-overridden fields should keep preset values, got %+v", s.CameraConfig)
	}
}

func TestNewFinalScene_Deterministic(t *testing.T) {
	a := NewFinalScene()
	b := NewFinalScene()

	if a.GetPrimitiveCount() != b.GetPrimitiveCount() {
		t.Fatalf("Scene layout changed between builds: %d vs %d", a.GetPrimitiveCount(), b.GetPrimitiveCount())
	}
	// Ground, three feature spheres and most of the 22x22 field
	if a.GetPrimitiveCount() < 400 || a.GetPrimitiveCount() > 4+22*22 {
		t.Errorf("Unexpected object count %d", a.GetPrimitiveCount())
	}
	for i, obj := range a.World.Objects() {
		if obj.(*geometry.Sphere).Center != b.World.Objects()[i].(*geometry.Sphere).Center {
			t.Fatalf("Sphere %d moved between builds", i)
		}
	}
	if a.CameraConfig.DefocusAngle != 0.6 || a.CameraConfig.FocusDistance != 10 {
		t.Errorf("Expected defocus blur, got %+v", a.CameraConfig)
	}
}

func TestOklchToRGB_InRange(t *testing.T) {
	for hue := 0.0; hue < 360; hue += 30 {
		c := oklchToRGB(0.65, 0.25, hue)
		for _, v := range []float64{c.X, c.Y, c.Z} {
			if v < 0 || v > 1 {
				t.Errorf("Hue %g produced out-of-range color %v", hue, c)
			}
		}
	}
}

func TestPresetRendersSmallImage(t *testing.T) {
	s := NewDefaultScene(renderer.CameraConfig{Width: 16})
	s.SamplingConfig = renderer.SamplingConfig{SamplesPerPixel: 2, MaxDepth: 8, Seed: 3, NumWorkers: 2}

	frame, stats, err := s.NewRaytracer(nil).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if frame.Width != 16 || frame.Height != 9 {
		t.Errorf("Expected 16x9 frame, got %dx%d", frame.Width, frame.Height)
	}
	if stats.TotalPixels != 16*9 {
		t.Errorf("Expected %d pixels, got %d", 16*9, stats.TotalPixels)
	}
	for i, c := range frame.Pixels {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsNaN(c.Z) || c.X < 0 || c.Y < 0 || c.Z < 0 {
			t.Fatalf("Pixel %d has invalid color %v", i, c)
		}
	}
}
