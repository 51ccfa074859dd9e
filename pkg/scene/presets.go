package scene

import (
	"fmt"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Builder constructs a scene, applying optional camera overrides
type Builder func(cameraOverrides ...renderer.CameraConfig) *Scene

// preset is a built-in scene
type preset struct {
	name        string
	description string
	build       Builder
}

// presets in display order; "default" comes first
var presets = []preset{
	{"default", "Glass, hollow bubble, diffuse and fuzzy metal spheres on a yellow ground", NewDefaultScene},
	{"simple", "One diffuse sphere on a diffuse ground", NewSimpleScene},
	{"materials", "A row of spheres showing every material", NewMaterialsScene},
	{"final", "Random field of small spheres with three large ones and depth of field", NewFinalScene},
	{"grid", "Grid of rainbow-colored metallic spheres", NewSphereGridScene},
}

// Names returns the names of the built-in scenes
func Names() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.name
	}
	return names
}

// ByName builds the named built-in scene
func ByName(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	for _, p := range presets {
		if p.name == name {
			return p.build(cameraOverrides...), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q", name)
}

// NewDefaultScene creates the default scene: a yellow ground with a diffuse
// blue sphere, a hollow glass sphere on the left and fuzzy gold on the right
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          90.0,
		DefocusAngle:  0.0,
		FocusDistance: 1.0,
	}

	s := newScene("default", cameraConfig, renderer.DefaultSamplingConfig(), cameraOverrides...)

	// Create materials
	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialLeft := material.NewDielectric(1.50)
	materialBubble := material.NewDielectric(1.00 / 1.50) // Air inside glass
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)

	s.Add(
		geometry.NewSphere(core.NewVec3(0.0, -100.5, -1.0), 100.0, materialGround),
		geometry.NewSphere(core.NewVec3(0.0, 0.0, -1.2), 0.5, materialCenter),
		geometry.NewSphere(core.NewVec3(-1.0, 0.0, -1.0), 0.5, materialLeft),
		geometry.NewSphere(core.NewVec3(-1.0, 0.0, -1.0), 0.4, materialBubble),
		geometry.NewSphere(core.NewVec3(1.0, 0.0, -1.0), 0.5, materialRight),
	)

	return s
}

// NewSimpleScene creates a single gray sphere resting on a huge gray sphere
func NewSimpleScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Width = 400
	cameraConfig.AspectRatio = 16.0 / 9.0

	s := newScene("simple", cameraConfig, renderer.DefaultSamplingConfig(), cameraOverrides...)

	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, gray),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, gray),
	)

	return s
}

// NewMaterialsScene lines up one sphere per material variant
func NewMaterialsScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 1, 3),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		DefocusAngle:  0.0,
		FocusDistance: 1.0,
	}

	s := newScene("materials", cameraConfig, renderer.DefaultSamplingConfig(), cameraOverrides...)

	glass := material.NewDielectric(1.5)
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(-2.2, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))),
		geometry.NewSphere(core.NewVec3(-1.1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)),
		geometry.NewSphere(core.NewVec3(0.0, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
		geometry.NewSphere(core.NewVec3(1.1, 0, -1), 0.5, glass),
		// Hollow glass: outer shell plus an air pocket
		geometry.NewSphere(core.NewVec3(2.2, 0, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(2.2, 0, -1), 0.45, material.NewDielectric(1.0/1.5)),
	)

	return s
}

// finalSceneSeed fixes the layout of the random sphere field
const finalSceneSeed = 1

// NewFinalScene creates the random sphere field with three large feature spheres
func NewFinalScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		DefocusAngle:  0.6,
		FocusDistance: 10.0,
	}

	s := newScene("final", cameraConfig, renderer.DefaultSamplingConfig(), cameraOverrides...)

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	sampler := core.NewSeededSampler(finalSceneSeed)
	clearing := core.NewVec3(4, 0.2, 0)
	glass := material.NewDielectric(1.5)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat core.Material
			switch {
			case chooseMat < 0.8:
				// Diffuse
				albedo := core.RandomVec3(sampler, 0, 1).MultiplyVec(core.RandomVec3(sampler, 0, 1))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				// Metal
				albedo := core.RandomVec3(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
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
