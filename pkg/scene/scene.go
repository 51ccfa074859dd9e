package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList // Objects in the scene
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
}

// newScene creates an empty scene, merging any camera overrides onto cameraConfig
func newScene(name string, cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig, cameraOverrides ...renderer.CameraConfig) *Scene {
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	return &Scene{
		Name:           name,
		World:          geometry.NewHittableList(),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
	}
}

// Add appends objects to the scene
func (s *Scene) Add(objects ...core.Hittable) {
	for _, object := range objects {
		s.World.Add(object)
	}
}

// GetPrimitiveCount returns the total number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// NewRaytracer builds the camera and a raytracer for this scene
func (s *Scene) NewRaytracer(logger core.Logger) *renderer.Raytracer {
	camera := renderer.NewCamera(s.CameraConfig)
	return renderer.NewRaytracer(s.World, camera, s.SamplingConfig, logger)
}
