package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Vector is a JSON [x, y, z] triple
type Vector [3]float64

// Vec3 converts the triple to a core.Vec3
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// Color is a linear RGB color. In JSON it is either an [r, g, b] triple in
// linear space or an SVG color name such as "gold", which is converted from
// sRGB to linear with gamma 2.
type Color core.Vec3

// UnmarshalJSON accepts a triple or a color name
func (c *Color) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		named, ok := colornames.Map[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown color name %q", name)
		}
		toLinear := func(v uint8) float64 { return math.Pow(float64(v)/255.0, 2) }
		*c = Color(core.NewVec3(toLinear(named.R), toLinear(named.G), toLinear(named.B)))
		return nil
	}

	var rgb Vector
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be [r, g, b] or a color name: %w", err)
	}
	*c = Color(rgb.Vec3())
	return nil
}

// MaterialSpec describes a material in a scene file
type MaterialSpec struct {
	Type            string  `json:"type"` // "lambertian", "metal" or "dielectric"
	Albedo          *Color  `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractionIndex float64 `json:"refractionIndex,omitempty"`
}

// SphereSpec places a sphere that references a material by id
type SphereSpec struct {
	Center   Vector  `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// CameraSpec holds camera settings; omitted fields keep their defaults
type CameraSpec struct {
	LookFrom      *Vector `json:"lookFrom,omitempty"`
	LookAt        *Vector `json:"lookAt,omitempty"`
	Up            *Vector `json:"up,omitempty"`
	Width         int     `json:"width,omitempty"`
	AspectRatio   float64 `json:"aspectRatio,omitempty"`
	VFov          float64 `json:"vfov,omitempty"`
	DefocusAngle  float64 `json:"defocusAngle,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"`
}

// SamplingSpec holds sampling settings; omitted fields keep their defaults
type SamplingSpec struct {
	SamplesPerPixel int   `json:"samplesPerPixel,omitempty"`
	MaxDepth        int   `json:"maxDepth,omitempty"`
	Seed            int64 `json:"seed,omitempty"`
}

// File is the on-disk scene description
type File struct {
	Name        string                  `json:"name,omitempty"`
	Description string                  `json:"description,omitempty"`
	Camera      CameraSpec              `json:"camera"`
	Sampling    SamplingSpec            `json:"sampling"`
	Materials   map[string]MaterialSpec `json:"materials"`
	Spheres     []SphereSpec            `json:"spheres"`
}

// Load reads a scene from a JSON file
func Load(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Decode(f, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Decode reads a JSON scene description and builds the scene
func Decode(r io.Reader, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return file.Build(cameraOverrides...)
}

// Build turns the description into a scene. Each material is created once and
// shared by every sphere that references it.
func (f *File) Build(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	materials := make(map[string]core.Material, len(f.Materials))
	for id, spec := range f.Materials {
		mat, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", id, err)
		}
		materials[id] = mat
	}

	if f.Camera.Width < 0 {
		return nil, fmt.Errorf("camera width must be at least 1, got: %d", f.Camera.Width)
	}
	cameraConfig := f.Camera.apply(renderer.DefaultCameraConfig())
	samplingConfig := renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), renderer.SamplingConfig{
		SamplesPerPixel: f.Sampling.SamplesPerPixel,
		MaxDepth:        f.Sampling.MaxDepth,
		Seed:            f.Sampling.Seed,
	})

	s := newScene(f.Name, cameraConfig, samplingConfig, cameraOverrides...)
	if s.CameraConfig.Width < 1 {
		return nil, fmt.Errorf("camera width must be at least 1, got: %d", s.CameraConfig.Width)
	}
	for i, sphere := range f.Spheres {
		mat, ok := materials[sphere.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: unknown material %q", i, sphere.Material)
		}
		s.Add(geometry.NewSphere(sphere.Center.Vec3(), sphere.Radius, mat))
	}

	return s, nil
}

// build creates the material described by the spec
func (m MaterialSpec) build() (core.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian":
		if m.Albedo == nil {
			return nil, fmt.Errorf("lambertian requires an albedo")
		}
		return material.NewLambertian(core.Vec3(*m.Albedo)), nil
	case "metal":
		if m.Albedo == nil {
			return nil, fmt.Errorf("metal requires an albedo")
		}
		return material.NewMetal(core.Vec3(*m.Albedo), m.Fuzz), nil
	case "dielectric":
		if m.RefractionIndex <= 0 {
			return nil, fmt.Errorf("dielectric requires a positive refractionIndex")
		}
		return material.NewDielectric(m.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

// apply overlays the camera block onto base. Vectors are taken whenever they
// are present, so an explicit [0, 0, 0] look-at is honored.
func (c CameraSpec) apply(base renderer.CameraConfig) renderer.CameraConfig {
	config := renderer.MergeCameraConfig(base, renderer.CameraConfig{
		Width:         c.Width,
		AspectRatio:   c.AspectRatio,
		VFov:          c.VFov,
		DefocusAngle:  c.DefocusAngle,
		FocusDistance: c.FocusDistance,
	})
	if c.LookFrom != nil {
		config.Center = c.LookFrom.Vec3()
	}
	if c.LookAt != nil {
		config.LookAt = c.LookAt.Vec3()
	}
	if c.Up != nil {
		config.Up = c.Up.Vec3()
	}
	return config
}
