package renderer

import (
	"context"
	"math"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// shadowAcneEpsilon is the minimum hit distance; it keeps scattered rays from
// re-hitting the surface they start on due to floating-point round-off
const shadowAcneEpsilon = 0.001

var (
	white   = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Base seed; scanline j draws from Seed+j
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
		NumWorkers:      0,
	}
}

// MergeSamplingConfig overlays the non-zero fields of override onto base
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	return result
}

// Raytracer handles the rendering process
type Raytracer struct {
	world  core.Hittable
	camera *Camera
	config SamplingConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards progress output.
func NewRaytracer(world core.Hittable, camera *Camera, config SamplingConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	if config.SamplesPerPixel < 1 {
		config.SamplesPerPixel = 1
	}
	return &Raytracer{
		world:  world,
		camera: camera,
		config: config,
		logger: logger,
	}
}

// Camera returns the camera used for ray generation
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// backgroundGradient returns a white to sky-blue gradient based on ray direction
func backgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	a := 0.5 * (unitDirection.Y + 1.0)

	return white.Lerp(skyBlue, a)
}

// RayColor returns the color carried back along a ray
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := rt.world.Hit(r, core.NewInterval(shadowAcneEpsilon, math.Inf(1)))
	if !isHit {
		return backgroundGradient(r)
	}

	scatter, didScatter := hit.Material.Scatter(r, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, sampler))
}

// RenderPixel averages SamplesPerPixel jittered samples for pixel (i, j)
func (rt *Raytracer) RenderPixel(i, j int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	for s := 0; s < rt.config.SamplesPerPixel; s++ {
		ray := rt.camera.GetRay(i, j, sampler)
		ps.AddSample(rt.RayColor(ray, rt.config.MaxDepth, sampler))
	}
	return ps.GetColor()
}

// RenderRow renders scanline j into out and returns the number of samples taken
func (rt *Raytracer) RenderRow(j int, sampler core.Sampler, out []core.Vec3) int {
	for i := range out {
		out[i] = rt.RenderPixel(i, j, sampler)
	}
	return len(out) * rt.config.SamplesPerPixel
}

// Render renders every scanline and returns the linear-space frame.
// The result depends only on the scene, camera and Seed, not on the number of workers.
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	startTime := time.Now()
	frame := NewFrame(rt.camera.Width(), rt.camera.Height())
	pool := NewWorkerPool(rt, rt.config.NumWorkers)

	stats := RenderStats{
		TotalPixels: frame.Width * frame.Height,
		Workers:     pool.GetNumWorkers(),
	}

	rt.logger.Printf("Scanlines remaining: %d\n", frame.Height)
	err := pool.Render(ctx, frame, func(result RowResult) {
		stats.Rows++
		stats.TotalSamples += result.Samples
		rt.logger.Printf("Scanlines remaining: %d\n", frame.Height-stats.Rows)
	})
	stats.Elapsed = time.Since(startTime)
	if err != nil {
		return nil, stats, err
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	rt.logger.Printf("Done.\n")
	return frame, stats, nil
}
