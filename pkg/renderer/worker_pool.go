package renderer

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// RowTask represents a scanline rendering task for the worker pool
type RowTask struct {
	Row  int   // Scanline index, 0 = top
	Seed int64 // Seed for the scanline's private random stream
}

// RowResult contains the result from rendering a scanline
type RowResult struct {
	Row     int
	Samples int
	Worker  int
}

// WorkerPool renders scanlines in parallel.
// Workers write into disjoint rows of the frame, so no locking is needed;
// the scene and its materials are only read.
type WorkerPool struct {
	raytracer  *Raytracer
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(raytracer *Raytracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if height := raytracer.camera.Height(); numWorkers > height {
		numWorkers = height
	}

	return &WorkerPool{
		raytracer:  raytracer,
		numWorkers: numWorkers,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// rowSeed gives every scanline its own stream so results don't depend on scheduling
func (wp *WorkerPool) rowSeed(row int) int64 {
	return wp.raytracer.config.Seed + int64(row)
}

// Render fills frame, calling onRow from the calling goroutine as each scanline completes.
// Completion order is unspecified; pixel placement is not.
func (wp *WorkerPool) Render(ctx context.Context, frame *Frame, onRow func(RowResult)) error {
	g, ctx := errgroup.WithContext(ctx)
	tasks := make(chan RowTask)
	results := make(chan RowResult, wp.numWorkers)

	// Producer
	g.Go(func() error {
		defer close(tasks)
		for j := 0; j < frame.Height; j++ {
			select {
			case tasks <- RowTask{Row: j, Seed: wp.rowSeed(j)}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for id := 0; id < wp.numWorkers; id++ {
		id := id
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			return wp.run(ctx, id, frame, tasks, results)
		})
	}

	go func() {
		workers.Wait()
		close(results)
	}()

	for result := range results {
		if onRow != nil {
			onRow(result)
		}
	}

	return g.Wait()
}

// run is the main worker loop
func (wp *WorkerPool) run(ctx context.Context, id int, frame *Frame, tasks <-chan RowTask, results chan<- RowResult) error {
	for task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		sampler := core.NewSeededSampler(task.Seed)
		samples := wp.raytracer.RenderRow(task.Row, sampler, frame.Row(task.Row))

		select {
		case results <- RowResult{Row: task.Row, Samples: samples, Worker: id}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
