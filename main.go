package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// options holds the parsed command line. Zero numeric values keep the scene's settings.
type options struct {
	scene   string
	width   int
	spp     int
	depth   int
	seed    int64
	workers int
	format  string
	out     string
	quiet   bool
	help    bool
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.scene, "scene", "default", "Built-in scene name or path to a .json scene file")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.Int64Var(&opts.seed, "seed", 0, "Base random seed (0 = scene default)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	fs.StringVar(&opts.format, "format", "ppm", "Output format: 'ppm' or 'png'")
	fs.StringVar(&opts.out, "out", "-", "Output file, '-' for stdout, or 'auto' for output/<scene>/render_<timestamp>.<format>")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	err := fs.Parse(args)
	return opts, fs, err
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Sphere Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options] > image.ppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Fprintf(w, "  %-10s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Progress is reported on stderr so the image can be piped from stdout.")
}

// createScene resolves the scene and applies command line overrides
func createScene(opts options) (*scene.Scene, error) {
	s, err := scene.Open(opts.scene, renderer.CameraConfig{Width: opts.width})
	if err != nil {
		return nil, err
	}
	s.SamplingConfig = renderer.MergeSamplingConfig(s.SamplingConfig, renderer.SamplingConfig{
		SamplesPerPixel: opts.spp,
		MaxDepth:        opts.depth,
		Seed:            opts.seed,
		NumWorkers:      opts.workers,
	})
	return s, nil
}

// createOutputPath builds output/<scene>/render_<timestamp>.<ext>
func createOutputPath(sceneRef string, format output.Format, now time.Time) string {
	base := filepath.Base(sceneRef)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", base, fmt.Sprintf("render_%s.%s", timestamp, format))
}

// openOutput returns the destination for the image and a close function
func openOutput(out, sceneRef string, format output.Format, stdout io.Writer) (io.Writer, string, func() error, error) {
	if out == "-" {
		return stdout, "stdout", func() error { return nil }, nil
	}
	if out == "auto" {
		out = createOutputPath(sceneRef, format, time.Now())
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, "", nil, fmt.Errorf("error creating output directory: %w", err)
		}
	}
	file, err := os.Create(out)
	if err != nil {
		return nil, "", nil, fmt.Errorf("error creating file: %w", err)
	}
	return file, out, file.Close, nil
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.width < 0 {
		return fmt.Errorf("width must be at least 1, got: %d", opts.width)
	}

	selectedScene, err := createScene(opts)
	if err != nil {
		return err
	}

	logger := renderer.NewDiscardLogger()
	if !opts.quiet {
		logger = renderer.NewDefaultLogger(stderr)
	}

	frame, stats, err := selectedScene.NewRaytracer(logger).Render(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	w, name, closeOutput, err := openOutput(opts.out, opts.scene, format, stdout)
	if err != nil {
		return err
	}
	if err := output.Write(w, frame, format); err != nil {
		closeOutput()
		return fmt.Errorf("error saving image: %w", err)
	}
	if err := closeOutput(); err != nil {
		return fmt.Errorf("error saving image: %w", err)
	}

	if !opts.quiet {
		fmt.Fprintf(stderr, "Render completed in %v (%dx%d, %.0f samples per pixel, %d workers)\n",
			stats.Elapsed, frame.Width, frame.Height, stats.AverageSamples, stats.Workers)
		fmt.Fprintf(stderr, "Render saved to %s\n", name)
	}
	return nil
}

func main() {
	opts, fs, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if opts.help {
		printHelp(os.Stdout, fs)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
