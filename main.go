package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene      string
	width      int
	samples    int
	depth      int
	workers    int
	seed       uint64
	sequential bool
	out        string
	progress   bool
	verbose    bool
	list       bool
	compare    string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.scene, "scene", "three-spheres", "Scene name: "+strings.Join(scene.Names(), ", "))
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default); height follows the aspect ratio")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", -1, "Maximum bounces per ray (-1 = scene default)")
	fs.IntVar(&opts.workers, "workers", 0, "Worker goroutines (0 = number of CPUs)")
	fs.Uint64Var(&opts.seed, "seed", 42, "Random seed for sampling and random scene layouts")
	fs.BoolVar(&opts.sequential, "sequential", false, "Render on a single goroutine")
	fs.StringVar(&opts.out, "out", "", "Output file; extension picks the format (ppm, png, jpg, bmp, tiff). Default output/<scene>/render_<timestamp>.png")
	fs.BoolVar(&opts.progress, "progress", false, "Log progress while rendering")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose (debug) logging")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.StringVar(&opts.compare, "compare", "", "Reference image to compare the render against")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Path Tracer")
		fmt.Fprintln(stderr, "Usage: pathtracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	err := fs.Parse(args)
	return opts, err
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	renderer.SetLogger(logger)
	defer renderer.SetLogger(nil)

	if opts.list {
		for _, info := range scene.List() {
			fmt.Fprintf(stdout, "  %-14s %s\n", info.ID, info.Description)
		}
		return nil
	}

	s, err := createScene(opts)
	if err != nil {
		return err
	}

	outPath := opts.out
	if outPath == "" {
		outPath = filepath.Join(createOutputDir(s.Name), fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}
	if _, err := output.ParseFormat(filepath.Ext(outPath)); err != nil {
		return err
	}

	logger.Info("scene loaded", "scene", s.Name, "out", outPath)

	raytracer := s.NewRaytracer()
	var stop func()
	if opts.progress {
		progress := renderer.NewProgress(s.Image.Pixels())
		raytracer.SetProgress(progress)
		stop = reportProgress(logger, progress, time.Second)
	}

	var pixels []renderer.Pixel
	var stats renderer.RenderStats
	if opts.sequential {
		pixels, stats, err = raytracer.RenderSequential()
	} else {
		pixels, stats, err = raytracer.Render()
	}
	if stop != nil {
		stop()
	}
	if err != nil {
		return err
	}

	if err := output.Save(outPath, pixels, s.Image.Width, s.Image.Height); err != nil {
		return err
	}

	printSummary(stdout, stats, outPath)

	if opts.compare != "" {
		diff, err := output.CompareFile(opts.compare, pixels, s.Image.Width, s.Image.Height)
		if err != nil {
			return fmt.Errorf("compare with %s: %w", opts.compare, err)
		}
		printDifference(stdout, diff, opts.compare)
	}
	return nil
}

// createScene builds the named scene and applies command line overrides
func createScene(opts options) (*scene.Scene, error) {
	s, err := scene.New(opts.scene, opts.seed)
	if err != nil {
		return nil, err
	}

	if opts.width > 0 {
		s.Resize(opts.width)
	}
	if opts.samples > 0 {
		s.RenderConfig.SamplesPerPixel = opts.samples
	}
	if opts.depth >= 0 {
		s.RenderConfig.MaxDepth = opts.depth
	}
	s.RenderConfig.Workers = opts.workers
	s.RenderConfig.Seed = opts.seed
	return s, nil
}

// createOutputDir returns the directory renders of a scene are saved to
func createOutputDir(sceneName string) string {
	return filepath.Join("output", sceneName)
}

// reportProgress logs the finished fraction every interval until the returned stop func is called
func reportProgress(logger *slog.Logger, progress *renderer.Progress, interval time.Duration) func() {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				logger.Info("progress",
					"pixels", progress.Done(),
					"total", progress.Total(),
					"percent", fmt.Sprintf("%.1f", 100*progress.Fraction()))
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func printSummary(w io.Writer, stats renderer.RenderStats, path string) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Render completed in %v\n", stats.Duration.Round(time.Millisecond))
	p.Fprintf(w, "Pixels: %d, samples: %d (%d per pixel), workers: %d\n",
		stats.TotalPixels, stats.TotalSamples, stats.SamplesPerPixel, stats.Workers)
	p.Fprintf(w, "Throughput: %.0f samples/s\n", stats.SamplesPerSecond())
	p.Fprintf(w, "Render saved as %s\n", path)
}

func printDifference(w io.Writer, diff output.Difference, path string) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Compared with %s: %d of %d pixels differ (max delta %d, mean %.3f)\n",
		path, diff.Differing, diff.Pixels, diff.MaxDelta, diff.MeanDelta)
}
