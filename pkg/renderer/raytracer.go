package renderer

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// Raytracer turns a world and a camera into a raster of pixels.
// Apart from the optional progress counter and logger, which are set before
// rendering, it holds no mutable state, so one instance is shared by every worker.
type Raytracer struct {
	world      integrator.World
	camera     *geometry.Camera
	image      Image
	config     RenderConfig
	integrator integrator.Integrator
	progress   *Progress
	logger     *slog.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world integrator.World, camera *geometry.Camera, image Image, config RenderConfig) *Raytracer {
	return &Raytracer{
		world:      world,
		camera:     camera,
		image:      image,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(config.MaxDepth),
		logger:     Logger(),
	}
}

// SetLogger routes this raytracer's records to l instead of the package
// logger. Nil restores the package logger.
func (rt *Raytracer) SetLogger(l *slog.Logger) {
	if l == nil {
		l = Logger()
	}
	rt.logger = l
}

// SetProgress attaches a counter that is incremented once per finished pixel
func (rt *Raytracer) SetProgress(p *Progress) {
	rt.progress = p
}

// Validate checks the image and render configuration
func (rt *Raytracer) Validate() error {
	if err := rt.image.Validate(); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}
	if err := rt.config.Validate(); err != nil {
		return fmt.Errorf("invalid render config: %w", err)
	}
	return nil
}

// Tasks returns one task per pixel in raster order
func (rt *Raytracer) Tasks() []PixelTask {
	tasks := make([]PixelTask, 0, rt.image.Pixels())
	for row := 0; row < rt.image.Height; row++ {
		for col := 0; col < rt.image.Width; col++ {
			tasks = append(tasks, PixelTask{
				Coord: Coord{Row: row, Col: col},
				Index: row*rt.image.Width + col,
			})
		}
	}
	return tasks
}

// RenderPixel averages SamplesPerPixel camera rays through the pixel.
// Rows count down from the top, while the camera's t coordinate counts up
// from the bottom, so the row is inverted here and nowhere else.
func (rt *Raytracer) RenderPixel(task PixelTask) Pixel {
	sampler := core.NewSeededSampler(rt.config.Seed, uint64(task.Index))
	w := float64(rt.image.Width - 1)
	h := float64(rt.image.Height - 1)
	row := rt.image.Height - 1 - task.Coord.Row

	var accum core.Vec3
	for s := 0; s < rt.config.SamplesPerPixel; s++ {
		jitter := sampler.Get2D()
		u := (float64(task.Coord.Col) + jitter.X) / w
		v := (float64(row) + jitter.Y) / h
		ray := rt.camera.GetRay(u, v, sampler)
		accum = accum.Add(rt.integrator.RayColor(ray, rt.world, sampler))
	}

	if rt.progress != nil {
		rt.progress.Add(1)
	}
	return ColorToPixel(accum.Divide(float64(rt.config.SamplesPerPixel)))
}

// Render samples every pixel on a pool of worker goroutines and returns the
// raster top-to-bottom, left-to-right.
func (rt *Raytracer) Render() ([]Pixel, RenderStats, error) {
	if err := rt.Validate(); err != nil {
		rt.logger.Warn("render rejected", "error", err)
		return nil, RenderStats{}, err
	}

	rt.logStart("parallel")
	start := time.Now()
	tasks := rt.Tasks()
	pool := NewWorkerPool(rt, rt.config.NumWorkers(), len(tasks))
	rt.logger.Debug("starting worker pool", "workers", pool.GetNumWorkers(), "tasks", len(tasks))

	pool.Start()
	for _, task := range tasks {
		pool.SubmitTask(task)
	}
	pool.Stop()

	results := make([]PixelResult, 0, len(tasks))
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		results = append(results, result)
	}

	slices.SortFunc(results, func(a, b PixelResult) int {
		if a.Coord.Row != b.Coord.Row {
			return a.Coord.Row - b.Coord.Row
		}
		return a.Coord.Col - b.Coord.Col
	})

	pixels := make([]Pixel, len(results))
	for i, result := range results {
		pixels[i] = result.Pixel
	}

	stats := rt.stats(pool.GetNumWorkers(), time.Since(start))
	rt.logger.Info("render finished", renderAttrs(stats)...)
	return pixels, stats, nil
}

// RenderSequential renders the same tasks in order on the calling goroutine
func (rt *Raytracer) RenderSequential() ([]Pixel, RenderStats, error) {
	if err := rt.Validate(); err != nil {
		rt.logger.Warn("render rejected", "error", err)
		return nil, RenderStats{}, err
	}

	rt.logStart("sequential")
	start := time.Now()
	tasks := rt.Tasks()
	pixels := make([]Pixel, len(tasks))
	for i, task := range tasks {
		pixels[i] = rt.RenderPixel(task)
	}

	stats := rt.stats(1, time.Since(start))
	rt.logger.Info("render finished", renderAttrs(stats)...)
	return pixels, stats, nil
}

func (rt *Raytracer) stats(workers int, elapsed time.Duration) RenderStats {
	return RenderStats{
		TotalPixels:     rt.image.Pixels(),
		TotalSamples:    rt.image.Pixels() * rt.config.SamplesPerPixel,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		MaxDepth:        rt.config.MaxDepth,
		Workers:         workers,
		Duration:        elapsed,
	}
}

func (rt *Raytracer) logStart(mode string) {
	rt.logger.Info("render started",
		"mode", mode,
		"width", rt.image.Width,
		"height", rt.image.Height,
		"samples", rt.config.SamplesPerPixel,
		"depth", rt.config.MaxDepth)
}

func renderAttrs(s RenderStats) []any {
	return []any{
		slog.Int("pixels", s.TotalPixels),
		slog.Int("samples", s.TotalSamples),
		slog.Int("workers", s.Workers),
		slog.Duration("elapsed", s.Duration),
	}
}

// Render is a convenience wrapper that renders world through a camera built from cameraConfig
func Render(world integrator.World, cameraConfig geometry.CameraConfig, image Image, config RenderConfig) ([]Pixel, error) {
	pixels, _, err := NewRaytracer(world, geometry.NewCamera(cameraConfig), image, config).Render()
	return pixels, err
}

// RenderSequential is the single-goroutine counterpart of Render
func RenderSequential(world integrator.World, cameraConfig geometry.CameraConfig, image Image, config RenderConfig) ([]Pixel, error) {
	pixels, _, err := NewRaytracer(world, geometry.NewCamera(cameraConfig), image, config).RenderSequential()
	return pixels, err
}
