package renderer

import (
	"sync"
)

// PixelTask is one unit of work: all samples for a single pixel
type PixelTask struct {
	Coord Coord
	Index int // Raster index, also the pixel's random stream
}

// PixelResult is a finished pixel tagged with its location
type PixelResult struct {
	Coord Coord
	Pixel Pixel
}

// WorkerPool manages parallel pixel rendering
type WorkerPool struct {
	taskQueue   chan PixelTask
	resultQueue chan PixelResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual pixel tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan PixelTask
	resultQueue chan PixelResult
}

// NewWorkerPool creates a pool of numWorkers goroutines sharing one read-only raytracer.
// Queues are buffered for numTasks so submission never blocks.
func NewWorkerPool(raytracer *Raytracer, numWorkers, numTasks int) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}

	wp := &WorkerPool{
		taskQueue:   make(chan PixelTask, numTasks),
		resultQueue: make(chan PixelResult, numTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue, waits for workers to drain it, then closes results
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a pixel task to the worker pool
func (wp *WorkerPool) SubmitTask(task PixelTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed pixel; ok is false once the pool is stopped and drained
func (wp *WorkerPool) GetResult() (PixelResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- PixelResult{
			Coord: task.Coord,
			Pixel: w.raytracer.RenderPixel(task),
		}
	}
}
