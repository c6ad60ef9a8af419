package renderer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
)

// Options controls how a frame is scheduled
type Options struct {
	Multithreaded bool  // Render row blocks on parallel workers
	Workers       int   // Worker count; 0 detects the logical CPU count
	Seed          int64 // Base seed for the per-row random streams
	ProgressEvery int   // Log progress every N completed rows; 0 disables it
}

// DefaultOptions returns multithreaded rendering with auto-detected workers
func DefaultOptions() Options {
	return Options{
		Multithreaded: true,
		Workers:       0,
		Seed:          42,
		ProgressEvery: 1,
	}
}

// RowSeed derives the random seed for one image row.
// Rows own their streams so output does not depend on which worker renders them.
func RowSeed(seed int64, row int) int64 {
	return seed ^ int64(uint64(row+1)*0x9e3779b97f4a7c15)
}

// Renderer renders a world through a camera into a framebuffer
type Renderer struct {
	camera    *Camera
	raytracer *Raytracer
	sampling  SamplingConfig
	options   Options
	logger    core.Logger
}

// NewRenderer creates a renderer. The world must not be mutated while Render runs.
func NewRenderer(camera *Camera, world geometry.Hittable, background Background, sampling SamplingConfig, options Options, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{
		camera:    camera,
		raytracer: NewRaytracer(world, background),
		sampling:  sampling.Normalize(),
		options:   options,
		logger:    logger,
	}
}

// workerCount resolves the number of workers for this render
func (r *Renderer) workerCount() int {
	if !r.options.Multithreaded {
		return 1
	}
	if r.options.Workers > 0 {
		return r.options.Workers
	}
	return DetectWorkers(r.logger)
}

// Render computes every pixel and returns once all workers have finished
func (r *Renderer) Render() (*Framebuffer, RenderStats) {
	width, height := r.camera.Width(), r.camera.Height()
	framebuffer := NewFramebuffer(width, height)
	blocks := PartitionRows(height, r.workerCount())

	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: r.sampling.SamplesPerPixel,
		MaxDepth:        r.sampling.MaxDepth,
		Multithreaded:   r.options.Multithreaded,
		Workers:         make([]WorkerStats, len(blocks)),
	}

	progress := newProgress(height, r.options.ProgressEvery, r.logger)
	start := time.Now()

	if len(blocks) == 1 {
		stats.Workers[0] = r.renderBlock(blocks[0], framebuffer, progress)
	} else {
		var wg sync.WaitGroup
		for _, block := range blocks {
			wg.Add(1)
			go func(block RowBlock) {
				defer wg.Done()
				// Each worker owns its block's rows of the framebuffer and its own stats slot
				stats.Workers[block.Worker] = r.renderBlock(block, framebuffer, progress)
			}(block)
		}
		wg.Wait()
	}

	stats.Elapsed = time.Since(start)
	stats.SamplesTraced = int64(width) * int64(height) * int64(r.sampling.SamplesPerPixel)
	for i := range stats.Workers {
		stats.Workers[i].Share = float64(stats.Workers[i].Rows) / float64(height)
	}

	return framebuffer, stats
}

// renderBlock renders the rows of one block in order
func (r *Renderer) renderBlock(block RowBlock, framebuffer *Framebuffer, progress *progress) WorkerStats {
	r.logger.Debugf("worker %d: rows [%d, %d)", block.Worker, block.Start, block.End)
	start := time.Now()

	for j := block.Start; j < block.End; j++ {
		sampler := core.NewSeededSampler(RowSeed(r.options.Seed, j))
		for i := 0; i < framebuffer.Width; i++ {
			framebuffer.Set(i, j, r.raytracer.PixelColor(r.camera, i, j, r.sampling, sampler))
		}
		progress.rowDone()
	}

	return WorkerStats{
		Worker:   block.Worker,
		StartRow: block.Start,
		Rows:     block.Rows(),
		Elapsed:  time.Since(start),
	}
}

// progress counts completed rows across workers and reports the remaining count
type progress struct {
	total     int64
	every     int64
	completed atomic.Int64
	mu        sync.Mutex // serializes log output only
	logger    core.Logger
}

func newProgress(total, every int, logger core.Logger) *progress {
	return &progress{total: int64(total), every: int64(every), logger: logger}
}

func (p *progress) rowDone() {
	done := p.completed.Add(1)
	if p.every <= 0 || (done%p.every != 0 && done != p.total) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger.Infof("scanlines remaining: %d", p.total-done)
}

// Completed returns the number of rows finished so far
func (p *progress) Completed() int64 {
	return p.completed.Load()
}
