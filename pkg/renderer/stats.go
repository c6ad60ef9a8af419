package renderer

import (
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// WorkerStats records what one worker rendered
type WorkerStats struct {
	Worker   int
	StartRow int
	Rows     int
	Share    float64 // fraction of the frame's rows
	Elapsed  time.Duration
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	Multithreaded   bool
	Workers         []WorkerStats
	SamplesTraced   int64 // primary samples, Width*Height*SamplesPerPixel on completion
	Elapsed         time.Duration
}

// SamplesPerSecond returns primary sample throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.SamplesTraced) / s.Elapsed.Seconds()
}

// Framebuffer holds linear radiance per pixel, row 0 at the top
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3 // row-major
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color at pixel (x, y)
func (f *Framebuffer) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Set stores the color at pixel (x, y)
func (f *Framebuffer) Set(x, y int, c core.Vec3) {
	f.Pixels[y*f.Width+x] = c
}

// AverageLuminance returns the mean Rec. 709 luminance of the linear pixels
func (f *Framebuffer) AverageLuminance() float64 {
	if len(f.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range f.Pixels {
		total += 0.2126*p.X + 0.7152*p.Y + 0.0722*p.Z
	}
	return total / float64(len(f.Pixels))
}
