package renderer

import (
	"errors"
	"fmt"
	"math"
	"runtime"
)

var (
	// ErrImageTooSmall is returned when either image dimension is below 2;
	// the sampling coordinates divide by (W-1) and (H-1).
	ErrImageTooSmall = errors.New("image must be at least 2x2 pixels")
	// ErrNoSamples is returned when SamplesPerPixel is less than 1
	ErrNoSamples = errors.New("samples per pixel must be at least 1")
	// ErrNegativeDepth is returned when MaxDepth is negative
	ErrNegativeDepth = errors.New("max depth must not be negative")
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	SamplesPerPixel int    // Number of rays per pixel
	MaxDepth        int    // Maximum ray bounce depth
	Workers         int    // Worker goroutines; 0 means runtime.NumCPU()
	Seed            uint64 // Base seed; each pixel draws from its own stream
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate checks that the configuration can produce an image
func (c RenderConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: got %d", ErrNoSamples, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeDepth, c.MaxDepth)
	}
	return nil
}

// NumWorkers returns the effective worker count
func (c RenderConfig) NumWorkers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Image describes the output raster
type Image struct {
	Width  int
	Height int
}

// NewImage derives the height from width and aspect ratio
func NewImage(width int, aspectRatio float64) Image {
	return Image{
		Width:  width,
		Height: int(math.Round(float64(width) / aspectRatio)),
	}
}

// AspectRatio returns width over height
func (img Image) AspectRatio() float64 {
	return float64(img.Width) / float64(img.Height)
}

// Pixels returns the number of pixels in the raster
func (img Image) Pixels() int {
	return img.Width * img.Height
}

// Validate checks the raster is large enough to sample
func (img Image) Validate() error {
	if img.Width < 2 || img.Height < 2 {
		return fmt.Errorf("%w: got %dx%d", ErrImageTooSmall, img.Width, img.Height)
	}
	return nil
}
