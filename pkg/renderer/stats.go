package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera rays traced
	SamplesPerPixel int           // Samples taken for every pixel
	MaxDepth        int           // Bounce budget per camera ray
	Workers         int           // Goroutines used; 1 for sequential renders
	Duration        time.Duration // Wall time of the render
}

// SamplesPerSecond returns camera-ray throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}
