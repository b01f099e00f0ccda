package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// MaxPPMDimension bounds the width and height ReadPPM accepts
const MaxPPMDimension = 1 << 15

var (
	// ErrPixelCount is returned when a raster does not hold width*height pixels
	ErrPixelCount = errors.New("pixel count does not match dimensions")
	// ErrPPMDimensions is returned for a header with empty or oversized dimensions
	ErrPPMDimensions = errors.New("invalid PPM dimensions")
)

// WritePPM writes pixels as a plain-text PPM (P3): a "P3", "<w> <h>", "255"
// header followed by one "r g b" line per pixel in raster order.
// It returns the number of bytes written.
func WritePPM(w io.Writer, pixels []renderer.Pixel, width, height int) (int, error) {
	if len(pixels) != width*height {
		return 0, fmt.Errorf("%w: %d pixels for %dx%d", ErrPixelCount, len(pixels), width, height)
	}

	bw := bufio.NewWriter(w)
	total, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height)
	if err != nil {
		return total, err
	}
	for _, p := range pixels {
		n, err := fmt.Fprintf(bw, "%d %d %d\n", p.R, p.G, p.B)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// ReadPPM parses a plain-text PPM (P3) with a maximum value of 255
func ReadPPM(r io.Reader) (pixels []renderer.Pixel, width, height int, err error) {
	br := bufio.NewReader(r)

	var magic string
	var maxVal int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxVal); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read PPM header: %w", err)
	}
	if magic != "P3" {
		return nil, 0, 0, fmt.Errorf("unsupported PPM magic %q", magic)
	}
	if maxVal != 255 {
		return nil, 0, 0, fmt.Errorf("unsupported PPM max value %d", maxVal)
	}
	if width < 1 || height < 1 || width > MaxPPMDimension || height > MaxPPMDimension {
		return nil, 0, 0, fmt.Errorf("%w: %dx%d", ErrPPMDimensions, width, height)
	}

	// Grow as pixels arrive so a lying header cannot force a huge allocation
	count := width * height
	pixels = make([]renderer.Pixel, 0, min(count, 1<<16))
	for i := 0; i < count; i++ {
		var r, g, b int
		if _, err := fmt.Fscan(br, &r, &g, &b); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read pixel %d: %w", i, err)
		}
		if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
			return nil, 0, 0, fmt.Errorf("pixel %d out of range: %d %d %d", i, r, g, b)
		}
		pixels = append(pixels, renderer.Pixel{R: uint8(r), G: uint8(g), B: uint8(b)})
	}
	return pixels, width, height, nil
}
