package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

func TestWritePPM(t *testing.T) {
	pixels := []renderer.Pixel{{255, 0, 0}, {0, 128, 255}}
	var buf bytes.Buffer

	n, err := WritePPM(&buf, pixels, 2, 1)
	if err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := "P3\n2 1\n255\n255 0 0\n0 128 255\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
	if n != len(expected) {
		t.Errorf("Expected %d bytes reported, got %d", len(expected), n)
	}
}

func TestWritePPM_PixelCountMismatch(t *testing.T) {
	var buf bytes.Buffer
	_, err := WritePPM(&buf, make([]renderer.Pixel, 3), 2, 2)
	if !errors.Is(err, ErrPixelCount) {
		t.Errorf("Expected ErrPixelCount, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("Nothing should be written on error")
	}
}

func TestReadPPM_RoundTrip(t *testing.T) {
	pixels := []renderer.Pixel{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {250, 251, 252}, {0, 0, 0}, {255, 255, 255}}
	var buf bytes.Buffer
	if _, err := WritePPM(&buf, pixels, 3, 2); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	got, width, height, err := ReadPPM(&buf)
	if err != nil {
		t.Fatalf("ReadPPM failed: %v", err)
	}
	if width != 3 || height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", width, height)
	}
	for i := range pixels {
		if got[i] != pixels[i] {
			t.Errorf("Pixel %d: expected %v, got %v", i, pixels[i], got[i])
		}
	}
}

func TestReadPPM_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"binary magic", "P6\n1 1\n255\n"},
		{"16-bit", "P3\n1 1\n65535\n0 0 0\n"},
		{"truncated", "P3\n2 1\n255\n1 2 3\n"},
		{"out of range", "P3\n1 1\n255\n256 0 0\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := ReadPPM(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestReadPPM_RejectsDimensions(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"overflowing product", "P3\n4294967296 4294967296\n255\n0 0 0\n"},
		{"oversized", "P3\n100000 100000\n255\n0 0 0\n"},
		{"zero width", "P3\n0 4\n255\n"},
		{"zero height", "P3\n4 0\n255\n"},
		{"negative", "P3\n-1 2\n255\n0 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixels, width, height, err := ReadPPM(strings.NewReader(tt.input))
			if !errors.Is(err, ErrPPMDimensions) {
				t.Errorf("Expected ErrPPMDimensions, got %v", err)
			}
			if pixels != nil || width != 0 || height != 0 {
				t.Errorf("Expected no raster, got %d pixels at %dx%d", len(pixels), width, height)
			}
		})
	}
}

func TestReadPPM_LargeHeaderShortBody(t *testing.T) {
	// A valid maximum-size header with a single pixel must fail on the body, not allocate the full raster
	input := fmt.Sprintf("P3\n%d %d\n255\n1 2 3\n", MaxPPMDimension, MaxPPMDimension)
	if _, _, _, err := ReadPPM(strings.NewReader(input)); err == nil || errors.Is(err, ErrPPMDimensions) {
		t.Errorf("Expected a truncated body error, got %v", err)
	}
}
