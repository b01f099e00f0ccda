package output

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Format is an output file format
type Format string

const (
	PPM  Format = "ppm"
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists every supported output format
var Formats = []Format{PPM, PNG, JPEG, BMP, TIFF}

// ParseFormat accepts a format name or file extension, with or without a leading dot
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "ppm":
		return PPM, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case PPM:
		return "image/x-portable-pixmap"
	case JPEG:
		return "image/jpeg"
	default:
		return "image/" + string(f)
	}
}

// Encode writes pixels to w in the given format
func Encode(w io.Writer, format Format, pixels []renderer.Pixel, width, height int) error {
	if format == PPM {
		_, err := WritePPM(w, pixels, width, height)
		return err
	}
	if len(pixels) != width*height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrPixelCount, len(pixels), width, height)
	}

	img := renderer.PixelsToImage(pixels, width, height)
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// Save writes pixels to path, picking the format from the file extension
func Save(path string, pixels []renderer.Pixel, width, height int) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Encode(file, format, pixels, width, height); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return file.Close()
}

// Load reads an image written by Save back into a raster
func Load(path string) (pixels []renderer.Pixel, width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if format, _ := ParseFormat(filepath.Ext(path)); format == PPM {
		return ReadPPM(file)
	}

	// Decoders for PNG, JPEG, BMP and TIFF are registered by the imports above
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width = bounds.Dx()
	height = bounds.Dy()
	pixels = make([]renderer.Pixel, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns 16-bit channels
			pixels[y*width+x] = renderer.Pixel{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
		}
	}
	return pixels, width, height, nil
}
