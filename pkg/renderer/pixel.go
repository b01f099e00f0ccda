package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Pixel is a final 8-bit sRGB-ish color
type Pixel struct {
	R, G, B uint8
}

// Coord locates a pixel; row 0 is the top of the image
type Coord struct {
	Row, Col int
}

// ColorToPixel converts an averaged linear color to bytes using gamma 2
func ColorToPixel(c core.Vec3) Pixel {
	c = c.GammaCorrect(2.0).Clamp(0, 1)
	return Pixel{
		R: toByte(c.X),
		G: toByte(c.Y),
		B: toByte(c.Z),
	}
}

func toByte(x float64) uint8 {
	// NaN from a degenerate sample collapses to black
	if math.IsNaN(x) {
		return 0
	}
	return uint8(math.Min(255, math.Round(255.999*x)))
}

// PixelsToImage copies a raster ordered top-to-bottom, left-to-right into an RGBA image
func PixelsToImage(pixels []Pixel, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels {
		if i >= width*height {
			break
		}
		img.SetRGBA(i%width, i/width, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
	}
	return img
}
