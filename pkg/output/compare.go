package output

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Difference summarizes how far two rasters of the same size are apart
type Difference struct {
	Pixels    int     // Pixels compared
	Differing int     // Pixels with any channel changed
	MaxDelta  int     // Largest absolute channel difference
	MeanDelta float64 // Mean absolute channel difference
}

// Identical reports whether no pixel differs
func (d Difference) Identical() bool {
	return d.Differing == 0
}

// Compare measures per-channel differences between got and want
func Compare(got, want []renderer.Pixel) (Difference, error) {
	if len(got) != len(want) {
		return Difference{}, fmt.Errorf("%w: %d pixels against %d", ErrPixelCount, len(got), len(want))
	}

	d := Difference{Pixels: len(got)}
	total := 0
	for i := range got {
		deltas := [3]int{
			absDiff(got[i].R, want[i].R),
			absDiff(got[i].G, want[i].G),
			absDiff(got[i].B, want[i].B),
		}
		if deltas != [3]int{} {
			d.Differing++
		}
		for _, delta := range deltas {
			total += delta
			d.MaxDelta = max(d.MaxDelta, delta)
		}
	}
	if len(got) > 0 {
		d.MeanDelta = float64(total) / float64(3*len(got))
	}
	return d, nil
}

// CompareFile loads the reference image at path and compares pixels against it
func CompareFile(path string, pixels []renderer.Pixel, width, height int) (Difference, error) {
	want, w, h, err := Load(path)
	if err != nil {
		return Difference{}, err
	}
	if w != width || h != height {
		return Difference{}, fmt.Errorf("reference is %dx%d, render is %dx%d", w, h, width, height)
	}
	return Compare(pixels, want)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
