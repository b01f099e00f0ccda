package scene

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// DefaultPalette names the sphere colors of the palette scene, left to right
var DefaultPalette = []string{"crimson", "darkorange", "gold", "seagreen", "royalblue", "mediumorchid"}

// ColorByName looks up an SVG 1.1 color name and returns it as a linear albedo in [0,1]
func ColorByName(name string) (core.Vec3, error) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return core.Vec3{}, fmt.Errorf("unknown color %q", name)
	}
	return core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255), nil
}

// NewPaletteScene lines up one diffuse sphere per named color, with a small
// glass sphere in front of each. Names must be valid SVG color names.
func NewPaletteScene(names ...string) (*Scene, error) {
	if len(names) == 0 {
		names = DefaultPalette
	}
	aspectRatio := 2.0

	ground, err := ColorByName("lightgray")
	if err != nil {
		return nil, err
	}
	world := geometry.NewShapeList(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(ground)),
	)

	glass := material.NewDielectric(1.5)
	spacing := 1.1
	offset := -spacing * float64(len(names)-1) / 2
	for i, name := range names {
		albedo, err := ColorByName(name)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		x := offset + spacing*float64(i)
		world.Add(geometry.NewSphere(core.NewVec3(x, 0.5, 0), 0.5, material.NewLambertian(albedo)))
		world.Add(geometry.NewSphere(core.NewVec3(x, 0.2, 0.9), 0.2, glass))
	}

	distance := 1.2*spacing*float64(len(names)) + 2
	return &Scene{
		Name:  "palette",
		World: world,
		CameraConfig: geometry.CameraConfig{
			LookFrom:    core.NewVec3(0, 1.5, distance),
			LookAt:      core.NewVec3(0, 0.4, 0),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        geometry.Degrees(30),
			AspectRatio: aspectRatio,
			Aperture:    0.05,
		},
		Image:        renderer.NewImage(600, aspectRatio),
		RenderConfig: renderer.DefaultRenderConfig(),
	}, nil
}
