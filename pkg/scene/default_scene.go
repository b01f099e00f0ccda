package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewTwoSphereScene creates a small diffuse sphere resting on a large ground sphere,
// seen through a pinhole camera at the origin.
func NewTwoSphereScene() *Scene {
	aspectRatio := 16.0 / 9.0

	world := geometry.NewShapeList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
	)

	return &Scene{
		Name:  "two-spheres",
		World: world,
		CameraConfig: geometry.CameraConfig{
			LookFrom:    core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        geometry.Degrees(90),
			AspectRatio: aspectRatio,
		},
		Image:        renderer.NewImage(400, aspectRatio),
		RenderConfig: renderer.DefaultRenderConfig(),
	}
}

// NewThreeSphereScene creates the demo world: a diffuse center sphere, a hollow
// glass sphere on the left and a polished gold sphere on the right.
func NewThreeSphereScene() *Scene {
	aspectRatio := 16.0 / 9.0

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	world := geometry.NewShapeList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, gold),
		// negative radius flips the normals inward, making the glass a thin shell
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.4, glass),
	)

	config := renderer.DefaultRenderConfig()
	config.MaxDepth = 100

	return &Scene{
		Name:  "three-spheres",
		World: world,
		CameraConfig: geometry.CameraConfig{
			LookFrom:    core.NewVec3(3, 3, 2),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        geometry.Degrees(20),
			AspectRatio: aspectRatio,
			Aperture:    0.1,
			// FocusDistance zero: focus on LookAt
		},
		Image:        renderer.NewImage(400, aspectRatio),
		RenderConfig: config,
	}
}
