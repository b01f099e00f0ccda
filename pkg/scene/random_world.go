package scene

import (
	"math/rand/v2"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewRandomWorldScene creates the cover scene: a 22x22 grid of small randomly
// placed spheres around three large ones. The layout depends only on seed.
func NewRandomWorldScene(seed uint64) *Scene {
	aspectRatio := 3.0 / 2.0
	random := rand.New(rand.NewPCG(seed, 0))

	world := geometry.NewShapeList(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	// keep small spheres clear of the large metal sphere
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch choice := random.Float64(); {
			case choice < 0.8:
				mat = material.NewLambertian(randomVec3(random, 0, 1).MultiplyVec(randomVec3(random, 0, 1)))
			case choice < 0.95:
				mat = material.NewMetal(randomVec3(random, 0.5, 1), randomRange(random, 0, 0.5))
			default:
				mat = material.NewDielectric(1.5)
			}
			world.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	world.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)))
	world.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	world.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return &Scene{
		Name:  "random-world",
		World: world,
		CameraConfig: geometry.CameraConfig{
			LookFrom:      core.NewVec3(13, 2, 3),
			LookAt:        core.NewVec3(0, 0, 0),
			Up:            core.NewVec3(0, 1, 0),
			VFov:          geometry.Degrees(20),
			AspectRatio:   aspectRatio,
			Aperture:      0.1,
			FocusDistance: 10,
		},
		Image: renderer.NewImage(1200, aspectRatio),
		RenderConfig: renderer.RenderConfig{
			SamplesPerPixel: 32,
			MaxDepth:        8,
			Seed:            seed,
		},
	}
}

func randomRange(random *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*random.Float64()
}

func randomVec3(random *rand.Rand, lo, hi float64) core.Vec3 {
	return core.NewVec3(randomRange(random, lo, hi), randomRange(random, lo, hi), randomRange(random, lo, hi))
}
