package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// mirrorWorld reports a hit facing the ray for the first `hits` rays and
// misses afterwards. A negative hits value means it never misses. With
// backwards set the normal points along the ray instead.
type mirrorWorld struct {
	hits      int
	calls     int
	material  material.Material
	backwards bool
}

func (w *mirrorWorld) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	w.calls++
	if w.hits >= 0 && w.calls > w.hits {
		return nil, false
	}
	normal := ray.Direction.Normalize().Negate()
	if w.backwards {
		normal = normal.Negate()
	}
	return &material.HitRecord{
		Point:     ray.At(1),
		Normal:    normal,
		T:         1,
		FrontFace: !w.backwards,
		Material:  w.material,
	}, true
}

func vecNear(a, b core.Vec3) bool {
	return a.Subtract(b).Length() <= 1e-12
}

func TestRayColor_ZeroDepthIsBlack(t *testing.T) {
	sampler := core.NewSeededSampler(42, 0)
	worlds := map[string]World{
		"empty":  geometry.NewShapeList(),
		"sphere": geometry.NewShapeList(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(1, 1, 1)))),
	}
	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
	}

	for name, world := range worlds {
		for _, ray := range rays {
			if c := RayColor(ray, world, 0, sampler); c != (core.Vec3{}) {
				t.Errorf("%s: expected black at depth 0, got %v", name, c)
			}
			if c := RayColor(ray, world, -3, sampler); c != (core.Vec3{}) {
				t.Errorf("%s: expected black at negative depth, got %v", name, c)
			}
		}
	}
}

func TestRayColor_EmptyWorldBackground(t *testing.T) {
	world := geometry.NewShapeList()
	sampler := core.NewSeededSampler(42, 0)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"horizon", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
		{"unnormalized up", core.NewVec3(0, 7, 0), core.NewVec3(1, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, 0), tt.direction)
			got := RayColor(ray, world, 10, sampler)
			if !vecNear(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			if bg := BackgroundGradient(ray); !vecNear(bg, tt.expected) {
				t.Errorf("BackgroundGradient: expected %v, got %v", tt.expected, bg)
			}
		})
	}
}

func TestRayColor_AttenuationAccumulates(t *testing.T) {
	sampler := core.NewSeededSampler(42, 0)
	mirror := material.NewMetal(core.NewVec3(0.5, 0.25, 1.0), 0)
	down := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	tests := []struct {
		name     string
		hits     int
		depth    int
		expected core.Vec3
	}{
		// one bounce sends the ray straight up into white sky
		{"one bounce then sky", 1, 5, core.NewVec3(0.5, 0.25, 1.0)},
		// two bounces send it back down into blue sky
		{"two bounces then sky", 2, 5, core.NewVec3(0.125, 0.04375, 1.0)},
		{"budget exhausted on the last bounce", 1, 1, core.Vec3{}},
		{"budget exactly enough", 2, 3, core.NewVec3(0.125, 0.04375, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := &mirrorWorld{hits: tt.hits, material: mirror}
			got := RayColor(down, world, tt.depth, sampler)
			if !vecNear(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRayColor_AbsorbedIsBlack(t *testing.T) {
	sampler := core.NewSeededSampler(42, 0)
	// normal aligned with the ray: the perfect reflection points into the surface
	world := &mirrorWorld{hits: 1, material: material.NewMetal(core.NewVec3(1, 1, 1), 0), backwards: true}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	if got := RayColor(ray, world, 10, sampler); got != (core.Vec3{}) {
		t.Errorf("Expected black for an absorbed ray, got %v", got)
	}
	if world.calls != 1 {
		t.Errorf("Absorption should stop the path, saw %d hit tests", world.calls)
	}
}

func TestRayColor_DeepBudgetTerminates(t *testing.T) {
	sampler := core.NewSeededSampler(42, 0)
	world := &mirrorWorld{hits: -1, material: material.NewMetal(core.NewVec3(1, 1, 1), 0)}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	const depth = 200000
	if got := RayColor(ray, world, depth, sampler); got != (core.Vec3{}) {
		t.Errorf("Expected black once the budget runs out, got %v", got)
	}
	if world.calls != depth {
		t.Errorf("Expected %d hit tests, got %d", depth, world.calls)
	}
}

func TestRayColor_LambertianSphereDarkensSky(t *testing.T) {
	world := geometry.NewShapeList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)
	sampler := core.NewSeededSampler(42, 0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for i := 0; i < 200; i++ {
		c := RayColor(ray, world, 50, sampler)
		for k := 0; k < 3; k++ {
			if c.At(k) < 0 || c.At(k) > 0.5+1e-12 || math.IsNaN(c.At(k)) {
				t.Fatalf("Color %v outside [0, albedo·sky]", c)
			}
		}
	}
}

func TestPathTracingIntegrator_UsesMaxDepth(t *testing.T) {
	mirror := material.NewMetal(core.NewVec3(0.5, 0.5, 0.5), 0)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	var pt Integrator = NewPathTracingIntegrator(2)
	got := pt.RayColor(ray, &mirrorWorld{hits: 1, material: mirror}, core.NewSeededSampler(1, 0))
	if !vecNear(got, core.NewVec3(0.5, 0.5, 0.5)) {
		t.Errorf("Expected one attenuated bounce, got %v", got)
	}

	shallow := NewPathTracingIntegrator(1)
	if shallow.MaxDepth() != 1 {
		t.Errorf("Expected MaxDepth 1, got %d", shallow.MaxDepth())
	}
	got = shallow.RayColor(ray, &mirrorWorld{hits: 1, material: mirror}, core.NewSeededSampler(1, 0))
	if got != (core.Vec3{}) {
		t.Errorf("Expected black with a one-bounce budget, got %v", got)
	}
}
