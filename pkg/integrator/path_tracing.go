package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ShadowAcneEpsilon is the minimum hit distance; it keeps scattered rays from
// re-hitting the surface they left because of floating point error.
const ShadowAcneEpsilon = 0.001

var (
	// SkyTop is the background color straight up
	SkyTop = core.NewVec3(1.0, 1.0, 1.0)
	// SkyBottom is the background color straight down
	SkyBottom = core.NewVec3(0.5, 0.7, 1.0)
)

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a path tracer that follows at most maxDepth bounces
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// MaxDepth returns the bounce budget
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor implements Integrator
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3 {
	return RayColor(ray, world, pt.maxDepth, sampler)
}

// RayColor returns the radiance along ray after at most depth bounces.
// Bounces are followed in a loop carrying the product of attenuations, so
// stack use does not grow with depth.
func RayColor(ray core.Ray, world World, depth int, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for ; depth > 0; depth-- {
		hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(BackgroundGradient(ray))
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce limit exceeded, no more light is gathered
	return core.Vec3{}
}

// BackgroundGradient returns the sky color seen along ray, blending from
// SkyBottom (t=0) to SkyTop (t=1) with t = (dir.y+1)/2.
func BackgroundGradient(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return SkyBottom.Lerp(SkyTop, t)
}
