package core

import (
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// Float64Source is satisfied by *rand.Rand from both math/rand and math/rand/v2
type Float64Source interface {
	Float64() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random Float64Source
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random Float64Source) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler owning a PCG generator. Distinct
// streams with the same seed are independent.
func NewSeededSampler(seed, stream uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewPCG(seed, stream)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomInUnitSphere returns a point strictly inside the unit sphere by
// rejection sampling the [-1,1]³ cube.
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		s := sampler.Get3D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 2*s.Z-1)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomInUnitDisk returns a point strictly inside the unit disk on the z=0 plane
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector returns a random direction of unit length
func RandomUnitVector(sampler Sampler) Vec3 {
	for {
		p := RandomInUnitSphere(sampler)
		// the origin itself has no direction
		if p.LengthSquared() > 0 {
			return p.Normalize()
		}
	}
}

// RandomInHemisphere returns a point in the unit sphere on the same side as normal
func RandomInHemisphere(normal Vec3, sampler Sampler) Vec3 {
	p := RandomInUnitSphere(sampler)
	if p.Dot(normal) > 0 {
		return p
	}
	return p.Negate()
}
