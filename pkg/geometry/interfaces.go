package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Implementations live in this package; new primitives extend the set here.
type Shape interface {
	// Hit returns the nearest intersection with t in [tMin, tMax], if any.
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)

	shape()
}
