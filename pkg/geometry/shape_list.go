package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ShapeList is the world aggregate. It tests every shape for each ray and
// keeps the closest hit, so cost is linear in the number of shapes.
type ShapeList struct {
	Shapes []Shape
}

// NewShapeList creates an aggregate holding the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add appends a shape
func (l *ShapeList) Add(s Shape) {
	l.Shapes = append(l.Shapes, s)
}

// Clear removes every shape
func (l *ShapeList) Clear() {
	l.Shapes = nil
}

// Len returns the number of shapes
func (l *ShapeList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest intersection across all shapes
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	_, hit, isHit := l.HitShape(ray, tMin, tMax)
	return hit, isHit
}

// HitShape is Hit that also returns the shape owning the closest intersection
func (l *ShapeList) HitShape(ray core.Ray, tMin, tMax float64) (Shape, *material.HitRecord, bool) {
	var closestShape Shape
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, s := range l.Shapes {
		if hit, isHit := s.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
			closestShape = s
		}
	}

	return closestShape, closestHit, closestHit != nil
}
