package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// List is a flat collection of objects searched linearly
type List struct {
	objects []Intersectable
	bbox    core.AABB
}

// NewList creates a list holding the given objects
func NewList(objects ...Intersectable) *List {
	l := &List{bbox: core.EmptyAABB()}
	for _, obj := range objects {
		l.Add(obj)
	}
	return l
}

// Add appends an object and grows the cached bounding box
func (l *List) Add(obj Intersectable) {
	l.bbox = l.bbox.Union(obj.BoundingBox())
	l.objects = append(l.objects, obj)
}

// Clear removes all objects
func (l *List) Clear() {
	l.objects = nil
	l.bbox = core.EmptyAABB()
}

// Len returns the number of objects in the list
func (l *List) Len() int {
	return len(l.objects)
}

// Objects returns the objects in insertion order. The slice must not be modified.
func (l *List) Objects() []Intersectable {
	return l.objects
}

// Hit returns the nearest hit across all objects
func (l *List) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, obj := range l.objects {
		if hit, isHit := obj.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of all object boxes (the empty box for an empty list)
func (l *List) BoundingBox() core.AABB {
	return l.bbox
}
