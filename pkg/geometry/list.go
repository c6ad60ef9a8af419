package geometry

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// List is a flat collection of hittables tested by linear scan
type List struct {
	Objects []Hittable
	bbox    core.AABB
}

// NewList creates a list holding the given objects
func NewList(objects ...Hittable) *List {
	l := &List{bbox: core.EmptyAABB}
	for _, object := range objects {
		l.Add(object)
	}
	return l
}

// NewPrimitiveList creates a list over a primitive slice
func NewPrimitiveList(primitives []Primitive) *List {
	l := &List{Objects: make([]Hittable, 0, len(primitives)), bbox: core.EmptyAABB}
	for _, p := range primitives {
		l.Add(p)
	}
	return l
}

// Add appends an object and grows the bounding box
func (l *List) Add(object Hittable) {
	l.Objects = append(l.Objects, object)
	l.bbox = l.bbox.Union(object.BoundingBox())
}

// Clear removes every object
func (l *List) Clear() {
	l.Objects = nil
	l.bbox = core.EmptyAABB
}

// Len returns the number of objects
func (l *List) Len() int {
	return len(l.Objects)
}

// Hit returns the closest hit over all objects
func (l *List) Hit(ray core.Ray, rayT core.Interval, hit *material.HitRecord) bool {
	hitAnything := false
	closestSoFar := rayT.Max

	for _, object := range l.Objects {
		if object.Hit(ray, core.NewInterval(rayT.Min, closestSoFar), hit) {
			hitAnything = true
			closestSoFar = hit.T
		}
	}

	return hitAnything
}

// BoundingBox returns the union of all object boxes, or an empty box
func (l *List) BoundingBox() core.AABB {
	return l.bbox
}
