package geometry

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// Hittable is anything a ray can be intersected against: a primitive, a List or a BVH
type Hittable interface {
	// Hit reports whether the ray hits within rayT (exclusive bounds).
	// The record is only written when the result is true.
	Hit(ray core.Ray, rayT core.Interval, hit *material.HitRecord) bool

	// BoundingBox returns the precomputed box enclosing the object
	BoundingBox() core.AABB
}

// Primitive is a single intersectable shape.
// The set of implementations is closed: Sphere and Triangle.
type Primitive interface {
	Hittable
	sealed()
}

// Kind names the concrete primitive type
func Kind(p Primitive) string {
	switch p.(type) {
	case *Sphere:
		return "sphere"
	case *Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}
