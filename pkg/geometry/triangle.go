package geometry

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// parallelEpsilon is the determinant magnitude below which a ray is treated as parallel
const parallelEpsilon = 1e-8

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2   core.Vec3         // The three vertices
	Material     material.Material // Material of the triangle
	edge1, edge2 core.Vec3         // V1-V0 and V2-V0
	normal       core.Vec3         // Cached unit normal
	bbox         core.AABB         // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices.
// The normal follows the right-hand rule over V0, V1, V2.
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
		edge1:    edge1,
		edge2:    edge2,
		normal:   edge1.Cross(edge2).Normalize(),
		bbox:     core.NewAABBFromPoints(v0, v1, v2).Padded(),
	}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, rayT core.Interval, hit *material.HitRecord) bool {
	h := ray.Direction.Cross(t.edge2)
	det := t.edge1.Dot(h)

	// Ray lies in (or parallel to) the triangle's plane
	if math.Abs(det) < parallelEpsilon {
		return false
	}

	f := 1.0 / det
	s := ray.Origin.Sub(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(t.edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tHit := f * t.edge2.Dot(q)
	if !rayT.Surrounds(tHit) {
		return false
	}

	hit.T = tHit
	hit.Point = ray.At(tHit)
	hit.Material = t.Material
	hit.SetFaceNormal(ray, t.normal)

	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's unit normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

func (*Triangle) sealed() {}
