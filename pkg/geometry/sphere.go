package geometry

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
	bbox     core.AABB
}

// NewSphere creates a new sphere. A negative radius is clamped to zero.
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	radius = math.Max(0, radius)
	extent := core.NewVec3(radius, radius, radius)
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
		bbox:     core.NewAABBFromCorners(center.Sub(extent), center.Add(extent)).Padded(),
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, rayT core.Interval, hit *material.HitRecord) bool {
	if s.Radius == 0 {
		return false
	}

	// Quadratic |O + tD - C|² = r² in reduced form
	oc := s.Center.Sub(ray.Origin)
	a := ray.Direction.Norm2()
	if a == 0 {
		return false
	}
	h := ray.Direction.Dot(oc)
	c := oc.Norm2() - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	// Nearest root first
	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return false
		}
	}

	hit.T = root
	hit.Point = ray.At(root)
	hit.Material = s.Material
	outwardNormal := hit.Point.Sub(s.Center).Mul(1.0 / s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)

	return true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}

func (*Sphere) sealed() {}
