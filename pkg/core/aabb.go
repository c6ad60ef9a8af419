package core

import "math"

// minAxisExtent is the thinnest slab an AABB is allowed to have on any axis
const minAxisExtent = 1e-4

// AABB represents an axis-aligned bounding box as one interval per axis.
// The zero value is not empty; use EmptyAABB for a box that bounds nothing.
type AABB struct {
	X, Y, Z Interval
}

// EmptyAABB bounds nothing and is the identity for Union
var EmptyAABB = AABB{X: EmptyInterval, Y: EmptyInterval, Z: EmptyInterval}

// NewAABB creates an AABB from per-axis intervals
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// NewAABBFromCorners creates an AABB spanning two opposite corners given in any order
func NewAABBFromCorners(a, b Vec3) AABB {
	return AABB{
		X: NewInterval(math.Min(a.X, b.X), math.Max(a.X, b.X)),
		Y: NewInterval(math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)),
		Z: NewInterval(math.Min(a.Z, b.Z), math.Max(a.Z, b.Z)),
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB
	for _, point := range points {
		box.X = box.X.Union(Interval{Min: point.X, Max: point.X})
		box.Y = box.Y.Union(Interval{Min: point.Y, Max: point.Y})
		box.Z = box.Z.Union(Interval{Min: point.Z, Max: point.Z})
	}
	return box
}

// AxisInterval returns the interval for an axis (0=X, 1=Y, 2=Z)
func (aabb AABB) AxisInterval(axis int) Interval {
	switch axis {
	case 1:
		return aabb.Y
	case 2:
		return aabb.Z
	default:
		return aabb.X
	}
}

// Hit tests whether the ray's parametric range rayT overlaps the box using the slab method
func (aabb AABB) Hit(ray Ray, rayT Interval) bool {
	tMin, tMax := rayT.Min, rayT.Max

	for axis := 0; axis < 3; axis++ {
		slab := aabb.AxisInterval(axis)
		origin := Component(ray.Origin, axis)
		direction := Component(ray.Direction, axis)

		// A ray parallel to the slab never crosses its planes; it is inside
		// for every t or for none. Origins on a face count as inside.
		if direction == 0 {
			if origin < slab.Min || origin > slab.Max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t0 := (slab.Min - origin) * invDirection
		t1 := (slab.Max - origin) * invDirection
		if invDirection < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}

		if tMin >= tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		X: aabb.X.Union(other.X),
		Y: aabb.Y.Union(other.Y),
		Z: aabb.Z.Union(other.Z),
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return Vec3{
		X: (aabb.X.Min + aabb.X.Max) * 0.5,
		Y: (aabb.Y.Min + aabb.Y.Max) * 0.5,
		Z: (aabb.Z.Min + aabb.Z.Max) * 0.5,
	}
}

// Size returns the extent of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return Vec3{X: aabb.X.Size(), Y: aabb.Y.Size(), Z: aabb.Z.Size()}
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// Ties go to the higher axis.
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y {
		if size.X > size.Z {
			return 0
		}
		return 2
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IsEmpty returns true if the box is empty along any axis
func (aabb AABB) IsEmpty() bool {
	return aabb.X.IsEmpty() || aabb.Y.IsEmpty() || aabb.Z.IsEmpty()
}

// Contains reports whether the point lies inside or on the boundary of the box
func (aabb AABB) Contains(point Vec3) bool {
	return aabb.X.Contains(point.X) && aabb.Y.Contains(point.Y) && aabb.Z.Contains(point.Z)
}

// ContainsBox reports whether other lies entirely within this box
func (aabb AABB) ContainsBox(other AABB) bool {
	if other.IsEmpty() {
		return true
	}
	return aabb.X.Min <= other.X.Min && other.X.Max <= aabb.X.Max &&
		aabb.Y.Min <= other.Y.Min && other.Y.Max <= aabb.Y.Max &&
		aabb.Z.Min <= other.Z.Min && other.Z.Max <= aabb.Z.Max
}

// Padded returns the box with any axis thinner than minAxisExtent widened to it
func (aabb AABB) Padded() AABB {
	pad := func(i Interval) Interval {
		if i.IsEmpty() || i.Size() >= minAxisExtent {
			return i
		}
		return i.Expand(minAxisExtent)
	}
	return AABB{X: pad(aabb.X), Y: pad(aabb.Y), Z: pad(aabb.Z)}
}
