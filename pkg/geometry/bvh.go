package geometry

import (
	"sort"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// bvhNode is one entry of the BVH arena.
// For a leaf, left and right index into the primitive slice (equal when the
// leaf holds a single primitive). For an internal node they index into the node slice.
type bvhNode struct {
	box         core.AABB
	left, right int32
	leaf        bool
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is immutable after construction and safe for concurrent reads.
type BVH struct {
	primitives []Primitive
	nodes      []bvhNode // nodes[0] is the root
}

// NewBVH constructs a BVH from a slice of primitives
func NewBVH(primitives []Primitive) *BVH {
	// Copy so sorting during construction never reorders the caller's slice
	prims := make([]Primitive, len(primitives))
	copy(prims, primitives)

	bvh := &BVH{primitives: prims}
	if len(prims) == 0 {
		return bvh
	}

	// A binary tree over n leaves ranges has at most 2n-1 nodes
	bvh.nodes = make([]bvhNode, 0, 2*len(prims))
	bvh.build(0, len(prims))
	return bvh
}

// build appends the subtree covering prims[start:end) and returns its node index
func (bvh *BVH) build(start, end int) int32 {
	box := core.EmptyAABB
	for i := start; i < end; i++ {
		box = box.Union(bvh.primitives[i].BoundingBox())
	}

	index := int32(len(bvh.nodes))
	bvh.nodes = append(bvh.nodes, bvhNode{box: box})

	switch span := end - start; span {
	case 1:
		bvh.nodes[index].leaf = true
		bvh.nodes[index].left = int32(start)
		bvh.nodes[index].right = int32(start)
	case 2:
		bvh.nodes[index].leaf = true
		bvh.nodes[index].left = int32(start)
		bvh.nodes[index].right = int32(start + 1)
	default:
		axis := box.LongestAxis()
		sortByBoxMin(bvh.primitives[start:end], axis)

		mid := start + span/2
		left := bvh.build(start, mid)
		right := bvh.build(mid, end)
		bvh.nodes[index].left = left
		bvh.nodes[index].right = right
	}

	return index
}

// sortByBoxMin orders primitives by their bounding box minimum along axis
func sortByBoxMin(primitives []Primitive, axis int) {
	sort.SliceStable(primitives, func(i, j int) bool {
		return primitives[i].BoundingBox().AxisInterval(axis).Min <
			primitives[j].BoundingBox().AxisInterval(axis).Min
	})
}

// Hit tests if a ray intersects any primitive in the BVH
func (bvh *BVH) Hit(ray core.Ray, rayT core.Interval, hit *material.HitRecord) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	return bvh.hitNode(0, ray, rayT, hit)
}

// hitNode tests the left child first, then the right child with the search
// window narrowed to the left hit
func (bvh *BVH) hitNode(index int32, ray core.Ray, rayT core.Interval, hit *material.HitRecord) bool {
	node := &bvh.nodes[index]
	if !node.box.Hit(ray, rayT) {
		return false
	}

	hitChild := bvh.hitNode
	if node.leaf {
		hitChild = bvh.hitPrimitive
	}

	hitLeft := hitChild(node.left, ray, rayT, hit)
	if node.right == node.left {
		return hitLeft
	}

	upper := rayT.Max
	if hitLeft {
		upper = hit.T
	}
	hitRight := hitChild(node.right, ray, core.NewInterval(rayT.Min, upper), hit)

	return hitLeft || hitRight
}

func (bvh *BVH) hitPrimitive(index int32, ray core.Ray, rayT core.Interval, hit *material.HitRecord) bool {
	return bvh.primitives[index].Hit(ray, rayT, hit)
}

// BoundingBox returns the overall bounding box of the BVH, empty when it holds nothing
func (bvh *BVH) BoundingBox() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.EmptyAABB
	}
	return bvh.nodes[0].box
}

// Len returns the number of primitives in the BVH
func (bvh *BVH) Len() int {
	return len(bvh.primitives)
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	Primitives    int
	TotalNodes    int
	LeafNodes     int
	MaxDepth      int
	AvgLeafDepth  float64
	PrimitiveRefs int // distinct primitive references held by leaves
}

// Stats walks the tree and returns its shape
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{Primitives: len(bvh.primitives)}
	if len(bvh.nodes) == 0 {
		return stats
	}

	depthSum := 0
	bvh.collectStats(0, 0, &stats, &depthSum)
	if stats.LeafNodes > 0 {
		stats.AvgLeafDepth = float64(depthSum) / float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(index int32, depth int, stats *BVHStats, depthSum *int) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	node := bvh.nodes[index]
	if node.leaf {
		stats.LeafNodes++
		*depthSum += depth
		stats.PrimitiveRefs++
		if node.right != node.left {
			stats.PrimitiveRefs++
		}
		return
	}

	bvh.collectStats(node.left, depth+1, stats, depthSum)
	bvh.collectStats(node.right, depth+1, stats, depthSum)
}
