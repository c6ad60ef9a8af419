package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

func randomPrimitives(random *rand.Rand, count int) []Primitive {
	randomPoint := func(spread float64) core.Vec3 {
		return core.NewVec3(
			(random.Float64()*2-1)*spread,
			(random.Float64()*2-1)*spread,
			(random.Float64()*2-1)*spread,
		)
	}

	primitives := make([]Primitive, 0, count)
	for i := 0; i < count; i++ {
		if random.Float64() < 0.6 {
			primitives = append(primitives, NewSphere(randomPoint(20), 0.1+random.Float64()*2, testMaterial))
		} else {
			base := randomPoint(20)
			primitives = append(primitives, NewTriangle(
				base,
				base.Add(randomPoint(3)),
				base.Add(randomPoint(3)),
				testMaterial,
			))
		}
	}
	return primitives
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for _, count := range []int{1, 2, 3, 7, 64, 300} {
		primitives := randomPrimitives(random, count)
		bvh := NewBVH(primitives)
		list := NewPrimitiveList(primitives)

		for i := 0; i < 2000; i++ {
			origin := core.NewVec3(
				(random.Float64()*2-1)*40,
				(random.Float64()*2-1)*40,
				(random.Float64()*2-1)*40,
			)
			// Aim roughly at the scene so most rays hit something
			target := core.NewVec3(
				(random.Float64()*2-1)*15,
				(random.Float64()*2-1)*15,
				(random.Float64()*2-1)*15,
			)
			ray := core.NewRay(origin, target.Sub(origin))
			rayT := core.NewInterval(0.001, math.Inf(1))

			var bvhHit, listHit material.HitRecord
			gotBVH := bvh.Hit(ray, rayT, &bvhHit)
			gotList := list.Hit(ray, rayT, &listHit)

			if gotBVH != gotList {
				t.Fatalf("count=%d ray %d: BVH hit=%v, linear scan hit=%v", count, i, gotBVH, gotList)
			}
			if gotBVH && math.Abs(bvhHit.T-listHit.T) > 1e-9 {
				t.Fatalf("count=%d ray %d: BVH t=%f, linear scan t=%f", count, i, bvhHit.T, listHit.T)
			}
		}
	}
}

func TestBVH_AxisAlignedRays(t *testing.T) {
	// Axis-aligned rays exercise the zero-direction slab branch at every level
	primitives := []Primitive{
		NewTriangle(core.NewVec3(-1, 0, -1), core.NewVec3(1, 0, -1), core.NewVec3(0, 0, 1), testMaterial),
		NewSphere(core.NewVec3(3, 0, 0), 0.5, testMaterial),
		NewSphere(core.NewVec3(-3, 0, 0), 0.5, testMaterial),
		NewSphere(core.NewVec3(0, 0, 4), 0.5, testMaterial),
	}
	bvh := NewBVH(primitives)
	list := NewPrimitiveList(primitives)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
		core.NewRay(core.NewVec3(10, 0, 0), core.NewVec3(-1, 0, 0)),
		core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1)),
		core.NewRay(core.NewVec3(0, 0.1, -10), core.NewVec3(0, 0, 1)),
	}

	for i, ray := range rays {
		var bvhHit, listHit material.HitRecord
		rayT := core.NewInterval(0.001, math.Inf(1))
		gotBVH := bvh.Hit(ray, rayT, &bvhHit)
		gotList := list.Hit(ray, rayT, &listHit)
		if gotBVH != gotList || (gotBVH && math.Abs(bvhHit.T-listHit.T) > 1e-9) {
			t.Errorf("ray %d: BVH (%v, %f) disagrees with linear scan (%v, %f)", i, gotBVH, bvhHit.T, gotList, listHit.T)
		}
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)

	if !bvh.BoundingBox().IsEmpty() {
		t.Errorf("Expected empty bounding box, got %+v", bvh.BoundingBox())
	}

	var hit material.HitRecord
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if bvh.Hit(ray, core.NewInterval(0.001, math.Inf(1)), &hit) {
		t.Error("Empty BVH should never be hit")
	}

	stats := bvh.Stats()
	if stats.TotalNodes != 0 || stats.PrimitiveRefs != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestBVH_SmallCounts(t *testing.T) {
	tests := []struct {
		name       string
		primitives []Primitive
		rayOrigin  core.Vec3
		expectedT  float64
	}{
		{
			name:       "single primitive",
			primitives: []Primitive{NewSphere(core.NewVec3(0, 0, -5), 1, testMaterial)},
			rayOrigin:  core.NewVec3(0, 0, 0),
			expectedT:  4,
		},
		{
			name: "two primitives hit through right child",
			primitives: []Primitive{
				NewSphere(core.NewVec3(0, 0, -10), 1, testMaterial),
				NewSphere(core.NewVec3(0, 0, -5), 1, testMaterial),
			},
			rayOrigin: core.NewVec3(0, 0, 0),
			expectedT: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bvh := NewBVH(tt.primitives)
			var hit material.HitRecord
			ray := core.NewRay(tt.rayOrigin, core.NewVec3(0, 0, -1))
			if !bvh.Hit(ray, core.NewInterval(0.001, math.Inf(1)), &hit) {
				t.Fatal("Expected hit, got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			stats := bvh.Stats()
			if stats.TotalNodes != 1 || stats.LeafNodes != 1 {
				t.Errorf("Expected a single leaf node, got %+v", stats)
			}
			if stats.PrimitiveRefs != len(tt.primitives) {
				t.Errorf("Expected %d primitive refs, got %d", len(tt.primitives), stats.PrimitiveRefs)
			}
		})
	}
}

func TestBVH_EveryPrimitiveReferencedOnce(t *testing.T) {
	random := rand.New(rand.NewSource(7))

	for _, count := range []int{1, 2, 3, 5, 16, 17, 100} {
		bvh := NewBVH(randomPrimitives(random, count))

		seen := make(map[int32]int)
		var walk func(index int32)
		walk = func(index int32) {
			node := bvh.nodes[index]
			if node.leaf {
				seen[node.left]++
				if node.right != node.left {
					seen[node.right]++
				}
				return
			}
			walk(node.left)
			walk(node.right)
		}
		walk(0)

		if len(seen) != count {
			t.Fatalf("count=%d: expected %d distinct primitives, got %d", count, count, len(seen))
		}
		for index, refs := range seen {
			if refs != 1 {
				t.Errorf("count=%d: primitive %d referenced %d times", count, index, refs)
			}
		}

		stats := bvh.Stats()
		if stats.PrimitiveRefs != count {
			t.Errorf("count=%d: stats report %d refs", count, stats.PrimitiveRefs)
		}
		if stats.TotalNodes != 2*stats.LeafNodes-1 {
			t.Errorf("count=%d: %d nodes for %d leaves is not a full binary tree", count, stats.TotalNodes, stats.LeafNodes)
		}
	}
}

func TestBVH_NodeBoxesEncloseChildren(t *testing.T) {
	random := rand.New(rand.NewSource(11))
	bvh := NewBVH(randomPrimitives(random, 200))

	for i, node := range bvh.nodes {
		var children []core.AABB
		if node.leaf {
			children = append(children, bvh.primitives[node.left].BoundingBox(), bvh.primitives[node.right].BoundingBox())
		} else {
			children = append(children, bvh.nodes[node.left].box, bvh.nodes[node.right].box)
		}
		for _, child := range children {
			if !node.box.ContainsBox(child) {
				t.Fatalf("node %d box %+v does not enclose child %+v", i, node.box, child)
			}
		}
	}
}

func TestBVH_DoesNotReorderInput(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	primitives := randomPrimitives(random, 50)
	original := make([]Primitive, len(primitives))
	copy(original, primitives)

	NewBVH(primitives)

	for i := range primitives {
		if primitives[i] != original[i] {
			t.Fatalf("input slice reordered at index %d", i)
		}
	}
}
