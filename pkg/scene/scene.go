package scene

import (
	"sort"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Description    string
	Primitives     []geometry.Primitive // Objects in the scene
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Background     renderer.Background
}

// New creates an empty scene with default camera, sampling and sky
func New(name string) *Scene {
	return &Scene{
		Name:           name,
		Primitives:     make([]geometry.Primitive, 0),
		CameraConfig:   renderer.DefaultCameraConfig(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Background:     renderer.DefaultBackground(),
	}
}

// Add appends primitives to the scene
func (s *Scene) Add(primitives ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, primitives...)
}

// World returns the top-level intersectable for rendering.
// An empty scene or useBVH=false yields a flat List; no BVH is built over nothing.
func (s *Scene) World(useBVH bool) geometry.Hittable {
	if useBVH && len(s.Primitives) > 0 {
		return geometry.NewBVH(s.Primitives)
	}
	return geometry.NewPrimitiveList(s.Primitives)
}

// Summary counts what a scene is made of
type Summary struct {
	Primitives int
	Spheres    int
	Triangles  int
	Materials  map[string]int // primitives per material kind
	Bounds     core.AABB
}

// MaterialKinds returns the material kinds in the summary, sorted
func (s Summary) MaterialKinds() []string {
	kinds := make([]string, 0, len(s.Materials))
	for kind := range s.Materials {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Summarize returns the primitive and material breakdown of the scene
func (s *Scene) Summarize() Summary {
	summary := Summary{
		Primitives: len(s.Primitives),
		Materials:  make(map[string]int),
		Bounds:     core.EmptyAABB,
	}

	for _, primitive := range s.Primitives {
		summary.Bounds = summary.Bounds.Union(primitive.BoundingBox())

		var mat material.Material
		switch p := primitive.(type) {
		case *geometry.Sphere:
			summary.Spheres++
			mat = p.Material
		case *geometry.Triangle:
			summary.Triangles++
			mat = p.Material
		}
		if mat != nil {
			summary.Materials[material.Kind(mat)]++
		}
	}

	return summary
}
