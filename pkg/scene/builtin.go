package scene

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name matches neither a built-in nor a scene file
var ErrUnknownScene = errors.New("scene: unknown scene")

var builtinDescriptions = map[string]string{
	"final":     "Ground sphere, a field of random small spheres, three hero spheres and two metal fins",
	"simple":    "One sphere of each material over a ground sphere",
	"triangles": "Boxes, a ground quad and a faceted glass sphere built from triangles",
	"empty":     "No objects, only the sky gradient",
}

var builtins = map[string]func(seed int64) *Scene{
	"final":     NewFinalScene,
	"simple":    func(int64) *Scene { return NewSimpleScene() },
	"triangles": func(int64) *Scene { return NewTrianglesScene() },
	"empty":     func(int64) *Scene { return NewEmptyScene() },
}

// BuiltinNames returns the names of the built-in scenes in display order
func BuiltinNames() []string {
	return []string{"final", "simple", "triangles", "empty"}
}

// Builtin returns a freshly constructed built-in scene.
// seed drives the random placement in scenes that use it.
func Builtin(name string, seed int64) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return build(seed), nil
}

// NewFinalScene creates the random sphere field: a large ground sphere, 22x22
// small spheres with random materials, three large spheres and two triangle fins
func NewFinalScene(seed int64) *Scene {
	random := rand.New(rand.NewSource(seed))
	randomColor := func(lo, hi float64) core.Vec3 {
		return core.NewVec3(
			lo+(hi-lo)*random.Float64(),
			lo+(hi-lo)*random.Float64(),
			lo+(hi-lo)*random.Float64(),
		)
	}

	s := New("final")
	s.Description = builtinDescriptions["final"]
	s.CameraConfig = renderer.CameraConfig{
		AspectRatio:   16.0 / 9.0,
		Width:         800,
		VFov:          20,
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		DefocusAngle:  0.6,
		FocusDistance: 10.0,
	}
	s.SamplingConfig = renderer.SamplingConfig{SamplesPerPixel: 50, MaxDepth: 50}

	// Ground
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	heroClearance := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			if center.Sub(heroClearance).Norm() <= 0.9 {
				continue
			}

			var sphereMaterial material.Material
			switch {
			case chooseMat < 0.8:
				albedo := core.MultiplyVec(randomColor(0, 1), randomColor(0, 1))
				sphereMaterial = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := randomColor(0.5, 1)
				fuzz := 0.5 * random.Float64()
				sphereMaterial = material.NewMetal(albedo, fuzz)
			default:
				sphereMaterial = material.NewDielectric(1.5)
			}
			s.Add(geometry.NewSphere(center, 0.2, sphereMaterial))
		}
	}

	// Hero spheres
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	// Fins
	finMaterial := material.NewMetal(core.NewVec3(0.8, 0.3, 0.3), 0.1)
	s.Add(
		geometry.NewTriangle(core.NewVec3(2, 0, 2), core.NewVec3(3, 2, 2), core.NewVec3(2, 2, 3), finMaterial),
		geometry.NewTriangle(core.NewVec3(-2, 0, 2), core.NewVec3(-3, 2, 2), core.NewVec3(-2, 2, 3), finMaterial),
	)

	return s
}

// NewSimpleScene creates a small scene with one sphere of each material
func NewSimpleScene() *Scene {
	s := New("simple")
	s.Description = builtinDescriptions["simple"]
	s.CameraConfig = renderer.CameraConfig{
		AspectRatio:   16.0 / 9.0,
		Width:         400,
		VFov:          40,
		LookFrom:      core.NewVec3(0, 0.75, 2),
		LookAt:        core.NewVec3(0, 0.5, -1),
		Up:            core.NewVec3(0, 1, 0),
		DefocusAngle:  0,
		FocusDistance: 3.4,
	}
	s.SamplingConfig = renderer.SamplingConfig{SamplesPerPixel: 50, MaxDepth: 20}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -100, -1), 100, material.NewLambertian(core.NewVec3(0.48, 0.48, 0.0))),
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
	)
	return s
}

// NewTrianglesScene creates a triangle-heavy scene: a ground quad, rotated boxes and a faceted sphere
func NewTrianglesScene() *Scene {
	s := New("triangles")
	s.Description = builtinDescriptions["triangles"]
	s.CameraConfig = renderer.CameraConfig{
		AspectRatio:   16.0 / 9.0,
		Width:         600,
		VFov:          35,
		LookFrom:      core.NewVec3(0, 3, 8),
		LookAt:        core.NewVec3(0, 0.8, 0),
		Up:            core.NewVec3(0, 1, 0),
		DefocusAngle:  0,
		FocusDistance: 8,
	}
	s.SamplingConfig = renderer.SamplingConfig{SamplesPerPixel: 30, MaxDepth: 20}

	ground := material.NewLambertian(core.NewVec3(0.6, 0.6, 0.55))
	s.Add(geometry.NewQuad(core.NewVec3(-10, 0, -10), core.NewVec3(0, 0, 20), core.NewVec3(20, 0, 0), ground)...)

	s.Add(geometry.NewBox(
		core.NewVec3(-2.2, 0.6, 0), core.NewVec3(0.6, 0.6, 0.6), core.NewVec3(0, math.Pi/6, 0),
		material.NewLambertian(core.NewVec3(0.7, 0.2, 0.2)),
	)...)
	s.Add(geometry.NewBox(
		core.NewVec3(2.2, 0.9, -0.5), core.NewVec3(0.4, 0.9, 0.4), core.NewVec3(0, -math.Pi/8, 0),
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.05),
	)...)

	vertices, faces := uvSphere(core.NewVec3(0, 1, 0), 1, 24, 12)
	mesh, err := geometry.NewTriangleMesh(vertices, faces, material.NewDielectric(1.5), nil)
	if err != nil {
		// uvSphere always produces whole triangles over its own vertices
		panic(err)
	}
	s.Add(mesh...)

	return s
}

// NewEmptyScene creates a scene with no objects
func NewEmptyScene() *Scene {
	s := New("empty")
	s.Description = builtinDescriptions["empty"]
	return s
}

// uvSphere tessellates a sphere into an indexed triangle mesh with outward-facing triangles
func uvSphere(center core.Vec3, radius float64, segments, rings int) ([]core.Vec3, []int) {
	vertices := make([]core.Vec3, 0, (rings+1)*(segments+1))
	for ring := 0; ring <= rings; ring++ {
		theta := math.Pi * float64(ring) / float64(rings)
		for seg := 0; seg <= segments; seg++ {
			phi := 2 * math.Pi * float64(seg) / float64(segments)
			direction := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
			vertices = append(vertices, center.Add(direction.Mul(radius)))
		}
	}

	faces := make([]int, 0, rings*segments*6)
	stride := segments + 1
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := ring*stride + seg
			b := a + stride
			// Skip the triangles that collapse at the poles
			if ring != 0 {
				faces = append(faces, a, a+1, b)
			}
			if ring != rings-1 {
				faces = append(faces, a+1, b+1, b)
			}
		}
	}
	return vertices, faces
}
