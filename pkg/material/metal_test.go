package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

func TestNewMetal_FuzznessClamp(t *testing.T) {
	tests := []struct {
		name             string
		inputFuzzness    float64
		expectedFuzzness float64
	}{
		{"Valid fuzzness 0.0", 0.0, 0.0},
		{"Valid fuzzness 0.5", 0.5, 0.5},
		{"Valid fuzzness 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
		{"Clamp large positive", 10.0, 1.0},
		{"Clamp large negative", -10.0, 0.0},
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzzness)
			if metal.Fuzzness != tt.expectedFuzzness {
				t.Errorf("Expected fuzzness %f, got %f", tt.expectedFuzzness, metal.Fuzzness)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Ray hitting surface at 45 degrees
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := &HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	// Reflected direction is renormalized
	expected := core.NewVec3(0, -1, 1).Normalize()
	actual := scatter.Scattered.Direction

	tolerance := 1e-10
	if actual.Sub(expected).Norm() > tolerance {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, actual)
	}

	if scatter.Attenuation != albedo {
		t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
	}
}

func TestMetal_FuzzyReflectionStaysNearMirror(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	fuzz := 0.3
	metal := NewMetal(albedo, fuzz)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := &HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}
	mirror := core.NewVec3(0, 0, 1)

	for i := 0; i < 500; i++ {
		scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
		if !didScatter {
			t.Fatal("Head-on fuzzy reflection with fuzz < 1 should never be absorbed")
		}
		// Perturbation is fuzz * unit vector around the unit mirror direction
		offset := scatter.Scattered.Direction.Sub(mirror).Norm()
		if offset > fuzz+1e-9 {
			t.Fatalf("Perturbation %f exceeds fuzz %f", offset, fuzz)
		}
	}
}

func TestMetal_PerturbationIntoSurfaceIsAbsorbed(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 1.0)

	// Grazing incidence: the mirror direction is almost tangent to the surface
	rayIn := core.NewRay(core.NewVec3(-1, 0.01, 0), core.NewVec3(1, -0.01, 0))
	hit := &HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}

	// Get2D().X = 0.5 with Y = 0.75 gives the unit vector (0,-1,0): straight into the surface
	sampler := fixedSampler{twoD: core.NewVec2(0.5, 0.75)}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if didScatter {
		t.Errorf("Expected ray to be absorbed, got scattered direction %v", scatter.Scattered.Direction)
	}
	if scatter.Scattered.Direction.Dot(hit.Normal) > 0 {
		t.Error("Direction into the surface must not be corrected back above it")
	}
}
