package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// fixedSampler returns the same values on every call
type fixedSampler struct {
	oneD float64
	twoD core.Vec2
}

func (f fixedSampler) Get1D() float64   { return f.oneD }
func (f fixedSampler) Get2D() core.Vec2 { return f.twoD }
func (f fixedSampler) Get3D() core.Vec3 { return core.NewVec3(f.twoD.X, f.twoD.Y, f.oneD) }

func TestLambertian_ScattersIntoHemisphere(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	normal := core.NewVec3(0, 0, 1)
	hit := &HitRecord{
		Point:  core.NewVec3(1, 2, 3),
		Normal: normal,
	}
	ray := core.NewRay(core.NewVec3(1, 2, 4), core.NewVec3(0, 0, -1))

	for i := 0; i < 1000; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if scatter.Scattered.Origin != hit.Point {
			t.Fatalf("Scattered ray should start at hit point, got %v", scatter.Scattered.Origin)
		}
		if scatter.Scattered.Direction.Dot(normal) < 0 {
			t.Fatalf("Scattered direction %v points below the surface", scatter.Scattered.Direction)
		}
		if scatter.Attenuation != albedo {
			t.Fatalf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}
	}
}

func TestLambertian_DegenerateDirectionFallsBackToNormal(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.8, 0.8, 0.8))

	// Get2D().X == 1 maps to the south pole (0,0,-1): the exact negation of the normal
	sampler := fixedSampler{twoD: core.NewVec2(1, 0)}
	normal := core.NewVec3(0, 0, 1)
	hit := &HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal}
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
	if !didScatter {
		t.Fatal("Lambertian should always scatter")
	}

	direction := scatter.Scattered.Direction
	if !core.IsFinite(direction) {
		t.Fatalf("Scattered direction has non-finite components: %v", direction)
	}
	if direction != normal {
		t.Errorf("Expected fallback to normal %v, got %v", normal, direction)
	}
	if direction.Normalize() != normal {
		t.Errorf("Fallback direction should normalize cleanly, got %v", direction.Normalize())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		material Material
		expected string
	}{
		{NewLambertian(core.NewVec3(1, 1, 1)), "lambertian"},
		{NewMetal(core.NewVec3(1, 1, 1), 0), "metal"},
		{NewDielectric(1.5), "dielectric"},
	}
	for _, tt := range tests {
		if got := Kind(tt.material); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestSetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 1, 0)

	var front HitRecord
	front.SetFaceNormal(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), outward)
	if !front.FrontFace || front.Normal != outward {
		t.Errorf("Expected front face with outward normal, got %+v", front)
	}

	var back HitRecord
	back.SetFaceNormal(core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)), outward)
	if back.FrontFace || back.Normal != core.NewVec3(0, -1, 0) {
		t.Errorf("Expected back face with flipped normal, got %+v", back)
	}
}
