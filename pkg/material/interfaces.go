package material

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Material decides how light scatters at a surface.
// The set of implementations is closed: Lambertian, Metal and Dielectric.
type Material interface {
	// Scatter returns the attenuation and the scattered ray, or false if the ray is absorbed
	Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// sealed restricts implementations to this package
	sealed()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection, always against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal is assumed to have unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Mul(-1)
	}
}

// Kind names the concrete material type, e.g. for scene summaries
func Kind(m Material) string {
	switch m.(type) {
	case *Lambertian:
		return "lambertian"
	case *Metal:
		return "metal"
	case *Dielectric:
		return "dielectric"
	default:
		return "unknown"
	}
}
