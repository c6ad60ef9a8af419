package material

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Normal plus a uniform unit vector gives a cosine-weighted direction
	scatterDirection := hit.Normal.Add(core.SampleOnUnitSphere(sampler.Get2D()))

	// The unit vector can cancel the normal; fall back rather than trace a zero direction
	if core.NearZero(scatterDirection) {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.Albedo,
	}, true
}

func (*Lambertian) sealed() {}
