package renderer

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// shadowAcneEpsilon keeps a scattered ray from re-hitting the surface it left
const shadowAcneEpsilon = 0.001

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 10,
		MaxDepth:        10,
	}
}

// Normalize clamps samples per pixel to at least 1 and depth to at least 0
func (s SamplingConfig) Normalize() SamplingConfig {
	if s.SamplesPerPixel < 1 {
		s.SamplesPerPixel = 1
	}
	if s.MaxDepth < 0 {
		s.MaxDepth = 0
	}
	return s
}

// Background is the sky seen by rays that escape the scene: a vertical
// blend from Bottom (looking straight down) to Top (looking straight up)
type Background struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// DefaultBackground returns the white-to-blue sky gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the sky color for a ray direction
func (b Background) Color(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Mul(1.0 - a).Add(b.Top.Mul(a))
}

// Raytracer evaluates the recursive light transport for rays against a world
type Raytracer struct {
	world      geometry.Hittable
	background Background
}

// NewRaytracer creates a raytracer over a world (usually a BVH or a List)
func NewRaytracer(world geometry.Hittable, background Background) *Raytracer {
	return &Raytracer{world: world, background: background}
}

// RayColor returns the radiance carried back along a ray with depth bounces left
func (rt *Raytracer) RayColor(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	var hit material.HitRecord
	if !rt.world.Hit(ray, core.NewInterval(shadowAcneEpsilon, math.Inf(1)), &hit) {
		return rt.background.Color(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, &hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return core.MultiplyVec(scatter.Attenuation, rt.RayColor(scatter.Scattered, depth-1, sampler))
}

// PixelColor averages samplesPerPixel independent samples for pixel (i, j)
func (rt *Raytracer) PixelColor(camera *Camera, i, j int, sampling SamplingConfig, sampler core.Sampler) core.Vec3 {
	colorAccum := core.Vec3{}
	for sample := 0; sample < sampling.SamplesPerPixel; sample++ {
		ray := camera.GetRay(i, j, sampler)
		colorAccum = colorAccum.Add(rt.RayColor(ray, sampling.MaxDepth, sampler))
	}
	return colorAccum.Mul(1.0 / float64(sampling.SamplesPerPixel))
}
