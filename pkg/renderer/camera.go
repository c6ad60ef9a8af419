package renderer

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	AspectRatio   float64   // Ratio of image width over height
	Width         int       // Rendered image width in pixels
	VFov          float64   // Vertical field of view in degrees
	LookFrom      core.Vec3 // Point camera is looking from
	LookAt        core.Vec3 // Point camera is looking at
	Up            core.Vec3 // Camera-relative "up" direction
	DefocusAngle  float64   // Variation angle of rays through each pixel, in degrees
	FocusDistance float64   // Distance from camera to the plane of perfect focus
}

// DefaultCameraConfig returns the default camera: a 100x100 pinhole looking down -Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:   1.0,
		Width:         100,
		VFov:          90,
		LookFrom:      core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		DefocusAngle:  0,
		FocusDistance: 10,
	}
}

// Normalize returns the config with out-of-range values replaced by usable ones
func (c CameraConfig) Normalize() CameraConfig {
	defaults := DefaultCameraConfig()
	if c.Width < 1 {
		c.Width = 1
	}
	if !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0) {
		c.AspectRatio = defaults.AspectRatio
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		c.VFov = defaults.VFov
	}
	if !(c.FocusDistance > 0) {
		c.FocusDistance = defaults.FocusDistance
	}
	if c.DefocusAngle < 0 {
		c.DefocusAngle = 0
	}
	if core.NearZero(c.Up) {
		c.Up = defaults.Up
	}
	return c
}

// ImageHeight derives the image height from width and aspect ratio, at least 1
func (c CameraConfig) ImageHeight() int {
	height := int(float64(c.Width) / c.AspectRatio)
	if height < 1 {
		height = 1
	}
	return height
}

// Camera generates primary rays for an image grid
type Camera struct {
	config       CameraConfig
	width        int
	height       int
	center       core.Vec3 // Camera center
	pixel00      core.Vec3 // Location of pixel (0, 0), the upper-left corner
	pixelDeltaU  core.Vec3 // Offset to pixel to the right
	pixelDeltaV  core.Vec3 // Offset to pixel below
	u, v, w      core.Vec3 // Camera frame basis vectors
	defocusDiskU core.Vec3 // Defocus disk horizontal radius
	defocusDiskV core.Vec3 // Defocus disk vertical radius
}

// NewCamera creates a camera from a configuration, normalizing invalid values first
func NewCamera(config CameraConfig) *Camera {
	config = config.Normalize()

	c := &Camera{
		config: config,
		width:  config.Width,
		height: config.ImageHeight(),
		center: config.LookFrom,
	}

	// Viewport dimensions
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * (float64(c.width) / float64(c.height))

	// Orthonormal basis for the camera frame
	c.w = config.LookFrom.Sub(config.LookAt).Normalize()
	if core.NearZero(c.w) {
		c.w = core.NewVec3(0, 0, 1)
	}
	c.u = config.Up.Cross(c.w).Normalize()
	if core.NearZero(c.u) {
		// Up is parallel to the view direction; any perpendicular will do
		c.u = c.w.Ortho()
	}
	c.v = c.w.Cross(c.u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := c.u.Mul(viewportWidth)
	viewportV := c.v.Mul(-viewportHeight)

	c.pixelDeltaU = viewportU.Mul(1.0 / float64(c.width))
	c.pixelDeltaV = viewportV.Mul(1.0 / float64(c.height))

	viewportUpperLeft := c.center.
		Sub(c.w.Mul(config.FocusDistance)).
		Sub(viewportU.Mul(0.5)).
		Sub(viewportV.Mul(0.5))
	c.pixel00 = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Mul(0.5))

	defocusRadius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))
	c.defocusDiskU = c.u.Mul(defocusRadius)
	c.defocusDiskV = c.v.Mul(defocusRadius)

	return c
}

// GetRay returns a ray toward a random point in pixel (i, j), starting at the
// camera center or, with defocus enabled, a random point on the defocus disk
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := core.SamplePixelOffset(sampler.Get2D())
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Mul(float64(i) + offset.X)).
		Add(c.pixelDeltaV.Mul(float64(j) + offset.Y))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(origin, pixelSample.Sub(origin))
}

// defocusDiskSample returns a random point on the camera defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.SamplePointInUnitDisk(sampler.Get2D())
	return c.center.Add(c.defocusDiskU.Mul(p.X)).Add(c.defocusDiskV.Mul(p.Y))
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Config returns the normalized configuration the camera was built from
func (c *Camera) Config() CameraConfig { return c.config }

// Basis returns the camera frame: u points right, v points up, w points backward
func (c *Camera) Basis() (u, v, w core.Vec3) {
	return c.u, c.v, c.w
}

// DefocusRadius returns the radius of the defocus disk
func (c *Camera) DefocusRadius() float64 {
	return c.defocusDiskU.Norm()
}
