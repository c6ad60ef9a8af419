package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/loaders"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

var (
	// ErrInvalidScene is returned for malformed scene descriptions
	ErrInvalidScene = errors.New("scene: invalid scene description")
	// ErrUnknownMaterial is returned when an object references a material that was not declared
	ErrUnknownMaterial = errors.New("scene: unknown material")
	// ErrUnknownType is returned for unrecognized material or object types
	ErrUnknownType = errors.New("scene: unknown type")
)

// Vec is a JSON vector written as [x, y, z]
type Vec [3]float64

func (v Vec) vec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// RotDeg is a rotation in degrees around X, Y, Z (applied in that order)
type RotDeg Vec

func (r RotDeg) radians() core.Vec3 {
	const k = math.Pi / 180
	return core.NewVec3(r[0]*k, r[1]*k, r[2]*k)
}

// File is the JSON scene description. Omitted camera, sampling and
// background fields keep their defaults.
type File struct {
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Camera      *CameraCfg             `json:"camera,omitempty"`
	Sampling    *SamplingCfg           `json:"sampling,omitempty"`
	Background  *BackgroundCfg         `json:"background,omitempty"`
	Materials   map[string]MaterialCfg `json:"materials"`
	Objects     []ObjectCfg            `json:"objects"`
}

type CameraCfg struct {
	AspectRatio   *float64 `json:"aspectRatio,omitempty"`
	Width         *int     `json:"width,omitempty"`
	VFov          *float64 `json:"vfov,omitempty"`
	LookFrom      *Vec     `json:"lookFrom,omitempty"`
	LookAt        *Vec     `json:"lookAt,omitempty"`
	Up            *Vec     `json:"up,omitempty"`
	DefocusAngle  *float64 `json:"defocusAngle,omitempty"`
	FocusDistance *float64 `json:"focusDistance,omitempty"`
}

type SamplingCfg struct {
	SamplesPerPixel *int `json:"samplesPerPixel,omitempty"`
	MaxDepth        *int `json:"maxDepth,omitempty"`
}

type BackgroundCfg struct {
	Top    *Vec `json:"top,omitempty"`
	Bottom *Vec `json:"bottom,omitempty"`
}

// MaterialCfg declares a named material
type MaterialCfg struct {
	Type            string  `json:"type"` // lambertian, metal or dielectric
	Albedo          Vec     `json:"albedo"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractionIndex float64 `json:"refractionIndex,omitempty"`
}

// ObjectCfg declares one object. Which fields apply depends on Type:
//
//	sphere:   center, radius
//	triangle: vertices (3)
//	quad:     corner, u, v
//	box:      center, halfSize, rotDeg
//	mesh:     vertices and faces, or file (a .ply path relative to the scene file),
//	          offset (translation), rotDeg, center (rotation pivot, applied after offset)
type ObjectCfg struct {
	Type     string `json:"type"`
	Material string `json:"material"`

	Center   *Vec    `json:"center,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Vertices []Vec   `json:"vertices,omitempty"`
	Faces    []int   `json:"faces,omitempty"`
	File     string  `json:"file,omitempty"`
	Offset   *Vec    `json:"offset,omitempty"`
	Corner   Vec     `json:"corner"`
	U        Vec     `json:"u"`
	V        Vec     `json:"v"`
	HalfSize Vec     `json:"halfSize"`
	RotDeg   RotDeg  `json:"rotDeg"`
}

// LoadFile reads a JSON scene description from disk.
// The scene is named after the file unless the description sets a name.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene %s: %w", path, err)
	}
	defer f.Close()

	s, err := load(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Load decodes a JSON scene description. Mesh files are resolved against the working directory.
func Load(r io.Reader) (*Scene, error) {
	return load(r, "")
}

func load(r io.Reader, baseDir string) (*Scene, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var file File
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return file.Build(baseDir)
}

// Build validates the description and constructs the scene.
// Relative mesh file paths are resolved against baseDir.
func (f File) Build(baseDir string) (*Scene, error) {
	s := New(f.Name)
	s.Description = f.Description
	f.Camera.apply(&s.CameraConfig)
	f.Sampling.apply(s)
	f.Background.apply(s)

	materials := make(map[string]material.Material, len(f.Materials))
	for name, cfg := range f.Materials {
		mat, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	for i, obj := range f.Objects {
		mat, ok := materials[obj.Material]
		if !ok {
			return nil, fmt.Errorf("object %d (%s): %w %q", i, obj.Type, ErrUnknownMaterial, obj.Material)
		}
		primitives, err := obj.Build(mat, baseDir)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		s.Add(primitives...)
	}

	return s, nil
}

func (c *CameraCfg) apply(config *renderer.CameraConfig) {
	if c == nil {
		return
	}
	if c.AspectRatio != nil {
		config.AspectRatio = *c.AspectRatio
	}
	if c.Width != nil {
		config.Width = *c.Width
	}
	if c.VFov != nil {
		config.VFov = *c.VFov
	}
	if c.LookFrom != nil {
		config.LookFrom = c.LookFrom.vec3()
	}
	if c.LookAt != nil {
		config.LookAt = c.LookAt.vec3()
	}
	if c.Up != nil {
		config.Up = c.Up.vec3()
	}
	if c.DefocusAngle != nil {
		config.DefocusAngle = *c.DefocusAngle
	}
	if c.FocusDistance != nil {
		config.FocusDistance = *c.FocusDistance
	}
}

func (c *SamplingCfg) apply(s *Scene) {
	if c == nil {
		return
	}
	if c.SamplesPerPixel != nil {
		s.SamplingConfig.SamplesPerPixel = *c.SamplesPerPixel
	}
	if c.MaxDepth != nil {
		s.SamplingConfig.MaxDepth = *c.MaxDepth
	}
}

func (c *BackgroundCfg) apply(s *Scene) {
	if c == nil {
		return
	}
	if c.Top != nil {
		s.Background.Top = c.Top.vec3()
	}
	if c.Bottom != nil {
		s.Background.Bottom = c.Bottom.vec3()
	}
}

// Build constructs the material
func (m MaterialCfg) Build() (material.Material, error) {
	switch m.Type {
	case "lambertian":
		return material.NewLambertian(m.Albedo.vec3()), nil
	case "metal":
		return material.NewMetal(m.Albedo.vec3(), m.Fuzz), nil
	case "dielectric":
		if m.RefractionIndex <= 0 {
			return nil, fmt.Errorf("%w: refractionIndex must be > 0, got %g", ErrInvalidScene, m.RefractionIndex)
		}
		return material.NewDielectric(m.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("%w: material type %q", ErrUnknownType, m.Type)
	}
}

// Build constructs the primitives for the object
func (o ObjectCfg) Build(mat material.Material, baseDir string) ([]geometry.Primitive, error) {
	switch o.Type {
	case "sphere":
		if o.Center == nil {
			return nil, fmt.Errorf("%w: sphere needs a center", ErrInvalidScene)
		}
		if o.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius must be > 0, got %g", ErrInvalidScene, o.Radius)
		}
		return []geometry.Primitive{geometry.NewSphere(o.Center.vec3(), o.Radius, mat)}, nil

	case "triangle":
		if len(o.Vertices) != 3 {
			return nil, fmt.Errorf("%w: triangle needs 3 vertices, got %d", ErrInvalidScene, len(o.Vertices))
		}
		return []geometry.Primitive{
			geometry.NewTriangle(o.Vertices[0].vec3(), o.Vertices[1].vec3(), o.Vertices[2].vec3(), mat),
		}, nil

	case "quad":
		return geometry.NewQuad(o.Corner.vec3(), o.U.vec3(), o.V.vec3(), mat), nil

	case "box":
		if o.Center == nil {
			return nil, fmt.Errorf("%w: box needs a center", ErrInvalidScene)
		}
		return geometry.NewBox(o.Center.vec3(), o.HalfSize.vec3(), o.RotDeg.radians(), mat), nil

	case "mesh":
		vertices, faces, err := o.meshData(baseDir)
		if err != nil {
			return nil, err
		}
		if o.Offset != nil {
			offset := o.Offset.vec3()
			for i := range vertices {
				vertices[i] = vertices[i].Add(offset)
			}
		}
		options := &geometry.MeshOptions{}
		if o.RotDeg != (RotDeg{}) {
			rotation := o.RotDeg.radians()
			options.Rotation = &rotation
		}
		if o.Center != nil {
			center := o.Center.vec3()
			options.Center = &center
		}
		primitives, err := geometry.NewTriangleMesh(vertices, faces, mat, options)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
		return primitives, nil

	default:
		return nil, fmt.Errorf("%w: object type %q", ErrUnknownType, o.Type)
	}
}

// meshData returns the inline mesh, or the mesh read from the PLY file
func (o ObjectCfg) meshData(baseDir string) ([]core.Vec3, []int, error) {
	if o.File == "" {
		vertices := make([]core.Vec3, len(o.Vertices))
		for i, v := range o.Vertices {
			vertices[i] = v.vec3()
		}
		return vertices, o.Faces, nil
	}

	if len(o.Vertices) > 0 || len(o.Faces) > 0 {
		return nil, nil, fmt.Errorf("%w: mesh sets both file and inline data", ErrInvalidScene)
	}

	path := o.File
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	ply, err := loaders.LoadPLY(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return ply.Vertices, ply.Faces, nil
}
