package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// ErrInvalidMesh is returned when face indices do not describe whole triangles over the vertex list
var ErrInvalidMesh = errors.New("geometry: invalid mesh")

// MeshOptions contains optional parameters for triangle mesh creation
type MeshOptions struct {
	Materials []material.Material // Optional per-triangle materials
	Rotation  *core.Vec3          // Optional rotation in radians around X, Y, Z (applied in that order)
	Center    *core.Vec3          // Optional pivot for the rotation
}

// NewTriangleMesh expands an indexed mesh into triangle primitives.
// Each group of 3 face indices forms one triangle.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, options *MeshOptions) ([]Primitive, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: %d face indices is not a multiple of 3", ErrInvalidMesh, len(faces))
	}

	numTriangles := len(faces) / 3
	if options != nil && options.Materials != nil && len(options.Materials) != numTriangles {
		return nil, fmt.Errorf("%w: %d materials for %d triangles", ErrInvalidMesh, len(options.Materials), numTriangles)
	}

	workingVertices := vertices
	if options != nil && options.Rotation != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			if options.Center != nil {
				vertex = vertex.Sub(*options.Center)
			}
			vertex = rotateVertex(vertex, *options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
			workingVertices[i] = vertex
		}
	}

	triangles := make([]Primitive, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, index := range [3]int{i0, i1, i2} {
			if index < 0 || index >= len(workingVertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidMesh, i, index, len(workingVertices))
			}
		}

		triangleMaterial := mat
		if options != nil && options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}
		triangles[i] = NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2], triangleMaterial)
	}

	return triangles, nil
}

// NewQuad returns the two triangles covering the parallelogram corner, corner+u, corner+u+v, corner+v.
// Both triangles face along u × v.
func NewQuad(corner, u, v core.Vec3, mat material.Material) []Primitive {
	opposite := corner.Add(u).Add(v)
	return []Primitive{
		NewTriangle(corner, corner.Add(u), opposite, mat),
		NewTriangle(corner, opposite, corner.Add(v), mat),
	}
}

// NewBox returns the 12 outward-facing triangles of a box.
// halfSize holds half-extents, so (1,1,1) creates a 2x2x2 box.
func NewBox(center, halfSize, rotation core.Vec3, mat material.Material) []Primitive {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = rotateVertex(core.MultiplyVec(corners[i], halfSize), rotation).Add(center)
	}

	// corner, u-end, v-end per face
	faces := [6][3]int{
		{4, 5, 7}, // front (Z+)
		{1, 0, 2}, // back (Z-)
		{5, 1, 6}, // right (X+)
		{0, 4, 3}, // left (X-)
		{3, 7, 2}, // top (Y+)
		{4, 0, 5}, // bottom (Y-)
	}

	triangles := make([]Primitive, 0, 12)
	for _, f := range faces {
		corner := corners[f[0]]
		triangles = append(triangles, NewQuad(corner, corners[f[1]].Sub(corner), corners[f[2]].Sub(corner), mat)...)
	}
	return triangles
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		vertex = core.NewVec3(vertex.X, vertex.Y*cos-vertex.Z*sin, vertex.Y*sin+vertex.Z*cos)
	}
	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		vertex = core.NewVec3(vertex.X*cos+vertex.Z*sin, vertex.Y, -vertex.X*sin+vertex.Z*cos)
	}
	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		vertex = core.NewVec3(vertex.X*cos-vertex.Y*sin, vertex.X*sin+vertex.Y*cos, vertex.Z)
	}
	return vertex
}
