package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// ErrInvalidPLY is returned for PLY files that cannot be read as a triangle mesh
var ErrInvalidPLY = errors.New("loaders: invalid PLY file")

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	Elements    []PLYElement // In file order
}

// PLYElement is one element declaration and its properties
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYMesh holds the vertex positions and triangle indices of a PLY file.
// Polygons with more than three vertices are fan-triangulated.
type PLYMesh struct {
	Vertices []core.Vec3
	Faces    []int // 3 indices per triangle
}

// LoadPLY loads a PLY file from disk
func LoadPLY(filename string) (*PLYMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// ReadPLY reads an ascii or binary PLY stream
func ReadPLY(r io.Reader) (*PLYMesh, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValues{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValues{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValues{r: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}

	return readElements(header, values)
}

// parsePLYHeader reads up to and including the end_header line
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var current *PLYElement
	first := true

	for {
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, fmt.Errorf("%w: header ended before end_header", ErrInvalidPLY)
		}
		line = strings.TrimSpace(line)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidPLY)
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad format line %q", ErrInvalidPLY, line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrInvalidPLY, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrInvalidPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
			switch parts[1] {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			}
		case "property":
			if current == nil {
				return nil, fmt.Errorf("%w: property before any element", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("%w: unexpected header line %q", ErrInvalidPLY, line)
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrInvalidPLY)
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: invalid list property definition", ErrInvalidPLY)
		}
		if getTypeSize(parts[1]) == 0 || getTypeSize(parts[2]) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unsupported list types %s %s", ErrInvalidPLY, parts[1], parts[2])
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}

	if getTypeSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("%w: unsupported data type %s", ErrInvalidPLY, parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

const (
	// maxPreallocate caps slice capacity hints taken from header counts
	maxPreallocate = 1 << 16
	// maxListLength bounds a single list property, such as the vertices of one face
	maxListLength = 1 << 12
)

// readElements reads every element in header order, keeping vertex positions and face indices.
// Header counts are only hints: a short body fails on the first missing value.
func readElements(header *PLYHeader, values valueReader) (*PLYMesh, error) {
	mesh := &PLYMesh{
		Vertices: make([]core.Vec3, 0, min(header.VertexCount, maxPreallocate)),
		Faces:    make([]int, 0, 3*min(header.FaceCount, maxPreallocate)),
	}

	for _, element := range header.Elements {
		// An element without properties occupies no bytes
		if len(element.Props) == 0 {
			continue
		}
		for i := 0; i < element.Count; i++ {
			var position [3]float64
			for _, prop := range element.Props {
				if prop.IsList {
					list, err := readList(values, prop)
					if err != nil {
						return nil, fmt.Errorf("%w: %s %d: %v", ErrInvalidPLY, element.Name, i, err)
					}
					if element.Name == "face" && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
						if err := appendPolygon(mesh, list, header.VertexCount); err != nil {
							return nil, fmt.Errorf("%w: face %d: %v", ErrInvalidPLY, i, err)
						}
					}
					continue
				}

				value, err := values.read(prop.Type)
				if err != nil {
					return nil, fmt.Errorf("%w: %s %d property %s: %v", ErrInvalidPLY, element.Name, i, prop.Name, err)
				}
				if element.Name == "vertex" {
					switch prop.Name {
					case "x":
						position[0] = value
					case "y":
						position[1] = value
					case "z":
						position[2] = value
					}
				}
			}
			if element.Name == "vertex" {
				mesh.Vertices = append(mesh.Vertices, core.NewVec3(position[0], position[1], position[2]))
			}
		}
	}

	return mesh, nil
}

func readList(values valueReader, prop PLYProperty) ([]float64, error) {
	count, err := values.read(prop.ListType)
	if err != nil {
		return nil, err
	}
	if count < 0 || count > maxListLength || count != math.Trunc(count) {
		return nil, fmt.Errorf("invalid list length %g", count)
	}

	list := make([]float64, 0, min(int(count), 16))
	for i := 0; i < int(count); i++ {
		value, err := values.read(prop.DataType)
		if err != nil {
			return nil, err
		}
		list = append(list, value)
	}
	return list, nil
}

// appendPolygon fan-triangulates a polygon around its first vertex
func appendPolygon(mesh *PLYMesh, indices []float64, vertexCount int) error {
	if len(indices) < 3 {
		return fmt.Errorf("polygon with %d vertices", len(indices))
	}
	for _, index := range indices {
		if index != math.Trunc(index) {
			return fmt.Errorf("vertex index %g is not an integer", index)
		}
		if index < 0 || index >= float64(vertexCount) {
			return fmt.Errorf("vertex index %g out of range [0, %d)", index, vertexCount)
		}
	}
	for k := 1; k+1 < len(indices); k++ {
		mesh.Faces = append(mesh.Faces, int(indices[0]), int(indices[k]), int(indices[k+1]))
	}
	return nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unsupported
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// valueReader yields the next scalar of the body as a float64
type valueReader interface {
	read(dataType string) (float64, error)
}

type asciiValues struct {
	scanner *bufio.Scanner
}

func (a *asciiValues) read(string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

type binaryValues struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValues) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.r, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default:
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}
