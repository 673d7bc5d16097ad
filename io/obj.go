package io

import (
	"bufio"
	stdio "io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sgengine/core"
	"sgengine/math"
	"sgengine/scene"
)

// LoadOBJ parses a Wavefront .obj file into one mesh per object/group.
// Materials and texture coordinates are ignored.
func LoadOBJ(path string) ([]*scene.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open OBJ file")
	}
	defer f.Close()

	meshes, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, errors.Wrapf(err, "OBJ %q", path)
	}
	return meshes, nil
}

// objGroup accumulates one o/g section. Face corners are deduplicated by
// their "v/vt/vn" reference.
type objGroup struct {
	name       string
	vertices   []core.Vertex
	indices    []uint32
	corners    map[string]uint32
	hasNormals bool
}

func newObjGroup(name string) *objGroup {
	return &objGroup{name: name, corners: make(map[string]uint32)}
}

// ParseOBJ reads OBJ text from r. name prefixes the mesh names. Faces are
// fan-triangulated; groups without normals get area-weighted vertex normals.
func ParseOBJ(r stdio.Reader, name string) ([]*scene.Mesh, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		meshes    []*scene.Mesh
	)
	current := newObjGroup("default")

	flush := func() {
		if len(current.indices) == 0 {
			return
		}
		if !current.hasNormals {
			generateNormals(current.vertices, current.indices)
		}
		meshes = append(meshes, scene.CreateMeshFromData(name+":"+current.name, current.vertices, current.indices))
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)

		switch parts[0] {
		case "v", "vn":
			v, err := parseVec3(parts[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			if parts[0] == "v" {
				positions = append(positions, v)
			} else {
				normals = append(normals, v)
			}

		case "f":
			if len(parts) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			face := make([]uint32, 0, len(parts)-1)
			for _, ref := range parts[1:] {
				if idx, ok := current.corners[ref]; ok {
					face = append(face, idx)
					continue
				}
				v, hasNormal, err := parseFaceVertex(ref, positions, normals)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNo)
				}
				current.hasNormals = current.hasNormals || hasNormal
				idx := uint32(len(current.vertices))
				current.vertices = append(current.vertices, v)
				current.corners[ref] = idx
				face = append(face, idx)
			}
			// Fan triangulation
			for i := 2; i < len(face); i++ {
				current.indices = append(current.indices, face[0], face[i-1], face[i])
			}

		case "o", "g":
			flush()
			groupName := "unnamed"
			if len(parts) > 1 {
				groupName = parts[1]
			}
			current = newObjGroup(groupName)

		case "vt", "s", "usemtl", "mtllib":
			// not needed for placement or shading

		default:
			scene.Logger().WithFields(logrus.Fields{"obj": name, "line": lineNo}).Debugf("unknown OBJ statement %q", parts[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read")
	}
	flush()

	if len(meshes) == 0 {
		return nil, errors.New("no mesh data found in OBJ file")
	}
	return meshes, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, errors.Errorf("expected 3 components, got %d", len(fields))
	}
	var c [3]float32
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, errors.Wrapf(err, "component %d", i)
		}
		c[i] = float32(f)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// parseFaceVertex resolves an OBJ face vertex reference like "v", "v/vt", "v//vn"
// or "v/vt/vn". Negative indices count back from the latest entry.
func parseFaceVertex(ref string, positions, normals []math.Vec3) (core.Vertex, bool, error) {
	v := core.Vertex{Color: core.ColorWhite}
	parts := strings.Split(ref, "/")

	idx, err := resolveIndex(parts[0], len(positions))
	if err != nil {
		return v, false, errors.Wrapf(err, "vertex %q", ref)
	}
	v.Position = positions[idx]

	if len(parts) < 3 || parts[2] == "" {
		return v, false, nil
	}
	idx, err = resolveIndex(parts[2], len(normals))
	if err != nil {
		return v, false, errors.Wrapf(err, "normal %q", ref)
	}
	v.Normal = normals[idx]
	return v, true, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = n + i + 1
	}
	if i < 1 || i > n {
		return 0, errors.Errorf("index %s out of range 1..%d", s, n)
	}
	return i - 1, nil
}

// generateNormals computes area-weighted vertex normals.
func generateNormals(vertices []core.Vertex, indices []uint32) {
	accum := make([]math.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0, p1, p2 := vertices[i0].Position, vertices[i1].Position, vertices[i2].Position
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		vertices[i].Normal = accum[i].Normalize()
	}
}
