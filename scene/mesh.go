package scene

import (
	"sgengine/core"
	"sgengine/math"
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// Model-space box, computed by CreateMeshFromData.
	LocalBounds    BoundingBox
	HasLocalBounds bool

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its model-space bounds.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	if len(vertices) > 0 {
		lo, hi := vertices[0].Position, vertices[0].Position
		for _, v := range vertices[1:] {
			lo = lo.Min(v.Position)
			hi = hi.Max(v.Position)
		}
		m.LocalBounds = BoundsFromMinMax(lo, hi)
		m.HasLocalBounds = true
	}
	return m
}

// IndexCount is the number of indices to draw.
func (m *Mesh) IndexCount() int32 {
	return int32(len(m.Indices))
}

// cubeFaces lists each face normal with two in-plane axes where u x v = normal,
// so corners emitted in (-u,-v) (+u,-v) (+u,+v) (-u,+v) order wind counter-clockwise.
var cubeFaces = [6][3]math.Vec3{
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {X: -1}, {Y: 1}},
	{{X: 1}, {Z: -1}, {Y: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: -1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
}

// CreateCube builds an axis-aligned cube of the given edge length centered on the origin.
func CreateCube(size float32) *Mesh {
	s := size / 2
	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	signs := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		base := uint32(len(vertices))
		for _, sg := range signs {
			p := n.Add(u.Mul(sg[0])).Add(v.Mul(sg[1])).Mul(s)
			vertices = append(vertices, core.Vertex{Position: p, Normal: n, Color: core.ColorWhite})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	return CreateMeshFromData("Cube", vertices, indices)
}

// CreatePlane builds a flat square on the XZ plane facing +Y.
func CreatePlane(size float32) *Mesh {
	s := size / 2
	up := math.Vec3{Y: 1}
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -s, Z: s}, Normal: up, Color: core.ColorWhite},
		{Position: math.Vec3{X: s, Z: s}, Normal: up, Color: core.ColorWhite},
		{Position: math.Vec3{X: s, Z: -s}, Normal: up, Color: core.ColorWhite},
		{Position: math.Vec3{X: -s, Z: -s}, Normal: up, Color: core.ColorWhite},
	}
	return CreateMeshFromData("Plane", vertices, []uint32{0, 1, 2, 2, 3, 0})
}
