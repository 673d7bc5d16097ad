package io

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/sirupsen/logrus"

	"sgengine/core"
	"sgengine/math"
	"sgengine/render"
	"sgengine/scene"
)

// GLTFResult lists what ImportGLTF added to the world.
type GLTFResult struct {
	Roots   []scene.NodeID // top-level nodes of the imported hierarchy
	Nodes   []scene.NodeID // one per glTF node, in document order
	Objects []*render.Object
}

// ImportGLTF opens a .glb or .gltf file and adds its node hierarchy to w.
// See ImportDocument.
func ImportGLTF(w *render.World, path string) (*GLTFResult, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf open %q", path)
	}
	res, err := ImportDocument(w, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "gltf import %q", path)
	}
	return res, nil
}

// ImportDocument creates one graph node per glTF node with its TRS as the
// local transform, links the hierarchy, and registers every mesh primitive
// as an object. A node with several primitives gets one child per primitive.
// Object bounds come from the primitive's model-space box.
func ImportDocument(w *render.World, doc *gltf.Document) (*GLTFResult, error) {
	meshPrims := make([][]*scene.Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				scene.Logger().WithFields(logrus.Fields{"mesh": mi, "primitive": pi}).WithError(err).Warn("gltf: skipping primitive")
				continue
			}
			meshPrims[mi] = append(meshPrims[mi], m)
		}
	}

	g := w.Graph
	res := &GLTFResult{Nodes: make([]scene.NodeID, len(doc.Nodes))}
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		id := g.Create(name)
		g.SetLocal(id, nodeTransform(gn))
		res.Nodes[i] = id

		if gn.Mesh == nil || *gn.Mesh >= len(meshPrims) {
			continue
		}
		prims := meshPrims[*gn.Mesh]
		switch len(prims) {
		case 0:
		case 1:
			res.Objects = append(res.Objects, w.AttachObject(id, prims[0]))
		default:
			for pi, p := range prims {
				child := g.Create(fmt.Sprintf("%s_prim%d", name, pi))
				g.AddChild(id, child, true)
				res.Objects = append(res.Objects, w.AttachObject(child, p))
			}
		}
	}

	hasParent := make([]bool, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < 0 || c >= len(doc.Nodes) {
				return nil, errors.Errorf("node %d: child index %d out of range", i, c)
			}
			if hasParent[c] {
				return nil, errors.Errorf("node %d has more than one parent", c)
			}
			if !g.AddChild(res.Nodes[i], res.Nodes[c], true) {
				return nil, errors.Errorf("node %d: cannot parent node %d", i, c)
			}
			hasParent[c] = true
		}
	}

	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			if rootIdx >= 0 && rootIdx < len(res.Nodes) {
				res.Roots = append(res.Roots, res.Nodes[rootIdx])
			}
		}
	} else {
		for i, id := range res.Nodes {
			if !hasParent[i] {
				res.Roots = append(res.Roots, id)
			}
		}
	}
	return res, nil
}

// nodeTransform converts a glTF node placement into a Transform. A non-zero
// matrix wins over TRS, as the glTF format requires.
func nodeTransform(gn *gltf.Node) core.Transform {
	t := core.NewTransform()
	if gn.Matrix != [16]float64{} && gn.Matrix != identityMatrix {
		return matrixTransform(gn.Matrix)
	}

	tr := gn.TranslationOrDefault()
	t.Position = math.Vec3{X: float32(tr[0]), Y: float32(tr[1]), Z: float32(tr[2])}

	sc := gn.ScaleOrDefault()
	t.Scale = math.Vec3{X: float32(sc[0]), Y: float32(sc[1]), Z: float32(sc[2])}

	r := gn.RotationOrDefault() // [x, y, z, w]
	q := mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}.Normalize()
	t.Rotation = core.QuatOrientationFrom(q)
	return t
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// matrixTransform splits a column-major TRS matrix. Shear is dropped.
func matrixTransform(m [16]float64) core.Transform {
	col := func(i int) math.Vec3 {
		return math.Vec3{X: float32(m[i*4]), Y: float32(m[i*4+1]), Z: float32(m[i*4+2])}
	}
	x, y, z := col(0), col(1), col(2)

	t := core.NewTransform()
	t.Position = col(3)
	t.Scale = math.Vec3{X: x.Length(), Y: y.Length(), Z: z.Length()}
	if t.Scale.X == 0 || t.Scale.Y == 0 || t.Scale.Z == 0 {
		return t
	}
	t.Rotation = t.Orientation().WithAxes(z.Negate().Normalize(), y.Normalize(), x.Normalize())
	return t
}

// loadPrimitive converts one glTF mesh primitive into a scene.Mesh.
func loadPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*scene.Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, errors.Errorf("%s: unsupported primitive mode %d", name, prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.Errorf("%s: no POSITION attribute", name)
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: positions", name)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: positions", name)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acc, err = accessor(doc, idx); err == nil {
			normals, err = modeler.ReadNormal(doc, acc, nil)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s: normals", name)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   math.Vec3Up,
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = accessor(doc, *prim.Indices); err == nil {
			indices, err = modeler.ReadIndices(doc, acc, nil)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s: indices", name)
		}
		for _, i := range indices {
			if int(i) >= len(verts) {
				return nil, errors.Errorf("%s: index %d out of range for %d vertices", name, i, len(verts))
			}
		}
	}
	return scene.CreateMeshFromData(name, verts, indices), nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, errors.Errorf("accessor %d out of range (%d accessors)", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}
