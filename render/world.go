package render

import (
	"github.com/sirupsen/logrus"

	"sgengine/core"
	"sgengine/scene"
)

// Object is something drawable attached to a graph node.
type Object struct {
	Name  string
	Node  scene.NodeID
	Mesh  *scene.Mesh
	Color core.Color

	CastsShadows        bool
	ReceivesShadows     bool
	Lit                 bool
	PerformFrustumCheck bool
}

// World gathers a graph with the camera, lights, objects and behaviours that
// live in it.
type World struct {
	Graph  *scene.Graph
	Camera *scene.Camera
	Loop   scene.Loop

	Ambients     []*scene.AmbientLight
	Spots        []*scene.SpotLight
	Directionals []*scene.DirectionalLight
	Points       []*scene.PointLight

	objects []*Object
}

// NewWorld wraps g. The camera is set by the caller.
func NewWorld(g *scene.Graph) *World {
	return &World{Graph: g}
}

// AddObject creates a node for mesh and registers it with default flags:
// lit, casting and receiving shadows, frustum checked.
func (w *World) AddObject(name string, mesh *scene.Mesh) *Object {
	return w.AttachObject(w.Graph.Create(name), mesh)
}

// AttachObject registers an existing node as drawable. The node's bounds
// are seeded from the mesh unless it already has some.
func (w *World) AttachObject(node scene.NodeID, mesh *scene.Mesh) *Object {
	o := &Object{
		Name:                w.Graph.Name(node),
		Node:                node,
		Mesh:                mesh,
		Color:               core.ColorWhite,
		CastsShadows:        true,
		ReceivesShadows:     true,
		Lit:                 true,
		PerformFrustumCheck: true,
	}
	if _, ok := w.Graph.Bounds(node); !ok && mesh != nil && mesh.HasLocalBounds {
		w.Graph.SetBounds(node, mesh.LocalBounds)
	}
	w.objects = append(w.objects, o)
	scene.Logger().WithFields(logrus.Fields{"object": o.Name, "node": node}).Debug("object added")
	return o
}

// RemoveObject unregisters o. Its node is left in the graph.
func (w *World) RemoveObject(o *Object) bool {
	for i, x := range w.objects {
		if x == o {
			w.objects = append(w.objects[:i], w.objects[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) Objects() []*Object {
	return w.objects
}

func (w *World) AddAmbient(l *scene.AmbientLight)         { w.Ambients = append(w.Ambients, l) }
func (w *World) AddSpot(l *scene.SpotLight)               { w.Spots = append(w.Spots, l) }
func (w *World) AddDirectional(l *scene.DirectionalLight) { w.Directionals = append(w.Directionals, l) }
func (w *World) AddPoint(l *scene.PointLight)             { w.Points = append(w.Points, l) }

// LightCount counts lights of every kind.
func (w *World) LightCount() int {
	return len(w.Ambients) + len(w.Spots) + len(w.Directionals) + len(w.Points)
}
