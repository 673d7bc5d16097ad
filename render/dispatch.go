package render

import (
	"sgengine/math"
	"sgengine/scene"
)

// Draw is one object to render with its model matrix.
type Draw struct {
	Object *Object
	Model  math.Mat4
}

// ShadowPass renders shadow casters into one light's depth map, or one cube
// face of a point light.
type ShadowPass struct {
	Kind        scene.LightKind
	Spot        *scene.SpotLight
	Directional *scene.DirectionalLight
	Point       *scene.PointLight
	// Face is the cube face for point lights, 0 otherwise.
	Face int
	// Index is the light's position in its World slice.
	Index int

	ViewProjection math.Mat4
	Draws          []Draw
}

// Stats summarizes one plan.
type Stats struct {
	Objects       int
	Visible       int
	Culled        int
	ShadowPasses  int
	ShadowDraws   int
	SkippedLights int
}

// Plan is everything a backend needs to draw one frame.
type Plan struct {
	View           math.Mat4
	Projection     math.Mat4
	ViewProjection math.Mat4
	CameraPosition math.Vec3

	Shadows []ShadowPass
	Main    []Draw
	Stats   Stats
}

// Dispatcher turns a World into a Plan each frame. The returned plan and its
// slices are reused by the next call.
type Dispatcher struct {
	plan Plan
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Frame runs behaviours for the frame, then builds the plan.
func (d *Dispatcher) Frame(w *World, dt float64) *Plan {
	w.Loop.Tick(dt)
	return d.Build(w)
}

// Build culls objects against the camera and, for every light that reaches
// the camera's view, against the light's own frustum(s).
func (d *Dispatcher) Build(w *World) *Plan {
	p := &d.plan
	p.Main = p.Main[:0]
	p.Shadows = p.Shadows[:0]
	p.Stats = Stats{}

	if w.Camera == nil {
		return p
	}
	p.View = w.Camera.ViewMatrix()
	p.Projection = w.Camera.ProjectionMatrix()
	p.ViewProjection = w.Camera.ViewProjection()
	p.CameraPosition = w.Camera.Placement().Position
	camFrustum := w.Camera.Frustum()

	for _, o := range w.objects {
		if !w.Graph.Alive(o.Node) {
			continue
		}
		p.Stats.Objects++
		if d.visible(w, o, camFrustum) {
			p.Main = append(p.Main, Draw{Object: o, Model: w.Graph.Global(o.Node).Matrix()})
		} else {
			p.Stats.Culled++
		}
	}
	p.Stats.Visible = len(p.Main)

	for i, l := range w.Spots {
		if !l.FrustumCheck(camFrustum) {
			p.Stats.SkippedLights++
			continue
		}
		pass := d.nextPass()
		pass.Kind, pass.Spot, pass.Index = scene.LightSpot, l, i
		pass.ViewProjection = l.ViewProjection()
		d.collectCasters(w, pass, l.Frustum())
	}
	for i, l := range w.Directionals {
		if !l.FrustumCheck(camFrustum) {
			p.Stats.SkippedLights++
			continue
		}
		pass := d.nextPass()
		pass.Kind, pass.Directional, pass.Index = scene.LightDirectional, l, i
		pass.ViewProjection = l.ViewProjection()
		d.collectCasters(w, pass, l.Frustum())
	}
	for i, l := range w.Points {
		if !l.FrustumCheck(camFrustum) {
			p.Stats.SkippedLights++
			continue
		}
		for face := 0; face < scene.CubeFaces; face++ {
			pass := d.nextPass()
			pass.Kind, pass.Point, pass.Index, pass.Face = scene.LightPoint, l, i, face
			pass.ViewProjection = l.FaceViewProjection(face)
			d.collectCasters(w, pass, l.FaceFrustum(face))
		}
	}
	p.Stats.ShadowPasses = len(p.Shadows)
	return p
}

func (d *Dispatcher) visible(w *World, o *Object, f *scene.Frustum) bool {
	return !o.PerformFrustumCheck || w.Graph.Visible(o.Node, f)
}

// nextPass appends a cleared pass, keeping the Draws buffer of whatever pass
// previously occupied the slot.
func (d *Dispatcher) nextPass() *ShadowPass {
	p := &d.plan
	n := len(p.Shadows)
	if n < cap(p.Shadows) {
		p.Shadows = p.Shadows[:n+1]
		draws := p.Shadows[n].Draws[:0]
		p.Shadows[n] = ShadowPass{Draws: draws}
	} else {
		p.Shadows = append(p.Shadows, ShadowPass{})
	}
	return &p.Shadows[n]
}

func (d *Dispatcher) collectCasters(w *World, pass *ShadowPass, f *scene.Frustum) {
	for _, o := range w.objects {
		if !o.CastsShadows || !w.Graph.Alive(o.Node) || !d.visible(w, o, f) {
			continue
		}
		pass.Draws = append(pass.Draws, Draw{Object: o, Model: w.Graph.Global(o.Node).Matrix()})
	}
	d.plan.Stats.ShadowDraws += len(pass.Draws)
}
