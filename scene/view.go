package scene

import (
	stdmath "math"

	"sgengine/core"
	"sgengine/math"
)

// Projection selects how a View maps its volume to clip space.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// View derives view/projection matrices and a frustum from a node's global
// placement. It is attached to a node as its Recomputable hook and refreshes
// eagerly whenever the placement or a projection parameter changes.
type View struct {
	projection Projection
	fov        float32
	aspect     float32
	halfWidth  float32
	halfHeight float32
	near       float32
	far        float32

	placement  core.Transform
	viewMatrix math.Mat4
	projMatrix math.Mat4
	viewProj   math.Mat4
	frustum    Frustum

	// onChange runs after every refresh, for owners that cache derived data.
	onChange func()
}

func newPerspectiveView(fov, aspect, near, far float32) View {
	v := View{projection: Perspective, fov: fov, aspect: aspect, near: near, far: far, placement: core.NewTransform()}
	v.refresh()
	return v
}

func newOrthographicView(halfWidth, halfHeight, near, far float32) View {
	v := View{projection: Orthographic, halfWidth: halfWidth, halfHeight: halfHeight, near: near, far: far, placement: core.NewTransform()}
	if halfHeight != 0 {
		v.aspect = halfWidth / halfHeight
	}
	v.refresh()
	return v
}

// Recompute implements Recomputable.
func (v *View) Recompute(global core.Transform) {
	v.placement = global
	v.refresh()
}

func (v *View) refresh() {
	pos := v.placement.Position
	fwd, up, right := v.placement.Forward(), v.placement.Up(), v.placement.Right()

	v.viewMatrix = math.Mat4LookAt(pos, pos.Add(fwd), up)
	switch v.projection {
	case Orthographic:
		v.projMatrix = math.Mat4Orthographic(-v.halfWidth, v.halfWidth, -v.halfHeight, v.halfHeight, v.near, v.far)
		v.frustum = OrthographicFrustum(pos, fwd, up, right, v.halfWidth, v.halfHeight, v.near, v.far)
	default:
		v.projMatrix = math.Mat4Perspective(v.fov, v.aspect, v.near, v.far)
		v.frustum = PerspectiveFrustum(pos, fwd, up, right, v.fov, v.aspect, v.near, v.far)
	}
	v.viewProj = v.projMatrix.Mul(v.viewMatrix)

	if v.onChange != nil {
		v.onChange()
	}
}

// ── Projection parameters ────────────────────────────────────────────────

// SetPerspective switches to a perspective projection. fov is vertical, in radians.
func (v *View) SetPerspective(fov, aspect, near, far float32) {
	v.projection = Perspective
	v.fov, v.aspect, v.near, v.far = fov, aspect, near, far
	v.refresh()
}

// SetOrthographic switches to an orthographic projection of the given half-size.
func (v *View) SetOrthographic(halfWidth, halfHeight, near, far float32) {
	v.projection = Orthographic
	v.halfWidth, v.halfHeight, v.near, v.far = halfWidth, halfHeight, near, far
	v.refresh()
}

func (v *View) SetFov(fov float32) {
	v.fov = fov
	v.refresh()
}

// SetAspectRatio also rescales the orthographic half-width to keep the half-height.
func (v *View) SetAspectRatio(aspect float32) {
	v.aspect = aspect
	if v.projection == Orthographic {
		v.halfWidth = v.halfHeight * aspect
	}
	v.refresh()
}

func (v *View) SetNearPlane(near float32) {
	v.near = near
	v.refresh()
}

func (v *View) SetFarPlane(far float32) {
	v.far = far
	v.refresh()
}

func (v *View) Projection() Projection { return v.projection }
func (v *View) Fov() float32           { return v.fov }
func (v *View) AspectRatio() float32   { return v.aspect }
func (v *View) NearPlane() float32     { return v.near }
func (v *View) FarPlane() float32      { return v.far }

// HalfExtents returns the orthographic half-width and half-height.
func (v *View) HalfExtents() (float32, float32) { return v.halfWidth, v.halfHeight }

// ── Derived ──────────────────────────────────────────────────────────────

func (v *View) ViewMatrix() math.Mat4       { return v.viewMatrix }
func (v *View) ProjectionMatrix() math.Mat4 { return v.projMatrix }
func (v *View) ViewProjection() math.Mat4   { return v.viewProj }

// Frustum returns the current frustum. The pointer stays valid for the life
// of the View and always reflects the latest refresh.
func (v *View) Frustum() *Frustum { return &v.frustum }

// Placement is the global transform the view was last refreshed with.
func (v *View) Placement() core.Transform { return v.placement }

// Corners returns the eight corners of the viewing volume in world space:
// the near rectangle first, then the far one.
func (v *View) Corners() [8]math.Vec3 {
	pos := v.placement.Position
	fwd, up, right := v.placement.Forward(), v.placement.Up(), v.placement.Right()

	var corners [8]math.Vec3
	for i, depth := range [2]float32{v.near, v.far} {
		hw, hh := v.halfWidth, v.halfHeight
		if v.projection == Perspective {
			hh = depth * float32(stdmath.Tan(float64(v.fov)*0.5))
			hw = hh * v.aspect
		}
		center := pos.Add(fwd.Mul(depth))
		corners[i*4+0] = center.Sub(right.Mul(hw)).Sub(up.Mul(hh))
		corners[i*4+1] = center.Add(right.Mul(hw)).Sub(up.Mul(hh))
		corners[i*4+2] = center.Add(right.Mul(hw)).Add(up.Mul(hh))
		corners[i*4+3] = center.Sub(right.Mul(hw)).Add(up.Mul(hh))
	}
	return corners
}
