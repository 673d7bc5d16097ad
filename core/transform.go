package core

import (
	"sgengine/math"
)

// Transform is a placement: position, per-axis scale and an orthonormal
// orientation. A nil Rotation reads as the default Basis.
type Transform struct {
	Position math.Vec3
	Scale    math.Vec3
	Rotation Orientation
}

func NewTransform() Transform {
	return NewTransformWith(NewBasis())
}

// NewTransformWith returns the default placement using o's representation.
func NewTransformWith(o Orientation) Transform {
	return Transform{
		Position: math.Vec3Zero,
		Scale:    math.Vec3One,
		Rotation: o.Identity(),
	}
}

// Orientation returns Rotation, or the default Basis when unset.
func (t Transform) Orientation() Orientation {
	if t.Rotation == nil {
		return NewBasis()
	}
	return t.Rotation
}

func (t Transform) Forward() math.Vec3 { return t.Orientation().Forward() }
func (t Transform) Up() math.Vec3      { return t.Orientation().Up() }
func (t Transform) Right() math.Vec3   { return t.Orientation().Right() }

// AxisMatrix is the rotation with each column scaled by the matching scale component.
func (t Transform) AxisMatrix() math.Mat3 {
	o := t.Orientation()
	return math.Mat3FromColumns(
		o.Right().Mul(t.Scale.X),
		o.Up().Mul(t.Scale.Y),
		o.Forward().Mul(-t.Scale.Z),
	)
}

// Matrix returns the model matrix T * R * S.
func (t Transform) Matrix() math.Mat4 {
	o := t.Orientation()
	return math.Mat4FromAxes(
		o.Right().Mul(t.Scale.X),
		o.Up().Mul(t.Scale.Y),
		o.Forward().Mul(-t.Scale.Z),
		t.Position,
	)
}

// ── Position ─────────────────────────────────────────────────────────────

func (t *Transform) Translate(delta math.Vec3) {
	t.Position = t.Position.Add(delta)
}

func (t *Transform) SetPosition(p math.Vec3) {
	t.Position = p
}

// ── Rotation ─────────────────────────────────────────────────────────────

func (t *Transform) Rotate(axis math.Vec3, angle float32) {
	t.Rotation = t.Orientation().Rotated(axis, angle)
}

// RotateAround orbits the position about point and turns the basis by the same amount.
func (t *Transform) RotateAround(point, axis math.Vec3, angle float32) {
	if axis.LengthSqr() == 0 {
		return
	}
	axis = axis.Normalize()
	offset := rotateVector(t.Position.Sub(point), axis, angle)
	t.Position = point.Add(offset)
	t.Rotate(axis, angle)
}

// RotateEuler applies rotations about X, then Y, then Z (radians).
func (t *Transform) RotateEuler(x, y, z float32) {
	t.Rotate(math.Vec3Right, x)
	t.Rotate(math.Vec3Up, y)
	t.Rotate(math.Vec3Backward, z)
}

// SetRotation resets the orientation and then applies RotateEuler.
func (t *Transform) SetRotation(x, y, z float32) {
	t.ResetRotation()
	t.RotateEuler(x, y, z)
}

// ResetRotation restores the default axes, keeping the representation.
func (t *Transform) ResetRotation() {
	t.Rotation = t.Orientation().Identity()
}

// LookAt faces target from the current position. A target at the position is a no-op.
func (t *Transform) LookAt(target, up math.Vec3) {
	t.Rotation = t.Orientation().LookingAt(target.Sub(t.Position), up)
}

// LookAtTarget faces target with +Y as the up hint.
func (t *Transform) LookAtTarget(target math.Vec3) {
	t.LookAt(target, math.Vec3Up)
}

// ── Scale ────────────────────────────────────────────────────────────────

// ScaleBy multiplies the scale per axis.
func (t *Transform) ScaleBy(factor math.Vec3) {
	t.Scale = t.Scale.MulVec(factor)
}

func (t *Transform) SetScale(s math.Vec3) {
	t.Scale = s
}

func (t *Transform) SetUniformScale(s float32) {
	t.Scale = math.Vec3{X: s, Y: s, Z: s}
}
