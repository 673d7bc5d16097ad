package core

import (
	"github.com/go-gl/mathgl/mgl32"

	"sgengine/math"
)

// QuatOrientation stores an orientation as a unit quaternion. The zero value
// is the identity.
type QuatOrientation struct {
	q mgl32.Quat
}

func NewQuatOrientation() QuatOrientation {
	return QuatOrientation{q: mgl32.QuatIdent()}
}

// QuatOrientationFrom wraps an existing rotation, e.g. one read from a glTF node.
func QuatOrientationFrom(q mgl32.Quat) QuatOrientation {
	if q.Len() == 0 {
		return NewQuatOrientation()
	}
	return QuatOrientation{q: q.Normalize()}
}

func (o QuatOrientation) quat() mgl32.Quat {
	if o.q.W == 0 && o.q.V == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return o.q
}

func (o QuatOrientation) Quat() mgl32.Quat { return o.quat() }

func (o QuatOrientation) Forward() math.Vec3 { return fromMGL(o.quat().Rotate(mgl32.Vec3{0, 0, -1})) }
func (o QuatOrientation) Up() math.Vec3      { return fromMGL(o.quat().Rotate(mgl32.Vec3{0, 1, 0})) }
func (o QuatOrientation) Right() math.Vec3   { return fromMGL(o.quat().Rotate(mgl32.Vec3{1, 0, 0})) }

func (o QuatOrientation) WithAxes(forward, up, right math.Vec3) Orientation {
	back := forward.Negate()
	m := mgl32.Mat3{
		right.X, right.Y, right.Z,
		up.X, up.Y, up.Z,
		back.X, back.Y, back.Z,
	}
	return QuatOrientation{q: mgl32.Mat4ToQuat(m.Mat4()).Normalize()}
}

func (o QuatOrientation) Identity() Orientation { return NewQuatOrientation() }

func (o QuatOrientation) Rotated(axis math.Vec3, angle float32) Orientation {
	if axis.LengthSqr() == 0 {
		return o
	}
	r := mgl32.QuatRotate(angle, toMGL(axis.Normalize()))
	return QuatOrientation{q: r.Mul(o.quat()).Normalize()}
}

func (o QuatOrientation) LookingAt(direction, up math.Vec3) Orientation {
	if direction.LengthSqr() == 0 {
		return o
	}
	b := NewBasis().LookingAt(direction, up)
	return o.WithAxes(b.Forward(), b.Up(), b.Right())
}

func toMGL(v math.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func fromMGL(v mgl32.Vec3) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
