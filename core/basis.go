package core

import (
	stdmath "math"

	"sgengine/math"
)

// Orientation is the rotational part of a placement, described by its three
// axes. Implementations are values: every operation returns a new
// Orientation of the same representation and leaves the receiver alone, so
// a Transform can be copied freely.
type Orientation interface {
	Forward() math.Vec3
	Up() math.Vec3
	Right() math.Vec3
	// WithAxes returns the orientation holding the given orthonormal axes.
	WithAxes(forward, up, right math.Vec3) Orientation
	// Rotated turns by angle radians about axis. A zero axis changes nothing.
	Rotated(axis math.Vec3, angle float32) Orientation
	// LookingAt faces direction, keeping up as close to the hint as possible.
	// A zero direction changes nothing.
	LookingAt(direction, up math.Vec3) Orientation
	// Identity is the default orientation: forward -Z, up +Y, right +X.
	Identity() Orientation
}

var (
	_ Orientation = Basis{}
	_ Orientation = QuatOrientation{}
)

// Basis stores an orientation as explicit forward/up/right axes.
// The zero value is invalid; use NewBasis.
type Basis struct {
	forward, up, right math.Vec3
}

// NewBasis returns the default orientation: forward -Z, up +Y, right +X.
func NewBasis() Basis {
	return Basis{forward: math.Vec3Forward, up: math.Vec3Up, right: math.Vec3Right}
}

// BasisFromAxes stores the axes as given, without normalization.
func BasisFromAxes(forward, up, right math.Vec3) Basis {
	return Basis{forward: forward, up: up, right: right}
}

func (b Basis) Forward() math.Vec3 { return b.forward }
func (b Basis) Up() math.Vec3      { return b.up }
func (b Basis) Right() math.Vec3   { return b.right }

func (b Basis) WithAxes(forward, up, right math.Vec3) Orientation {
	return BasisFromAxes(forward, up, right)
}

func (b Basis) Identity() Orientation { return NewBasis() }

// Rotated turns forward and up about axis, then rebuilds an orthonormal frame.
func (b Basis) Rotated(axis math.Vec3, angle float32) Orientation {
	if axis.LengthSqr() == 0 {
		return b
	}
	axis = axis.Normalize()
	b.forward = rotateVector(b.forward, axis, angle)
	b.up = rotateVector(b.up, axis, angle)
	b.orthonormalize()
	return b
}

// LookingAt faces direction. When the up hint is (nearly) parallel to
// direction, +Z and then +Y are used instead.
func (b Basis) LookingAt(direction, up math.Vec3) Orientation {
	if direction.LengthSqr() == 0 {
		return b
	}
	forward := direction.Normalize()
	up = stableUp(forward, up)

	side := up.Cross(forward)
	b.forward = forward
	b.up = forward.Cross(side).Normalize()
	b.right = forward.Cross(b.up).Normalize()
	return b
}

func (b *Basis) orthonormalize() {
	b.forward = b.forward.Normalize()
	b.right = b.forward.Cross(b.up).Normalize()
	b.up = b.right.Cross(b.forward).Normalize()
}

// RotationMatrix returns o as a matrix with columns right, up, back.
func RotationMatrix(o Orientation) math.Mat3 {
	return math.Mat3FromColumns(o.Right(), o.Up(), o.Forward().Negate())
}

const parallelLimit = 0.999

func stableUp(forward, up math.Vec3) math.Vec3 {
	candidates := [...]math.Vec3{up.Normalize(), math.Vec3Backward, math.Vec3Up}
	for _, c := range candidates {
		if c.LengthSqr() == 0 {
			continue
		}
		if d := forward.Dot(c); d < parallelLimit && d > -parallelLimit {
			return c
		}
	}
	return math.Vec3Right
}

// rotateVector splits v into its component along the unit axis and the
// residual perpendicular to it, and turns only the residual.
func rotateVector(v, axis math.Vec3, angle float32) math.Vec3 {
	along := axis.Dot(v)
	residual := v.LengthSqr() - along*along
	if residual <= 0 {
		return v
	}
	y := axis.Cross(v)
	if y.LengthSqr() <= 1e-12 {
		return v
	}
	y = y.Normalize()
	x := y.Cross(axis)

	sin, cos := stdmath.Sincos(float64(angle))
	length := float32(stdmath.Sqrt(float64(residual)))
	return x.Mul(float32(cos)).Add(y.Mul(float32(sin))).Mul(length).Add(axis.Mul(along))
}
