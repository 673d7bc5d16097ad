package core

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"

	"sgengine/math"
)

const eps = 1e-4

func assertVec(t *testing.T, want, got math.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, eps, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, eps, msgAndArgs...)
}

func assertOrthonormal(t *testing.T, o Orientation) {
	t.Helper()
	f, u, r := o.Forward(), o.Up(), o.Right()
	assert.InDelta(t, 1, f.Length(), eps, "forward length")
	assert.InDelta(t, 1, u.Length(), eps, "up length")
	assert.InDelta(t, 1, r.Length(), eps, "right length")
	assert.InDelta(t, 0, f.Dot(u), eps, "forward.up")
	assert.InDelta(t, 0, f.Dot(r), eps, "forward.right")
	assert.InDelta(t, 0, u.Dot(r), eps, "up.right")
	assertVec(t, r, f.Cross(u), "right = forward x up")
}

func TestNewTransformDefaults(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, math.Vec3Zero, tr.Position)
	assert.Equal(t, math.Vec3One, tr.Scale)
	assert.Equal(t, math.NewVec3(0, 0, -1), tr.Forward())
	assert.Equal(t, math.NewVec3(0, 1, 0), tr.Up())
	assert.Equal(t, math.NewVec3(1, 0, 0), tr.Right())
	assert.Equal(t, math.Mat4Identity(), tr.Matrix())
}

func TestRotateQuarterTurnAboutY(t *testing.T) {
	tr := NewTransform()
	tr.Rotate(math.Vec3Up, stdmath.Pi/2)

	assertVec(t, math.NewVec3(-1, 0, 0), tr.Forward())
	assertVec(t, math.NewVec3(0, 1, 0), tr.Up())
	assertVec(t, math.NewVec3(0, 0, -1), tr.Right())
}

func TestRotateZeroAxisIsNoop(t *testing.T) {
	tr := NewTransform()
	tr.Rotate(math.Vec3Zero, 1.3)
	assert.Equal(t, NewBasis(), tr.Rotation)
}

func TestRotateNormalizesAxis(t *testing.T) {
	a := NewTransform()
	b := NewTransform()
	a.Rotate(math.NewVec3(0, 5, 0), 0.7)
	b.Rotate(math.Vec3Up, 0.7)
	assertVec(t, b.Forward(), a.Forward())
	assertVec(t, b.Up(), a.Up())
}

func TestOrthonormalAfterManyRotations(t *testing.T) {
	tr := NewTransform()
	axes := []math.Vec3{
		math.NewVec3(1, 2, 3),
		math.NewVec3(-0.3, 1, 0.2),
		math.NewVec3(0, 0, 1),
		math.NewVec3(0.9, -0.1, 0.4),
	}
	for i := 0; i < 1000; i++ {
		tr.Rotate(axes[i%len(axes)], float32(i%17)*0.37)
	}
	assertOrthonormal(t, tr.Rotation)

	tr.LookAt(math.NewVec3(3, -2, 7), math.NewVec3(0.2, 1, 0))
	assertOrthonormal(t, tr.Rotation)
}

func TestRotateAround(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(math.NewVec3(1, 0, 0))
	tr.RotateAround(math.Vec3Zero, math.Vec3Up, stdmath.Pi/2)

	assertVec(t, math.NewVec3(0, 0, -1), tr.Position)
	assertVec(t, math.NewVec3(-1, 0, 0), tr.Forward())

	// Orbiting about a point on the position leaves it in place.
	tr.RotateAround(tr.Position, math.Vec3Right, 1)
	assertVec(t, math.NewVec3(0, 0, -1), tr.Position)
}

func TestRotateEulerAndReset(t *testing.T) {
	a := NewTransform()
	a.RotateEuler(0.3, 0.5, 0.7)

	b := NewTransform()
	b.Rotate(math.Vec3Right, 0.3)
	b.Rotate(math.Vec3Up, 0.5)
	b.Rotate(math.Vec3Backward, 0.7)
	assertVec(t, b.Forward(), a.Forward())
	assertVec(t, b.Up(), a.Up())

	a.RotateEuler(1, 1, 1)
	a.SetRotation(0.3, 0.5, 0.7)
	assertVec(t, b.Forward(), a.Forward())

	a.ResetRotation()
	assert.Equal(t, NewBasis(), a.Rotation)
}

func TestLookAt(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(math.NewVec3(0, 0, 10))
	tr.LookAtTarget(math.Vec3Zero)
	assertVec(t, math.NewVec3(0, 0, -1), tr.Forward())
	assertVec(t, math.NewVec3(0, 1, 0), tr.Up())
	assertVec(t, math.NewVec3(1, 0, 0), tr.Right())

	tr.LookAtTarget(math.NewVec3(10, 0, 10))
	assertVec(t, math.NewVec3(1, 0, 0), tr.Forward())
	assertOrthonormal(t, tr.Rotation)
}

func TestLookAtDegenerateCases(t *testing.T) {
	tr := NewTransform()
	tr.RotateEuler(0.2, 0.4, 0)
	before := tr.Rotation

	// Target at the position: unchanged.
	tr.LookAtTarget(tr.Position)
	assert.Equal(t, before, tr.Rotation)

	// Straight up with +Y as hint falls back to +Z.
	tr.LookAtTarget(math.NewVec3(0, 10, 0))
	assertVec(t, math.NewVec3(0, 1, 0), tr.Forward())
	assertVec(t, math.NewVec3(0, 0, 1), tr.Up())
	assertOrthonormal(t, tr.Rotation)

	// Along Z with +Z as hint falls back to +Y.
	tr.LookAt(math.NewVec3(0, 0, 5), math.Vec3Backward)
	assertVec(t, math.NewVec3(0, 0, 1), tr.Forward())
	assertOrthonormal(t, tr.Rotation)
}

func TestScale(t *testing.T) {
	tr := NewTransform()
	tr.ScaleBy(math.NewVec3(2, 3, 4))
	tr.ScaleBy(math.NewVec3(2, 1, 0.5))
	assert.Equal(t, math.NewVec3(4, 3, 2), tr.Scale)

	tr.SetUniformScale(7)
	assert.Equal(t, math.NewVec3(7, 7, 7), tr.Scale)
}

func TestMatrixMatchesAxes(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(math.NewVec3(1, 2, 3))
	tr.SetScale(math.NewVec3(2, 2, 2))
	tr.Rotate(math.Vec3Up, stdmath.Pi/2)

	m := tr.Matrix()
	assertVec(t, math.NewVec3(1, 2, 3), m.MulPoint(math.Vec3Zero))
	// Local -Z is forward.
	assertVec(t, tr.Position.Add(tr.Forward().Mul(2)), m.MulPoint(math.Vec3Forward))
	assertVec(t, tr.AxisMatrix().MulVec(math.NewVec3(1, 1, 1)), m.MulDir(math.NewVec3(1, 1, 1)))
}

func TestQuatOrientationMatchesBasis(t *testing.T) {
	var b Orientation = NewBasis()
	var q Orientation = NewQuatOrientation()
	steps := []struct {
		axis  math.Vec3
		angle float32
	}{
		{math.Vec3Up, 0.5},
		{math.NewVec3(1, 1, 0), -1.2},
		{math.Vec3Backward, 2.4},
	}
	for _, s := range steps {
		b = b.Rotated(s.axis, s.angle)
		q = q.Rotated(s.axis, s.angle)
	}
	assertVec(t, b.Forward(), q.Forward())
	assertVec(t, b.Up(), q.Up())
	assertVec(t, b.Right(), q.Right())
	assertOrthonormal(t, q)
	assert.IsType(t, QuatOrientation{}, q)

	q = q.LookingAt(math.NewVec3(1, 0, 0), math.Vec3Up)
	b = b.LookingAt(math.NewVec3(1, 0, 0), math.Vec3Up)
	assertVec(t, b.Forward(), q.Forward())

	q = q.Identity()
	assertVec(t, math.Vec3Forward, q.Forward())
}

func TestQuatOrientationWithAxesRoundTrip(t *testing.T) {
	b := NewBasis().Rotated(math.NewVec3(0.3, -1, 0.5), 2.1)

	var zero QuatOrientation
	o := zero.WithAxes(b.Forward(), b.Up(), b.Right())
	assertVec(t, b.Forward(), o.Forward())
	assertVec(t, b.Up(), o.Up())
	assertVec(t, b.Right(), o.Right())
}

func TestZeroQuatOrientationIsIdentity(t *testing.T) {
	var o QuatOrientation
	assertVec(t, math.Vec3Forward, o.Forward())
	assertVec(t, math.Vec3Up, o.Up())
	assertVec(t, math.Vec3Right, o.Right())
}

func TestTransformWithQuatOrientation(t *testing.T) {
	a := NewTransform()
	q := NewTransformWith(NewQuatOrientation())

	for _, tr := range []*Transform{&a, &q} {
		tr.SetPosition(math.NewVec3(1, 0, 0))
		tr.RotateAround(math.Vec3Zero, math.Vec3Up, 0.4)
		tr.RotateEuler(0.3, -0.2, 0.9)
		tr.LookAt(math.NewVec3(2, 3, -4), math.Vec3Up)
	}
	assert.IsType(t, QuatOrientation{}, q.Rotation)
	assertVec(t, a.Position, q.Position)
	assertVec(t, a.Forward(), q.Forward())
	assertVec(t, a.Up(), q.Up())
	assertOrthonormal(t, q.Rotation)

	q.ResetRotation()
	assert.IsType(t, QuatOrientation{}, q.Rotation)
	assertVec(t, math.Vec3Forward, q.Forward())
}

func TestZeroTransformReadsAsDefault(t *testing.T) {
	var tr Transform
	assertVec(t, math.Vec3Forward, tr.Forward())
	tr.Rotate(math.Vec3Up, stdmath.Pi/2)
	assertVec(t, math.NewVec3(-1, 0, 0), tr.Forward())
}
