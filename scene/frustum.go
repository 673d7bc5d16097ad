package scene

import (
	stdmath "math"

	"sgengine/math"
)

// Plane is a half-space. A point p is inside when Normal·p - Distance >= 0.
type Plane struct {
	Normal   math.Vec3
	Distance float32
}

// NewPlane builds the plane through point with the given (not necessarily unit) normal.
func NewPlane(point, normal math.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: n.Dot(point)}
}

// SignedDistance is positive on the inside.
func (p Plane) SignedDistance(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) - p.Distance
}

// boxOnOrInFront projects the box's half-size onto the normal and checks
// whether any part of the box reaches the inside.
func (p Plane) boxOnOrInFront(b BoundingBox) bool {
	r := b.Extents.Abs().Dot(p.Normal.Abs())
	return -r <= p.SignedDistance(b.Center)
}

// FrustumFace indexes Frustum.Planes.
type FrustumFace int

const (
	FaceLeft FrustumFace = iota
	FaceRight
	FaceBottom
	FaceTop
	FaceNear
	FaceFar
)

var faceNames = [...]string{"left", "right", "bottom", "top", "near", "far"}

func (f FrustumFace) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return "unknown"
	}
	return faceNames[f]
}

// Frustum holds six inward-facing planes.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// PerspectiveFrustum derives the planes of a perspective view placed at pos.
// fov is the vertical field of view in radians.
func PerspectiveFrustum(pos, forward, up, right math.Vec3, fov, aspect, near, far float32) Frustum {
	halfHeight := far * float32(stdmath.Tan(float64(fov)*0.5))
	halfWidth := halfHeight * aspect
	toFar := forward.Mul(far)

	var f Frustum
	f.Planes[FaceNear] = NewPlane(pos.Add(forward.Mul(near)), forward)
	f.Planes[FaceFar] = NewPlane(pos.Add(toFar), forward.Negate())
	f.Planes[FaceRight] = NewPlane(pos, up.Cross(toFar.Add(right.Mul(halfWidth))))
	f.Planes[FaceLeft] = NewPlane(pos, toFar.Sub(right.Mul(halfWidth)).Cross(up))
	f.Planes[FaceTop] = NewPlane(pos, toFar.Add(up.Mul(halfHeight)).Cross(right))
	f.Planes[FaceBottom] = NewPlane(pos, right.Cross(toFar.Sub(up.Mul(halfHeight))))
	return f
}

// OrthographicFrustum derives the planes of a box-shaped view placed at pos.
func OrthographicFrustum(pos, forward, up, right math.Vec3, halfWidth, halfHeight, near, far float32) Frustum {
	var f Frustum
	f.Planes[FaceNear] = NewPlane(pos.Add(forward.Mul(near)), forward)
	f.Planes[FaceFar] = NewPlane(pos.Add(forward.Mul(far)), forward.Negate())
	f.Planes[FaceRight] = NewPlane(pos.Add(right.Mul(halfWidth)), right.Negate())
	f.Planes[FaceLeft] = NewPlane(pos.Sub(right.Mul(halfWidth)), right)
	f.Planes[FaceTop] = NewPlane(pos.Add(up.Mul(halfHeight)), up.Negate())
	f.Planes[FaceBottom] = NewPlane(pos.Sub(up.Mul(halfHeight)), up)
	return f
}

// ContainsPoint reports whether p lies inside all six planes.
func (f *Frustum) ContainsPoint(p math.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// BoxVisible reports whether a world-space box may intersect the frustum.
// It can return true for boxes just outside a corner but never false for a
// box that intersects.
func BoxVisible(b BoundingBox, f *Frustum) bool {
	for i := range f.Planes {
		if !f.Planes[i].boxOnOrInFront(b) {
			return false
		}
	}
	return true
}
