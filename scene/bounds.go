package scene

import (
	"sgengine/core"
	"sgengine/math"
)

// BoundingBox is a box given by its center and half-size along each axis.
type BoundingBox struct {
	Center  math.Vec3
	Extents math.Vec3
}

// BoundsFromMinMax builds a box from two opposite corners.
func BoundsFromMinMax(lo, hi math.Vec3) BoundingBox {
	return BoundingBox{
		Center:  lo.Add(hi).Mul(0.5),
		Extents: hi.Sub(lo).Mul(0.5).Abs(),
	}
}

// BoundsFromPoints returns the axis-aligned box enclosing pts. No points gives the zero box.
func BoundsFromPoints(pts ...math.Vec3) BoundingBox {
	if len(pts) == 0 {
		return BoundingBox{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return BoundsFromMinMax(lo, hi)
}

func (b BoundingBox) Min() math.Vec3 { return b.Center.Sub(b.Extents) }
func (b BoundingBox) Max() math.Vec3 { return b.Center.Add(b.Extents) }

// Union returns the smallest axis-aligned box enclosing both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundsFromMinMax(b.Min().Min(o.Min()), b.Max().Max(o.Max()))
}

// Transformed projects a model-space box through a placement. The result is
// axis-aligned in the placement's parent space and encloses the rotated box.
func (b BoundingBox) Transformed(t core.Transform) BoundingBox {
	m := t.AxisMatrix()
	return BoundingBox{
		Center:  t.Position.Add(m.MulVec(b.Center)),
		Extents: m.Abs().MulVec(b.Extents.Abs()),
	}
}
