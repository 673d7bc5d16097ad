package render

import (
	stdmath "math"

	"sgengine/math"
	"sgengine/scene"
)

// Ray is a half-line in world space. Direction is unit length.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit describes the closest intersection found by Pick.
type Hit struct {
	Object   *Object
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	Face     int // triangle index in the mesh
}

// ScreenRay returns the ray through window point (x, y) of a width x height
// viewport, y growing downward.
func ScreenRay(v *scene.View, x, y, width, height float32) Ray {
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	p := v.Placement()
	fwd, up, right := p.Forward(), p.Up(), p.Right()
	if v.Projection() == scene.Orthographic {
		hw, hh := v.HalfExtents()
		origin := p.Position.Add(right.Mul(ndcX * hw)).Add(up.Mul(ndcY * hh))
		return Ray{Origin: origin, Direction: fwd}
	}

	t := float32(stdmath.Tan(float64(v.Fov()) / 2))
	dir := fwd.Add(right.Mul(ndcX * t * v.AspectRatio())).Add(up.Mul(ndcY * t))
	return Ray{Origin: p.Position, Direction: dir.Normalize()}
}

// Pick returns the closest object r hits. Objects whose world bounds the ray
// misses are skipped before the per-triangle test.
func (w *World) Pick(r Ray) (Hit, bool) {
	closest := Hit{Distance: float32(stdmath.MaxFloat32)}
	for _, o := range w.objects {
		if o.Mesh == nil || !w.Graph.Alive(o.Node) {
			continue
		}
		if b, ok := w.Graph.WorldBounds(o.Node); ok {
			t, hit := rayBoxIntersect(r, b)
			if !hit || t > closest.Distance {
				continue
			}
		}
		if h, ok := rayMeshIntersect(r, w, o); ok && h.Distance < closest.Distance {
			closest = h
		}
	}
	return closest, closest.Object != nil
}

// rayBoxIntersect is the slab test. It returns the entry distance, zero when
// the origin is inside.
func rayBoxIntersect(r Ray, b scene.BoundingBox) (float32, bool) {
	lo, hi := b.Min(), b.Max()
	tmin, tmax := float32(0), float32(stdmath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	bmin := [3]float32{lo.X, lo.Y, lo.Z}
	bmax := [3]float32{hi.X, hi.Y, hi.Z}

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < bmin[i] || origin[i] > bmax[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1, t2 := (bmin[i]-origin[i])*inv, (bmax[i]-origin[i])*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// rayMeshIntersect tests every triangle of o's mesh. Meshes without
// indices are read as consecutive vertex triples; triangles referencing
// missing vertices are skipped.
func rayMeshIntersect(r Ray, w *World, o *Object) (Hit, bool) {
	mesh := o.Mesh
	model := w.Graph.Global(o.Node).Matrix()
	closest := Hit{Distance: float32(stdmath.MaxFloat32)}

	corner := func(i int) int { return i }
	count := len(mesh.Vertices)
	if len(mesh.Indices) > 0 {
		corner = func(i int) int { return int(mesh.Indices[i]) }
		count = len(mesh.Indices)
	}

	for i := 0; i+2 < count; i += 3 {
		i0, i1, i2 := corner(i), corner(i+1), corner(i+2)
		if i0 >= len(mesh.Vertices) || i1 >= len(mesh.Vertices) || i2 >= len(mesh.Vertices) {
			continue
		}
		v0 := model.MulPoint(mesh.Vertices[i0].Position)
		v1 := model.MulPoint(mesh.Vertices[i1].Position)
		v2 := model.MulPoint(mesh.Vertices[i2].Position)

		t, hit := mollerTrumbore(r, v0, v1, v2)
		if hit && t < closest.Distance {
			closest = Hit{
				Object:   o,
				Distance: t,
				Point:    r.At(t),
				Normal:   v1.Sub(v0).Cross(v2.Sub(v0)).Normalize(),
				Face:     i / 3,
			}
		}
	}
	return closest, closest.Object != nil
}

// mollerTrumbore intersects r with triangle (v0, v1, v2) from either side.
func mollerTrumbore(r Ray, v0, v1, v2 math.Vec3) (float32, bool) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false // parallel
	}

	f := 1 / a
	s := r.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > epsilon
}
