package scene

import (
	"sgengine/core"
	"sgengine/math"
)

const composeEpsilon = 1e-6

// composeGlobal places local inside parent. The parent's right, up and back
// axes span the child's space, each stretched by the parent's scale.
// Scale projects the parent scale onto the child's absolute axes, so a child
// turned 45 degrees under a uniform scale of 2 reports about 2.83.
func composeGlobal(parent, local core.Transform) core.Transform {
	r := core.RotationMatrix(parent.Orientation())
	s := parent.Scale
	lr := local.Orientation()

	return core.Transform{
		Position: parent.Position.Add(parent.AxisMatrix().MulVec(local.Position)),
		Scale: math.Vec3{
			X: local.Scale.X * s.Dot(lr.Right().Abs()),
			Y: local.Scale.Y * s.Dot(lr.Up().Abs()),
			Z: local.Scale.Z * s.Dot(lr.Forward().Abs()),
		},
		Rotation: lr.WithAxes(
			r.MulVec(lr.Forward()),
			r.MulVec(lr.Up()),
			r.MulVec(lr.Right()),
		),
	}
}

// decomposeLocal inverts composeGlobal: rotation first, then scale, then
// position. Components that would divide by zero keep prev's value for
// scale and fall back to 0 for position; the result then no longer
// reproduces global, so callers recompose it. The local keeps prev's
// orientation representation.
func decomposeLocal(parent, global core.Transform, prev core.Transform) core.Transform {
	r := core.RotationMatrix(parent.Orientation())
	s := parent.Scale
	gr := global.Orientation()

	rot := prev.Orientation().WithAxes(
		r.MulVecT(gr.Forward()),
		r.MulVecT(gr.Up()),
		r.MulVecT(gr.Right()),
	)

	scale := prev.Scale
	if p := s.Dot(rot.Right().Abs()); abs(p) > composeEpsilon {
		scale.X = global.Scale.X / p
	}
	if p := s.Dot(rot.Up().Abs()); abs(p) > composeEpsilon {
		scale.Y = global.Scale.Y / p
	}
	if p := s.Dot(rot.Forward().Abs()); abs(p) > composeEpsilon {
		scale.Z = global.Scale.Z / p
	}

	proj := r.MulVecT(global.Position.Sub(parent.Position))
	var pos math.Vec3
	if abs(s.X) > composeEpsilon {
		pos.X = proj.X / s.X
	}
	if abs(s.Y) > composeEpsilon {
		pos.Y = proj.Y / s.Y
	}
	if abs(s.Z) > composeEpsilon {
		pos.Z = proj.Z / s.Z
	}

	return core.Transform{Position: pos, Scale: scale, Rotation: rot}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
