package scene

import (
	"github.com/sirupsen/logrus"

	"sgengine/core"
	"sgengine/math"
)

// Every mutator comes in two flavours. Local mutators edit the transform
// relative to the parent and rederive the global one; Global mutators edit
// the world placement and rederive the local one. Either way all
// descendants are updated before the call returns.

func (g *Graph) mutateLocal(id NodeID, op string, fn func(t *core.Transform)) {
	n := g.get(id)
	if n == nil {
		g.reject(id, op)
		return
	}
	fn(&n.local)
	g.globalFromLocal(id)
	g.propagate(id)
}

func (g *Graph) mutateGlobal(id NodeID, op string, fn func(t *core.Transform)) {
	n := g.get(id)
	if n == nil {
		g.reject(id, op)
		return
	}
	fn(&n.global)
	g.localFromGlobal(id)
	g.propagate(id)
}

func (g *Graph) globalFromLocal(id NodeID) {
	n := &g.nodes[id.index]
	if p := g.get(n.parent); p != nil {
		n.global = composeGlobal(p.global, n.local)
	} else {
		n.global = n.local
	}
	if n.hook != nil {
		n.hook.Recompute(n.global)
	}
}

func (g *Graph) localFromGlobal(id NodeID) {
	n := &g.nodes[id.index]
	if p := g.get(n.parent); p != nil {
		n.local = decomposeLocal(p.global, n.global, n.local)
		// A degenerate parent scale can leave a global no local reproduces.
		n.global = composeGlobal(p.global, n.local)
	} else {
		n.local = n.global
	}
	if n.hook != nil {
		n.hook.Recompute(n.global)
	}
}

// propagate recomputes every descendant of id breadth-first, so a parent's
// global is always final before its children read it.
func (g *Graph) propagate(id NodeID) {
	var q []NodeID
	nested := g.propagating
	if !nested {
		q = g.queue[:0]
		g.propagating = true
	}

	q = append(q, g.nodes[id.index].children...)
	for i := 0; i < len(q); i++ {
		c := q[i]
		g.globalFromLocal(c)
		q = append(q, g.nodes[c.index].children...)
	}

	if !nested {
		g.queue = q[:0]
		g.propagating = false
	}
}

// ── Reparenting ──────────────────────────────────────────────────────────

// AddChild makes child a child of parent. With keepLocal the child's local
// transform is kept and its global one rederived; otherwise the child stays
// where it is in the world. A child with another parent is detached first.
// Returns false for stale ids, parent == child, or a parent that is a
// descendant of child.
func (g *Graph) AddChild(parent, child NodeID, keepLocal bool) bool {
	p, c := g.get(parent), g.get(child)
	if p == nil || c == nil || parent == child {
		g.refuse(parent, child, "invalid ids")
		return false
	}
	if c.parent == parent {
		return true
	}
	for a := parent; !a.IsNil(); a = g.nodes[a.index].parent {
		if a == child {
			g.refuse(parent, child, "would create a cycle")
			return false
		}
	}

	if !c.parent.IsNil() {
		g.unlink(c.parent, child)
	}
	c.parent = parent
	p.children = append(p.children, child)

	g.rederive(child, keepLocal)
	return true
}

// RemoveChild detaches child from parent, turning it into a root. Returns
// false when child is not a child of parent.
func (g *Graph) RemoveChild(parent, child NodeID, keepLocal bool) bool {
	c := g.get(child)
	if c == nil || g.get(parent) == nil || c.parent != parent {
		return false
	}
	g.unlink(parent, child)
	c.parent = Nil

	g.rederive(child, keepLocal)
	return true
}

func (g *Graph) rederive(id NodeID, keepLocal bool) {
	if keepLocal {
		g.globalFromLocal(id)
	} else {
		g.localFromGlobal(id)
	}
	g.propagate(id)
}

func (g *Graph) unlink(parent, child NodeID) {
	p := &g.nodes[parent.index]
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (g *Graph) refuse(parent, child NodeID, reason string) {
	Logger().WithFields(logrus.Fields{"parent": parent, "child": child}).Debugf("refused reparent: %s", reason)
}

// ── Getters ──────────────────────────────────────────────────────────────

// Local returns the transform relative to the parent, or the default transform for stale ids.
func (g *Graph) Local(id NodeID) core.Transform {
	if n := g.get(id); n != nil {
		return n.local
	}
	return core.NewTransform()
}

// Global returns the world placement, or the default transform for stale ids.
func (g *Graph) Global(id NodeID) core.Transform {
	if n := g.get(id); n != nil {
		return n.global
	}
	return core.NewTransform()
}

func (g *Graph) LocalPosition(id NodeID) math.Vec3  { return g.Local(id).Position }
func (g *Graph) GlobalPosition(id NodeID) math.Vec3 { return g.Global(id).Position }
func (g *Graph) LocalScale(id NodeID) math.Vec3     { return g.Local(id).Scale }
func (g *Graph) GlobalScale(id NodeID) math.Vec3    { return g.Global(id).Scale }
func (g *Graph) LocalForward(id NodeID) math.Vec3   { return g.Local(id).Forward() }
func (g *Graph) GlobalForward(id NodeID) math.Vec3  { return g.Global(id).Forward() }
func (g *Graph) LocalUp(id NodeID) math.Vec3        { return g.Local(id).Up() }
func (g *Graph) GlobalUp(id NodeID) math.Vec3       { return g.Global(id).Up() }
func (g *Graph) LocalRight(id NodeID) math.Vec3     { return g.Local(id).Right() }
func (g *Graph) GlobalRight(id NodeID) math.Vec3    { return g.Global(id).Right() }

// ── Whole transform ──────────────────────────────────────────────────────

func (g *Graph) SetLocal(id NodeID, t core.Transform) {
	g.mutateLocal(id, "set local", func(l *core.Transform) { *l = t })
}

func (g *Graph) SetGlobal(id NodeID, t core.Transform) {
	g.mutateGlobal(id, "set global", func(gl *core.Transform) { *gl = t })
}

// ── Position ─────────────────────────────────────────────────────────────

func (g *Graph) TranslateLocal(id NodeID, delta math.Vec3) {
	g.mutateLocal(id, "translate", func(t *core.Transform) { t.Translate(delta) })
}

func (g *Graph) TranslateGlobal(id NodeID, delta math.Vec3) {
	g.mutateGlobal(id, "translate", func(t *core.Transform) { t.Translate(delta) })
}

func (g *Graph) SetLocalPosition(id NodeID, p math.Vec3) {
	g.mutateLocal(id, "set position", func(t *core.Transform) { t.SetPosition(p) })
}

func (g *Graph) SetGlobalPosition(id NodeID, p math.Vec3) {
	g.mutateGlobal(id, "set position", func(t *core.Transform) { t.SetPosition(p) })
}

// ── Rotation ─────────────────────────────────────────────────────────────

func (g *Graph) RotateLocal(id NodeID, axis math.Vec3, angle float32) {
	g.mutateLocal(id, "rotate", func(t *core.Transform) { t.Rotate(axis, angle) })
}

func (g *Graph) RotateGlobal(id NodeID, axis math.Vec3, angle float32) {
	g.mutateGlobal(id, "rotate", func(t *core.Transform) { t.Rotate(axis, angle) })
}

func (g *Graph) RotateAroundLocal(id NodeID, point, axis math.Vec3, angle float32) {
	g.mutateLocal(id, "rotate around", func(t *core.Transform) { t.RotateAround(point, axis, angle) })
}

func (g *Graph) RotateAroundGlobal(id NodeID, point, axis math.Vec3, angle float32) {
	g.mutateGlobal(id, "rotate around", func(t *core.Transform) { t.RotateAround(point, axis, angle) })
}

// RotateEulerLocal rotates about X, then Y, then Z (radians).
func (g *Graph) RotateEulerLocal(id NodeID, x, y, z float32) {
	g.mutateLocal(id, "rotate euler", func(t *core.Transform) { t.RotateEuler(x, y, z) })
}

func (g *Graph) RotateEulerGlobal(id NodeID, x, y, z float32) {
	g.mutateGlobal(id, "rotate euler", func(t *core.Transform) { t.RotateEuler(x, y, z) })
}

// SetLocalRotation resets the local basis and then applies the euler angles.
func (g *Graph) SetLocalRotation(id NodeID, x, y, z float32) {
	g.mutateLocal(id, "set rotation", func(t *core.Transform) { t.SetRotation(x, y, z) })
}

func (g *Graph) SetGlobalRotation(id NodeID, x, y, z float32) {
	g.mutateGlobal(id, "set rotation", func(t *core.Transform) { t.SetRotation(x, y, z) })
}

func (g *Graph) ResetLocalRotation(id NodeID) {
	g.mutateLocal(id, "reset rotation", func(t *core.Transform) { t.ResetRotation() })
}

func (g *Graph) ResetGlobalRotation(id NodeID) {
	g.mutateGlobal(id, "reset rotation", func(t *core.Transform) { t.ResetRotation() })
}

// LookAtLocal faces a target given in the parent's space.
func (g *Graph) LookAtLocal(id NodeID, target, up math.Vec3) {
	g.mutateLocal(id, "look at", func(t *core.Transform) { t.LookAt(target, up) })
}

// LookAtGlobal faces a target given in world space.
func (g *Graph) LookAtGlobal(id NodeID, target, up math.Vec3) {
	g.mutateGlobal(id, "look at", func(t *core.Transform) { t.LookAt(target, up) })
}

func (g *Graph) LookAtTargetLocal(id NodeID, target math.Vec3) {
	g.mutateLocal(id, "look at", func(t *core.Transform) { t.LookAtTarget(target) })
}

func (g *Graph) LookAtTargetGlobal(id NodeID, target math.Vec3) {
	g.mutateGlobal(id, "look at", func(t *core.Transform) { t.LookAtTarget(target) })
}

// ── Scale ────────────────────────────────────────────────────────────────

// ScaleLocal multiplies the local scale per axis.
func (g *Graph) ScaleLocal(id NodeID, factor math.Vec3) {
	g.mutateLocal(id, "scale", func(t *core.Transform) { t.ScaleBy(factor) })
}

func (g *Graph) ScaleGlobal(id NodeID, factor math.Vec3) {
	g.mutateGlobal(id, "scale", func(t *core.Transform) { t.ScaleBy(factor) })
}

func (g *Graph) SetLocalScale(id NodeID, s math.Vec3) {
	g.mutateLocal(id, "set scale", func(t *core.Transform) { t.SetScale(s) })
}

func (g *Graph) SetGlobalScale(id NodeID, s math.Vec3) {
	g.mutateGlobal(id, "set scale", func(t *core.Transform) { t.SetScale(s) })
}

func (g *Graph) SetLocalUniformScale(id NodeID, s float32) {
	g.mutateLocal(id, "set scale", func(t *core.Transform) { t.SetUniformScale(s) })
}

func (g *Graph) SetGlobalUniformScale(id NodeID, s float32) {
	g.mutateGlobal(id, "set scale", func(t *core.Transform) { t.SetUniformScale(s) })
}
