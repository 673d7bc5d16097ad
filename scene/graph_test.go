package scene

import (
	stdmath "math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgengine/core"
	"sgengine/math"
)

const eps = 1e-4

func assertVec(t *testing.T, want, got math.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	if !want.ApproxEqual(got, eps) {
		assert.Fail(t, "vectors differ", append([]interface{}{"want %v, got %v", want, got}, msgAndArgs...)...)
	}
}

type recorder struct {
	calls int
	last  core.Transform
}

func (r *recorder) Recompute(global core.Transform) {
	r.calls++
	r.last = global
}

func TestCreateDefaults(t *testing.T) {
	g := NewGraph()
	id := g.Create("root")

	require.True(t, g.Alive(id))
	assert.False(t, id.IsNil())
	assert.Equal(t, "root", g.Name(id))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, Nil, g.Parent(id))
	assert.Equal(t, core.NewTransform(), g.Local(id))
	assert.Equal(t, core.NewTransform(), g.Global(id))
	assert.NotEqual(t, uuid.Nil, g.UUID(id))

	found, ok := g.Lookup(g.UUID(id))
	require.True(t, ok)
	assert.Equal(t, id, found)
}

func TestCreateWithUUIDCollision(t *testing.T) {
	g := NewGraph()
	u := uuid.New()
	a := g.CreateWithUUID("a", u)
	b := g.CreateWithUUID("b", u)

	assert.Equal(t, u, g.UUID(a))
	assert.NotEqual(t, u, g.UUID(b))
}

func TestRootLocalEqualsGlobal(t *testing.T) {
	g := NewGraph()
	id := g.Create("root")
	g.SetLocalPosition(id, math.NewVec3(1, 2, 3))
	g.RotateLocal(id, math.Vec3Up, 0.4)
	assert.Equal(t, g.Local(id), g.Global(id))

	g.SetGlobalScale(id, math.NewVec3(2, 2, 2))
	assert.Equal(t, g.Local(id), g.Global(id))
}

func TestSetLocalPositionIsIdempotent(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	require.True(t, g.AddChild(parent, child, true))
	g.RotateLocal(parent, math.NewVec3(1, 1, 0), 0.9)
	g.SetLocalScale(parent, math.NewVec3(1, 2, 3))

	g.SetLocalPosition(child, math.NewVec3(4, 5, 6))
	first := g.Global(child)
	g.SetLocalPosition(child, math.NewVec3(4, 5, 6))
	assert.Equal(t, first, g.Global(child))
}

func TestSetGlobalPositionRoundTrip(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	require.True(t, g.AddChild(parent, child, true))

	g.SetLocalPosition(parent, math.NewVec3(1, 2, 3))
	g.RotateLocal(parent, math.NewVec3(0.2, 1, -0.4), 1.1)
	g.SetLocalScale(parent, math.NewVec3(2, 0.5, 3))

	target := math.NewVec3(-7, 4, 9)
	g.SetGlobalPosition(child, target)
	assertVec(t, target, g.GlobalPosition(child))

	// Re-deriving the global from the computed local lands on the same spot.
	g.SetLocalPosition(child, g.LocalPosition(child))
	assertVec(t, target, g.GlobalPosition(child))
}

func TestPropagationReachesGrandchildren(t *testing.T) {
	g := NewGraph()
	a := g.Create("a")
	b := g.Create("b")
	c := g.Create("c")
	require.True(t, g.AddChild(a, b, true))
	require.True(t, g.AddChild(b, c, true))
	g.SetLocalPosition(b, math.NewVec3(0, 1, 0))
	g.SetLocalPosition(c, math.NewVec3(0, 0, 1))

	before := g.GlobalPosition(c)
	g.TranslateLocal(a, math.NewVec3(1, 0, 0))
	assertVec(t, before.Add(math.NewVec3(1, 0, 0)), g.GlobalPosition(c))
	assertVec(t, math.NewVec3(1, 1, 0), g.GlobalPosition(b))
}

func TestRotatedParentComposition(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	require.True(t, g.AddChild(parent, child, true))

	g.SetLocalPosition(child, math.NewVec3(1, 0, 0))
	g.RotateLocal(parent, math.Vec3Up, stdmath.Pi/2)

	assertVec(t, math.NewVec3(0, 0, -1), g.GlobalPosition(child))
	assertVec(t, g.GlobalForward(parent), g.GlobalForward(child))
	assertVec(t, math.NewVec3(-1, 0, 0), g.GlobalForward(child))
}

func TestScaleComposition(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	require.True(t, g.AddChild(parent, child, true))
	g.SetLocalScale(parent, math.NewVec3(2, 3, 4))

	g.SetLocalPosition(child, math.NewVec3(1, 1, 1))
	assertVec(t, math.NewVec3(2, 3, 4), g.GlobalPosition(child))
	assertVec(t, math.NewVec3(2, 3, 4), g.GlobalScale(child))

	// A quarter turn about Y swaps which parent axes the child's x and z measure.
	g.RotateLocal(child, math.Vec3Up, stdmath.Pi/2)
	assertVec(t, math.NewVec3(4, 3, 2), g.GlobalScale(child))

	g.SetGlobalScale(child, math.NewVec3(8, 3, 2))
	assertVec(t, math.NewVec3(2, 1, 1), g.LocalScale(child))
}

func TestZeroParentScaleDoesNotDivideByZero(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	require.True(t, g.AddChild(parent, child, true))
	g.SetLocalScale(child, math.NewVec3(3, 3, 3))
	g.SetLocalScale(parent, math.NewVec3(0, 1, 1))

	g.SetGlobalPosition(child, math.NewVec3(5, 5, 5))
	local := g.Local(child)
	assert.Equal(t, float32(0), local.Position.X)
	assert.Equal(t, float32(3), local.Scale.X)
	assert.False(t, stdmath.IsNaN(float64(local.Position.Y)))

	// The stored global is what the local produces, not the requested one.
	assertVec(t, math.NewVec3(0, 5, 5), g.GlobalPosition(child))
	assertVec(t, composeGlobal(g.Global(parent), local).Position, g.GlobalPosition(child))

	// Moving the parent keeps the child where the local puts it.
	g.TranslateLocal(parent, math.NewVec3(0, 1, 0))
	assertVec(t, math.NewVec3(0, 6, 5), g.GlobalPosition(child))
}

func TestOrthonormalAfterGraphRotations(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	require.True(t, g.AddChild(parent, child, true))

	for i := 0; i < 200; i++ {
		g.RotateLocal(parent, math.NewVec3(1, 2, 3), 0.13)
		g.RotateGlobal(child, math.NewVec3(-2, 0.5, 1), 0.29)
		g.LookAtTargetGlobal(child, math.NewVec3(float32(i), 3, -5))
	}
	for _, id := range []NodeID{parent, child} {
		for _, tr := range []core.Transform{g.Local(id), g.Global(id)} {
			f, u, r := tr.Forward(), tr.Up(), tr.Right()
			assert.InDelta(t, 1, f.Length(), eps)
			assert.InDelta(t, 1, u.Length(), eps)
			assert.InDelta(t, 1, r.Length(), eps)
			assert.InDelta(t, 0, f.Dot(u), eps)
			assert.InDelta(t, 0, f.Dot(r), eps)
			assert.InDelta(t, 0, u.Dot(r), eps)
		}
	}
}

func TestAddChildKeepGlobal(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	g.SetLocalPosition(parent, math.NewVec3(3, -1, 2))
	g.RotateLocal(parent, math.Vec3Up, 0.7)
	g.SetLocalPosition(child, math.NewVec3(10, 0, 0))
	g.RotateLocal(child, math.Vec3Right, 0.3)

	pos, fwd := g.GlobalPosition(child), g.GlobalForward(child)
	require.True(t, g.AddChild(parent, child, false))

	assertVec(t, pos, g.GlobalPosition(child))
	assertVec(t, fwd, g.GlobalForward(child))
	assert.Equal(t, parent, g.Parent(child))
	assert.Equal(t, []NodeID{child}, g.Children(parent))
}

func TestAddChildKeepLocal(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	g.SetLocalPosition(parent, math.NewVec3(3, -1, 2))
	g.RotateLocal(parent, math.Vec3Up, 0.7)
	g.SetLocalPosition(child, math.NewVec3(10, 0, 0))

	pos, fwd := g.LocalPosition(child), g.LocalForward(child)
	require.True(t, g.AddChild(parent, child, true))

	assertVec(t, pos, g.LocalPosition(child))
	assertVec(t, fwd, g.LocalForward(child))
	assert.NotEqual(t, pos, g.GlobalPosition(child))
}

func TestReparentInPlace(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	g.SetLocalPosition(parent, math.NewVec3(0, 5, 0))
	g.SetGlobalPosition(child, math.NewVec3(0, 5, 0))

	require.True(t, g.AddChild(parent, child, false))
	assertVec(t, math.Vec3Zero, g.LocalPosition(child))
	assertVec(t, math.NewVec3(0, 5, 0), g.GlobalPosition(child))
}

func TestAddChildMovesBetweenParents(t *testing.T) {
	g := NewGraph()
	a := g.Create("a")
	b := g.Create("b")
	child := g.Create("child")

	require.True(t, g.AddChild(a, child, true))
	require.True(t, g.AddChild(b, child, true))
	assert.Empty(t, g.Children(a))
	assert.Equal(t, []NodeID{child}, g.Children(b))
	assert.Equal(t, b, g.Parent(child))

	// Adding an existing child is a no-op.
	require.True(t, g.AddChild(b, child, true))
	assert.Equal(t, 1, g.ChildCount(b))
}

func TestAddChildRefusesCycles(t *testing.T) {
	g := NewGraph()
	a := g.Create("a")
	b := g.Create("b")
	c := g.Create("c")
	require.True(t, g.AddChild(a, b, true))
	require.True(t, g.AddChild(b, c, true))

	assert.False(t, g.AddChild(c, a, true))
	assert.False(t, g.AddChild(a, a, true))
	assert.Equal(t, Nil, g.Parent(a))
	assert.Empty(t, g.Children(c))
}

func TestRemoveChild(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	other := g.Create("other")
	g.SetLocalPosition(parent, math.NewVec3(1, 1, 1))
	require.True(t, g.AddChild(parent, child, true))
	g.SetLocalPosition(child, math.NewVec3(2, 0, 0))

	assert.False(t, g.RemoveChild(other, child, false))
	assert.Equal(t, parent, g.Parent(child))

	require.True(t, g.RemoveChild(parent, child, false))
	assert.Equal(t, Nil, g.Parent(child))
	assertVec(t, math.NewVec3(3, 1, 1), g.GlobalPosition(child))
	assertVec(t, math.NewVec3(3, 1, 1), g.LocalPosition(child))

	require.True(t, g.AddChild(parent, child, true))
	require.True(t, g.RemoveChild(parent, child, true))
	assertVec(t, math.NewVec3(3, 1, 1), g.GlobalPosition(child))
}

func TestDestroyOrphansChildren(t *testing.T) {
	g := NewGraph()
	root := g.Create("root")
	mid := g.Create("mid")
	leaf := g.Create("leaf")
	require.True(t, g.AddChild(root, mid, true))
	require.True(t, g.AddChild(mid, leaf, true))
	g.SetLocalPosition(mid, math.NewVec3(0, 2, 0))
	g.SetLocalPosition(leaf, math.NewVec3(1, 0, 0))
	leafPos := g.GlobalPosition(leaf)
	midUUID := g.UUID(mid)

	require.True(t, g.Destroy(mid))
	assert.False(t, g.Alive(mid))
	assert.Equal(t, 2, g.Len())
	assert.Empty(t, g.Children(root))
	assert.Equal(t, Nil, g.Parent(leaf))
	assertVec(t, leafPos, g.GlobalPosition(leaf))
	_, ok := g.Lookup(midUUID)
	assert.False(t, ok)
	assert.ElementsMatch(t, []NodeID{root, leaf}, g.Roots())
}

func TestStaleIDsAreRejected(t *testing.T) {
	g := NewGraph()
	old := g.Create("old")
	require.True(t, g.Destroy(old))
	reused := g.Create("reused")

	require.NotEqual(t, old, reused)
	assert.False(t, g.Alive(old))
	assert.False(t, g.Destroy(old))

	g.SetLocalPosition(old, math.NewVec3(9, 9, 9))
	assertVec(t, math.Vec3Zero, g.GlobalPosition(reused))
	assert.Equal(t, "", g.Name(old))
	assert.False(t, g.AddChild(reused, old, true))
	assert.False(t, g.AddChild(Nil, reused, true))
	assert.False(t, g.Visible(old, &Frustum{}))
}

func TestHookReceivesGlobal(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	require.True(t, g.AddChild(parent, child, true))

	rec := &recorder{}
	g.SetHook(child, rec)
	assert.Equal(t, 1, rec.calls)

	g.TranslateLocal(parent, math.NewVec3(0, 0, 4))
	assert.Equal(t, 2, rec.calls)
	assertVec(t, math.NewVec3(0, 0, 4), rec.last.Position)

	g.SetHook(child, nil)
	g.TranslateLocal(parent, math.NewVec3(0, 0, 4))
	assert.Equal(t, 2, rec.calls)
}

func TestFindAndTraverse(t *testing.T) {
	g := NewGraph()
	a := g.Create("a")
	b := g.Create("b")
	c := g.Create("c")
	require.True(t, g.AddChild(a, b, true))
	require.True(t, g.AddChild(a, c, true))

	id, ok := g.Find("c")
	require.True(t, ok)
	assert.Equal(t, c, id)
	_, ok = g.Find("missing")
	assert.False(t, ok)

	var order []string
	g.Traverse(a, func(id NodeID) { order = append(order, g.Name(id)) })
	assert.Equal(t, []string{"a", "b", "c"}, order)

	count := 0
	g.Each(func(NodeID) { count++ })
	assert.Equal(t, 3, count)
}

func TestLocalAndGlobalMutatorVariants(t *testing.T) {
	g := NewGraph()
	parent := g.Create("parent")
	child := g.Create("child")
	require.True(t, g.AddChild(parent, child, true))
	g.SetLocalPosition(parent, math.NewVec3(0, 10, 0))

	g.SetGlobalPosition(child, math.NewVec3(1, 0, 0))
	assertVec(t, math.NewVec3(1, -10, 0), g.LocalPosition(child))

	g.TranslateGlobal(child, math.NewVec3(0, 1, 0))
	assertVec(t, math.NewVec3(1, 1, 0), g.GlobalPosition(child))

	g.RotateAroundGlobal(child, math.Vec3Zero, math.Vec3Up, stdmath.Pi/2)
	assertVec(t, math.NewVec3(0, 1, -1), g.GlobalPosition(child))

	g.ResetGlobalRotation(child)
	assertVec(t, math.Vec3Forward, g.GlobalForward(child))

	g.SetLocalRotation(child, 0, stdmath.Pi, 0)
	assertVec(t, math.Vec3Backward, g.GlobalForward(child))

	g.LookAtGlobal(child, math.NewVec3(0, 1, 10), math.Vec3Up)
	assertVec(t, math.Vec3Backward, g.GlobalForward(child))

	g.SetGlobalUniformScale(child, 3)
	assertVec(t, math.NewVec3(3, 3, 3), g.GlobalScale(child))
	g.ScaleGlobal(child, math.NewVec3(2, 1, 1))
	assertVec(t, math.NewVec3(6, 3, 3), g.LocalScale(child))
}

func TestQuatOrientationGraphMatchesBasisGraph(t *testing.T) {
	run := func(g *Graph) (parent, child NodeID) {
		parent = g.Create("parent")
		child = g.Create("child")
		g.SetLocalPosition(parent, math.NewVec3(1, 2, 3))
		g.SetLocalScale(parent, math.NewVec3(2, 1, 3))
		g.RotateLocal(parent, math.NewVec3(1, 1, 0), 0.6)
		g.SetLocalPosition(child, math.NewVec3(4, 0, -1))
		g.RotateLocal(child, math.Vec3Up, stdmath.Pi/2)
		require.True(t, g.AddChild(parent, child, false))

		g.RotateGlobal(child, math.Vec3Right, 0.3)
		g.TranslateGlobal(child, math.NewVec3(0, 1, 0))
		g.LookAtTargetLocal(parent, math.NewVec3(5, 0, 5))
		g.RotateAroundLocal(child, math.Vec3Zero, math.Vec3Up, 0.8)
		return parent, child
	}

	bg := NewGraph()
	bp, bc := run(bg)
	qg := NewGraphWithOrientation(core.NewQuatOrientation())
	qp, qc := run(qg)

	pairs := [][2]core.Transform{
		{bg.Local(bp), qg.Local(qp)},
		{bg.Global(bp), qg.Global(qp)},
		{bg.Local(bc), qg.Local(qc)},
		{bg.Global(bc), qg.Global(qc)},
	}
	for i, p := range pairs {
		want, got := p[0], p[1]
		assert.IsType(t, core.QuatOrientation{}, got.Rotation, "pair %d", i)
		assertVec(t, want.Position, got.Position, "position %d", i)
		assertVec(t, want.Scale, got.Scale, "scale %d", i)
		assertVec(t, want.Forward(), got.Forward(), "forward %d", i)
		assertVec(t, want.Up(), got.Up(), "up %d", i)
		assertVec(t, want.Right(), got.Right(), "right %d", i)
	}
}
