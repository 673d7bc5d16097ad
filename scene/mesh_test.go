package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgengine/math"
)

func TestCreateCube(t *testing.T) {
	m := CreateCube(2)
	require.Len(t, m.Vertices, 24)
	require.Len(t, m.Indices, 36)
	assert.Equal(t, int32(36), m.IndexCount())

	require.True(t, m.HasLocalBounds)
	assert.Equal(t, math.Vec3Zero, m.LocalBounds.Center)
	assert.Equal(t, math.NewVec3(1, 1, 1), m.LocalBounds.Extents)

	// Every triangle winds counter-clockwise around its outward normal.
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalize()
		assertVec(t, a.Normal, n, "triangle %d", i/3)
		assert.Greater(t, a.Position.Dot(a.Normal), float32(0), "normal of triangle %d points outward", i/3)
	}
}

func TestCreatePlane(t *testing.T) {
	m := CreatePlane(10)
	require.True(t, m.HasLocalBounds)
	assert.Equal(t, math.NewVec3(5, 0, 5), m.LocalBounds.Extents)

	a, b, c := m.Vertices[0].Position, m.Vertices[1].Position, m.Vertices[2].Position
	assertVec(t, math.Vec3Up, b.Sub(a).Cross(c.Sub(a)).Normalize())
}

func TestEmptyMeshHasNoBounds(t *testing.T) {
	m := CreateMeshFromData("empty", nil, nil)
	assert.False(t, m.HasLocalBounds)
}

// assertOutward checks that no triangle of a convex mesh faces its center.
func assertOutward(t *testing.T, m *Mesh) {
	t.Helper()
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.GreaterOrEqual(t, n.Dot(centroid), float32(-1e-6), "triangle %d faces inward", i/3)
	}
}

func TestCreateSphere(t *testing.T) {
	m := CreateSphere(2, 16, 8)
	assert.Len(t, m.Vertices, 9*17)
	assert.Len(t, m.Indices, 8*16*6)

	require.True(t, m.HasLocalBounds)
	assertVec(t, math.Vec3Zero, m.LocalBounds.Center)
	assertVec(t, math.NewVec3(2, 2, 2), m.LocalBounds.Extents)
	assertOutward(t, m)

	small := CreateSphere(1, 1, 1)
	assert.Len(t, small.Vertices, 3*4)
}

func TestCreateCylinder(t *testing.T) {
	m := CreateCylinder(1, 3, 16)
	require.True(t, m.HasLocalBounds)
	assertVec(t, math.Vec3Zero, m.LocalBounds.Center)
	assertVec(t, math.NewVec3(1, 1.5, 1), m.LocalBounds.Extents)
	assertOutward(t, m)

	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal.Length(), 1e-5)
	}
}
