package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgengine/math"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func TestParseOBJQuad(t *testing.T) {
	meshes, err := ParseOBJ(strings.NewReader(quadOBJ), "quad.obj")
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "quad.obj:default", m.Name)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	for _, v := range m.Vertices {
		assertVec(t, math.Vec3{Z: 1}, v.Normal)
	}
	assertVec(t, math.Vec3{X: 0.5, Y: 0.5}, m.LocalBounds.Center)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := strings.Replace(quadOBJ, "f 1 2 3 4", "f -4 -3 -2 -1", 1)
	meshes, err := ParseOBJ(strings.NewReader(src), "neg")
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assertVec(t, math.Vec3{X: 1, Y: 1}, meshes[0].Vertices[2].Position)
}

func TestParseOBJNormalsAndGroups(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 -1
vt 0 0
o front
f 1//1 2//1 3//1
g back
s off
f 1 3 4
`
	meshes, err := ParseOBJ(strings.NewReader(src), "m")
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	assert.Equal(t, "m:front", meshes[0].Name)
	assert.Equal(t, "m:back", meshes[1].Name)
	for _, v := range meshes[0].Vertices {
		assertVec(t, math.Vec3{Z: -1}, v.Normal)
	}
	for _, v := range meshes[1].Vertices {
		assertVec(t, math.Vec3{Z: 1}, v.Normal)
	}
}

func TestParseOBJSharedCorners(t *testing.T) {
	src := quadOBJ + "f 1 3 4\n"
	meshes, err := ParseOBJ(strings.NewReader(src), "m")
	require.NoError(t, err)
	assert.Len(t, meshes[0].Vertices, 4)
	assert.Len(t, meshes[0].Indices, 9)
}

func TestParseOBJErrors(t *testing.T) {
	cases := map[string]string{
		"index out of range": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 5\n",
		"short face":         "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad component":      "v 0 x 0\n",
		"missing component":  "v 0 0\n",
		"bad normal":         "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n",
		"no faces":           "# nothing here\nv 0 0 0\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(src), "bad")
			assert.Error(t, err)
		})
	}
}

func TestSceneWithOBJMesh(t *testing.T) {
	dir := t.TempDir()
	src := "o left\n" + quadOBJ + "o right\nf 2 3 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.obj"), []byte(src), 0644))
	scenePath := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(scenePath,
		[]byte("nodes:\n  - name: thing\n    position: [0, 2, 0]\n    mesh: model.obj\n"), 0644))

	sf, err := LoadScene(scenePath)
	require.NoError(t, err)
	w, err := sf.Build()
	require.NoError(t, err)

	require.Len(t, w.Objects(), 2)
	thing, ok := w.Graph.Find("thing")
	require.True(t, ok)
	extra, ok := w.Graph.Find("thing_1")
	require.True(t, ok)
	assert.Equal(t, thing, w.Graph.Parent(extra))
	assertVec(t, math.Vec3{Y: 2}, w.Graph.GlobalPosition(extra))
}

func TestLoadOBJMissing(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "none.obj"))
	assert.Error(t, err)
}
