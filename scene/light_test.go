package scene

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgengine/core"
	"sgengine/math"
)

func TestLightKindString(t *testing.T) {
	assert.Equal(t, "spot", LightSpot.String())
	assert.Equal(t, "point", LightPoint.String())
	assert.Equal(t, "unknown", LightKind(-1).String())
}

func TestAmbientLightIsUnbounded(t *testing.T) {
	l := NewAmbientLight(core.ColorRed, 0.2)
	_, bounded := l.Bounds()
	assert.False(t, bounded)
	f := cameraFrustum()
	assert.True(t, l.FrustumCheck(&f))
	assert.Equal(t, float32(0.2), l.Intensity)
}

func TestSpotLightBounds(t *testing.T) {
	g := NewGraph()
	l := NewSpotLight(g, "spot", 512, 512, stdmath.Pi/2, 1, 0.5, 10)
	assert.Equal(t, float32(10), l.Range)

	b, ok := l.Bounds()
	require.True(t, ok)
	assertVec(t, math.NewVec3(-10, -10, -10), b.Min())
	assertVec(t, math.NewVec3(10, 10, 0), b.Max())

	cam := cameraFrustum()
	assert.True(t, l.FrustumCheck(&cam))

	g.SetLocalPosition(l.Node, math.NewVec3(0, 0, 500))
	assert.False(t, l.FrustumCheck(&cam), "spot light behind the camera")

	// A longer reach brings the cone back in front of the camera.
	l.SetFarPlane(600)
	assert.True(t, l.FrustumCheck(&cam), "projection changes refresh the bounds")
}

func TestSpotLightShadowMatrix(t *testing.T) {
	g := NewGraph()
	l := NewSpotLight(g, "spot", 512, 512, stdmath.Pi/3, 1, 0.5, 20)
	g.SetLocalPosition(l.Node, math.NewVec3(0, 10, 0))
	g.LookAtTargetLocal(l.Node, math.Vec3Zero)

	uv := l.ShadowMatrix().MulPoint(math.Vec3Zero)
	assert.InDelta(t, 0.5, uv.X, eps)
	assert.InDelta(t, 0.5, uv.Y, eps)
	assert.Greater(t, uv.Z, float32(0))
	assert.Less(t, uv.Z, float32(1))
}

func TestOrthographicSpotLight(t *testing.T) {
	g := NewGraph()
	l := NewOrthographicSpotLight(g, "box", 256, 256, 4, 2, 1, 8)
	assert.Equal(t, Orthographic, l.Projection())

	b, ok := l.Bounds()
	require.True(t, ok)
	assertVec(t, math.NewVec3(-4, -2, -8), b.Min())
	assertVec(t, math.NewVec3(4, 2, -1), b.Max())
}

func TestDirectionalLightPlacement(t *testing.T) {
	g := NewGraph()
	l := NewDirectionalLight(g, "sun", 1024, 1024, 20, 1, 200, math.NewVec3(0, -2, 0), 50)

	assertVec(t, math.NewVec3(0, -1, 0), l.Direction())
	assertVec(t, math.NewVec3(0, 50, 0), g.GlobalPosition(l.Node))
	assertVec(t, math.NewVec3(0, -1, 0), g.GlobalForward(l.Node))

	uv := l.ShadowMatrix().MulPoint(math.Vec3Zero)
	assert.InDelta(t, 0.5, uv.X, eps)
	assert.InDelta(t, 0.5, uv.Y, eps)

	// Unbounded: passes any frustum.
	var empty Frustum
	empty.Planes[FaceNear] = NewPlane(math.NewVec3(0, 0, 1e6), math.Vec3Backward)
	assert.True(t, l.FrustumCheck(&empty))

	l.SetDirection(math.NewVec3(1, 0, 0))
	assertVec(t, math.NewVec3(-50, 0, 0), g.GlobalPosition(l.Node))
	assertVec(t, math.NewVec3(1, 0, 0), g.GlobalForward(l.Node))

	l.SetDirection(math.Vec3Zero)
	assertVec(t, math.NewVec3(1, 0, 0), l.Direction())

	l.SetDistance(10)
	assertVec(t, math.NewVec3(-10, 0, 0), g.GlobalPosition(l.Node))
	assert.Equal(t, float32(10), l.Distance())
	assert.True(t, l.Frustum().ContainsPoint(math.Vec3Zero))
}

func TestDirectionalLightDefaultDirection(t *testing.T) {
	g := NewGraph()
	l := NewDirectionalLight(g, "sun", 1024, 1024, 20, 1, 200, math.Vec3Zero, 100)
	assertVec(t, DefaultLightDirection.Normalize(), l.Direction())
}

func TestPointLightFaces(t *testing.T) {
	g := NewGraph()
	l := NewPointLight(g, "bulb", 256, 0.1, 10)

	for i := 0; i < CubeFaces; i++ {
		p := cubeDirections[i].Mul(5)
		for j := 0; j < CubeFaces; j++ {
			assert.Equal(t, i == j, l.FaceFrustum(j).ContainsPoint(p), "point %v, face %d", p, j)
		}

		view := l.FaceView(i)
		assertVec(t, math.NewVec3(0, 0, -1), view.MulPoint(cubeDirections[i]), "face %d", i)
		assertVec(t, math.NewVec3(1, 0, 0), view.MulDir(cubeRights[i]), "face %d", i)
		assertVec(t, math.NewVec3(0, 1, 0), view.MulDir(cubeUps[i]), "face %d", i)
	}
}

func TestPointLightFollowsNode(t *testing.T) {
	g := NewGraph()
	l := NewPointLight(g, "bulb", 256, 0.1, 10)
	g.SetLocalPosition(l.Node, math.NewVec3(100, 0, 0))

	assertVec(t, math.NewVec3(100, 0, 0), l.Position())
	assert.True(t, l.FaceFrustum(0).ContainsPoint(math.NewVec3(105, 0, 0)))
	clip := l.FaceViewProjection(0).MulPoint(math.NewVec3(105, 0, 0))
	assert.InDelta(t, 0, clip.X, eps)
	assert.InDelta(t, 0, clip.Y, eps)

	b, ok := l.Bounds()
	require.True(t, ok)
	assertVec(t, math.NewVec3(100, 0, 0), b.Center)
	assertVec(t, math.NewVec3(10, 10, 10), b.Extents)

	assert.False(t, l.FaceFrustum(0).ContainsPoint(math.NewVec3(115, 0, 0)))
	l.SetFarPlane(20)
	assert.Equal(t, float32(20), l.FarPlane())
	assert.True(t, l.FaceFrustum(0).ContainsPoint(math.NewVec3(115, 0, 0)))
	b, _ = l.Bounds()
	assertVec(t, math.NewVec3(20, 20, 20), b.Extents)

	l.SetNearPlane(6)
	assert.False(t, l.FaceFrustum(0).ContainsPoint(math.NewVec3(105, 0, 0)))
	assert.Equal(t, math.Mat4Perspective(stdmath.Pi/2, 1, 6, 20), l.ProjectionMatrix())
}

func TestLightRangeFollowsFarPlane(t *testing.T) {
	g := NewGraph()
	spot := NewSpotLight(g, "spot", 256, 256, stdmath.Pi/3, 1, 0.5, 10)
	point := NewPointLight(g, "bulb", 256, 0.1, 10)

	spot.SetFarPlane(25)
	point.SetFarPlane(25)
	assert.Equal(t, float32(25), spot.Range)
	assert.Equal(t, float32(25), point.Range)

	// An assigned range stays put when the far plane moves again.
	spot.Range = 8
	point.Range = 8
	spot.SetFarPlane(40)
	point.SetFarPlane(40)
	assert.Equal(t, float32(8), spot.Range)
	assert.Equal(t, float32(8), point.Range)

	spot.SetPerspective(stdmath.Pi/4, 1, 0.5, 60)
	assert.Equal(t, float32(8), spot.Range)
	assert.Equal(t, float32(60), spot.FarPlane())
}
