package scene

import (
	stdmath "math"

	"sgengine/core"
	"sgengine/math"
)

type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightSpot
	LightPoint
)

var lightKindNames = [...]string{"ambient", "directional", "spot", "point"}

func (k LightKind) String() string {
	if k < 0 || int(k) >= len(lightKindNames) {
		return "unknown"
	}
	return lightKindNames[k]
}

// Light holds what every light kind shares.
type Light struct {
	Color     core.Color
	Intensity float32

	bounds  BoundingBox
	bounded bool
}

// Bounds is the world-space box the light can affect. Unbounded lights return false.
func (l *Light) Bounds() (BoundingBox, bool) {
	return l.bounds, l.bounded
}

// FrustumCheck reports whether the light may affect anything inside f.
// Unbounded lights always pass.
func (l *Light) FrustumCheck(f *Frustum) bool {
	return !l.bounded || BoxVisible(l.bounds, f)
}

func (l *Light) setBounds(b BoundingBox) {
	l.bounds = b
	l.bounded = true
}

// shadowBias maps clip space [-1, 1] to texture space [0, 1].
var shadowBias = math.Mat4Translation(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}).Mul(math.Mat4Scale(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}))

// ── Ambient ──────────────────────────────────────────────────────────────

// AmbientLight has no placement and lights everything evenly.
type AmbientLight struct {
	Light
}

func NewAmbientLight(color core.Color, intensity float32) *AmbientLight {
	return &AmbientLight{Light: Light{Color: color, Intensity: intensity}}
}

// ── Spot ─────────────────────────────────────────────────────────────────

// SpotLight casts shadows through a perspective or orthographic View.
type SpotLight struct {
	View
	Light
	Node NodeID

	// Range follows the far plane until it is assigned a different value.
	Range        float32
	ShadowWidth  int
	ShadowHeight int

	shadowMatrix math.Mat4
	rangeFar     float32
}

// NewSpotLight creates a perspective spot light. fov is in radians.
func NewSpotLight(g *Graph, name string, width, height int, fov, aspect, near, far float32) *SpotLight {
	l := &SpotLight{View: newPerspectiveView(fov, aspect, near, far)}
	l.init(g, name, width, height)
	return l
}

// NewOrthographicSpotLight creates a spot light with a box-shaped volume.
func NewOrthographicSpotLight(g *Graph, name string, width, height int, halfWidth, halfHeight, near, far float32) *SpotLight {
	l := &SpotLight{View: newOrthographicView(halfWidth, halfHeight, near, far)}
	l.init(g, name, width, height)
	return l
}

func (l *SpotLight) init(g *Graph, name string, width, height int) {
	l.Light = Light{Color: core.ColorWhite, Intensity: 1}
	l.Range, l.rangeFar = l.far, l.far
	l.ShadowWidth, l.ShadowHeight = width, height
	l.View.onChange = l.updateDerived
	l.Node = g.Create(name)
	g.SetHook(l.Node, &l.View)
}

func (l *SpotLight) updateDerived() {
	l.Range, l.rangeFar = followFar(l.Range, l.rangeFar, l.far)
	l.shadowMatrix = shadowBias.Mul(l.viewProj)

	corners := l.Corners()
	if l.projection == Perspective {
		l.setBounds(BoundsFromPoints(l.placement.Position, corners[4], corners[5], corners[6], corners[7]))
	} else {
		l.setBounds(BoundsFromPoints(corners[:]...))
	}
}

// followFar moves a range that still equals the previous far plane onto the
// new one and returns the far plane it now tracks.
func followFar(rng, tracked, far float32) (float32, float32) {
	if rng == tracked {
		rng = far
	}
	return rng, far
}

// ShadowMatrix maps world space to shadow-map texture coordinates.
func (l *SpotLight) ShadowMatrix() math.Mat4 { return l.shadowMatrix }

// ── Directional ──────────────────────────────────────────────────────────

// DefaultLightDirection slants slightly away from straight down.
var DefaultLightDirection = math.Vec3{X: 0, Y: -1, Z: -0.2}

// DirectionalLight is an orthographic View kept at -direction*distance,
// facing the origin. It is unbounded.
type DirectionalLight struct {
	View
	Light
	Node NodeID

	ShadowWidth  int
	ShadowHeight int

	graph        *Graph
	direction    math.Vec3
	distance     float32
	shadowMatrix math.Mat4
}

func NewDirectionalLight(g *Graph, name string, width, height int, halfExtent, near, far float32, direction math.Vec3, distance float32) *DirectionalLight {
	l := &DirectionalLight{
		View:         newOrthographicView(halfExtent, halfExtent, near, far),
		Light:        Light{Color: core.ColorWhite, Intensity: 1},
		ShadowWidth:  width,
		ShadowHeight: height,
		graph:        g,
		direction:    DefaultLightDirection.Normalize(),
		distance:     distance,
	}
	if direction.LengthSqr() > 0 {
		l.direction = direction.Normalize()
	}
	l.View.onChange = l.updateDerived
	l.Node = g.Create(name)
	g.SetHook(l.Node, &l.View)
	l.place()
	return l
}

func (l *DirectionalLight) place() {
	l.graph.SetGlobalPosition(l.Node, l.direction.Mul(-l.distance))
	l.graph.LookAtTargetGlobal(l.Node, math.Vec3Zero)
}

func (l *DirectionalLight) updateDerived() {
	l.shadowMatrix = shadowBias.Mul(l.viewProj)
}

// SetDirection ignores the zero vector.
func (l *DirectionalLight) SetDirection(direction math.Vec3) {
	if direction.LengthSqr() == 0 {
		return
	}
	l.direction = direction.Normalize()
	l.place()
}

func (l *DirectionalLight) SetDistance(distance float32) {
	l.distance = distance
	l.place()
}

func (l *DirectionalLight) Direction() math.Vec3     { return l.direction }
func (l *DirectionalLight) Distance() float32        { return l.distance }
func (l *DirectionalLight) ShadowMatrix() math.Mat4 { return l.shadowMatrix }

// ── Point ────────────────────────────────────────────────────────────────

// CubeFaces is the number of shadow views of a point light.
const CubeFaces = 6

var (
	cubeDirections = [CubeFaces]math.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	cubeRights = [CubeFaces]math.Vec3{
		{Z: -1}, {Z: 1}, {X: 1}, {X: 1}, {X: 1}, {X: -1},
	}
	cubeUps = [CubeFaces]math.Vec3{
		{Y: -1}, {Y: -1}, {Z: 1}, {Z: -1}, {Y: -1}, {Y: -1},
	}
)

const cubeFov = stdmath.Pi / 2

// PointLight shines in every direction. It keeps one view and frustum per
// cube face and a bounding box centered on its position.
type PointLight struct {
	Light
	Node NodeID

	// Range follows the far plane until it is assigned a different value.
	Range      float32
	ShadowSize int

	near, far  float32
	rangeFar   float32
	position   math.Vec3
	projection math.Mat4
	views      [CubeFaces]math.Mat4
	viewProjs  [CubeFaces]math.Mat4
	frustums   [CubeFaces]Frustum
}

func NewPointLight(g *Graph, name string, resolution int, near, far float32) *PointLight {
	l := &PointLight{
		Light:      Light{Color: core.ColorWhite, Intensity: 1},
		Range:      far,
		rangeFar:   far,
		ShadowSize: resolution,
		near:       near,
		far:        far,
	}
	l.projection = math.Mat4Perspective(cubeFov, 1, near, far)
	l.Node = g.Create(name)
	g.SetHook(l.Node, l)
	return l
}

// Recompute implements Recomputable.
func (l *PointLight) Recompute(global core.Transform) {
	l.position = global.Position
	l.refresh()
}

func (l *PointLight) refresh() {
	for i := 0; i < CubeFaces; i++ {
		dir, up, right := cubeDirections[i], cubeUps[i], cubeRights[i]
		l.views[i] = math.Mat4LookAt(l.position, l.position.Add(dir), up)
		l.viewProjs[i] = l.projection.Mul(l.views[i])
		l.frustums[i] = PerspectiveFrustum(l.position, dir, up, right, cubeFov, 1, l.near, l.far)
	}
	l.setBounds(BoundingBox{Center: l.position, Extents: math.Vec3{X: l.far, Y: l.far, Z: l.far}})
}

func (l *PointLight) SetNearPlane(near float32) {
	l.near = near
	l.projection = math.Mat4Perspective(cubeFov, 1, l.near, l.far)
	l.refresh()
}

func (l *PointLight) SetFarPlane(far float32) {
	l.far = far
	l.Range, l.rangeFar = followFar(l.Range, l.rangeFar, far)
	l.projection = math.Mat4Perspective(cubeFov, 1, l.near, l.far)
	l.refresh()
}

func (l *PointLight) NearPlane() float32          { return l.near }
func (l *PointLight) FarPlane() float32           { return l.far }
func (l *PointLight) Position() math.Vec3         { return l.position }
func (l *PointLight) ProjectionMatrix() math.Mat4 { return l.projection }

// FaceView returns the view matrix of cube face i (0..5: +X, -X, +Y, -Y, +Z, -Z).
func (l *PointLight) FaceView(i int) math.Mat4           { return l.views[i] }
func (l *PointLight) FaceViewProjection(i int) math.Mat4 { return l.viewProjs[i] }
func (l *PointLight) FaceFrustum(i int) *Frustum         { return &l.frustums[i] }
