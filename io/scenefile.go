package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sgengine/core"
	"sgengine/math"
	"sgengine/render"
	"sgengine/scene"
)

// SceneFile is the top-level structure of a scene description. YAML and JSON
// files share it.
type SceneFile struct {
	Version  string      `yaml:"version" json:"version"`
	Name     string      `yaml:"name" json:"name"`
	Settings Settings    `yaml:"settings" json:"settings"`
	Camera   CameraData  `yaml:"camera" json:"camera"`
	Lights   []LightData `yaml:"lights,omitempty" json:"lights,omitempty"`
	Nodes    []NodeData  `yaml:"nodes,omitempty" json:"nodes,omitempty"`

	// dir resolves relative mesh file paths; set by LoadScene.
	dir string
}

// Settings holds presentation options.
type Settings struct {
	Window     core.WindowConfig `yaml:"window" json:"window"`
	ShadowSize int               `yaml:"shadow_size" json:"shadow_size"`
	ClearColor [4]float32        `yaml:"clear_color" json:"clear_color"`
}

// CameraData places the camera. FOV is in degrees.
type CameraData struct {
	FOV      float32    `yaml:"fov" json:"fov"`
	Near     float32    `yaml:"near" json:"near"`
	Far      float32    `yaml:"far" json:"far"`
	Position [3]float32 `yaml:"position" json:"position"`
	Target   [3]float32 `yaml:"target" json:"target"`
}

// LightData describes one light. Which fields apply depends on Kind:
// "ambient", "directional", "spot" or "point". Angles are in degrees.
type LightData struct {
	Kind      string      `yaml:"kind" json:"kind"`
	Name      string      `yaml:"name,omitempty" json:"name,omitempty"`
	Parent    string      `yaml:"parent,omitempty" json:"parent,omitempty"`
	Color     *[4]float32 `yaml:"color,omitempty" json:"color,omitempty"`
	Intensity *float32    `yaml:"intensity,omitempty" json:"intensity,omitempty"`

	Position  [3]float32  `yaml:"position" json:"position"`
	Target    *[3]float32 `yaml:"target,omitempty" json:"target,omitempty"`
	Direction [3]float32  `yaml:"direction" json:"direction"`
	Distance  float32     `yaml:"distance,omitempty" json:"distance,omitempty"`

	Projection string  `yaml:"projection,omitempty" json:"projection,omitempty"`
	FOV        float32 `yaml:"fov,omitempty" json:"fov,omitempty"`
	HalfExtent float32 `yaml:"half_extent,omitempty" json:"half_extent,omitempty"`
	Near       float32 `yaml:"near,omitempty" json:"near,omitempty"`
	Far        float32 `yaml:"far,omitempty" json:"far,omitempty"`
	Range      float32 `yaml:"range,omitempty" json:"range,omitempty"`
	ShadowSize int     `yaml:"shadow_size,omitempty" json:"shadow_size,omitempty"`
}

// NodeData is one graph node. Parent refers to another node's ID. Rotation
// is XYZ euler in degrees.
type NodeData struct {
	ID       string      `yaml:"id,omitempty" json:"id,omitempty"`
	Name     string      `yaml:"name" json:"name"`
	Parent   string      `yaml:"parent,omitempty" json:"parent,omitempty"`
	Position [3]float32  `yaml:"position" json:"position"`
	Rotation [3]float32  `yaml:"rotation" json:"rotation"`
	Scale    *[3]float32 `yaml:"scale,omitempty" json:"scale,omitempty"`
	Bounds   *BoundsData `yaml:"bounds,omitempty" json:"bounds,omitempty"`

	// Mesh is a primitive ("cube", "plane", "sphere", "cylinder") or a path
	// to an .obj file, relative to the scene file.
	Mesh  string      `yaml:"mesh,omitempty" json:"mesh,omitempty"`
	Size  float32     `yaml:"size,omitempty" json:"size,omitempty"`
	Color *[4]float32 `yaml:"color,omitempty" json:"color,omitempty"`

	CastsShadows    *bool `yaml:"casts_shadows,omitempty" json:"casts_shadows,omitempty"`
	ReceivesShadows *bool `yaml:"receives_shadows,omitempty" json:"receives_shadows,omitempty"`
	Lit             *bool `yaml:"lit,omitempty" json:"lit,omitempty"`
	FrustumCheck    *bool `yaml:"frustum_check,omitempty" json:"frustum_check,omitempty"`
}

// BoundsData is a model-space box.
type BoundsData struct {
	Center  [3]float32 `yaml:"center" json:"center"`
	Extents [3]float32 `yaml:"extents" json:"extents"`
}

// ── Load / save ───────────────────────────────────────────────────────────────

// LoadScene reads a scene file. JSON is accepted as YAML.
func LoadScene(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scene file")
	}
	sf, err := ParseScene(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene file %q", path)
	}
	sf.dir = filepath.Dir(path)
	return sf, nil
}

// ParseScene decodes a scene description and fills defaults.
func ParseScene(data []byte) (*SceneFile, error) {
	sf := NewDefaultSceneFile("")
	sf.Lights = nil
	if err := yaml.Unmarshal(data, sf); err != nil {
		return nil, errors.Wrap(err, "failed to parse scene file")
	}
	sf.applyDefaults()
	return sf, nil
}

// SaveScene writes sf as JSON when path ends in .json, YAML otherwise.
func SaveScene(path string, sf *SceneFile) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(sf, "", "  ")
	} else {
		data, err = yaml.Marshal(sf)
	}
	if err != nil {
		return errors.Wrap(err, "failed to marshal scene")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "failed to write scene file")
}

// NewDefaultSceneFile creates a scene with a camera and one directional light.
func NewDefaultSceneFile(name string) *SceneFile {
	return &SceneFile{
		Version: "1.0",
		Name:    name,
		Settings: Settings{
			Window:     core.DefaultWindowConfig(),
			ShadowSize: 1024,
			ClearColor: [4]float32{0.1, 0.1, 0.12, 1},
		},
		Camera: CameraData{
			FOV:      60,
			Near:     0.1,
			Far:      1000,
			Position: [3]float32{0, 2, 5},
		},
		Lights: []LightData{
			{
				Kind:      "directional",
				Direction: [3]float32{0.5, -1, -0.5},
				Distance:  50,
			},
		},
	}
}

func (sf *SceneFile) applyDefaults() {
	if sf.Settings.ShadowSize <= 0 {
		sf.Settings.ShadowSize = 1024
	}
	if sf.Settings.Window.Width <= 0 || sf.Settings.Window.Height <= 0 {
		def := core.DefaultWindowConfig()
		sf.Settings.Window.Width, sf.Settings.Window.Height = def.Width, def.Height
	}
	if sf.Camera.FOV <= 0 {
		sf.Camera.FOV = 60
	}
	if sf.Camera.Near <= 0 {
		sf.Camera.Near = 0.1
	}
	if sf.Camera.Far <= sf.Camera.Near {
		sf.Camera.Far = 1000
	}
}

// ── Build ─────────────────────────────────────────────────────────────────────

// Build creates a graph and world from the description. Nodes keep their
// UUIDs (see scene.Graph.Lookup); nodes without an id get a fresh one, which
// is written back into sf.
func (sf *SceneFile) Build() (*render.World, error) {
	g := scene.NewGraph()
	w := render.NewWorld(g)

	win := sf.Settings.Window
	cam := scene.NewCamera(g, "camera", mgl32.DegToRad(sf.Camera.FOV),
		float32(win.Width)/float32(win.Height), sf.Camera.Near, sf.Camera.Far)
	pos, target := vec3(sf.Camera.Position), vec3(sf.Camera.Target)
	g.SetGlobalPosition(cam.Node, pos)
	if !target.ApproxEqual(pos, 1e-6) {
		g.LookAtTargetGlobal(cam.Node, target)
	}
	w.Camera = cam

	if err := sf.buildNodes(w); err != nil {
		return nil, err
	}
	for i := range sf.Lights {
		if err := sf.buildLight(w, &sf.Lights[i]); err != nil {
			return nil, errors.Wrapf(err, "light %d", i)
		}
	}
	return w, nil
}

func (sf *SceneFile) buildNodes(w *render.World) error {
	g := w.Graph
	cache := make(map[meshKey][]*scene.Mesh)

	for i := range sf.Nodes {
		nd := &sf.Nodes[i]
		id := uuid.New()
		if nd.ID != "" {
			parsed, err := uuid.Parse(nd.ID)
			if err != nil {
				return errors.Wrapf(err, "node %q: bad id", nd.Name)
			}
			if _, taken := g.Lookup(parsed); taken {
				return errors.Errorf("node %q: duplicate id %s", nd.Name, parsed)
			}
			id = parsed
		}
		nd.ID = id.String()

		n := g.CreateWithUUID(nd.Name, id)
		g.SetLocalPosition(n, vec3(nd.Position))
		g.SetLocalRotation(n,
			mgl32.DegToRad(nd.Rotation[0]),
			mgl32.DegToRad(nd.Rotation[1]),
			mgl32.DegToRad(nd.Rotation[2]))
		if nd.Scale != nil {
			g.SetLocalScale(n, vec3(*nd.Scale))
		}
		if nd.Bounds != nil {
			g.SetBounds(n, scene.BoundingBox{Center: vec3(nd.Bounds.Center), Extents: vec3(nd.Bounds.Extents)})
		}

		if nd.Mesh == "" {
			continue
		}
		meshes, err := sf.meshesFor(cache, nd.Mesh, nd.Size)
		if err != nil {
			return errors.Wrapf(err, "node %q", nd.Name)
		}
		for mi, mesh := range meshes {
			target := n
			if mi > 0 {
				// Extra OBJ groups hang below the node
				target = g.Create(fmt.Sprintf("%s_%d", nd.Name, mi))
				g.AddChild(n, target, true)
			}
			o := w.AttachObject(target, mesh)
			if nd.Color != nil {
				o.Color = color(*nd.Color)
			}
			o.CastsShadows = boolOr(nd.CastsShadows, o.CastsShadows)
			o.ReceivesShadows = boolOr(nd.ReceivesShadows, o.ReceivesShadows)
			o.Lit = boolOr(nd.Lit, o.Lit)
			o.PerformFrustumCheck = boolOr(nd.FrustumCheck, o.PerformFrustumCheck)
		}
	}

	for i := range sf.Nodes {
		nd := &sf.Nodes[i]
		if nd.Parent == "" {
			continue
		}
		child, _ := g.Lookup(uuid.MustParse(nd.ID))
		if err := attach(g, child, nd.Parent); err != nil {
			return errors.Wrapf(err, "node %q", nd.Name)
		}
	}
	return nil
}

// attach parents child under the node with the given UUID, keeping the
// child's local placement.
func attach(g *scene.Graph, child scene.NodeID, parentID string) error {
	pid, err := uuid.Parse(parentID)
	if err != nil {
		return errors.Wrap(err, "bad parent id")
	}
	parent, ok := g.Lookup(pid)
	if !ok {
		return errors.Errorf("unknown parent %s", pid)
	}
	if !g.AddChild(parent, child, true) {
		return errors.Errorf("cannot attach to parent %s", pid)
	}
	return nil
}

func (sf *SceneFile) buildLight(w *render.World, ld *LightData) error {
	g := w.Graph
	size := ld.ShadowSize
	if size <= 0 {
		size = sf.Settings.ShadowSize
	}
	name := ld.Name
	if name == "" {
		name = ld.Kind + "_light"
	}
	near, far := orDefault(ld.Near, 0.1), orDefault(ld.Far, 100)

	var (
		light *scene.Light
		node  scene.NodeID
	)
	switch ld.Kind {
	case "ambient":
		a := scene.NewAmbientLight(core.ColorWhite, 1)
		w.AddAmbient(a)
		light = &a.Light

	case "directional":
		half := orDefault(ld.HalfExtent, 20)
		dist := orDefault(ld.Distance, 50)
		d := scene.NewDirectionalLight(g, name, size, size, half, near, far, vec3(ld.Direction), dist)
		w.AddDirectional(d)
		light = &d.Light

	case "spot":
		var s *scene.SpotLight
		switch ld.Projection {
		case "", "perspective":
			s = scene.NewSpotLight(g, name, size, size, mgl32.DegToRad(orDefault(ld.FOV, 45)), 1, near, far)
		case "orthographic":
			half := orDefault(ld.HalfExtent, 10)
			s = scene.NewOrthographicSpotLight(g, name, size, size, half, half, near, far)
		default:
			return errors.Errorf("unknown projection %q", ld.Projection)
		}
		g.SetLocalPosition(s.Node, vec3(ld.Position))
		if ld.Target != nil {
			g.LookAtTargetLocal(s.Node, vec3(*ld.Target))
		}
		if ld.Range > 0 {
			s.Range = ld.Range
		}
		w.AddSpot(s)
		light, node = &s.Light, s.Node

	case "point":
		p := scene.NewPointLight(g, name, size, near, far)
		g.SetLocalPosition(p.Node, vec3(ld.Position))
		if ld.Range > 0 {
			p.Range = ld.Range
		}
		w.AddPoint(p)
		light, node = &p.Light, p.Node

	default:
		return errors.Errorf("unknown light kind %q", ld.Kind)
	}

	if ld.Color != nil {
		light.Color = color(*ld.Color)
	}
	if ld.Intensity != nil {
		light.Intensity = *ld.Intensity
	}
	if ld.Parent != "" {
		if node.IsNil() {
			return errors.Errorf("%s light cannot have a parent", ld.Kind)
		}
		return attach(g, node, ld.Parent)
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type meshKey struct {
	kind string
	size float32
}

// meshesFor shares meshes between nodes asking for the same primitive or
// file. Primitives yield one mesh; an OBJ file yields one per group.
func (sf *SceneFile) meshesFor(cache map[meshKey][]*scene.Mesh, kind string, size float32) ([]*scene.Mesh, error) {
	size = orDefault(size, 1)
	key := meshKey{kind, size}
	if m, ok := cache[key]; ok {
		return m, nil
	}
	var m *scene.Mesh
	switch kind {
	case "cube":
		m = scene.CreateCube(size)
	case "plane":
		m = scene.CreatePlane(size)
	case "sphere":
		m = scene.CreateSphere(size/2, 24, 16)
	case "cylinder":
		m = scene.CreateCylinder(size/2, size, 24)
	default:
		if !strings.EqualFold(filepath.Ext(kind), ".obj") {
			return nil, errors.Errorf("unknown mesh %q", kind)
		}
		path := kind
		if !filepath.IsAbs(path) {
			path = filepath.Join(sf.dir, path)
		}
		meshes, err := LoadOBJ(path)
		if err != nil {
			return nil, err
		}
		cache[key] = meshes
		return meshes, nil
	}
	cache[key] = []*scene.Mesh{m}
	return cache[key], nil
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func color(a [4]float32) core.Color {
	return core.Color{R: a[0], G: a[1], B: a[2], A: a[3]}
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func orDefault(v, def float32) float32 {
	if v <= 0 {
		return def
	}
	return v
}
