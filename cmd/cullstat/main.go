// Command cullstat builds a scene without a window, runs a number of frames
// and prints what the dispatcher culled and which shadow passes it planned.
package main

import (
	"flag"
	"fmt"
	stdmath "math"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	sgio "sgengine/io"
	"sgengine/math"
	"sgengine/render"
	"sgengine/scene"
)

// nodeRow is one line of the -dump table.
type nodeRow struct {
	Name     string
	UUID     string
	Parent   string
	Position math.Vec3
	Forward  math.Vec3
	Scale    math.Vec3
	Bounds   *scene.BoundingBox
	Visible  bool
}

func main() {
	scenePath := flag.String("scene", "", "scene file (YAML or JSON); default scene when empty")
	gltfPath := flag.String("gltf", "", "glTF/GLB model to add to the scene")
	frames := flag.Int("frames", 1, "frames to simulate")
	dt := flag.Float64("dt", 1.0/60, "frame time in seconds")
	spin := flag.Float64("spin", 0, "camera yaw rate in degrees per second")
	verbose := flag.Bool("v", false, "debug logging")
	dump := flag.Bool("dump", false, "dump the resolved node table after the last frame")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	scene.SetLogger(logrus.StandardLogger())

	w, err := load(*scenePath, *gltfPath)
	if err != nil {
		logrus.WithError(err).Fatal("cullstat")
	}

	if *spin != 0 {
		rate := float32(*spin * stdmath.Pi / 180)
		g, cam := w.Graph, w.Camera.Node
		w.Loop.Add(&scene.BehaviourFuncs{
			OnUpdate: func(dt float64) { g.RotateGlobal(cam, math.Vec3Up, rate*float32(dt)) },
		})
	}

	d := render.NewDispatcher()
	var plan *render.Plan
	for i := 0; i < *frames; i++ {
		plan = d.Frame(w, *dt)
		st := plan.Stats
		fmt.Printf("frame %d: objects=%d visible=%d culled=%d shadow_passes=%d shadow_draws=%d skipped_lights=%d\n",
			i, st.Objects, st.Visible, st.Culled, st.ShadowPasses, st.ShadowDraws, st.SkippedLights)
		if *verbose {
			for _, p := range plan.Shadows {
				logrus.WithFields(logrus.Fields{
					"kind":  p.Kind,
					"light": p.Index,
					"face":  p.Face,
					"draws": len(p.Draws),
				}).Debug("shadow pass")
			}
		}
	}

	if *dump && plan != nil {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(os.Stdout, nodeTable(w))
	}
}

func load(scenePath, gltfPath string) (*render.World, error) {
	sf := sgio.NewDefaultSceneFile("default")
	if scenePath != "" {
		var err error
		if sf, err = sgio.LoadScene(scenePath); err != nil {
			return nil, err
		}
	}
	w, err := sf.Build()
	if err != nil {
		return nil, err
	}
	if gltfPath != "" {
		if _, err := sgio.ImportGLTF(w, gltfPath); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// nodeTable lists every live node in graph order with its camera visibility.
func nodeTable(w *render.World) []nodeRow {
	g := w.Graph
	f := w.Camera.Frustum()
	var rows []nodeRow
	g.Each(func(id scene.NodeID) {
		row := nodeRow{
			Name:     g.Name(id),
			UUID:     g.UUID(id).String(),
			Position: g.GlobalPosition(id),
			Forward:  g.GlobalForward(id),
			Scale:    g.GlobalScale(id),
			Visible:  g.Visible(id, f),
		}
		if p := g.Parent(id); !p.IsNil() {
			row.Parent = g.Name(p)
		}
		if b, ok := g.WorldBounds(id); ok {
			row.Bounds = &b
		}
		rows = append(rows, row)
	})
	return rows
}
