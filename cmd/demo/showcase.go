package main

import (
	"fmt"

	"sgengine/core"
	sgio "sgengine/io"
	"sgengine/math"
	"sgengine/render"
	"sgengine/scene"
)

// Fixed ids so the orrery can be parented inside the description.
const (
	sunID    = "3f1c1c9e-52c1-4c55-9d0a-6a2b7e0f1a01"
	planetID = "3f1c1c9e-52c1-4c55-9d0a-6a2b7e0f1a02"
)

func ptr[T any](v T) *T { return &v }

// showcaseScene is used when no scene file is given: a ground plane, a ring
// of pillars and a three-level orrery lit by sun, spot and point lights.
func showcaseScene() *sgio.SceneFile {
	sf := sgio.NewDefaultSceneFile("showcase")
	sf.Camera.Position = [3]float32{0, 4, 10}
	sf.Camera.Target = [3]float32{0, 1, 0}

	sf.Nodes = []sgio.NodeData{
		{
			Name:         "ground",
			Mesh:         "plane",
			Size:         40,
			Color:        &[4]float32{0.55, 0.55, 0.5, 1},
			CastsShadows: ptr(false),
		},
		{
			ID:       sunID,
			Name:     "sun",
			Position: [3]float32{0, 2, 0},
			Mesh:     "cube",
			Color:    &[4]float32{1, 0.8, 0.2, 1},
		},
		{
			ID:       planetID,
			Name:     "planet",
			Parent:   sunID,
			Position: [3]float32{3, 0, 0},
			Scale:    &[3]float32{0.5, 0.5, 0.5},
			Mesh:     "sphere",
			Color:    &[4]float32{0.2, 0.5, 1, 1},
		},
		{
			Name:     "moon",
			Parent:   planetID,
			Position: [3]float32{2, 0, 0},
			Scale:    &[3]float32{0.4, 0.4, 0.4},
			Mesh:     "sphere",
		},
	}
	const pillars = 8
	for i := 0; i < pillars; i++ {
		x := float32(i%4)*4 - 6
		z := float32(i/4)*12 - 6
		sf.Nodes = append(sf.Nodes, sgio.NodeData{
			Name:     fmt.Sprintf("pillar_%d", i),
			Position: [3]float32{x, 1.5, z},
			Scale:    &[3]float32{1.2, 3, 1.2},
			Mesh:     "cylinder",
			Color:    &[4]float32{0.8, 0.8, 0.85, 1},
		})
	}

	sf.Lights = append(sf.Lights,
		sgio.LightData{Kind: "ambient", Intensity: ptr(float32(1))},
		sgio.LightData{
			Kind:      "spot",
			Name:      "spot",
			Position:  [3]float32{6, 8, 4},
			Target:    &[3]float32{0, 0, 0},
			FOV:       50,
			Far:       40,
			Color:     &[4]float32{1, 0.9, 0.8, 1},
			Intensity: ptr(float32(1.5)),
		},
		sgio.LightData{
			Kind:      "point",
			Name:      "lamp",
			Parent:    planetID,
			Position:  [3]float32{0, 2, 0},
			Far:       15,
			Color:     &[4]float32{0.3, 0.6, 1, 1},
			Intensity: ptr(float32(1.2)),
		},
	)
	return sf
}

// addOrrery spins the sun and planet nodes, if present. Children inherit
// the rotation, so the planet orbits the sun and the moon orbits the planet.
func addOrrery(w *render.World) {
	g := w.Graph
	sun, okSun := g.Find("sun")
	planet, okPlanet := g.Find("planet")
	if !okSun && !okPlanet {
		return
	}
	w.Loop.Add(&scene.BehaviourFuncs{
		OnUpdate: func(dt float64) {
			if okSun {
				g.RotateLocal(sun, math.Vec3Up, float32(dt)*0.4)
			}
			if okPlanet {
				g.RotateLocal(planet, math.Vec3Up, float32(dt)*1.5)
			}
		},
	})
}

// addDayNight attaches the cycle to the first directional and ambient light.
func addDayNight(w *render.World, sky func(core.Color)) *DayNight {
	var (
		sun     *scene.DirectionalLight
		ambient *scene.AmbientLight
	)
	if len(w.Directionals) > 0 {
		sun = w.Directionals[0]
	}
	if len(w.Ambients) > 0 {
		ambient = w.Ambients[0]
	}
	dn := NewDayNight(sun, ambient, sky)
	w.Loop.Add(dn)
	return dn
}
