package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sgengine/core"
	"sgengine/internal/opengl"
	"sgengine/internal/platform"
	sgio "sgengine/io"
	"sgengine/render"
	"sgengine/scene"
)

func main() {
	scenePath := flag.String("scene", "", "scene file (YAML or JSON); built-in showcase when empty")
	gltfPath := flag.String("gltf", "", "glTF/GLB model to add to the scene")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	scene.SetLogger(logrus.StandardLogger())

	if err := run(*scenePath, *gltfPath); err != nil {
		logrus.WithError(err).Fatal("demo failed")
	}
}

func run(scenePath, gltfPath string) error {
	sf := showcaseScene()
	if scenePath != "" {
		var err error
		if sf, err = sgio.LoadScene(scenePath); err != nil {
			return err
		}
	}
	w, err := sf.Build()
	if err != nil {
		return errors.Wrap(err, "build scene")
	}
	if gltfPath != "" {
		res, err := sgio.ImportGLTF(w, gltfPath)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"nodes": len(res.Nodes), "objects": len(res.Objects)}).Info("glTF imported")
	}

	window, err := platform.NewWindow(sf.Settings.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	r, err := opengl.NewRenderer()
	if err != nil {
		return err
	}
	defer r.Destroy()
	c := sf.Settings.ClearColor
	r.SetClearColor(core.Color{R: c[0], G: c[1], B: c[2], A: c[3]})

	fbW, fbH := window.GetFramebufferSize()
	r.SetViewport(fbW, fbH)
	w.Camera.UpdateAspectRatio(float32(fbW), float32(fbH))

	w.Loop.Add(NewCameraController(window, w.Graph, w.Camera.Node))
	addOrrery(w)
	dayNight := addDayNight(w, r.SetClearColor)

	logrus.WithFields(logrus.Fields{
		"scene":   sf.Name,
		"nodes":   w.Graph.Len(),
		"objects": len(w.Objects()),
		"lights":  w.LightCount(),
	}).Info("scene ready")
	fmt.Println("WASD move, Q/E down/up, arrows look, shift fast, P wireframe, N pause day/night, click to pick, ESC exit")

	d := render.NewDispatcher()
	status := &StatusLine{}
	wireKeyWasDown, dnKeyWasDown, clickWasDown := false, false, false
	last := window.Time()
	titleTime, frames := last, 0

	for !window.ShouldClose() {
		window.PollEvents()
		if window.IsKeyPressed(platform.KeyEscape) {
			window.SetShouldClose(true)
		}

		pDown := window.IsKeyPressed(platform.KeyP)
		if pDown && !wireKeyWasDown {
			r.SetWireframe(!r.IsWireframe())
		}
		wireKeyWasDown = pDown

		nDown := window.IsKeyPressed(platform.KeyN)
		if nDown && !dnKeyWasDown {
			dayNight.Active = !dayNight.Active
		}
		dnKeyWasDown = nDown

		click := window.IsMouseButtonPressed(platform.MouseButtonLeft)
		if click && !clickWasDown {
			pick(window, w)
		}
		clickWasDown = click

		if w2, h2 := window.GetFramebufferSize(); w2 != fbW || h2 != fbH {
			fbW, fbH = w2, h2
			r.SetViewport(fbW, fbH)
			w.Camera.UpdateAspectRatio(float32(fbW), float32(fbH))
		}

		now := window.Time()
		plan := d.Frame(w, now-last)
		last = now

		if err := r.Execute(plan, w); err != nil {
			return err
		}
		window.SwapBuffers()

		frames++
		if now-titleTime >= 1 {
			st := plan.Stats
			status.Clear()
			status.Add("%s", sf.Settings.Window.Title)
			status.Add("FPS %d", frames)
			status.Add("drawn %d/%d", st.Visible, st.Objects)
			status.Add("shadow passes %d (%d draws)", st.ShadowPasses, st.ShadowDraws)
			status.Add("%s", dayNight.TimeOfDayStr())
			window.SetTitle(status.String())
			logrus.WithFields(logrus.Fields{
				"fps":     frames,
				"visible": st.Visible,
				"culled":  st.Culled,
				"skipped": st.SkippedLights,
			}).Debug("frame stats")
			frames, titleTime = 0, now
		}
	}
	logrus.Info("exiting")
	return nil
}

// pick logs the object under the cursor.
func pick(window *platform.Window, w *render.World) {
	x, y := window.CursorPos()
	width, height := window.Size()
	ray := render.ScreenRay(&w.Camera.View, float32(x), float32(y), float32(width), float32(height))
	hit, ok := w.Pick(ray)
	if !ok {
		logrus.Info("nothing picked")
		return
	}
	g := w.Graph
	logrus.WithFields(logrus.Fields{
		"object":   hit.Object.Name,
		"uuid":     g.UUID(hit.Object.Node),
		"distance": hit.Distance,
		"point":    hit.Point,
	}).Info("picked")
}
