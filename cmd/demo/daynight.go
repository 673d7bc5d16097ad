package main

import (
	"fmt"
	stdmath "math"

	"sgengine/core"
	"sgengine/math"
	"sgengine/scene"
)

// dayPalette holds the sky/light values for one key time of day.
type dayPalette struct {
	t            float32 // normalised time 0..1
	sky          core.Color
	sunColor     core.Color
	sunIntensity float32
	ambient      core.Color
}

// palettes defines the key sky/light states throughout the day.
// t is ordered 0→1 and wraps (0 == 1).
var palettes = []dayPalette{
	{ // noon
		t:            0.00,
		sky:          core.Color{R: 0.58, G: 0.75, B: 0.95, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.98, B: 0.92, A: 1},
		sunIntensity: 1.10,
		ambient:      core.Color{R: 0.16, G: 0.18, B: 0.26, A: 1},
	},
	{ // golden hour
		t:            0.22,
		sky:          core.Color{R: 0.90, G: 0.52, B: 0.18, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.65, B: 0.25, A: 1},
		sunIntensity: 0.80,
		ambient:      core.Color{R: 0.10, G: 0.12, B: 0.20, A: 1},
	},
	{ // dusk
		t:            0.30,
		sky:          core.Color{R: 0.35, G: 0.18, B: 0.22, A: 1},
		sunColor:     core.Color{R: 0.70, G: 0.40, B: 0.55, A: 1},
		sunIntensity: 0.20,
		ambient:      core.Color{R: 0.06, G: 0.07, B: 0.14, A: 1},
	},
	{ // midnight
		t:            0.50,
		sky:          core.Color{R: 0.02, G: 0.02, B: 0.06, A: 1},
		sunColor:     core.Color{R: 0.40, G: 0.45, B: 0.70, A: 1},
		sunIntensity: 0.05,
		ambient:      core.Color{R: 0.03, G: 0.03, B: 0.07, A: 1},
	},
	{ // dawn
		t:            0.72,
		sky:          core.Color{R: 0.80, G: 0.55, B: 0.45, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.70, B: 0.50, A: 1},
		sunIntensity: 0.60,
		ambient:      core.Color{R: 0.10, G: 0.10, B: 0.16, A: 1},
	},
}

// DayNight swings the sun around the scene and blends light colours.
// It runs as a scene behaviour.
type DayNight struct {
	Time   float32 // 0..1: 0=noon, 0.25=sunset, 0.5=midnight, 0.75=sunrise
	Speed  float32 // full-cycle duration in seconds
	Active bool    // auto-advance when true

	sun     *scene.DirectionalLight
	ambient *scene.AmbientLight
	sky     func(core.Color)
}

// NewDayNight drives sun and ambient; either may be nil. sky receives the
// clear colour each frame when set.
func NewDayNight(sun *scene.DirectionalLight, ambient *scene.AmbientLight, sky func(core.Color)) *DayNight {
	return &DayNight{
		Speed:   120,
		Active:  true,
		sun:     sun,
		ambient: ambient,
		sky:     sky,
	}
}

func (dn *DayNight) Start() {
	dn.apply()
}

func (dn *DayNight) Update(dt float64) {
	if dn.Active {
		dn.Time += float32(dt) / dn.Speed
		for dn.Time >= 1 {
			dn.Time--
		}
	}
	dn.apply()
}

func (dn *DayNight) apply() {
	p := samplePalette(dn.Time)

	// Full rotation in the XY plane, tilted along Z
	angle := float64(dn.Time * 2 * stdmath.Pi)
	dir := math.Vec3{
		X: float32(stdmath.Sin(angle)),
		Y: -float32(stdmath.Cos(angle)), // -1 = noon (overhead), +1 = midnight
		Z: 0.35,
	}

	if dn.sun != nil {
		dn.sun.SetDirection(dir)
		dn.sun.Color = p.sunColor
		dn.sun.Intensity = p.sunIntensity
	}
	if dn.ambient != nil {
		dn.ambient.Color = p.ambient
		dn.ambient.Intensity = 1
	}
	if dn.sky != nil {
		dn.sky(p.sky)
	}
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return core.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: 1,
	}
}

// samplePalette interpolates the two keyframes around t, wrapping from the
// last key back to noon.
func samplePalette(t float32) dayPalette {
	n := len(palettes)
	a, b := palettes[n-1], palettes[0]
	ta, tb := a.t, b.t+1
	for i := 0; i < n-1; i++ {
		if t >= palettes[i].t && t < palettes[i+1].t {
			a, b = palettes[i], palettes[i+1]
			ta, tb = a.t, b.t
			break
		}
	}
	if t < ta {
		t++
	}
	f := (t - ta) / (tb - ta)

	return dayPalette{
		t:            t,
		sky:          lerpColor(a.sky, b.sky, f),
		sunColor:     lerpColor(a.sunColor, b.sunColor, f),
		sunIntensity: a.sunIntensity + (b.sunIntensity-a.sunIntensity)*f,
		ambient:      lerpColor(a.ambient, b.ambient, f),
	}
}

// TimeOfDayStr returns a human-readable time label.
func (dn *DayNight) TimeOfDayStr() string {
	// Time 0 is noon
	hours := stdmath.Mod(float64(dn.Time)*24+12, 24)
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	period := "AM"
	displayH := h
	switch {
	case h == 0:
		displayH = 12
	case h == 12:
		period = "PM"
	case h > 12:
		displayH = h - 12
		period = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", displayH, m, period)
}
