package main

import (
	"sgengine/internal/platform"
	"sgengine/math"
	"sgengine/scene"
)

// CameraController flies the camera node from the keyboard. It runs as a
// scene behaviour so movement lands before the frame is culled.
//
//	W/S A/D  move along the view, strafe
//	Q/E      down, up
//	arrows   yaw, pitch
//	shift    move faster
type CameraController struct {
	moveSpeed float32
	turnSpeed float32

	window *platform.Window
	graph  *scene.Graph
	camera scene.NodeID
}

func NewCameraController(window *platform.Window, g *scene.Graph, camera scene.NodeID) *CameraController {
	return &CameraController{
		moveSpeed: 6.0,
		turnSpeed: 1.5,
		window:    window,
		graph:     g,
		camera:    camera,
	}
}

func (cc *CameraController) Start() {}

func (cc *CameraController) Update(dt float64) {
	// Cap dt to avoid huge steps on hitches
	step := float32(dt)
	if step > 0.05 {
		step = 0.05
	}
	key := cc.window.IsKeyPressed
	g, cam := cc.graph, cc.camera

	speed := cc.moveSpeed
	if key(platform.KeyLeftShift) {
		speed *= 3
	}

	// Horizontal movement ignores pitch so strafing stays level
	forward := g.GlobalForward(cam)
	forward.Y = 0
	forward = forward.Normalize()
	right := g.GlobalRight(cam)
	right.Y = 0
	right = right.Normalize()

	move := math.Vec3{}
	if key(platform.KeyW) {
		move = move.Add(forward)
	}
	if key(platform.KeyS) {
		move = move.Sub(forward)
	}
	if key(platform.KeyD) {
		move = move.Add(right)
	}
	if key(platform.KeyA) {
		move = move.Sub(right)
	}
	if key(platform.KeyE) {
		move = move.Add(math.Vec3Up)
	}
	if key(platform.KeyQ) {
		move = move.Add(math.Vec3Down)
	}
	if move.LengthSqr() > 0 {
		g.TranslateGlobal(cam, move.Normalize().Mul(speed*step))
	}

	turn := cc.turnSpeed * step
	if key(platform.KeyLeft) {
		g.RotateGlobal(cam, math.Vec3Up, turn)
	}
	if key(platform.KeyRight) {
		g.RotateGlobal(cam, math.Vec3Up, -turn)
	}
	// Pitch about the camera's own right axis, stopping short of vertical
	pitchUp := key(platform.KeyUp)
	pitchDown := key(platform.KeyDown)
	if pitchUp != pitchDown {
		angle := turn
		if pitchDown {
			angle = -turn
		}
		f := g.GlobalForward(cam)
		if (angle > 0 && f.Y < 0.95) || (angle < 0 && f.Y > -0.95) {
			g.RotateGlobal(cam, g.GlobalRight(cam), angle)
		}
	}
}
