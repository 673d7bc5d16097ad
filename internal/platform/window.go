// Package platform owns the GLFW window and its input state.
// Importing it locks the main goroutine to the OS thread.
package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"sgengine/core"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
}

// NewWindow opens a window with a current OpenGL 4.1 core context.
func NewWindow(config core.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize GLFW")
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrapf(err, "failed to create %dx%d window", config.Width, config.Height)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// Time is seconds since the window system was initialized.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

// CursorPos is the cursor position in window coordinates, origin top-left.
func (w *Window) CursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

// Size is the window size in screen coordinates, the space CursorPos uses.
func (w *Window) Size() (int, int) {
	return w.Handle.GetSize()
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	MouseButtonLeft  = int(glfw.MouseButtonLeft)
	MouseButtonRight = int(glfw.MouseButtonRight)
)

const (
	KeySpace     = int(glfw.KeySpace)
	KeyA         = int(glfw.KeyA)
	KeyD         = int(glfw.KeyD)
	KeyE         = int(glfw.KeyE)
	KeyN         = int(glfw.KeyN)
	KeyP         = int(glfw.KeyP)
	KeyQ         = int(glfw.KeyQ)
	KeyS         = int(glfw.KeyS)
	KeyW         = int(glfw.KeyW)
	KeyEscape    = int(glfw.KeyEscape)
	KeyRight     = int(glfw.KeyRight)
	KeyLeft      = int(glfw.KeyLeft)
	KeyDown      = int(glfw.KeyDown)
	KeyUp        = int(glfw.KeyUp)
	KeyLeftShift = int(glfw.KeyLeftShift)
)
