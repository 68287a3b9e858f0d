package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
)

type Window struct {
	window *glfw.Window
}

var _ platform.Window = (*Window)(nil)

// GLFW exposes the native handle for backends that create surfaces from it.
func (w *Window) GLFW() *glfw.Window {
	return w.window
}

// FramebufferSize is the drawable area in pixels.
func (w *Window) FramebufferSize() core.PhysicalSize {
	width, height := w.window.GetFramebufferSize()
	return core.PhysicalSize{Width: float64(width), Height: float64(height)}
}

func (w *Window) InnerSize() core.LogicalSize {
	return w.FramebufferSize().ToLogical(w.ScaleFactor())
}

func (w *Window) ScaleFactor() float64 {
	x, _ := w.window.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

func (w *Window) SetTitle(title string) {
	w.window.SetTitle(title)
}

func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}
