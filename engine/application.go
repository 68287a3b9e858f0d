package engine

import (
	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/renderer"
)

// Application is the user code driven by the Engine once per frame.
type Application interface {
	// Update receives the seconds elapsed since the previous call.
	Update(deltaSeconds float64)
	// Render records the frame into encoder. The factory and encoder are lent
	// for the duration of the call only.
	Render(factory renderer.Factory, encoder *renderer.Encoder)
	// OnEvent receives every event except close requests, resizes and scale
	// factor changes, which the engine handles itself.
	OnEvent(event core.EventContext)
}

// SwapchainResizeListener is implemented by applications that want the new
// targets after a resize. Applications that don't keep the old ones.
type SwapchainResizeListener interface {
	OnSwapchainResized(factory renderer.Factory, targets renderer.WindowTargets)
}

// ResizeFailureListener is implemented by applications that want to know
// when a swapchain resize failed. The engine keeps running either way.
type ResizeFailureListener interface {
	OnSwapchainResizeFailed(err error)
}

// ApplicationFactory builds the application once the window and its first
// targets exist.
type ApplicationFactory func(factory renderer.Factory, window platform.Window, targets renderer.WindowTargets) (Application, error)
