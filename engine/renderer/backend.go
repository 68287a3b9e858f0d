package renderer

import (
	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
)

// Surface is the backend's window handle. Its concrete type is private to the
// backend that returned it.
type Surface interface{}

// Device is the graphics device owned by the frame driver.
type Device interface {
	// Cleanup releases per-frame resources after present.
	Cleanup()
}

// Factory creates backend resources. It is lent to the application per call.
type Factory interface {
	Name() string
}

type ColorTarget interface {
	Size() core.PhysicalSize
}

type DepthTarget interface {
	Size() core.PhysicalSize
}

// BackendInit is everything Backend.Init produces for the frame driver.
type BackendInit struct {
	Surface Surface
	Device  Device
	Factory Factory
	Color   ColorTarget
	Depth   DepthTarget
}

// Backend is one graphics platform: a window, a device and its swapchain.
// Exactly one implementation is compiled in; see engine/backends.
type Backend interface {
	Name() string
	// Init creates the window through events and the device that draws into
	// it. Errors are fatal to the caller.
	Init(cfg *platform.WindowConfig, events platform.EventSource) (*BackendInit, error)
	CreateEncoder(factory Factory) *Encoder
	// Flush replays the encoder into the device and submits it. It must run
	// before SwapBuffers. Failures are logged.
	Flush(encoder *Encoder, device Device)
	UnderlyingWindow(surface Surface) platform.Window
	SwapBuffers(surface Surface)
	// ResizeSwapchain recreates the window targets at size times scaleFactor.
	// Errors wrap core.ErrSwapchainResize.
	ResizeSwapchain(surface Surface, factory Factory, device Device, size core.LogicalSize, scaleFactor float64) (*WindowTargets, error)
}
