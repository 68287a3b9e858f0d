//go:build windows

package direct3d

import (
	"fmt"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/platform/desktop"
	"github.com/spaghettifunk/anywindow/engine/renderer"
)

// Backend presents through a DXGI swapchain created by wgpu on Direct3D 12.
// The surface handed to the driver is the desktop window itself.
type Backend struct {
	device *Device
}

var _ renderer.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string {
	return "direct3d"
}

func (b *Backend) Init(cfg *platform.WindowConfig, events platform.EventSource) (*renderer.BackendInit, error) {
	loop, ok := events.(*desktop.EventsLoop)
	if !ok {
		return nil, fmt.Errorf("direct3d backend needs a desktop events loop, got %T: %w", events, core.ErrUnsupportedEventSource)
	}

	window, err := loop.CreateWindow(cfg, desktop.WithNoAPI())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrWindowCreation, err)
	}

	device, err := newDevice(window, cfg.VSync)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDeviceCreation, err)
	}
	b.device = device

	size := window.FramebufferSize()
	color, depth, err := device.configure(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDeviceCreation, err)
	}

	return &renderer.BackendInit{
		Surface: window,
		Device:  device,
		Factory: &Factory{format: device.format},
		Color:   color,
		Depth:   depth,
	}, nil
}

func (b *Backend) CreateEncoder(factory renderer.Factory) *renderer.Encoder {
	return renderer.NewEncoder(factory)
}

// Flush acquires the next swapchain texture and clears it with the last
// recorded clear values. The texture is held until Device.Cleanup.
func (b *Backend) Flush(encoder *renderer.Encoder, device renderer.Device) {
	defer encoder.Reset()

	d := device.(*Device)
	if err := d.acquireFrame(); err != nil {
		core.LogError("direct3d: acquire frame: %s", err)
		return
	}

	rgba, _, depth, hasDepth := encoder.LastClears()
	if !hasDepth {
		depth = 1
	}
	if err := d.submitClear(rgba, depth); err != nil {
		core.LogError("direct3d: submit: %s", err)
	}
}

func (b *Backend) UnderlyingWindow(surface renderer.Surface) platform.Window {
	return surface.(*desktop.Window)
}

func (b *Backend) SwapBuffers(surface renderer.Surface) {
	if b.device == nil || b.device.frame == nil {
		return
	}
	b.device.surface.Present()
}

func (b *Backend) ResizeSwapchain(surface renderer.Surface, factory renderer.Factory, device renderer.Device, size core.LogicalSize, scaleFactor float64) (*renderer.WindowTargets, error) {
	physical := size.ToPhysical(scaleFactor)
	if physical.IsZero() {
		return nil, fmt.Errorf("%w: %w: %.0fx%.0f", core.ErrSwapchainResize, core.ErrZeroSize, physical.Width, physical.Height)
	}

	d := device.(*Device)
	if d.frame != nil {
		return nil, fmt.Errorf("%w: %w: previous frame texture is still held", core.ErrSwapchainResize, core.ErrStaleTarget)
	}
	color, depth, err := d.configure(physical)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSwapchainResize, err)
	}
	return renderer.NewWindowTargets(color, depth, size, scaleFactor), nil
}
