package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/platform/desktop"
	"github.com/spaghettifunk/anywindow/engine/renderer"
)

const (
	contextMajor = 3
	contextMinor = 3
)

// Backend draws into the default framebuffer of a glfw OpenGL context.
type Backend struct{}

var _ renderer.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string {
	return "opengl"
}

func (b *Backend) Init(cfg *platform.WindowConfig, events platform.EventSource) (*renderer.BackendInit, error) {
	loop, ok := events.(*desktop.EventsLoop)
	if !ok {
		return nil, fmt.Errorf("opengl backend needs a desktop events loop, got %T: %w", events, core.ErrUnsupportedEventSource)
	}

	window, err := loop.CreateWindow(cfg, desktop.WithOpenGL(contextMajor, contextMinor))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrWindowCreation, err)
	}
	window.GLFW().MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: failed to load OpenGL: %w", core.ErrDeviceCreation, err)
	}
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	factory := &Factory{
		version:  gl.GoStr(gl.GetString(gl.VERSION)),
		renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	core.LogInfo("OpenGL %s on %s", factory.version, factory.renderer)

	gl.Enable(gl.DEPTH_TEST)
	size := window.FramebufferSize()
	w, h := size.Pixels()
	gl.Viewport(0, 0, int32(w), int32(h))

	return &renderer.BackendInit{
		Surface: &WindowSurface{window: window},
		Device:  &Device{},
		Factory: factory,
		Color:   &ColorBuffer{size: size},
		Depth:   &DepthBuffer{size: size},
	}, nil
}

func (b *Backend) CreateEncoder(factory renderer.Factory) *renderer.Encoder {
	return renderer.NewEncoder(factory)
}

func (b *Backend) Flush(encoder *renderer.Encoder, device renderer.Device) {
	defer encoder.Reset()

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	for _, cmd := range encoder.Commands() {
		switch cmd.Type {
		case renderer.CommandClearColor:
			gl.ClearColor(cmd.RGBA[0], cmd.RGBA[1], cmd.RGBA[2], cmd.RGBA[3])
			gl.Clear(gl.COLOR_BUFFER_BIT)
		case renderer.CommandClearDepth:
			gl.DepthMask(true)
			gl.ClearDepth(float64(cmd.Value))
			gl.Clear(gl.DEPTH_BUFFER_BIT)
		}
	}
	gl.Flush()

	if err := device.(*Device).lastError(); err != nil {
		core.LogError("opengl flush: %s", err)
	}
}

func (b *Backend) UnderlyingWindow(surface renderer.Surface) platform.Window {
	return surface.(*WindowSurface).window
}

func (b *Backend) SwapBuffers(surface renderer.Surface) {
	surface.(*WindowSurface).window.GLFW().SwapBuffers()
}

// ResizeSwapchain resizes the viewport of the default framebuffer. The window
// system owns its storage, so only the viewport and completeness are checked.
func (b *Backend) ResizeSwapchain(surface renderer.Surface, factory renderer.Factory, device renderer.Device, size core.LogicalSize, scaleFactor float64) (*renderer.WindowTargets, error) {
	physical := size.ToPhysical(scaleFactor)
	if physical.IsZero() {
		return nil, fmt.Errorf("%w: %w: %.0fx%.0f", core.ErrSwapchainResize, core.ErrZeroSize, physical.Width, physical.Height)
	}

	surface.(*WindowSurface).window.GLFW().MakeContextCurrent()
	w, h := physical.Pixels()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(w), int32(h))

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("%w: framebuffer incomplete: 0x%X", core.ErrSwapchainResize, status)
	}
	if err := device.(*Device).lastError(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSwapchainResize, err)
	}

	return renderer.NewWindowTargets(&ColorBuffer{size: physical}, &DepthBuffer{size: physical}, size, scaleFactor), nil
}
