package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform/desktop"
)

// WindowSurface is a glfw window with a current OpenGL context.
type WindowSurface struct {
	window *desktop.Window
}

type Device struct{}

// Cleanup drains errors left over from the frame so the next one starts clean.
func (d *Device) Cleanup() {
	for i := 0; i < maxDrainedErrors; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			return
		}
		core.LogDebug("discarding opengl error %s", errorString(code))
	}
}

const maxDrainedErrors = 16

func (d *Device) lastError() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	return fmt.Errorf("opengl error %s", errorString(code))
}

func errorString(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	}
	return fmt.Sprintf("0x%X", code)
}

type Factory struct {
	version  string
	renderer string
}

func (f *Factory) Name() string {
	return "opengl " + f.version
}

// ColorBuffer is the color attachment of the default framebuffer.
type ColorBuffer struct {
	size core.PhysicalSize
}

func (c *ColorBuffer) Size() core.PhysicalSize {
	return c.size
}

// DepthBuffer is the depth attachment of the default framebuffer.
type DepthBuffer struct {
	size core.PhysicalSize
}

func (d *DepthBuffer) Size() core.PhysicalSize {
	return d.size
}
