//go:build !windows && !vulkan

package backends

import (
	"github.com/spaghettifunk/anywindow/engine/renderer"
	"github.com/spaghettifunk/anywindow/engine/renderer/opengl"
)

func New() renderer.Backend {
	return opengl.New()
}
