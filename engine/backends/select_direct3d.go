//go:build windows && !vulkan

package backends

import (
	"github.com/spaghettifunk/anywindow/engine/renderer"
	"github.com/spaghettifunk/anywindow/engine/renderer/direct3d"
)

func New() renderer.Backend {
	return direct3d.New()
}
