//go:build vulkan

package backends

import (
	"github.com/spaghettifunk/anywindow/engine/renderer"
	"github.com/spaghettifunk/anywindow/engine/renderer/vulkan"
)

func New() renderer.Backend {
	return vulkan.New()
}
