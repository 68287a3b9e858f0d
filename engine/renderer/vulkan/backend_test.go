package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/anywindow/engine/core"
)

func testSwapchain(w, h uint32) *VulkanSwapchain {
	return &VulkanSwapchain{
		Extent:          vk.Extent2D{Width: w, Height: h},
		DepthAttachment: &VulkanImage{Width: w, Height: h},
	}
}

func TestSwapchainTargetsFollowRecreation(t *testing.T) {
	vc := &VulkanContext{Swapchain: testSwapchain(800, 600)}
	color := &SwapchainColor{context: vc}
	depth := &SwapchainDepth{context: vc}

	assert.Equal(t, core.PhysicalSize{Width: 800, Height: 600}, color.Size())
	assert.Equal(t, core.PhysicalSize{Width: 800, Height: 600}, depth.Size())

	// out-of-date recreation inside Flush swaps the whole swapchain
	vc.Swapchain = testSwapchain(1024, 768)
	assert.Equal(t, core.PhysicalSize{Width: 1024, Height: 768}, color.Size())
	assert.Equal(t, core.PhysicalSize{Width: 1024, Height: 768}, depth.Size())
}

func TestSwapchainTargetsWithoutSwapchain(t *testing.T) {
	vc := &VulkanContext{}
	assert.Equal(t, core.PhysicalSize{}, (&SwapchainColor{context: vc}).Size())
	assert.Equal(t, core.PhysicalSize{}, (&SwapchainDepth{context: vc}).Size())

	vc.Swapchain = &VulkanSwapchain{Extent: vk.Extent2D{Width: 1, Height: 1}}
	assert.Equal(t, core.PhysicalSize{}, (&SwapchainDepth{context: vc}).Size())
}
