package vulkan

import (
	"fmt"
	"math"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anywindow/engine/core"
)

type VulkanSwapchain struct {
	ImageFormat vk.SurfaceFormat
	Handle      vk.Swapchain
	Extent      vk.Extent2D
	ImageCount  uint32
	Images      []vk.Image
	Views       []vk.ImageView

	DepthAttachment *VulkanImage

	// framebuffers used for on-screen rendering.
	Framebuffers []*VulkanFramebuffer
}

type VulkanSwapchainSupportInfo struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// Size is the extent of the swapchain images.
func (vs *VulkanSwapchain) Size() core.PhysicalSize {
	return core.PhysicalSize{Width: float64(vs.Extent.Width), Height: float64(vs.Extent.Height)}
}

func SwapchainCreate(context *VulkanContext, width, height uint32, vsync bool) (*VulkanSwapchain, error) {
	return createSwapchain(context, width, height, vsync, vk.NullSwapchain)
}

// SwapchainRecreate builds a replacement at the new size, handing the old
// handle to the driver, then destroys the old one.
func (vs *VulkanSwapchain) SwapchainRecreate(context *VulkanContext, width, height uint32, vsync bool) (*VulkanSwapchain, error) {
	vk.DeviceWaitIdle(context.Device.LogicalDevice)
	if err := DeviceQuerySwapchainSupport(context.Device.PhysicalDevice, context.Surface, &context.Device.SwapchainSupport); err != nil {
		return nil, err
	}
	next, err := createSwapchain(context, width, height, vsync, vs.Handle)
	if err != nil {
		return nil, err
	}
	vs.SwapchainDestroy(context)
	return next, nil
}

func (vs *VulkanSwapchain) SwapchainDestroy(context *VulkanContext) {
	for _, fb := range vs.Framebuffers {
		if fb != nil {
			fb.Destroy(context)
		}
	}
	vs.Framebuffers = nil

	if vs.DepthAttachment != nil {
		vs.DepthAttachment.ImageDestroy(context)
		vs.DepthAttachment = nil
	}

	// Only destroy the views, not the images, since those are owned by the swapchain and are thus
	// destroyed when it is.
	for _, view := range vs.Views {
		vk.DestroyImageView(context.Device.LogicalDevice, view, context.Allocator)
	}
	vs.Views = nil

	vk.DestroySwapchain(context.Device.LogicalDevice, vs.Handle, context.Allocator)
	vs.Handle = vk.NullSwapchain
}

// SwapchainAcquireNextImageIndex returns false when the swapchain is out of
// date and must be recreated before drawing.
func (vs *VulkanSwapchain) SwapchainAcquireNextImageIndex(context *VulkanContext, timeoutNS uint64, imageAvailableSemaphore vk.Semaphore) (uint32, bool, error) {
	var imageIndex uint32
	result := vk.AcquireNextImage(context.Device.LogicalDevice, vs.Handle, timeoutNS, imageAvailableSemaphore, vk.NullFence, &imageIndex)
	switch result {
	case vk.Success, vk.Suboptimal:
		return imageIndex, true, nil
	case vk.ErrorOutOfDate:
		return 0, false, nil
	}
	return 0, false, resultError("acquire swapchain image", result)
}

// SwapchainPresent returns false when the swapchain went out of date or
// suboptimal during present.
func (vs *VulkanSwapchain) SwapchainPresent(context *VulkanContext, presentQueue vk.Queue, renderCompleteSemaphore vk.Semaphore, presentImageIndex uint32) (bool, error) {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderCompleteSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{vs.Handle},
		PImageIndices:      []uint32{presentImageIndex},
	}

	// Increment (and loop) the index.
	context.CurrentFrame = (context.CurrentFrame + 1) % maxFramesInFlight

	result := vk.QueuePresent(presentQueue, &presentInfo)
	switch result {
	case vk.Success:
		return true, nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return false, nil
	}
	return false, resultError("present swapchain image", result)
}

func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, format := range formats {
		// Preferred formats
		if format.Format == vk.FormatB8g8r8a8Unorm && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format
		}
	}
	return formats[0]
}

func choosePresentMode(modes []vk.PresentMode, vsync bool) vk.PresentMode {
	want := vk.PresentModeMailbox
	if !vsync {
		want = vk.PresentModeImmediate
	}
	for _, mode := range modes {
		if mode == want {
			return mode
		}
	}
	// FIFO is the only mode every implementation must support.
	return vk.PresentModeFifo
}

func createSwapchain(context *VulkanContext, width, height uint32, vsync bool, oldSwapchain vk.Swapchain) (*VulkanSwapchain, error) {
	support := &context.Device.SwapchainSupport
	if len(support.Formats) == 0 {
		return nil, fmt.Errorf("surface reports no formats")
	}
	swapchain := &VulkanSwapchain{
		ImageFormat: chooseSurfaceFormat(support.Formats),
	}
	presentMode := choosePresentMode(support.PresentModes, vsync)

	extent := vk.Extent2D{Width: width, Height: height}
	if support.Capabilities.CurrentExtent.Width != math.MaxUint32 {
		extent = support.Capabilities.CurrentExtent
	}

	// Clamp to the value allowed by the GPU.
	minExtent := support.Capabilities.MinImageExtent
	maxExtent := support.Capabilities.MaxImageExtent
	extent.Width = core.Clamp(extent.Width, minExtent.Width, maxExtent.Width)
	extent.Height = core.Clamp(extent.Height, minExtent.Height, maxExtent.Height)
	if extent.Width == 0 || extent.Height == 0 {
		return nil, fmt.Errorf("surface extent is %dx%d: %w", extent.Width, extent.Height, core.ErrZeroSize)
	}
	swapchain.Extent = extent

	imageCount := support.Capabilities.MinImageCount + 1
	if support.Capabilities.MaxImageCount > 0 && imageCount > support.Capabilities.MaxImageCount {
		imageCount = support.Capabilities.MaxImageCount
	}

	swapchainCreateInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      swapchain.ImageFormat.Format,
		ImageColorSpace:  swapchain.ImageFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     support.Capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     oldSwapchain,
	}

	if context.Device.GraphicsQueueIndex != context.Device.PresentQueueIndex {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeConcurrent
		swapchainCreateInfo.QueueFamilyIndexCount = 2
		swapchainCreateInfo.PQueueFamilyIndices = []uint32{
			context.Device.GraphicsQueueIndex,
			context.Device.PresentQueueIndex,
		}
	} else {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapchainHandle vk.Swapchain
	if res := vk.CreateSwapchain(context.Device.LogicalDevice, &swapchainCreateInfo, context.Allocator, &swapchainHandle); res != vk.Success {
		return nil, resultError("create swapchain", res)
	}
	swapchain.Handle = swapchainHandle

	// Start with a zero frame index.
	context.CurrentFrame = 0

	if res := vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchain.ImageCount, nil); res != vk.Success {
		return nil, resultError("get swapchain images", res)
	}
	swapchain.Images = make([]vk.Image, swapchain.ImageCount)
	swapchain.Views = make([]vk.ImageView, swapchain.ImageCount)
	if res := vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchain.ImageCount, swapchain.Images); res != vk.Success {
		return nil, resultError("get swapchain images", res)
	}

	for i := range swapchain.Images {
		view, err := createImageView(context, swapchain.Images[i], swapchain.ImageFormat.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit))
		if err != nil {
			return nil, err
		}
		swapchain.Views[i] = view
	}

	depthAttachment, err := ImageCreate(
		context,
		extent.Width,
		extent.Height,
		context.Device.DepthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		return nil, fmt.Errorf("depth attachment: %w", err)
	}
	swapchain.DepthAttachment = depthAttachment

	core.LogInfo("Swapchain created: %dx%d, %d images.", extent.Width, extent.Height, swapchain.ImageCount)
	return swapchain, nil
}
