package vulkan

import (
	"errors"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anywindow/engine/core"
)

type VulkanImage struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Width  uint32
	Height uint32
}

func (vi *VulkanImage) Size() core.PhysicalSize {
	return core.PhysicalSize{Width: float64(vi.Width), Height: float64(vi.Height)}
}

// ImageCreate allocates a 2D image backed by device memory and, when
// createView is set, a view over aspectFlags.
func ImageCreate(context *VulkanContext, width, height uint32, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, memoryFlags vk.MemoryPropertyFlags, createView bool, aspectFlags vk.ImageAspectFlags) (*VulkanImage, error) {
	image := &VulkanImage{Width: width, Height: height}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}
	var handle vk.Image
	if res := vk.CreateImage(context.Device.LogicalDevice, &imageCreateInfo, context.Allocator, &handle); res != vk.Success {
		return nil, resultError("create image", res)
	}
	image.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(context.Device.LogicalDevice, handle, &requirements)
	requirements.Deref()

	memoryType := context.FindMemoryIndex(requirements.MemoryTypeBits, uint32(memoryFlags))
	if memoryType == -1 {
		image.ImageDestroy(context)
		return nil, errors.New("required memory type not found, image not valid")
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory); res != vk.Success {
		image.ImageDestroy(context)
		return nil, resultError("allocate image memory", res)
	}
	image.Memory = memory

	// TODO: configurable memory offset once images share allocations
	if res := vk.BindImageMemory(context.Device.LogicalDevice, handle, memory, 0); res != vk.Success {
		image.ImageDestroy(context)
		return nil, resultError("bind image memory", res)
	}

	if createView {
		view, err := createImageView(context, handle, format, aspectFlags)
		if err != nil {
			image.ImageDestroy(context)
			return nil, err
		}
		image.View = view
	}
	return image, nil
}

func createImageView(context *VulkanContext, image vk.Image, format vk.Format, aspectFlags vk.ImageAspectFlags) (vk.ImageView, error) {
	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectFlags,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	var view vk.ImageView
	if res := vk.CreateImageView(context.Device.LogicalDevice, &viewInfo, context.Allocator, &view); res != vk.Success {
		return vk.NullImageView, resultError("create image view", res)
	}
	return view, nil
}

func (vi *VulkanImage) ImageDestroy(context *VulkanContext) {
	if vi.View != vk.NullImageView {
		vk.DestroyImageView(context.Device.LogicalDevice, vi.View, context.Allocator)
		vi.View = vk.NullImageView
	}
	if vi.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, vi.Memory, context.Allocator)
		vi.Memory = vk.NullDeviceMemory
	}
	if vi.Handle != vk.NullImage {
		vk.DestroyImage(context.Device.LogicalDevice, vi.Handle, context.Allocator)
		vi.Handle = vk.NullImage
	}
}
