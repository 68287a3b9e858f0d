package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anywindow/engine/core"
)

const maxFramesInFlight = 2

type VulkanContext struct {
	// The swapchain extent currently in use.
	FramebufferWidth  uint32
	FramebufferHeight uint32

	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugMessenger vk.DebugReportCallback

	Device *VulkanDevice

	Swapchain      *VulkanSwapchain
	MainRenderpass *VulkanRenderpass

	// one per swapchain image
	GraphicsCommandBuffers []*VulkanCommandBuffer

	// one per frame in flight
	ImageAvailableSemaphores []vk.Semaphore
	QueueCompleteSemaphores  []vk.Semaphore
	InFlightFences           []*VulkanFence

	// Fences owned by InFlightFences, indexed by swapchain image.
	ImagesInFlight []*VulkanFence

	ImageIndex   uint32
	CurrentFrame uint32

	// set by Flush once a frame was submitted, cleared on present
	frameSubmitted bool
	// set when acquire or present reports the swapchain out of date
	swapchainOutOfDate bool
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter, propertyFlags uint32) int32 {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (uint32(memoryProperties.MemoryTypes[i].PropertyFlags)&propertyFlags) == propertyFlags {
			return int32(i)
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return -1
}

func (vc *VulkanContext) createSyncObjects() error {
	vc.ImageAvailableSemaphores = make([]vk.Semaphore, maxFramesInFlight)
	vc.QueueCompleteSemaphores = make([]vk.Semaphore, maxFramesInFlight)
	vc.InFlightFences = make([]*VulkanFence, maxFramesInFlight)

	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for i := 0; i < maxFramesInFlight; i++ {
		if res := vk.CreateSemaphore(vc.Device.LogicalDevice, &semaphoreCreateInfo, vc.Allocator, &vc.ImageAvailableSemaphores[i]); res != vk.Success {
			return resultError("create image available semaphore", res)
		}
		if res := vk.CreateSemaphore(vc.Device.LogicalDevice, &semaphoreCreateInfo, vc.Allocator, &vc.QueueCompleteSemaphores[i]); res != vk.Success {
			return resultError("create queue complete semaphore", res)
		}

		// Signaled, so the first frame does not wait on a frame that never ran.
		f, err := NewFence(vc, true)
		if err != nil {
			return err
		}
		vc.InFlightFences[i] = f
	}
	vc.ImagesInFlight = make([]*VulkanFence, vc.Swapchain.ImageCount)
	return nil
}
