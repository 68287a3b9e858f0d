package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

type VulkanFence struct {
	Handle     vk.Fence
	IsSignaled bool
}

func NewFence(context *VulkanContext, createSignaled bool) (*VulkanFence, error) {
	fence := &VulkanFence{
		// Make sure to signal the fence if required.
		IsSignaled: createSignaled,
	}

	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if fence.IsSignaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var pFence vk.Fence
	if res := vk.CreateFence(context.Device.LogicalDevice, &fenceCreateInfo, context.Allocator, &pFence); res != vk.Success {
		return nil, resultError("create fence", res)
	}
	fence.Handle = pFence
	return fence, nil
}

// FenceWait blocks until the fence is signaled or timeoutNs elapses.
func (vf *VulkanFence) FenceWait(context *VulkanContext, timeoutNs uint64) error {
	if vf.IsSignaled {
		return nil
	}
	result := vk.WaitForFences(context.Device.LogicalDevice, 1, []vk.Fence{vf.Handle}, vk.True, timeoutNs)
	if result != vk.Success {
		return fmt.Errorf("fence wait: %s", VulkanResultString(result))
	}
	vf.IsSignaled = true
	return nil
}

func (vf *VulkanFence) FenceReset(context *VulkanContext) error {
	if !vf.IsSignaled {
		return nil
	}
	if res := vk.ResetFences(context.Device.LogicalDevice, 1, []vk.Fence{vf.Handle}); res != vk.Success {
		return resultError("reset fence", res)
	}
	vf.IsSignaled = false
	return nil
}
