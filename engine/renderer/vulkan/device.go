package vulkan

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anywindow/engine/core"
)

const portabilitySubset = "VK_KHR_portability_subset"

type VulkanDevice struct {
	PhysicalDevice     vk.PhysicalDevice
	LogicalDevice      vk.Device
	SwapchainSupport   VulkanSwapchainSupportInfo
	GraphicsQueueIndex uint32
	PresentQueueIndex  uint32

	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue

	GraphicsCommandPool vk.CommandPool

	Name        string
	DepthFormat vk.Format
}

type VulkanPhysicalDeviceQueueFamilyInfo struct {
	GraphicsFamilyIndex int32
	PresentFamilyIndex  int32
}

func (qi VulkanPhysicalDeviceQueueFamilyInfo) complete() bool {
	return qi.GraphicsFamilyIndex >= 0 && qi.PresentFamilyIndex >= 0
}

// DeviceCreate picks a physical device that can present to the context's
// surface and creates the logical device, its queues and the graphics pool.
func DeviceCreate(context *VulkanContext) error {
	device, err := selectPhysicalDevice(context)
	if err != nil {
		return err
	}
	context.Device = device

	core.LogInfo("Creating logical device...")

	// NOTE: Do not create additional queues for shared indices.
	indices := []uint32{device.GraphicsQueueIndex}
	if device.PresentQueueIndex != device.GraphicsQueueIndex {
		indices = append(indices, device.PresentQueueIndex)
	}
	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(indices))
	for i, index := range indices {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: index,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	extensionNames := []string{vk.KhrSwapchainExtensionName}
	if deviceHasExtension(device.PhysicalDevice, portabilitySubset) {
		core.LogInfo("Adding required extension '%s'.", portabilitySubset)
		extensionNames = append(extensionNames, portabilitySubset)
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensionNames),
	}

	var logical vk.Device
	if res := vk.CreateDevice(device.PhysicalDevice, &deviceCreateInfo, context.Allocator, &logical); res != vk.Success {
		return resultError("create logical device", res)
	}
	device.LogicalDevice = logical
	core.LogInfo("Logical device created.")

	var graphicsQueue, presentQueue vk.Queue
	vk.GetDeviceQueue(logical, device.GraphicsQueueIndex, 0, &graphicsQueue)
	vk.GetDeviceQueue(logical, device.PresentQueueIndex, 0, &presentQueue)
	device.GraphicsQueue = graphicsQueue
	device.PresentQueue = presentQueue

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: device.GraphicsQueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(logical, &poolCreateInfo, context.Allocator, &pool); res != vk.Success {
		return resultError("create graphics command pool", res)
	}
	device.GraphicsCommandPool = pool

	if !DeviceDetectDepthFormat(device) {
		return errors.New("no supported depth format")
	}
	return nil
}

// DeviceQuerySwapchainSupport refreshes the surface capabilities, formats and
// present modes. It runs again before every swapchain recreation.
func DeviceQuerySwapchainSupport(physicalDevice vk.PhysicalDevice, surface vk.Surface, supportInfo *VulkanSwapchainSupportInfo) error {
	var caps vk.SurfaceCapabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(physicalDevice, surface, &caps); res != vk.Success {
		return resultError("get surface capabilities", res)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	supportInfo.Capabilities = caps

	var formatCount uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &formatCount, nil); res != vk.Success {
		return resultError("get surface formats", res)
	}
	supportInfo.Formats = make([]vk.SurfaceFormat, formatCount)
	if formatCount != 0 {
		if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &formatCount, supportInfo.Formats); res != vk.Success {
			return resultError("get surface formats", res)
		}
		for i := range supportInfo.Formats {
			supportInfo.Formats[i].Deref()
		}
	}

	var modeCount uint32
	if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &modeCount, nil); res != vk.Success {
		return resultError("get surface present modes", res)
	}
	supportInfo.PresentModes = make([]vk.PresentMode, modeCount)
	if modeCount != 0 {
		if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &modeCount, supportInfo.PresentModes); res != vk.Success {
			return resultError("get surface present modes", res)
		}
	}
	return nil
}

func DeviceDetectDepthFormat(device *VulkanDevice) bool {
	candidates := []vk.Format{
		vk.FormatD32Sfloat,
		vk.FormatD32SfloatS8Uint,
		vk.FormatD24UnormS8Uint,
	}
	flags := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	for _, candidate := range candidates {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(device.PhysicalDevice, candidate, &properties)
		properties.Deref()
		if properties.LinearTilingFeatures&flags == flags || properties.OptimalTilingFeatures&flags == flags {
			device.DepthFormat = candidate
			return true
		}
	}
	device.DepthFormat = vk.FormatUndefined
	return false
}

// selectPhysicalDevice prefers a discrete GPU and falls back to the first
// device that can draw and present.
func selectPhysicalDevice(context *VulkanContext) (*VulkanDevice, error) {
	var physicalDeviceCount uint32
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, nil); res != vk.Success {
		return nil, resultError("enumerate physical devices", res)
	}
	if physicalDeviceCount == 0 {
		return nil, errors.New("no devices which support Vulkan were found")
	}
	physicalDevices := make([]vk.PhysicalDevice, physicalDeviceCount)
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, physicalDevices); res != vk.Success {
		return nil, resultError("enumerate physical devices", res)
	}

	var selected *VulkanDevice
	for _, pd := range physicalDevices {
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &properties)
		properties.Deref()
		name := vk.ToString(properties.DeviceName[:])

		queueInfo, ok := physicalDeviceMeetsRequirements(pd, context.Surface, name)
		if !ok {
			continue
		}
		candidate := &VulkanDevice{
			PhysicalDevice:     pd,
			GraphicsQueueIndex: uint32(queueInfo.GraphicsFamilyIndex),
			PresentQueueIndex:  uint32(queueInfo.PresentFamilyIndex),
			Name:               name,
		}
		if err := DeviceQuerySwapchainSupport(pd, context.Surface, &candidate.SwapchainSupport); err != nil {
			core.LogInfo("Skipping device '%s': %s", name, err)
			continue
		}
		if len(candidate.SwapchainSupport.Formats) == 0 || len(candidate.SwapchainSupport.PresentModes) == 0 {
			core.LogInfo("Required swapchain support not present, skipping device '%s'.", name)
			continue
		}

		if selected == nil || properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			selected = candidate
			logDeviceProperties(properties)
		}
		if properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			break
		}
	}

	if selected == nil {
		return nil, errors.New("no physical devices were found which meet the requirements")
	}
	core.LogInfo("Selected device: '%s'.", selected.Name)
	return selected, nil
}

func physicalDeviceMeetsRequirements(device vk.PhysicalDevice, surface vk.Surface, name string) (VulkanPhysicalDeviceQueueFamilyInfo, bool) {
	queueInfo := VulkanPhysicalDeviceQueueFamilyInfo{GraphicsFamilyIndex: -1, PresentFamilyIndex: -1}

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

	for i := range queueFamilies {
		queueFamilies[i].Deref()
		if queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 && queueInfo.GraphicsFamilyIndex < 0 {
			queueInfo.GraphicsFamilyIndex = int32(i)
		}

		var supportsPresent vk.Bool32
		if res := vk.GetPhysicalDeviceSurfaceSupport(device, uint32(i), surface, &supportsPresent); res != vk.Success {
			return queueInfo, false
		}
		if supportsPresent == vk.True {
			// Prefer a family that does both.
			if queueInfo.PresentFamilyIndex < 0 || queueInfo.GraphicsFamilyIndex == int32(i) {
				queueInfo.PresentFamilyIndex = int32(i)
			}
		}
	}

	core.LogDebug("%s: graphics family %d, present family %d", name, queueInfo.GraphicsFamilyIndex, queueInfo.PresentFamilyIndex)
	if !queueInfo.complete() {
		core.LogInfo("Device '%s' lacks graphics or present queues, skipping.", name)
		return queueInfo, false
	}
	if !deviceHasExtension(device, vk.KhrSwapchainExtensionName) {
		core.LogInfo("Required extension not found: '%s', skipping device '%s'.", vk.KhrSwapchainExtensionName, name)
		return queueInfo, false
	}
	return queueInfo, true
}

func deviceHasExtension(device vk.PhysicalDevice, name string) bool {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &count, nil); res != vk.Success {
		return false
	}
	available := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &count, available); res != vk.Success {
		return false
	}
	for i := range available {
		available[i].Deref()
		if vk.ToString(available[i].ExtensionName[:]) == name {
			return true
		}
	}
	return false
}

func logDeviceProperties(properties vk.PhysicalDeviceProperties) {
	kind := "Unknown"
	switch properties.DeviceType {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		kind = "Integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		kind = "Discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		kind = "Virtual"
	case vk.PhysicalDeviceTypeCpu:
		kind = "CPU"
	}
	core.LogInfo("GPU type is %s.", kind)
	core.LogInfo(
		"Vulkan API version: %s",
		versionString(vk.Version(properties.ApiVersion)),
	)
}

func versionString(v vk.Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}
