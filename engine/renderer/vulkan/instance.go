package vulkan

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform/desktop"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

func loadVulkan() error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return errors.New("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	return vk.Init()
}

func (vc *VulkanContext) createInstance(appName string, window *desktop.Window, debug bool) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("anywindow"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := window.GLFW().GetRequiredInstanceExtensions()
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	var layers []string
	if debug {
		if hasInstanceLayer(validationLayer) {
			layers = append(layers, validationLayer)
			requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		} else {
			core.LogWarn("validation layer %s is not installed, continuing without it", validationLayer)
			debug = false
		}
	}
	for _, ext := range requiredExtensions {
		core.LogDebug("Required extension: %s", ext)
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	if res := vk.CreateInstance(&createInfo, vc.Allocator, &vc.Instance); res != vk.Success {
		return resultError("create instance", res)
	}
	if err := vk.InitInstance(vc.Instance); err != nil {
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	if debug {
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if err := vk.Error(vk.CreateDebugReportCallback(vc.Instance, &debugCreateInfo, nil, &dbg)); err != nil {
			return fmt.Errorf("create debug report callback: %w", err)
		}
		vc.debugMessenger = dbg
		core.LogDebug("Vulkan debugger created.")
	}
	return nil
}

func (vc *VulkanContext) createSurface(window *desktop.Window) error {
	surface, err := window.GLFW().CreateWindowSurface(vc.Instance, nil)
	if err != nil {
		return fmt.Errorf("create window surface: %w", err)
	}
	vc.Surface = vk.SurfaceFromPointer(surface)
	return nil
}

func hasInstanceLayer(name string) bool {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return false
	}
	available := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, available); res != vk.Success {
		return false
	}
	for i := range available {
		available[i].Deref()
		if vk.ToString(available[i].LayerName[:]) == name {
			return true
		}
	}
	return false
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogDebug("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
