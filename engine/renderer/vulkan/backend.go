package vulkan

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/platform/desktop"
	"github.com/spaghettifunk/anywindow/engine/renderer"
)

// Backend renders through a Vulkan swapchain on a glfw window without a
// client API. The surface handed to the driver is the desktop window.
type Backend struct {
	context *VulkanContext
	vsync   bool
}

var _ renderer.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		context: &VulkanContext{
			Allocator: nil,
		},
	}
}

func (b *Backend) Name() string {
	return "vulkan"
}

func (b *Backend) Init(cfg *platform.WindowConfig, events platform.EventSource) (*renderer.BackendInit, error) {
	loop, ok := events.(*desktop.EventsLoop)
	if !ok {
		return nil, fmt.Errorf("vulkan backend needs a desktop events loop, got %T: %w", events, core.ErrUnsupportedEventSource)
	}

	window, err := loop.CreateWindow(cfg, desktop.WithNoAPI())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrWindowCreation, err)
	}

	if err := b.initDevice(cfg, window); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDeviceCreation, err)
	}

	vc := b.context
	core.LogInfo("Vulkan renderer initialized successfully.")
	return &renderer.BackendInit{
		Surface: window,
		Device:  &Device{context: vc},
		Factory: &Factory{deviceName: vc.Device.Name, colorFormat: vc.Swapchain.ImageFormat.Format},
		Color:   &SwapchainColor{context: vc},
		Depth:   &SwapchainDepth{context: vc},
	}, nil
}

func (b *Backend) initDevice(cfg *platform.WindowConfig, window *desktop.Window) error {
	if !glfw.VulkanSupported() {
		return errors.New("glfw reports no Vulkan loader")
	}
	if err := loadVulkan(); err != nil {
		return fmt.Errorf("failed to initialize vk: %w", err)
	}
	b.vsync = cfg.VSync

	level, _ := cfg.Level()
	vc := b.context
	if err := vc.createInstance(cfg.Title, window, level == core.DebugLevel); err != nil {
		return err
	}
	if err := vc.createSurface(window); err != nil {
		return err
	}
	if err := DeviceCreate(vc); err != nil {
		return err
	}

	w, h := window.FramebufferSize().Pixels()
	sc, err := SwapchainCreate(vc, w, h, b.vsync)
	if err != nil {
		return err
	}
	vc.Swapchain = sc
	vc.FramebufferWidth = sc.Extent.Width
	vc.FramebufferHeight = sc.Extent.Height

	rp, err := RenderpassCreate(vc, 0, 0, float32(vc.FramebufferWidth), float32(vc.FramebufferHeight), 1.0, 0)
	if err != nil {
		return err
	}
	vc.MainRenderpass = rp

	if err := b.regenerateFramebuffers(); err != nil {
		return err
	}
	if err := b.createCommandBuffers(); err != nil {
		return err
	}
	return vc.createSyncObjects()
}

func (b *Backend) CreateEncoder(factory renderer.Factory) *renderer.Encoder {
	return renderer.NewEncoder(factory)
}

// Flush records one render pass that clears the acquired swapchain image to
// the last recorded clear values and submits it.
func (b *Backend) Flush(encoder *renderer.Encoder, device renderer.Device) {
	defer encoder.Reset()

	vc := device.(*Device).context
	if vc.swapchainOutOfDate {
		if err := b.recreateSwapchain(vc.FramebufferWidth, vc.FramebufferHeight); err != nil {
			core.LogWarn("vulkan: swapchain still out of date: %s", err)
			return
		}
	}

	fence := vc.InFlightFences[vc.CurrentFrame]
	if err := fence.FenceWait(vc, math.MaxUint64); err != nil {
		core.LogError("vulkan: in-flight %s", err)
		return
	}

	imageIndex, ok, err := vc.Swapchain.SwapchainAcquireNextImageIndex(vc, math.MaxUint64, vc.ImageAvailableSemaphores[vc.CurrentFrame])
	if err != nil {
		core.LogError("vulkan: %s", err)
		return
	}
	if !ok {
		vc.swapchainOutOfDate = true
		core.LogDebug("vulkan: swapchain out of date on acquire, skipping frame")
		return
	}
	vc.ImageIndex = imageIndex

	// Make sure the previous frame is not using this image.
	if inFlight := vc.ImagesInFlight[imageIndex]; inFlight != nil && inFlight != fence {
		if err := inFlight.FenceWait(vc, math.MaxUint64); err != nil {
			core.LogError("vulkan: image %s", err)
			return
		}
	}
	vc.ImagesInFlight[imageIndex] = fence

	rgba, _, depth, hasDepth := encoder.LastClears()
	if !hasDepth {
		depth = 1
	}
	if err := b.recordClear(imageIndex, rgba, depth); err != nil {
		core.LogError("vulkan: %s", err)
		return
	}
	if err := fence.FenceReset(vc); err != nil {
		core.LogError("vulkan: %s", err)
		return
	}

	commandBuffer := vc.GraphicsCommandBuffers[imageIndex]
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{commandBuffer.Handle},
		// Signaled when the queue is complete.
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{vc.QueueCompleteSemaphores[vc.CurrentFrame]},
		// Wait until the image is available.
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{vc.ImageAvailableSemaphores[vc.CurrentFrame]},
		PWaitDstStageMask:  []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
	}
	if res := vk.QueueSubmit(vc.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence.Handle); res != vk.Success {
		core.LogError("vulkan: vkQueueSubmit failed with result: %s", VulkanResultString(res))
		return
	}
	commandBuffer.UpdateSubmitted()
	vc.frameSubmitted = true
}

func (b *Backend) recordClear(imageIndex uint32, rgba [4]float32, depth float32) error {
	vc := b.context
	commandBuffer := vc.GraphicsCommandBuffers[imageIndex]
	if err := commandBuffer.Reset(); err != nil {
		return err
	}
	if err := commandBuffer.Begin(false, false, false); err != nil {
		return err
	}

	rp := vc.MainRenderpass
	rp.W = float32(vc.FramebufferWidth)
	rp.H = float32(vc.FramebufferHeight)
	rp.SetClear(rgba, depth)
	rp.RenderpassBegin(commandBuffer, vc.Swapchain.Framebuffers[imageIndex].Handle)
	rp.RenderpassEnd(commandBuffer)

	return commandBuffer.End()
}

func (b *Backend) UnderlyingWindow(surface renderer.Surface) platform.Window {
	return surface.(*desktop.Window)
}

func (b *Backend) SwapBuffers(surface renderer.Surface) {
	vc := b.context
	if !vc.frameSubmitted {
		return
	}
	vc.frameSubmitted = false

	ok, err := vc.Swapchain.SwapchainPresent(vc, vc.Device.PresentQueue, vc.QueueCompleteSemaphores[vc.CurrentFrame], vc.ImageIndex)
	if err != nil {
		core.LogError("vulkan: %s", err)
		return
	}
	if !ok {
		vc.swapchainOutOfDate = true
	}
}

func (b *Backend) ResizeSwapchain(surface renderer.Surface, factory renderer.Factory, device renderer.Device, size core.LogicalSize, scaleFactor float64) (*renderer.WindowTargets, error) {
	physical := size.ToPhysical(scaleFactor)
	if physical.IsZero() {
		return nil, fmt.Errorf("%w: %w: %.0fx%.0f", core.ErrSwapchainResize, core.ErrZeroSize, physical.Width, physical.Height)
	}

	vc := device.(*Device).context
	if vc.frameSubmitted {
		return nil, fmt.Errorf("%w: %w: submitted frame was never presented", core.ErrSwapchainResize, core.ErrStaleTarget)
	}

	w, h := physical.Pixels()
	if err := b.recreateSwapchain(w, h); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSwapchainResize, err)
	}
	return renderer.NewWindowTargets(&SwapchainColor{context: vc}, &SwapchainDepth{context: vc}, size, scaleFactor), nil
}

func (b *Backend) recreateSwapchain(width, height uint32) error {
	vc := b.context
	sc, err := vc.Swapchain.SwapchainRecreate(vc, width, height, b.vsync)
	if err != nil {
		vc.swapchainOutOfDate = true
		return err
	}
	vc.Swapchain = sc
	vc.FramebufferWidth = sc.Extent.Width
	vc.FramebufferHeight = sc.Extent.Height

	if err := b.regenerateFramebuffers(); err != nil {
		vc.swapchainOutOfDate = true
		return err
	}
	if err := b.createCommandBuffers(); err != nil {
		vc.swapchainOutOfDate = true
		return err
	}
	vc.ImagesInFlight = make([]*VulkanFence, sc.ImageCount)
	vc.swapchainOutOfDate = false
	return nil
}

func (b *Backend) createCommandBuffers() error {
	vc := b.context
	for _, cb := range vc.GraphicsCommandBuffers {
		if cb != nil && cb.Handle != nil {
			cb.Free(vc, vc.Device.GraphicsCommandPool)
		}
	}
	vc.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, vc.Swapchain.ImageCount)
	for i := range vc.GraphicsCommandBuffers {
		cb, err := NewVulkanCommandBuffer(vc, vc.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		vc.GraphicsCommandBuffers[i] = cb
	}
	core.LogDebug("Vulkan command buffers created.")
	return nil
}

func (b *Backend) regenerateFramebuffers() error {
	vc := b.context
	sc := vc.Swapchain
	sc.Framebuffers = make([]*VulkanFramebuffer, sc.ImageCount)
	for i := range sc.Framebuffers {
		attachments := []vk.ImageView{
			sc.Views[i],
			sc.DepthAttachment.View,
		}
		fb, err := FramebufferCreate(vc, vc.MainRenderpass, vc.FramebufferWidth, vc.FramebufferHeight, attachments)
		if err != nil {
			return err
		}
		sc.Framebuffers[i] = fb
	}
	return nil
}

// SwapchainColor and SwapchainDepth resolve to the live swapchain on every
// call. Flush may recreate the swapchain after an out-of-date acquire or
// present, and targets held by the application stay valid across that.
type SwapchainColor struct {
	context *VulkanContext
}

func (c *SwapchainColor) Size() core.PhysicalSize {
	if c.context.Swapchain == nil {
		return core.PhysicalSize{}
	}
	return c.context.Swapchain.Size()
}

type SwapchainDepth struct {
	context *VulkanContext
}

func (d *SwapchainDepth) Size() core.PhysicalSize {
	sc := d.context.Swapchain
	if sc == nil || sc.DepthAttachment == nil {
		return core.PhysicalSize{}
	}
	return sc.DepthAttachment.Size()
}

type Device struct {
	context *VulkanContext
}

// Cleanup drops a submitted frame that was never presented, so the next
// resize is not refused.
func (d *Device) Cleanup() {
	if d.context.frameSubmitted {
		core.LogWarn("vulkan: discarding a frame that was not presented")
		d.context.frameSubmitted = false
	}
}

type Factory struct {
	deviceName  string
	colorFormat vk.Format
}

func (f *Factory) Name() string {
	return "vulkan " + f.deviceName
}

// ColorFormat is the swapchain image format pipelines must target.
func (f *Factory) ColorFormat() vk.Format {
	return f.colorFormat
}
