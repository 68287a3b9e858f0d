package vulkan

import (
	vk "github.com/goki/vulkan"
)

type VulkanRenderpass struct {
	Handle     vk.RenderPass
	X, Y, W, H float32
	R, G, B, A float32
	Depth      float32
	Stencil    uint32
}

// RenderpassCreate builds the single pass used for on-screen rendering: one
// color attachment presented afterwards and one depth attachment.
func RenderpassCreate(context *VulkanContext, x, y, w, h float32, depth float32, stencil uint32) (*VulkanRenderpass, error) {
	outRenderpass := &VulkanRenderpass{
		X:       x,
		Y:       y,
		W:       w,
		H:       h,
		Depth:   depth,
		Stencil: stencil,
	}

	colorAttachment := vk.AttachmentDescription{
		Format:         context.Swapchain.ImageFormat.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,  // Do not expect any particular layout before render pass starts.
		FinalLayout:    vk.ImageLayoutPresentSrc, // Transitioned to after the render pass
	}

	depthAttachment := vk.AttachmentDescription{
		Format:         context.Device.DepthFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
	}

	colorAttachmentReference := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	depthAttachmentReference := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       colorAttachmentReference,
		PDepthStencilAttachment: &depthAttachmentReference,
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit) | vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}

	attachmentDescriptions := []vk.AttachmentDescription{colorAttachment, depthAttachment}
	renderpassCreateInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	var pRenderPass vk.RenderPass
	if res := vk.CreateRenderPass(context.Device.LogicalDevice, &renderpassCreateInfo, context.Allocator, &pRenderPass); res != vk.Success {
		return nil, resultError("create render pass", res)
	}
	outRenderpass.Handle = pRenderPass
	return outRenderpass, nil
}

// SetClear sets the values the pass clears its attachments to.
func (vr *VulkanRenderpass) SetClear(rgba [4]float32, depth float32) {
	vr.R, vr.G, vr.B, vr.A = rgba[0], rgba[1], rgba[2], rgba[3]
	vr.Depth = depth
}

func (vr *VulkanRenderpass) RenderpassBegin(commandBuffer *VulkanCommandBuffer, frameBuffer vk.Framebuffer) {
	clearValues := make([]vk.ClearValue, 2)
	clearValues[0].SetColor([]float32{vr.R, vr.G, vr.B, vr.A})
	clearValues[1].SetDepthStencil(vr.Depth, vr.Stencil)

	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  vr.Handle,
		Framebuffer: frameBuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{
				X: int32(vr.X),
				Y: int32(vr.Y),
			},
			Extent: vk.Extent2D{
				Width:  uint32(vr.W),
				Height: uint32(vr.H),
			},
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}

	vk.CmdBeginRenderPass(commandBuffer.Handle, &beginInfo, vk.SubpassContentsInline)
	commandBuffer.State = COMMAND_BUFFER_STATE_IN_RENDER_PASS
}

func (vr *VulkanRenderpass) RenderpassEnd(commandBuffer *VulkanCommandBuffer) {
	vk.CmdEndRenderPass(commandBuffer.Handle)
	commandBuffer.State = COMMAND_BUFFER_STATE_RECORDING
}
