//go:build windows

package direct3d

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform/desktop"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type Device struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	format      wgpu.TextureFormat
	presentMode wgpu.PresentMode
	alphaMode   wgpu.CompositeAlphaMode

	depth *DepthTexture

	// current swapchain texture, released by Cleanup
	frame     *wgpu.Texture
	frameView *wgpu.TextureView
}

func newDevice(window *desktop.Window, vsync bool) (*Device, error) {
	d := &Device{}
	d.instance = wgpu.CreateInstance(nil)
	d.surface = d.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window.GLFW()))

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
		BackendType:       wgpu.BackendTypeD3D12,
	})
	if err != nil {
		d.release()
		return nil, fmt.Errorf("no Direct3D 12 adapter: %w", err)
	}
	d.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "anywindow"})
	if err != nil {
		d.release()
		return nil, err
	}
	d.device = device
	d.queue = device.GetQueue()
	if d.queue == nil {
		d.release()
		return nil, errors.New("device has no queue")
	}

	caps := d.surface.GetCapabilities(d.adapter)
	if len(caps.Formats) == 0 {
		d.release()
		return nil, errors.New("surface reports no formats")
	}
	d.format = caps.Formats[0]
	d.alphaMode = wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		d.alphaMode = caps.AlphaModes[0]
	}
	d.presentMode = wgpu.PresentModeFifo
	if !vsync {
		for _, mode := range caps.PresentModes {
			if mode == wgpu.PresentModeImmediate {
				d.presentMode = mode
				break
			}
		}
	}
	core.LogInfo("Direct3D swapchain format %d, present mode %d", d.format, d.presentMode)
	return d, nil
}

// configure (re)creates the swapchain and the depth texture at size. On error
// the surface and the previous depth texture are left untouched.
func (d *Device) configure(size core.PhysicalSize) (*SwapchainTarget, *DepthTexture, error) {
	w, h := size.Pixels()
	depth, err := resizeTargets(
		func() (*DepthTexture, error) {
			return d.newDepthTexture(size, w, h)
		},
		func() {
			d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
				Usage:       wgpu.TextureUsageRenderAttachment,
				Format:      d.format,
				Width:       w,
				Height:      h,
				PresentMode: d.presentMode,
				AlphaMode:   d.alphaMode,
			})
		},
	)
	if err != nil {
		return nil, nil, err
	}

	if d.depth != nil {
		d.depth.release()
	}
	d.depth = depth
	return &SwapchainTarget{size: size, format: d.format}, d.depth, nil
}

// resizeTargets reconfigures the surface only once the new depth target
// exists, so color and depth never disagree on size.
func resizeTargets(newDepth func() (*DepthTexture, error), configureSurface func()) (*DepthTexture, error) {
	depth, err := newDepth()
	if err != nil {
		return nil, err
	}
	configureSurface()
	return depth, nil
}

func (d *Device) newDepthTexture(size core.PhysicalSize, w, h uint32) (*DepthTexture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "depth",
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("depth view: %w", err)
	}
	return &DepthTexture{size: size, texture: tex, view: view}, nil
}

func (d *Device) acquireFrame() error {
	if d.frame != nil {
		return nil
	}
	frame, err := d.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := frame.CreateView(nil)
	if err != nil {
		frame.Release()
		return err
	}
	d.frame = frame
	d.frameView = view
	return nil
}

func (d *Device) submitClear(rgba [4]float32, depth float32) error {
	enc, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer enc.Release()

	pass := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    d.frameView,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(rgba[0]),
				G: float64(rgba[1]),
				B: float64(rgba[2]),
				A: float64(rgba[3]),
			},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depth.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: depth,
		},
	})
	if err := endPass(pass); err != nil {
		return err
	}

	cmd, err := enc.Finish(nil)
	if err != nil {
		return err
	}
	d.queue.Submit(cmd)
	cmd.Release()
	return nil
}

type renderPass interface {
	End() error
	Release()
}

// endPass ends and releases pass. The pass is released even when End fails.
func endPass(pass renderPass) error {
	defer pass.Release()
	if err := pass.End(); err != nil {
		return fmt.Errorf("render pass: %w", err)
	}
	return nil
}

// Cleanup releases the frame texture acquired by Flush.
func (d *Device) Cleanup() {
	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frame != nil {
		d.frame.Release()
		d.frame = nil
	}
}

func (d *Device) release() {
	d.Cleanup()
	if d.depth != nil {
		d.depth.release()
		d.depth = nil
	}
	if d.queue != nil {
		d.queue.Release()
	}
	if d.device != nil {
		d.device.Release()
	}
	if d.adapter != nil {
		d.adapter.Release()
	}
	if d.surface != nil {
		d.surface.Release()
	}
	if d.instance != nil {
		d.instance.Release()
	}
}

type Factory struct {
	format wgpu.TextureFormat
}

func (f *Factory) Name() string {
	return "direct3d"
}

// Format is the swapchain texture format pipelines must target.
func (f *Factory) Format() wgpu.TextureFormat {
	return f.format
}

// SwapchainTarget stands for whichever swapchain texture is current.
type SwapchainTarget struct {
	size   core.PhysicalSize
	format wgpu.TextureFormat
}

func (t *SwapchainTarget) Size() core.PhysicalSize {
	return t.size
}

type DepthTexture struct {
	size    core.PhysicalSize
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *DepthTexture) Size() core.PhysicalSize {
	return t.size
}

func (t *DepthTexture) release() {
	t.view.Release()
	t.texture.Release()
}
