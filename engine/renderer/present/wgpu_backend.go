package present

import (
	_ "embed"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/roman01la/ps1ender-sub000/common"
)

//go:embed assets/post.wgsl
var postShaderSource string

// wgpuBackend presents through WebGPU: the raw pixel buffer uploads into a
// source texture each frame and a fullscreen triangle runs the post-process
// fragment pipeline into the window's swapchain.
type wgpuBackend struct {
	instance      *wgpu.Instance
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceFormat wgpu.TextureFormat

	pipeline   *wgpu.RenderPipeline
	bindLayout *wgpu.BindGroupLayout
	bindGroup  *wgpu.BindGroup
	sampler    *wgpu.Sampler
	uniforms   *wgpu.Buffer
	sourceTex  *wgpu.Texture
	sourceView *wgpu.TextureView

	renderW, renderH   int
	displayW, displayH int
}

var _ Backend = &wgpuBackend{}

// NewWGPUBackend creates the GPU presentation backend. It does nothing
// until Init binds it to a window surface.
//
// Returns:
//   - Backend: the WebGPU presentation backend
func NewWGPUBackend() Backend {
	return &wgpuBackend{}
}

func (b *wgpuBackend) Init(surface Surface, renderW, renderH, displayW, displayH int) error {
	ws, ok := surface.(WindowSurface)
	if !ok {
		return fmt.Errorf("wgpu backend requires a WindowSurface, got %T", surface)
	}
	if ws.Descriptor == nil {
		return fmt.Errorf("window surface has no descriptor")
	}

	// The surface and device must live on the thread that owns the window.
	runtime.LockOSThread()

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(ws.Descriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Present Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	b.renderW, b.renderH = renderW, renderH
	b.configureSurface(displayW, displayH)

	if err := b.initPipeline(); err != nil {
		return err
	}
	return b.SetRenderSize(renderW, renderH)
}

func (b *wgpuBackend) configureSurface(width, height int) {
	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	b.displayW, b.displayH = width, height
}

func (b *wgpuBackend) initPipeline() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "post",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: postShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("compile post shader: %w", err)
	}

	// The source is sampled with nearest filtering: the resample to display
	// resolution must keep hard pixel edges.
	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Post Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}

	b.uniforms, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Post Params",
		Size:  16,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}

	layoutEntries := []wgpu.BindGroupLayoutEntry{
		{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		{Binding: 1, Visibility: wgpu.ShaderStageFragment},
		{Binding: 2, Visibility: wgpu.ShaderStageFragment},
	}
	layoutEntries[0].Texture.SampleType = wgpu.TextureSampleTypeFloat
	layoutEntries[0].Texture.ViewDimension = wgpu.TextureViewDimension2D
	layoutEntries[1].Sampler.Type = wgpu.SamplerBindingTypeFiltering
	layoutEntries[2].Buffer.Type = wgpu.BufferBindingTypeUniform

	b.bindLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Post Bind Layout",
		Entries: layoutEntries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Post Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Post Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	return nil
}

func (b *wgpuBackend) Resize(displayW, displayH int) {
	if b.surface == nil || displayW <= 0 || displayH <= 0 {
		return
	}
	b.configureSurface(displayW, displayH)
}

func (b *wgpuBackend) SetRenderSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid render size %dx%d", w, h)
	}
	b.releaseSource()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "Raw Pixel Source",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("create source texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("create source view: %w", err)
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Post Bind Group",
		Layout: b.bindLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: b.sampler},
			{Binding: 2, Buffer: b.uniforms, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return fmt.Errorf("create bind group: %w", err)
	}

	b.sourceTex = tex
	b.sourceView = view
	b.bindGroup = bindGroup
	b.renderW, b.renderH = w, h
	return nil
}

func (b *wgpuBackend) Present(pixels []uint32, effects Effects) error {
	if b.device == nil || b.sourceTex == nil {
		return fmt.Errorf("backend not initialized")
	}
	if len(pixels) < b.renderW*b.renderH {
		return fmt.Errorf("pixel buffer has %d values, need %d", len(pixels), b.renderW*b.renderH)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  b.sourceTex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		common.SliceToBytes(pixels[:b.renderW*b.renderH]),
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(b.renderW) * 4,
			RowsPerImage: uint32(b.renderH),
		},
		&wgpu.Extent3D{
			Width:              uint32(b.renderW),
			Height:             uint32(b.renderH),
			DepthOrArrayLayers: 1,
		},
	)

	params := [4]float32{0, 0, effects.ScanlineIntensity, 0}
	if effects.Dithering {
		params[0] = 1
	}
	if effects.Scanlines {
		params[1] = 1
	}
	b.queue.WriteBuffer(b.uniforms, 0, common.SliceToBytes(params[:]))

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("create surface view: %w", err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("create command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{A: 1},
		}},
	})
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("finish encoder: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	b.surface.Present()

	view.Release()
	surfaceTexture.Release()
	return nil
}

func (b *wgpuBackend) Release() {
	b.releaseSource()
	if b.uniforms != nil {
		b.uniforms.Release()
		b.uniforms = nil
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	b.queue = nil
	b.adapter = nil
	b.surface = nil
	b.instance = nil
}

func (b *wgpuBackend) releaseSource() {
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.sourceView != nil {
		b.sourceView.Release()
		b.sourceView = nil
	}
	if b.sourceTex != nil {
		b.sourceTex.Release()
		b.sourceTex = nil
	}
}
