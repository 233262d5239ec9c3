package renderer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/roman01la/ps1ender-sub000/engine/config"
	"github.com/roman01la/ps1ender-sub000/engine/frame"
	"github.com/roman01la/ps1ender-sub000/engine/profiler"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/present"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/raster"
	"github.com/roman01la/ps1ender-sub000/engine/transport"
)

// Renderer runs the rasterization and presentation side of the viewport on
// its own goroutine. The control side talks to it exclusively through
// transport commands; frames travel through a single-slot latest-wins
// mailbox so a slow renderer drops stale frames instead of queueing them.
//
// The loop renders at its own fixed cadence, retunable at runtime via
// SetTargetFPSCommand. After an initialization failure the renderer sends
// exactly one Error response, never Ready, and ignores further commands;
// the control side rebuilds it from scratch.
type Renderer interface {
	// Submit delivers a command to the render loop. RenderCommands post
	// their frame straight to the mailbox and never block; other commands
	// queue on the command channel.
	//
	// Parameters:
	//   - cmd: the command to deliver
	//
	// Returns:
	//   - bool: false if the renderer has already been stopped
	Submit(cmd transport.Command) bool

	// Responses returns the channel the renderer reports back on. The
	// channel is never closed; a stopped renderer simply goes quiet. Slow
	// consumers lose the oldest pending response, never block the loop.
	//
	// Returns:
	//   - <-chan transport.Response: the response channel
	Responses() <-chan transport.Response

	// Start launches the render loop goroutine. Safe to call once;
	// subsequent calls are no-ops.
	Start()

	// Stop signals the loop to exit and blocks until in-flight work has
	// completed and the presentation backend is released. Safe to call
	// multiple times.
	Stop()
}

// viewportRenderer is the implementation of the Renderer interface.
type viewportRenderer struct {
	mu *sync.Mutex

	commands    chan transport.Command
	responses   chan transport.Response
	frames      transport.Mailbox[frame.Frame]
	rateChannel chan time.Duration

	quitChannel chan struct{}
	quitOnce    sync.Once
	wg          sync.WaitGroup
	started     bool

	backend present.Backend
	prof    *profiler.Profiler

	targetFPS   int
	maxVertices int
	maxIndices  int
	maxRenderW  int
	maxRenderH  int

	// Loop-owned state; touched only by the run goroutine after Start.
	ctx         *raster.Context
	settings    config.RenderSettings
	initialized bool
	failed      bool
	active      bool
}

var _ Renderer = &viewportRenderer{}

// NewRenderer creates a new Renderer with the specified options.
// Defaults to the software presentation backend, a 60 FPS cadence, and the
// raster context's standard capacity ceilings.
//
// Parameters:
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer (not yet started)
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &viewportRenderer{
		mu:          &sync.Mutex{},
		commands:    make(chan transport.Command, 16),
		responses:   make(chan transport.Response, 16),
		rateChannel: make(chan time.Duration, 1),
		quitChannel: make(chan struct{}),
		prof:        profiler.NewProfiler(),
		targetFPS:   60,
		maxVertices: 1 << 16,
		maxIndices:  3 << 17,
		maxRenderW:  1024,
		maxRenderH:  1024,
		settings:    config.DefaultRenderSettings(),
		active:      true,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.backend == nil {
		r.backend = present.NewSoftwareBackend()
	}
	return r
}

func (r *viewportRenderer) Submit(cmd transport.Command) bool {
	if rc, ok := cmd.(transport.RenderCommand); ok {
		if rc.Frame != nil {
			r.frames.Post(rc.Frame)
		}
		return true
	}
	select {
	case r.commands <- cmd:
		return true
	case <-r.quitChannel:
		return false
	}
}

func (r *viewportRenderer) Responses() <-chan transport.Response {
	return r.responses
}

func (r *viewportRenderer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	r.wg.Add(1)
	go r.run()
}

func (r *viewportRenderer) Stop() {
	r.quitOnce.Do(func() {
		close(r.quitChannel)
	})
	r.wg.Wait()
}

// run is the render loop. It owns the raster context and the presentation
// backend for its whole lifetime; nothing else touches them.
func (r *viewportRenderer) run() {
	defer r.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("render loop recovered from panic: %v", rec)
		}
		if r.initialized {
			r.backend.Release()
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(r.targetFPS))
	defer ticker.Stop()

	for {
		select {
		case <-r.quitChannel:
			return
		case cmd := <-r.commands:
			r.dispatch(cmd)
		case newRate := <-r.rateChannel:
			ticker.Reset(newRate)
		case <-ticker.C:
			r.renderPending()
		}
	}
}

// dispatch handles a single control command. The switch is exhaustive over
// the sealed command set.
func (r *viewportRenderer) dispatch(cmd transport.Command) {
	if r.failed {
		return
	}

	switch c := cmd.(type) {
	case transport.InitCommand:
		r.handleInit(c)
	case transport.ResizeCommand:
		if r.initialized {
			r.backend.Resize(c.DisplayWidth, c.DisplayHeight)
		}
	case transport.SetRenderResolutionCommand:
		r.handleSetRenderResolution(c)
	case transport.SetSettingsCommand:
		r.settings = c.Settings
		if r.ctx != nil {
			r.ctx.SetSettings(c.Settings)
		}
	case transport.RenderCommand:
		// Frames normally bypass the channel via Submit; accept them here
		// too so a raw channel writer still gets latest-wins semantics.
		if c.Frame != nil {
			r.frames.Post(c.Frame)
		}
	case transport.SetTargetFPSCommand:
		r.handleSetTargetFPS(c.FPS)
	case transport.StartCommand:
		r.active = true
	case transport.StopCommand:
		r.active = false
	}
}

func (r *viewportRenderer) handleInit(c transport.InitCommand) {
	if r.initialized {
		return
	}

	ctx, err := raster.NewContext(c.RenderWidth, c.RenderHeight,
		raster.WithMaxResolution(r.maxRenderW, r.maxRenderH),
		raster.WithMaxVertices(r.maxVertices),
		raster.WithMaxIndices(r.maxIndices))
	if err != nil {
		r.fail(fmt.Errorf("create raster context: %w", err))
		return
	}
	if err := r.backend.Init(c.Surface, c.RenderWidth, c.RenderHeight, c.DisplayWidth, c.DisplayHeight); err != nil {
		r.fail(fmt.Errorf("init presentation backend: %w", err))
		return
	}

	ctx.SetSettings(r.settings)
	r.ctx = ctx
	r.initialized = true
	r.respond(transport.ReadyResponse{})
}

func (r *viewportRenderer) handleSetRenderResolution(c transport.SetRenderResolutionCommand) {
	if !r.initialized {
		return
	}
	if err := r.ctx.Resize(c.Width, c.Height); err != nil {
		log.Printf("render resolution %dx%d rejected: %v", c.Width, c.Height, err)
		return
	}
	r.backend.SetRenderSize(c.Width, c.Height)
}

func (r *viewportRenderer) handleSetTargetFPS(fps int) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	// Non-blocking send; a pending unapplied rate is replaced.
	select {
	case r.rateChannel <- newRate:
	default:
		select {
		case <-r.rateChannel:
		default:
		}
		r.rateChannel <- newRate
	}
}

// fail reports an initialization failure. Exactly one Error response is ever
// sent, and Ready never follows it.
func (r *viewportRenderer) fail(err error) {
	log.Printf("renderer init failed: %v", err)
	r.failed = true
	r.respond(transport.ErrorResponse{Message: err.Error()})
}

// renderPending consumes the mailbox and renders at most one frame.
func (r *viewportRenderer) renderPending() {
	if !r.initialized || !r.active {
		return
	}
	f := r.frames.Take()
	if f == nil {
		return
	}

	r.prof.BeginFrame()
	r.drawFrame(f)
	effects := present.Effects{
		Dithering:         r.settings.Dithering,
		Scanlines:         r.settings.Scanlines,
		ScanlineIntensity: r.settings.ScanlineIntensity,
	}
	if err := r.backend.Present(r.ctx.Pixels(), effects); err != nil {
		log.Printf("present failed: %v", err)
	}
	r.prof.EndFrame()

	r.respond(transport.FrameResponse{
		FrameTimeMs: r.prof.FrameTimeMs(),
		FPS:         r.prof.FPS(),
	})
}

// drawFrame rasterizes one complete frame. Draw errors mean the builder's
// truncation and this context's capacities disagree; they are logged, not
// surfaced, and the rest of the frame still draws.
func (r *viewportRenderer) drawFrame(f *frame.Frame) {
	ctx := r.ctx

	if up := f.TextureUpload; up != nil {
		if err := ctx.UploadTexture(up.Slot, up.Width, up.Height, up.Pixels); err != nil {
			log.Printf("texture upload rejected: %v", err)
		} else {
			ctx.BindTexture(up.Slot)
		}
	}
	ctx.SetTexturingEnabled(f.TexturingEnabled)
	ctx.Clear(f.ClearColor[0], f.ClearColor[1], f.ClearColor[2])

	view, proj := f.View[:], f.Projection[:]
	snap := r.settings.VertexSnapping

	for i := range f.Objects {
		obj := &f.Objects[i]
		opts := raster.DrawOptions{
			Snap:     snap,
			Smooth:   obj.SmoothShading,
			Textured: obj.Textured,
		}
		if err := ctx.DrawTriangles(obj.Mesh, obj.Model[:], view, proj, opts); err != nil {
			log.Printf("triangle draw skipped: %v", err)
		}
	}

	for i := range f.LineBatches {
		lb := &f.LineBatches[i]
		if err := ctx.DrawLineBatch(lb.Positions, lb.Colors, view, proj, lb.Depth); err != nil {
			log.Printf("line batch skipped: %v", err)
		}
	}
	if g := f.Grid; g != nil {
		if err := ctx.DrawLineBatch(g.Positions, g.Colors, view, proj, g.Depth); err != nil {
			log.Printf("grid skipped: %v", err)
		}
	}

	// Overlays draw last so blended categories composite over the scene.
	for kind := frame.OverlayKind(0); kind < frame.OverlayCount; kind++ {
		ov := f.Overlays[kind]
		if ov == nil {
			continue
		}
		var err error
		switch ov.Category {
		case frame.CategoryPoints:
			err = ctx.DrawPointsBatch(ov.Positions, ov.Colors, ov.Radius, view, proj, ov.Depth)
		case frame.CategoryLines:
			err = ctx.DrawLineBatch(ov.Positions, ov.Colors, view, proj, ov.Depth)
		case frame.CategoryTriangles:
			err = ctx.DrawTransparentTriangles(ov.Positions, ov.Colors, view, proj, ov.Depth)
		}
		if err != nil {
			log.Printf("overlay %d skipped: %v", kind, err)
		}
	}
}

// respond delivers a response without ever blocking the loop. When the
// buffer is full the oldest pending response is dropped in favor of the
// new one.
func (r *viewportRenderer) respond(resp transport.Response) {
	select {
	case r.responses <- resp:
	default:
		select {
		case <-r.responses:
		default:
		}
		select {
		case r.responses <- resp:
		default:
		}
	}
}
