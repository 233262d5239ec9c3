package engine

import (
	"log"
	"sync"
	"time"

	"github.com/roman01la/ps1ender-sub000/engine/camera"
	"github.com/roman01la/ps1ender-sub000/engine/config"
	"github.com/roman01la/ps1ender-sub000/engine/frame"
	"github.com/roman01la/ps1ender-sub000/engine/renderer"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/material"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/present"
	"github.com/roman01la/ps1ender-sub000/engine/scene"
	"github.com/roman01la/ps1ender-sub000/engine/transport"
	"github.com/roman01la/ps1ender-sub000/engine/window"
)

// defaultTickRate is the frame builder cadence. Scene edits become visible
// at this rate; the renderer presents at its own, usually higher, rate.
const defaultTickRate = time.Second / 24

// Engine is the main entry point for the viewport. It owns the window, the
// scene registry, the orbit camera, and the renderer, and runs the tick
// loop that builds a frame from the current editing state and posts it to
// the renderer's mailbox.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the engine's scene registry.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Camera returns the viewport camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Renderer returns the underlying renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Settings returns the render settings currently in effect.
	//
	// Returns:
	//   - config.RenderSettings: the active settings
	Settings() config.RenderSettings

	// ApplySettings replaces the render settings, forwarding them to the
	// renderer. They take effect with the next frame.
	//
	// Parameters:
	//   - s: the new settings record
	ApplySettings(s config.RenderSettings)

	// SetTickRate sets the frame builder cadence in ticks per second.
	// Takes effect immediately, even while running.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 24 if <= 0)
	SetTickRate(fps float64)

	// SetRenderResolution changes the internal rasterization resolution.
	//
	// Parameters:
	//   - width, height: render resolution in pixels
	SetRenderResolution(width, height int)

	// BakeMaterial compiles the graph and bakes it to a texture on the
	// worker pool, staging the result for upload with a following frame.
	// Runs asynchronously; the viewport keeps ticking while a bake is in
	// flight.
	//
	// Parameters:
	//   - graph: the material graph to bake
	//   - slot: the texture slot to fill
	//   - width, height: texture dimensions in pixels
	BakeMaterial(graph *material.Graph, slot, width, height int)

	// Run starts the renderer and tick loops and blocks in the window
	// message loop until the window closes, then shuts everything down.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// viewportEngine implements the Engine interface.
// Coordinates the tick, response, and window threads.
type viewportEngine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	win      window.Window
	sc       scene.Scene
	cam      camera.Camera
	rend     renderer.Renderer
	baker    material.Baker
	settings config.RenderSettings

	settingsPath string
	tickRate     time.Duration
	renderW      int
	renderH      int
	clearColor   [3]uint8
	showGrid     bool

	// drag tracks the in-progress viewport navigation gesture.
	drag struct {
		mu      sync.Mutex
		active  bool
		panning bool
		lastX   int32
		lastY   int32
	}
}

var _ Engine = &viewportEngine{}

// NewEngine creates a new Engine instance with the provided options.
// A default scene, orbit camera, and wgpu-backed renderer are created for
// anything not supplied. Settings load from the configured path, falling
// back to defaults.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &viewportEngine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		settings:        config.DefaultRenderSettings(),
		tickRate:        defaultTickRate,
		renderW:         320,
		renderH:         240,
		clearColor:      [3]uint8{30, 30, 38},
		showGrid:        true,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.settingsPath != "" {
		s, err := config.Load(e.settingsPath)
		if err != nil {
			log.Printf("settings load failed, using defaults: %v", err)
		}
		e.settings = s
	}
	if e.sc == nil {
		e.sc = scene.NewScene()
	}
	if e.cam == nil {
		e.cam = camera.NewCamera(camera.WithController(camera.NewController()))
	}
	if e.rend == nil {
		e.rend = renderer.NewRenderer(renderer.WithBackend(present.NewWGPUBackend()))
	}
	if e.baker == nil {
		e.baker = material.NewBaker()
	}

	return e
}

func (e *viewportEngine) Window() window.Window       { return e.win }
func (e *viewportEngine) Scene() scene.Scene          { return e.sc }
func (e *viewportEngine) Camera() camera.Camera       { return e.cam }
func (e *viewportEngine) Renderer() renderer.Renderer { return e.rend }

func (e *viewportEngine) Settings() config.RenderSettings {
	return e.settings
}

func (e *viewportEngine) ApplySettings(s config.RenderSettings) {
	e.settings = s
	e.rend.Submit(transport.SetSettingsCommand{Settings: s})
}

// SetTickRate sets the frame builder cadence in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *viewportEngine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 24
	}
	newRate := time.Second / time.Duration(fps)

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *viewportEngine) SetRenderResolution(width, height int) {
	e.renderW = width
	e.renderH = height
	e.rend.Submit(transport.SetRenderResolutionCommand{Width: width, Height: height})
}

func (e *viewportEngine) BakeMaterial(graph *material.Graph, slot, width, height int) {
	program := material.Compile(graph)
	go func() {
		pixels := e.baker.Bake(program, width, height, nil)
		e.sc.StageTexture(&frame.TextureUpload{
			Slot:   slot,
			Width:  width,
			Height: height,
			Pixels: pixels,
		})
	}()
}

func (e *viewportEngine) Run() {
	if e.win == nil {
		e.win = window.NewWindow()
	}
	e.wireInput()

	e.rend.Start()
	e.rend.Submit(transport.SetSettingsCommand{Settings: e.settings})
	e.rend.Submit(transport.InitCommand{
		Surface:       present.WindowSurface{Descriptor: e.win.SurfaceDescriptor()},
		RenderWidth:   e.renderW,
		RenderHeight:  e.renderH,
		DisplayWidth:  e.win.Width(),
		DisplayHeight: e.win.Height(),
	})

	e.wg.Add(2)
	go e.handleTick()
	go e.handleResponses()

	e.win.ProcessMessages()

	e.Quit()
	e.wg.Wait()
	e.rend.Stop()
	if e.settingsPath != "" {
		if err := config.Save(e.settingsPath, e.settings); err != nil {
			log.Printf("settings save failed: %v", err)
		}
	}
	if err := e.win.Close(); err != nil {
		log.Printf("window close failed: %v", err)
	}
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *viewportEngine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleTick runs the fixed-rate frame building loop in its own goroutine.
// Each tick snapshots the scene into an immutable frame and posts it;
// listens for dynamic rate changes via tickRateChannel. Exits when the quit
// channel is closed.
func (e *viewportEngine) handleTick() {
	defer e.wg.Done()
	// Recover from panics inside the tick goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick goroutine recovered from panic: %v", r)
			e.Quit()
		}
	}()

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			e.tick()
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.tickRate = newRate
		}
	}
}

// tick builds one frame from the current editing state and posts it.
func (e *viewportEngine) tick() {
	e.cam.Update()

	f := frame.Build(frame.BuilderInput{
		Scene:      e.sc,
		Overlays:   e.sc,
		Camera:     cameraSource{cam: e.cam},
		Materials:  e.sc,
		Settings:   e.settings,
		Width:      e.renderW,
		Height:     e.renderH,
		ClearColor: e.clearColor,
		ShowGrid:   e.showGrid,
	})
	e.rend.Submit(transport.RenderCommand{Frame: f})
}

// handleResponses drains the renderer's response channel, logging errors.
// Frame timing responses are discarded here; the renderer's profiler
// already logs aggregate statistics.
func (e *viewportEngine) handleResponses() {
	defer e.wg.Done()

	for {
		select {
		case <-e.quitChannel:
			return
		case resp := <-e.rend.Responses():
			switch r := resp.(type) {
			case transport.ReadyResponse:
				log.Printf("renderer ready")
			case transport.ErrorResponse:
				log.Printf("renderer failed: %s", r.Message)
				e.Quit()
			}
		}
	}
}

// wireInput connects window events to viewport navigation and the
// renderer's resize path. Events are only forwarded; their semantics live
// in the camera controller.
func (e *viewportEngine) wireInput() {
	e.win.SetResizeCallback(func(width, height int) {
		e.rend.Submit(transport.ResizeCommand{DisplayWidth: width, DisplayHeight: height})
	})

	e.win.SetScrollCallback(func(delta float32) {
		if ctrl := e.cam.Controller(); ctrl != nil {
			ctrl.Zoom(delta)
		}
	})

	e.win.SetMouseDownCallback(func(button window.MouseButton, x, y int32, shift bool) {
		if button != window.MouseButtonMiddle {
			return
		}
		e.drag.mu.Lock()
		defer e.drag.mu.Unlock()
		e.drag.active = true
		e.drag.panning = shift
		e.drag.lastX, e.drag.lastY = x, y
	})

	e.win.SetMouseUpCallback(func(button window.MouseButton, x, y int32, shift bool) {
		if button != window.MouseButtonMiddle {
			return
		}
		e.drag.mu.Lock()
		defer e.drag.mu.Unlock()
		e.drag.active = false
	})

	e.win.SetMouseMoveCallback(func(x, y int32) {
		e.drag.mu.Lock()
		defer e.drag.mu.Unlock()
		if !e.drag.active {
			return
		}
		dx := float32(x - e.drag.lastX)
		dy := float32(y - e.drag.lastY)
		e.drag.lastX, e.drag.lastY = x, y

		ctrl := e.cam.Controller()
		if ctrl == nil {
			return
		}
		if e.drag.panning {
			ctrl.Pan(dx, dy)
		} else {
			ctrl.Orbit(dx, dy)
		}
	})
}

// cameraSource adapts the camera to the frame builder's aspect-driven
// projection interface.
type cameraSource struct {
	cam camera.Camera
}

var _ frame.CameraSource = cameraSource{}

func (c cameraSource) ViewMatrix() [16]float32 {
	return c.cam.ViewMatrix()
}

func (c cameraSource) ProjectionMatrix(aspect float32) [16]float32 {
	c.cam.SetAspect(aspect)
	c.cam.Update()
	return c.cam.ProjectionMatrix()
}
