package transport

import (
	"github.com/roman01la/ps1ender-sub000/engine/config"
	"github.com/roman01la/ps1ender-sub000/engine/frame"
	"github.com/roman01la/ps1ender-sub000/engine/renderer/present"
)

// Command is the sealed set of messages the control side sends the
// renderer. Handlers switch exhaustively on the concrete type; there is no
// string tag to mistype.
type Command interface{ isCommand() }

// InitCommand hands the renderer its presentation surface. Ownership
// transfers with the message: after posting, the control side must not
// draw to the surface again.
type InitCommand struct {
	Surface       present.Surface
	RenderWidth   int
	RenderHeight  int
	DisplayWidth  int
	DisplayHeight int
}

// ResizeCommand updates the display (presentation) resolution.
type ResizeCommand struct {
	DisplayWidth  int
	DisplayHeight int
}

// SetRenderResolutionCommand updates the internal rasterization resolution.
type SetRenderResolutionCommand struct {
	Width  int
	Height int
}

// SetSettingsCommand replaces the renderer's settings record.
type SetSettingsCommand struct {
	Settings config.RenderSettings
}

// RenderCommand posts a frame. Frames go through the single-slot mailbox:
// only the most recent unconsumed frame survives.
type RenderCommand struct {
	Frame *frame.Frame
}

// SetTargetFPSCommand retunes the render loop's tick rate.
type SetTargetFPSCommand struct {
	FPS int
}

// StartCommand starts the render loop.
type StartCommand struct{}

// StopCommand stops the render loop. In-flight rasterization completes;
// cancellation is cooperative.
type StopCommand struct{}

func (InitCommand) isCommand()                {}
func (ResizeCommand) isCommand()              {}
func (SetRenderResolutionCommand) isCommand() {}
func (SetSettingsCommand) isCommand()         {}
func (RenderCommand) isCommand()              {}
func (SetTargetFPSCommand) isCommand()        {}
func (StartCommand) isCommand()               {}
func (StopCommand) isCommand()                {}

// Response is the sealed set of messages the renderer sends back.
type Response interface{ isResponse() }

// ReadyResponse signals successful initialization. It is sent exactly once,
// and never after an ErrorResponse.
type ReadyResponse struct{}

// FrameResponse reports one completed frame's timing.
type FrameResponse struct {
	FrameTimeMs float64
	FPS         float64
}

// ErrorResponse reports an initialization failure. The control side must
// treat the renderer as unusable and reinitialize from scratch.
type ErrorResponse struct {
	Message string
}

func (ReadyResponse) isResponse() {}
func (FrameResponse) isResponse() {}
func (ErrorResponse) isResponse() {}
