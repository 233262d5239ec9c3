package present

import (
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/roman01la/ps1ender-sub000/common"
)

// softwareBackend presents into an in-memory image with the same fragment
// pipeline as the GPU path: nearest-neighbor resample, sentinel-gated 5-bit
// Bayer dithering, scanline darkening. Used headless and as the test
// double for the presentation semantics.
type softwareBackend struct {
	renderW, renderH   int
	displayW, displayH int

	source  *image.RGBA
	display *image.RGBA
}

// ImageBackend is a Backend whose presented output is readable back as an
// image, for headless rendering and snapshot export.
type ImageBackend interface {
	Backend

	// Image exposes the most recently presented display image. Valid until
	// the next Present call.
	Image() *image.RGBA

	// EncodePNG writes the current display image as PNG.
	//
	// Parameters:
	//   - w: the destination writer
	//
	// Returns:
	//   - error: an error when nothing has been presented or encoding fails
	EncodePNG(w io.Writer) error
}

var _ ImageBackend = &softwareBackend{}

// NewSoftwareBackend creates a Backend that renders to an in-memory image
// instead of a window.
//
// Returns:
//   - ImageBackend: the software presentation backend
func NewSoftwareBackend() ImageBackend {
	return &softwareBackend{}
}

func (b *softwareBackend) Init(surface Surface, renderW, renderH, displayW, displayH int) error {
	if _, ok := surface.(ImageSurface); !ok {
		return fmt.Errorf("software backend requires an ImageSurface, got %T", surface)
	}
	if renderW <= 0 || renderH <= 0 || displayW <= 0 || displayH <= 0 {
		return fmt.Errorf("invalid resolution %dx%d -> %dx%d", renderW, renderH, displayW, displayH)
	}
	b.renderW, b.renderH = renderW, renderH
	b.displayW, b.displayH = displayW, displayH
	b.source = image.NewRGBA(image.Rect(0, 0, renderW, renderH))
	b.display = image.NewRGBA(image.Rect(0, 0, displayW, displayH))
	return nil
}

func (b *softwareBackend) Resize(displayW, displayH int) {
	if displayW <= 0 || displayH <= 0 {
		return
	}
	b.displayW, b.displayH = displayW, displayH
	b.display = image.NewRGBA(image.Rect(0, 0, displayW, displayH))
}

func (b *softwareBackend) SetRenderSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid render size %dx%d", w, h)
	}
	b.renderW, b.renderH = w, h
	b.source = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

func (b *softwareBackend) Present(pixels []uint32, effects Effects) error {
	if b.source == nil {
		return fmt.Errorf("backend not initialized")
	}
	if len(pixels) < b.renderW*b.renderH {
		return fmt.Errorf("pixel buffer has %d values, need %d", len(pixels), b.renderW*b.renderH)
	}

	for y := 0; y < b.renderH; y++ {
		for x := 0; x < b.renderW; x++ {
			r, g, bl, a := common.UnpackRGBA(pixels[y*b.renderW+x])
			off := b.source.PixOffset(x, y)
			b.source.Pix[off] = r
			b.source.Pix[off+1] = g
			b.source.Pix[off+2] = bl
			b.source.Pix[off+3] = a
		}
	}

	// The resample carries the background sentinel alpha through so each
	// display fragment can still be gated individually.
	xdraw.NearestNeighbor.Scale(b.display, b.display.Bounds(), b.source, b.source.Bounds(), xdraw.Src, nil)

	// Dithering runs after the resample, indexed by display position, the
	// same way the fragment shader indexes its own fragment coordinate.
	for y := 0; y < b.displayH; y++ {
		row := b.display.PixOffset(0, y)
		for x := 0; x < b.displayW; x++ {
			off := row + x*4
			if effects.Dithering && b.display.Pix[off+3] != common.BackgroundAlpha {
				t := bayer4[y&3][x&3]
				b.display.Pix[off] = quantize5(b.display.Pix[off], t)
				b.display.Pix[off+1] = quantize5(b.display.Pix[off+1], t)
				b.display.Pix[off+2] = quantize5(b.display.Pix[off+2], t)
			}
			b.display.Pix[off+3] = 255
		}
	}

	if effects.Scanlines {
		factor := 1 - effects.ScanlineIntensity
		if factor < 0 {
			factor = 0
		}
		for y := 1; y < b.displayH; y += 2 {
			row := b.display.PixOffset(0, y)
			for x := 0; x < b.displayW; x++ {
				off := row + x*4
				b.display.Pix[off] = uint8(float32(b.display.Pix[off]) * factor)
				b.display.Pix[off+1] = uint8(float32(b.display.Pix[off+1]) * factor)
				b.display.Pix[off+2] = uint8(float32(b.display.Pix[off+2]) * factor)
			}
		}
	}
	return nil
}

func (b *softwareBackend) Release() {
	b.source = nil
	b.display = nil
}

func (b *softwareBackend) Image() *image.RGBA {
	return b.display
}

func (b *softwareBackend) EncodePNG(w io.Writer) error {
	if b.display == nil {
		return fmt.Errorf("backend not initialized")
	}
	return png.Encode(w, b.display)
}

// quantize5 reduces a channel to 5 bits with an ordered dither threshold
// (0-15 from the Bayer matrix).
func quantize5(c, threshold uint8) uint8 {
	level := (int(c)*31 + int(threshold)*16) / 255
	if level > 31 {
		level = 31
	}
	return uint8(level * 255 / 31)
}
