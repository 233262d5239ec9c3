package raster

import (
	"testing"

	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/config"
)

func testSettings() config.RenderSettings {
	s := config.DefaultRenderSettings()
	s.Lighting = false
	s.BackfaceCulling = false
	s.VertexSnapping = false
	s.Texturing = true
	return s
}

func newTestContext(t *testing.T, w, h int) *Context {
	t.Helper()
	c, err := NewContext(w, h)
	if err != nil {
		t.Fatalf("NewContext(%d, %d): %v", w, h, err)
	}
	c.SetSettings(testSettings())
	return c
}

func TestClear(t *testing.T) {
	c := newTestContext(t, 8, 8)
	c.Clear(10, 20, 30)

	want := common.PackRGBA(10, 20, 30, common.BackgroundAlpha)
	for i, p := range c.Pixels() {
		if p != want {
			t.Fatalf("pixel %d = %#x, want %#x", i, p, want)
		}
	}
	for i, d := range c.Depth() {
		if d != 0xFFFF {
			t.Fatalf("depth %d = %d, want 65535", i, d)
		}
	}
}

func TestResizeRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 64},
		{"zero height", 64, 0},
		{"negative", -1, 64},
		{"too wide", 4096, 64},
		{"too tall", 64, 4096},
	}

	c := newTestContext(t, 64, 64)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Resize(tt.w, tt.h); err == nil {
				t.Errorf("Resize(%d, %d) accepted, want error", tt.w, tt.h)
			}
		})
	}
}

func TestUploadTextureBounds(t *testing.T) {
	c := newTestContext(t, 8, 8)
	data := make([]byte, MaxTextureSize*MaxTextureSize*4)

	tests := []struct {
		name    string
		slot    int
		w, h    int
		wantErr bool
	}{
		{"valid", 0, 16, 16, false},
		{"last slot", MaxTextureSlots - 1, 4, 4, false},
		{"negative slot", -1, 16, 16, true},
		{"slot too high", MaxTextureSlots, 16, 16, true},
		{"oversize", 0, MaxTextureSize + 1, 16, true},
		{"zero dim", 0, 0, 16, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.UploadTexture(tt.slot, tt.w, tt.h, data)
			if (err != nil) != tt.wantErr {
				t.Errorf("UploadTexture(%d, %d, %d) err = %v, wantErr %v", tt.slot, tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestUploadTextureShortData(t *testing.T) {
	c := newTestContext(t, 8, 8)
	if err := c.UploadTexture(0, 16, 16, make([]byte, 10)); err == nil {
		t.Fatal("UploadTexture accepted short pixel data")
	}
}

func TestDepthTestSmallerWinsRegardlessOfOrder(t *testing.T) {
	near := common.PackRGBA(1, 1, 1, 255)
	far := common.PackRGBA(2, 2, 2, 255)

	tests := []struct {
		name  string
		first func(c *Context)
		then  func(c *Context)
	}{
		{
			name:  "near then far",
			first: func(c *Context) { c.DrawLine(3, 3, 3, 3, near, 100) },
			then:  func(c *Context) { c.DrawLine(3, 3, 3, 3, far, 200) },
		},
		{
			name:  "far then near",
			first: func(c *Context) { c.DrawLine(3, 3, 3, 3, far, 200) },
			then:  func(c *Context) { c.DrawLine(3, 3, 3, 3, near, 100) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, 8, 8)
			c.Clear(0, 0, 0)
			tt.first(c)
			tt.then(c)
			if got := c.Pixels()[3*8+3]; got != near {
				t.Errorf("pixel = %#x, want the nearer draw %#x", got, near)
			}
			if got := c.Depth()[3*8+3]; got != 100 {
				t.Errorf("depth = %d, want 100", got)
			}
		})
	}
}

func TestTextureSampleWrapAndEmpty(t *testing.T) {
	c := newTestContext(t, 8, 8)

	// 2x2 checker: red, green / blue, white.
	data := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	if err := c.UploadTexture(0, 2, 2, data); err != nil {
		t.Fatalf("UploadTexture: %v", err)
	}
	c.BindTexture(0)
	tex := c.texture()

	tests := []struct {
		name string
		u, v float32
		want uint32
	}{
		{"top left", 0.1, 0.1, common.PackRGBA(255, 0, 0, 255)},
		{"top right", 0.9, 0.1, common.PackRGBA(0, 255, 0, 255)},
		{"bottom left", 0.1, 0.9, common.PackRGBA(0, 0, 255, 255)},
		{"wraps past one", 1.1, 0.1, common.PackRGBA(255, 0, 0, 255)},
		{"wraps negative", -0.9, 0.1, common.PackRGBA(255, 0, 0, 255)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.sample(tt.u, tt.v); got != tt.want {
				t.Errorf("sample(%v, %v) = %#x, want %#x", tt.u, tt.v, got, tt.want)
			}
		})
	}

	c.BindTexture(5) // empty slot
	if got := c.texture(); got != nil {
		t.Error("empty slot should resolve to nil (sampled as neutral gray)")
	}
	var empty *textureSlot
	if got := empty.sample(0.5, 0.5); got != neutralGray {
		t.Errorf("nil slot sample = %#x, want neutral gray %#x", got, neutralGray)
	}
}
