package raster

import (
	"testing"

	"github.com/roman01la/ps1ender-sub000/common"
)

func TestDrawLineBatchForcedDepthModes(t *testing.T) {
	view, proj := orthoCamera()

	// A solid quad sits at mid depth. Grid lines forced all the way back
	// must lose the depth test against it; gizmo lines forced all the way
	// front must win.
	occluded := &common.MeshBuffer{
		Positions: []float32{-2, -2, 0, 2, -2, 0, 2, 2, 0, -2, 2, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		UVs:       make([]float32, 8),
		Colors: []uint8{
			10, 10, 10, 255, 10, 10, 10, 255,
			10, 10, 10, 255, 10, 10, 10, 255,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}

	// Horizontal segment through the screen center, at the quad's plane.
	segment := []float32{-1, 0, 0, 1, 0, 0}
	segColors := []uint8{200, 50, 50, 255, 200, 50, 50, 255}

	cases := []struct {
		name    string
		mode    DepthMode
		visible bool
	}{
		{"always back loses to geometry", DepthAlwaysBack, false},
		{"always front wins over geometry", DepthAlwaysFront, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext(t, 32, 32)
			c.Clear(0, 0, 0)
			if err := c.DrawTriangles(occluded, identityMatrix(), view, proj, DrawOptions{}); err != nil {
				t.Fatalf("DrawTriangles: %v", err)
			}
			if err := c.DrawLineBatch(segment, segColors, view, proj, tc.mode); err != nil {
				t.Fatalf("DrawLineBatch: %v", err)
			}
			r, _, _, _ := common.UnpackRGBA(c.Pixels()[16*32+16])
			if tc.visible && r != 200 {
				t.Errorf("center red = %d, want 200 (line on top)", r)
			}
			if !tc.visible && r != 10 {
				t.Errorf("center red = %d, want 10 (line occluded)", r)
			}
		})
	}
}

func TestDrawLineBatchSkipsSegmentsBehindCamera(t *testing.T) {
	c := newTestContext(t, 32, 32)
	c.Clear(0, 0, 0)

	view := identityMatrix()
	proj := make([]float32, 16)
	common.Perspective(proj, 1.0, 1, 0.1, 100)

	// One endpoint behind the camera; the segment must vanish whole.
	segment := []float32{-1, 0, -5, 0, 0, 5}
	segColors := []uint8{255, 255, 255, 255, 255, 255, 255, 255}
	if err := c.DrawLineBatch(segment, segColors, view, proj, DepthPerVertex); err != nil {
		t.Fatalf("DrawLineBatch: %v", err)
	}

	clear := common.PackRGBA(0, 0, 0, common.BackgroundAlpha)
	for i, p := range c.Pixels() {
		if p != clear {
			t.Fatalf("pixel %d drawn; straddling segment should be skipped", i)
		}
	}
}

func TestDrawPointsBatchRadius(t *testing.T) {
	c := newTestContext(t, 32, 32)
	c.Clear(0, 0, 0)
	view, proj := orthoCamera()

	// A single point at the origin projects to the screen center and
	// expands to a (2r+1)-sided square.
	positions := []float32{0, 0, 0}
	colors := []uint8{90, 180, 30, 255}
	if err := c.DrawPointsBatch(positions, colors, 2, view, proj, DepthAlwaysFront); err != nil {
		t.Fatalf("DrawPointsBatch: %v", err)
	}

	want := common.PackRGBA(90, 180, 30, 255)
	drawn := 0
	for _, p := range c.Pixels() {
		if p == want {
			drawn++
		}
	}
	if drawn != 25 {
		t.Errorf("drew %d pixels, want 25 for radius 2", drawn)
	}
	if c.Pixels()[16*32+16] != want {
		t.Error("center pixel not covered by the point square")
	}
}

func TestDrawLineClipsToBuffer(t *testing.T) {
	c := newTestContext(t, 8, 8)
	c.Clear(0, 0, 0)

	// Endpoints far outside the buffer must not panic and must only
	// touch in-bounds pixels.
	c.DrawLine(-20, -20, 30, 30, common.PackRGBA(255, 255, 255, 255), 0)

	if _, _, _, a := common.UnpackRGBA(c.Pixels()[3*8+3]); a == common.BackgroundAlpha {
		t.Error("diagonal through the buffer left no trace")
	}
}
