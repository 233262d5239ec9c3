package transport

import (
	"sync"
	"testing"

	"github.com/roman01la/ps1ender-sub000/common"
	"github.com/roman01la/ps1ender-sub000/engine/frame"
)

func TestMailboxLatestWins(t *testing.T) {
	var mb Mailbox[int]

	if mb.Take() != nil {
		t.Fatal("empty mailbox returned a value")
	}

	a, b, c := 1, 2, 3
	mb.Post(&a)
	mb.Post(&b)
	mb.Post(&c)

	got := mb.Take()
	if got == nil || *got != 3 {
		t.Fatalf("got %v, want the latest posted value 3", got)
	}
	if mb.Take() != nil {
		t.Fatal("mailbox not empty after take")
	}
}

func TestMailboxPending(t *testing.T) {
	var mb Mailbox[frame.Frame]
	if mb.Pending() {
		t.Fatal("fresh mailbox reports pending")
	}
	mb.Post(&frame.Frame{})
	if !mb.Pending() {
		t.Fatal("posted mailbox reports empty")
	}
	mb.Take()
	if mb.Pending() {
		t.Fatal("taken mailbox still reports pending")
	}
}

func TestMailboxOneWriterOneReader(t *testing.T) {
	// The reader must only ever observe fully formed values, and the last
	// value posted must be observable after the writer finishes.
	var mb Mailbox[[2]uint64]
	const posts = 10000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(1); i <= posts; i++ {
			v := [2]uint64{i, ^i}
			mb.Post(&v)
		}
	}()

	for {
		if v := mb.Take(); v != nil {
			if v[1] != ^v[0] {
				t.Fatalf("torn read: %v", *v)
			}
			if v[0] == posts {
				break
			}
		}
	}
	wg.Wait()
}

func TestMeshRoundTripExact(t *testing.T) {
	mesh := &common.MeshBuffer{
		Positions: []float32{0.1, -2.5, 3e-7, 1, 2, 3, -0.0625, 1e9, 42},
		Normals:   []float32{0, 0, 1, 0.70710677, 0.70710677, 0, -1, 0, 0},
		UVs:       []float32{0, 0, 0.5, 0.25, 1, 1},
		Colors:    []uint8{0, 1, 2, 3, 255, 254, 128, 64, 10, 20, 30, 40},
		Indices:   []uint32{0, 1, 2},
	}

	verts, indices := EncodeMesh(mesh)
	if len(verts) != 3*vertexStride {
		t.Fatalf("encoded %d floats, want %d", len(verts), 3*vertexStride)
	}

	got, err := DecodeMesh(verts, indices)
	if err != nil {
		t.Fatalf("DecodeMesh: %v", err)
	}

	for i := range mesh.Positions {
		if got.Positions[i] != mesh.Positions[i] {
			t.Errorf("position %d: %v != %v", i, got.Positions[i], mesh.Positions[i])
		}
		if got.Normals[i] != mesh.Normals[i] {
			t.Errorf("normal %d: %v != %v", i, got.Normals[i], mesh.Normals[i])
		}
	}
	for i := range mesh.UVs {
		if got.UVs[i] != mesh.UVs[i] {
			t.Errorf("uv %d: %v != %v", i, got.UVs[i], mesh.UVs[i])
		}
	}
	for i := range mesh.Colors {
		if got.Colors[i] != mesh.Colors[i] {
			t.Errorf("color %d: %d != %d", i, got.Colors[i], mesh.Colors[i])
		}
	}
	for i := range mesh.Indices {
		if got.Indices[i] != mesh.Indices[i] {
			t.Errorf("index %d: %d != %d", i, got.Indices[i], mesh.Indices[i])
		}
	}
}

func TestDecodeMeshRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		verts   []float32
		indices []uint32
	}{
		{"misaligned vertex data", make([]float32, vertexStride+1), nil},
		{"index out of range", make([]float32, vertexStride), []uint32{0, 1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeMesh(tc.verts, tc.indices); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestVertexBytesRoundTrip(t *testing.T) {
	verts := []float32{1.5, -2.25, 3e8, 0}
	back := VertexFloats(VertexBytes(verts))
	if len(back) != len(verts) {
		t.Fatalf("got %d floats, want %d", len(back), len(verts))
	}
	for i := range verts {
		if back[i] != verts[i] {
			t.Errorf("float %d: %v != %v", i, back[i], verts[i])
		}
	}
}
