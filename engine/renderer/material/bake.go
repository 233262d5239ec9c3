package material

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Bake executes a compiled program once per output pixel and returns the
// resulting RGBA texture (4 bytes per pixel, row-major). Serial; use a
// Baker for pooled parallel bakes of non-trivial resolutions.
func Bake(program []byte, width, height int, sampler Sampler) []uint8 {
	out := make([]uint8, width*height*4)
	vm := VM{Sampler: sampler}
	bakeRows(&vm, program, out, width, height, 0, height)
	return out
}

// Baker bakes material programs on a reusable worker pool, splitting the
// output into row bands. Baked pixels are identical to the serial path;
// only the wall time differs.
type Baker interface {
	// Bake executes the program per pixel into a new RGBA texture.
	//
	// Parameters:
	//   - program: the compiled bytecode
	//   - width, height: output texture dimensions in pixels
	//   - sampler: texture resolution callback, nil when no texture is bound
	//
	// Returns:
	//   - []uint8: RGBA pixel data, 4 bytes per pixel, row-major
	Bake(program []byte, width, height int, sampler Sampler) []uint8
}

var _ Baker = &baker{}

type baker struct {
	pool    worker.DynamicWorkerPool
	workers int
}

// BakerOption configures a Baker during construction.
type BakerOption func(*baker)

// WithBakeWorkers overrides the worker count (default NumCPU-1, minimum 1).
//
// Parameters:
//   - n: number of pool workers
//
// Returns:
//   - BakerOption: the option to apply
func WithBakeWorkers(n int) BakerOption {
	return func(b *baker) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewBaker creates a Baker with a dynamic worker pool. The pool is reused
// across bakes so repeated material edits don't pay goroutine spawn
// overhead.
//
// Parameters:
//   - opts: optional configuration
//
// Returns:
//   - Baker: the configured baker
func NewBaker(opts ...BakerOption) Baker {
	b := &baker{
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	// Queue size of 256 accommodates the row-band task counts with headroom.
	b.pool = worker.NewDynamicWorkerPool(b.workers, 256, 1*time.Second)
	return b
}

func (b *baker) Bake(program []byte, width, height int, sampler Sampler) []uint8 {
	out := make([]uint8, width*height*4)
	if width == 0 || height == 0 {
		return out
	}

	bands := b.workers * 2
	if bands > height {
		bands = height
	}
	rowsPerBand := (height + bands - 1) / bands

	// A WaitGroup provides the per-bake barrier since pool.Wait() blocks
	// until workers idle-exit, which is unsuitable for interactive edits.
	var wg sync.WaitGroup
	taskID := 0
	for y0 := 0; y0 < height; y0 += rowsPerBand {
		y1 := y0 + rowsPerBand
		if y1 > height {
			y1 = height
		}

		wg.Add(1)
		startRow, endRow := y0, y1
		id := taskID
		taskID++
		b.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				// Each band gets its own VM; the VM's stack is not safe to
				// share across workers.
				vm := VM{Sampler: sampler}
				bakeRows(&vm, program, out, width, height, startRow, endRow)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return out
}

// bakeRows evaluates the program for every pixel in [startRow, endRow),
// sampling at pixel centers.
func bakeRows(vm *VM, program []byte, out []uint8, width, height, startRow, endRow int) {
	for y := startRow; y < endRow; y++ {
		v := (float32(y) + 0.5) / float32(height)
		row := y * width * 4
		for x := 0; x < width; x++ {
			u := (float32(x) + 0.5) / float32(width)
			c := vm.Eval(program, u, v)
			off := row + x*4
			out[off] = c[0]
			out[off+1] = c[1]
			out[off+2] = c[2]
			out[off+3] = c[3]
		}
	}
}
