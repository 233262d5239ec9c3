package material

// stackDepth bounds the VM's value stack. Compiled programs from well-formed
// graphs never need more than the graph's mix-nesting depth; eight covers
// any graph the editor can build, and overflow clamps rather than grows.
const stackDepth = 8

// Sampler resolves a texture sample at the given UV. A nil sampler (no
// texture bound) substitutes neutral gray, keeping evaluation total.
type Sampler func(u, v float32) [4]uint8

// VM executes compiled material programs over a small fixed-depth stack of
// RGBA values. The zero value is ready to use; set Sampler to wire texture
// sampling. A VM is cheap and not safe for concurrent use — parallel bakes
// give each worker its own.
type VM struct {
	Sampler Sampler

	stack [stackDepth][4]uint8
	sp    int
}

// Eval runs the program at one UV coordinate and returns the resulting
// color. Evaluation is total: malformed programs never fault — underflow
// substitutes neutral gray, overflow drops the oldest headroom by clamping,
// and a program that leaves nothing on the stack resolves to gray.
func (vm *VM) Eval(program []byte, u, v float32) [4]uint8 {
	vm.sp = 0
	pc := 0

	for pc < len(program) {
		op := program[pc]
		pc++

		switch op {
		case opEnd:
			return vm.pop()

		case opFlatColor:
			if pc+4 > len(program) {
				return vm.pop()
			}
			vm.push([4]uint8{program[pc], program[pc+1], program[pc+2], program[pc+3]})
			pc += 4

		case opSampleTexture:
			if vm.Sampler != nil {
				vm.push(vm.Sampler(u, v))
			} else {
				vm.push(neutralGray)
			}

		case opMixMultiply, opMixAdd, opMixLerp:
			if pc >= len(program) {
				return vm.pop()
			}
			factor := program[pc]
			pc++
			b := vm.pop()
			a := vm.pop()
			vm.push(mix(op, a, b, factor))

		case opColorRamp:
			if pc >= len(program) {
				return vm.pop()
			}
			count := int(program[pc])
			pc++
			end := pc + count*rampStopSize
			if end > len(program) {
				return vm.pop()
			}
			in := vm.pop()
			vm.push(evalRamp(program[pc:end], count, in))
			pc = end

		case opVoronoi:
			if pc+2 > len(program) {
				return vm.pop()
			}
			scale, mode := program[pc], program[pc+1]
			pc += 2
			vm.push(voronoiColor(u, v, scale, mode))

		case opNoise:
			if pc+3 > len(program) {
				return vm.pop()
			}
			scale, octaves, mode := program[pc], program[pc+1], program[pc+2]
			pc += 3
			vm.push(noiseColor(u, v, scale, octaves, mode))

		case opAlphaCutoff:
			if pc >= len(program) {
				return vm.pop()
			}
			threshold := program[pc]
			pc++
			c := vm.pop()
			if c[3] < threshold {
				c[3] = 0
			} else {
				c[3] = 255
			}
			vm.push(c)

		default:
			// Unknown opcode: the stream is garbage past this point.
			return vm.pop()
		}
	}
	return vm.pop()
}

func (vm *VM) push(c [4]uint8) {
	if vm.sp == stackDepth {
		vm.stack[stackDepth-1] = c
		return
	}
	vm.stack[vm.sp] = c
	vm.sp++
}

// pop substitutes neutral gray below the stack base, so operators emitted
// by a corrupted stream still produce a defined color.
func (vm *VM) pop() [4]uint8 {
	if vm.sp == 0 {
		return neutralGray
	}
	vm.sp--
	return vm.stack[vm.sp]
}

// mix blends toward the operator result: out = lerp(a, op(a, b), factor).
// At factor 0 the first operand passes through untouched; at factor 255 the
// operator applies fully.
func mix(op uint8, a, b [4]uint8, factor uint8) [4]uint8 {
	var full [4]uint8
	switch op {
	case opMixAdd:
		for i := 0; i < 3; i++ {
			full[i] = clamp255(int(a[i]) + int(b[i]))
		}
	case opMixLerp:
		full = b
	default:
		for i := 0; i < 3; i++ {
			full[i] = clamp255(int(a[i]) * int(b[i]) / 255)
		}
	}
	full[3] = a[3]

	f := int(factor)
	var out [4]uint8
	for i := 0; i < 3; i++ {
		out[i] = uint8(int(a[i]) + (int(full[i])-int(a[i]))*f/255)
	}
	out[3] = a[3]
	return out
}

// evalRamp maps the input color's brightness through the inline stop table.
// Positions at or below the first stop return exactly the first stop's
// color; at or above the last, exactly the last's; in between, linear
// interpolation against the two neighboring stops.
func evalRamp(stops []byte, count int, in [4]uint8) [4]uint8 {
	if count == 0 {
		return neutralGray
	}

	pos := (int(in[0]) + int(in[1]) + int(in[2])) / 3

	stop := func(i int) (p int, c [4]uint8) {
		off := i * rampStopSize
		return int(stops[off]), [4]uint8{stops[off+1], stops[off+2], stops[off+3], stops[off+4]}
	}

	firstP, firstC := stop(0)
	if pos <= firstP {
		return firstC
	}
	lastP, lastC := stop(count - 1)
	if pos >= lastP {
		return lastC
	}

	for i := 1; i < count; i++ {
		hiP, hiC := stop(i)
		if pos > hiP {
			continue
		}
		loP, loC := stop(i - 1)
		span := hiP - loP
		if span == 0 {
			return loC
		}
		t := pos - loP
		var out [4]uint8
		for ch := 0; ch < 4; ch++ {
			out[ch] = uint8(int(loC[ch]) + (int(hiC[ch])-int(loC[ch]))*t/span)
		}
		return out
	}
	return lastC
}

func clamp255(v int) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
