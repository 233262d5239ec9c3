package material

import (
	"math"
	"sort"
)

// Compilation never fails: malformed, cyclic or empty graphs compile to a
// program that resolves to a defined color. Every material must bake.
var (
	neutralGray = [4]uint8{128, 128, 128, 255}
	errorColor  = [4]uint8{255, 0, 255, 255} // magenta, visually obvious
)

// Compile walks the graph from the output node's connected input and emits a
// flat bytecode program. Subgraphs compile depth-first; mix operands compile
// left then right so the stack ends with operand two on top. The result is
// deterministic: the same graph always yields byte-identical programs.
func Compile(g *Graph) []byte {
	c := &compiler{graph: g, visiting: make(map[int]bool)}

	if g == nil {
		c.emitFlat(neutralGray)
	} else {
		c.compileNode(g.input(outputID(g), 0))
	}

	c.program = append(c.program, opEnd)
	return c.program
}

type compiler struct {
	graph    *Graph
	program  []byte
	visiting map[int]bool
}

func outputID(g *Graph) int {
	if out := g.output(); out != nil {
		return out.ID
	}
	return -1
}

// compileNode emits instructions that leave exactly one color on the stack.
// A nil node (unconnected input) compiles to neutral gray, and a node
// already on the compile path (cycle) does too, so recursion always
// terminates.
func (c *compiler) compileNode(n *Node) {
	if n == nil || c.visiting[n.ID] {
		c.emitFlat(neutralGray)
		return
	}
	c.visiting[n.ID] = true
	defer delete(c.visiting, n.ID)

	switch n.Kind {
	case NodeFlatColor:
		c.emitFlat(n.Color)

	case NodeTexture:
		c.program = append(c.program, opSampleTexture)

	case NodeNoise:
		c.program = append(c.program, opNoise, scaleByte(n.Scale), clampByte(n.Octaves), n.Mode)

	case NodeVoronoi:
		c.program = append(c.program, opVoronoi, scaleByte(n.Scale), n.Mode)

	case NodeMix:
		c.compileNode(c.graph.input(n.ID, 0))
		c.compileNode(c.graph.input(n.ID, 1))
		c.program = append(c.program, mixOpcode(n.Op), quantize(n.Factor))

	case NodeColorRamp:
		c.compileNode(c.graph.input(n.ID, 0))
		c.emitRamp(n.Stops)

	case NodeAlphaCutoff:
		c.compileNode(c.graph.input(n.ID, 0))
		c.program = append(c.program, opAlphaCutoff, quantize(n.Threshold))

	default:
		c.emitFlat(errorColor)
	}
}

func (c *compiler) emitFlat(col [4]uint8) {
	c.program = append(c.program, opFlatColor, col[0], col[1], col[2], col[3])
}

// emitRamp bakes the gradient table inline: stops sorted by position,
// duplicate positions collapsed to their first occurrence, capped at
// MaxRampStops. An empty table is still emitted; the interpreter resolves
// it to neutral gray.
func (c *compiler) emitRamp(stops []RampStop) {
	sorted := make([]RampStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	deduped := sorted[:0]
	for i, s := range sorted {
		if i > 0 && quantize(s.Position) == quantize(deduped[len(deduped)-1].Position) {
			continue
		}
		deduped = append(deduped, s)
	}
	if len(deduped) > MaxRampStops {
		deduped = deduped[:MaxRampStops]
	}

	c.program = append(c.program, opColorRamp, uint8(len(deduped)))
	for _, s := range deduped {
		c.program = append(c.program, quantize(s.Position), s.Color[0], s.Color[1], s.Color[2], s.Color[3])
	}
}

func mixOpcode(op MixOp) uint8 {
	switch op {
	case MixAdd:
		return opMixAdd
	case MixLerp:
		return opMixLerp
	default:
		return opMixMultiply
	}
}

// quantize maps a [0, 1] parameter onto a single operand byte.
func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

// scaleByte rounds a procedural node's scale to its integer operand byte.
// Fractional scales quantize; the visual difference is below what the retro
// output resolution can show.
func scaleByte(v float32) uint8 {
	return clampByte(int(math.Round(float64(v))))
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
