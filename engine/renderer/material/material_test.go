package material

import (
	"bytes"
	"testing"
)

// mixGraph wires a → mix(op, factor) ← b → output.
func mixGraph(a, b Node, op MixOp, factor float32) *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: 1, Kind: NodeOutput},
			{ID: 2, Kind: NodeMix, Op: op, Factor: factor},
			a, b,
		},
		Connections: []Connection{
			{From: 2, To: 1, Input: 0},
			{From: a.ID, To: 2, Input: 0},
			{From: b.ID, To: 2, Input: 1},
		},
	}
}

func flat(id int, r, g, b, a uint8) Node {
	return Node{ID: id, Kind: NodeFlatColor, Color: [4]uint8{r, g, b, a}}
}

func TestCompileDeterministic(t *testing.T) {
	g := mixGraph(flat(3, 200, 10, 10, 255), flat(4, 10, 200, 10, 255), MixLerp, 0.5)
	p1 := Compile(g)
	p2 := Compile(g)
	if !bytes.Equal(p1, p2) {
		t.Error("compiling the same graph twice produced different programs")
	}

	var vm VM
	c1 := vm.Eval(p1, 0.25, 0.75)
	c2 := vm.Eval(p1, 0.25, 0.75)
	if c1 != c2 {
		t.Errorf("re-evaluating the same program diverged: %v vs %v", c1, c2)
	}
}

func TestEmptyGraphResolvesToGray(t *testing.T) {
	cases := []struct {
		name string
		g    *Graph
	}{
		{"nil graph", nil},
		{"no nodes", &Graph{}},
		{"output with nothing connected", &Graph{Nodes: []Node{{ID: 1, Kind: NodeOutput}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var vm VM
			if got := vm.Eval(Compile(tc.g), 0, 0); got != neutralGray {
				t.Errorf("got %v, want neutral gray", got)
			}
		})
	}
}

func TestUnknownNodeKindCompilesToMagenta(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: 1, Kind: NodeOutput},
			{ID: 2, Kind: NodeKind(99)},
		},
		Connections: []Connection{{From: 2, To: 1, Input: 0}},
	}
	var vm VM
	if got := vm.Eval(Compile(g), 0, 0); got != errorColor {
		t.Errorf("got %v, want magenta error color", got)
	}
}

func TestCyclicGraphTerminates(t *testing.T) {
	// Two mix nodes feeding each other. Compilation must terminate and the
	// cycle must resolve to gray, not hang or blow the stack.
	g := &Graph{
		Nodes: []Node{
			{ID: 1, Kind: NodeOutput},
			{ID: 2, Kind: NodeMix, Op: MixLerp, Factor: 1},
			{ID: 3, Kind: NodeMix, Op: MixLerp, Factor: 1},
		},
		Connections: []Connection{
			{From: 2, To: 1, Input: 0},
			{From: 3, To: 2, Input: 0},
			{From: 2, To: 3, Input: 0},
		},
	}
	var vm VM
	got := vm.Eval(Compile(g), 0, 0)
	if got != neutralGray {
		t.Errorf("got %v, want neutral gray from the broken cycle", got)
	}
}

func TestMixOperandOrder(t *testing.T) {
	// Lerp at full factor must yield operand B exactly; if the compiler
	// swapped operands it would yield A.
	a := flat(3, 255, 0, 0, 255)
	b := flat(4, 0, 0, 255, 255)
	var vm VM
	got := vm.Eval(Compile(mixGraph(a, b, MixLerp, 1)), 0, 0)
	if got[0] != 0 || got[2] != 255 {
		t.Errorf("got %v, want operand B's blue (blend(A, B), not blend(B, A))", got)
	}
}

func TestMixFactorZeroPassesThroughA(t *testing.T) {
	a := flat(3, 40, 80, 120, 255)
	b := flat(4, 255, 255, 255, 255)
	for _, op := range []MixOp{MixMultiply, MixAdd, MixLerp} {
		var vm VM
		got := vm.Eval(Compile(mixGraph(a, b, op, 0)), 0, 0)
		if got != a.Color {
			t.Errorf("op %d at factor 0: got %v, want untouched A %v", op, got, a.Color)
		}
	}
}

func TestMultiplyWithUnboundTexture(t *testing.T) {
	// texture -> mix(multiply, 1.0) <- flat #808080, no texture bound: the
	// gray substitution multiplies through to 128*128/255 = 64 per channel.
	g := mixGraph(
		Node{ID: 3, Kind: NodeTexture},
		flat(4, 128, 128, 128, 255),
		MixMultiply, 1,
	)
	var vm VM
	got := vm.Eval(Compile(g), 0.5, 0.5)
	for ch := 0; ch < 3; ch++ {
		if got[ch] != 64 {
			t.Errorf("channel %d = %d, want 64", ch, got[ch])
		}
	}
	if got[3] != 255 {
		t.Errorf("alpha = %d, want 255", got[3])
	}
}

func TestMixAddClamps(t *testing.T) {
	g := mixGraph(flat(3, 200, 200, 200, 255), flat(4, 100, 100, 100, 255), MixAdd, 1)
	var vm VM
	got := vm.Eval(Compile(g), 0, 0)
	if got[0] != 255 {
		t.Errorf("200 + 100 = %d, want clamp to 255", got[0])
	}
}

func TestSampleTextureUsesSampler(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: 1, Kind: NodeOutput},
			{ID: 2, Kind: NodeTexture},
		},
		Connections: []Connection{{From: 2, To: 1, Input: 0}},
	}
	program := Compile(g)

	vm := VM{Sampler: func(u, v float32) [4]uint8 {
		return [4]uint8{uint8(u * 255), uint8(v * 255), 7, 255}
	}}
	got := vm.Eval(program, 1, 0.5)
	if got[0] != 255 || got[2] != 7 {
		t.Errorf("got %v, want the sampler's value", got)
	}
}

func rampGraph(stops []RampStop, input Node) *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: 1, Kind: NodeOutput},
			{ID: 2, Kind: NodeColorRamp, Stops: stops},
			input,
		},
		Connections: []Connection{
			{From: 2, To: 1, Input: 0},
			{From: input.ID, To: 2, Input: 0},
		},
	}
}

func TestColorRampEndpoints(t *testing.T) {
	stops := []RampStop{
		{Position: 0.25, Color: [4]uint8{10, 20, 30, 255}},
		{Position: 0.75, Color: [4]uint8{200, 210, 220, 255}},
	}
	cases := []struct {
		name  string
		input Node
		want  [4]uint8
	}{
		{"below first stop", flat(3, 0, 0, 0, 255), [4]uint8{10, 20, 30, 255}},
		{"above last stop", flat(3, 255, 255, 255, 255), [4]uint8{200, 210, 220, 255}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var vm VM
			if got := vm.Eval(Compile(rampGraph(stops, tc.input)), 0, 0); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestColorRampMonotonicBetweenStops(t *testing.T) {
	stops := []RampStop{
		{Position: 0, Color: [4]uint8{0, 0, 0, 255}},
		{Position: 1, Color: [4]uint8{255, 255, 255, 255}},
	}
	var vm VM
	prev := -1
	for brightness := 0; brightness <= 255; brightness += 17 {
		b := uint8(brightness)
		g := rampGraph(stops, flat(3, b, b, b, 255))
		got := vm.Eval(Compile(g), 0, 0)
		if int(got[0]) < prev {
			t.Fatalf("ramp output decreased at brightness %d: %d < %d", brightness, got[0], prev)
		}
		prev = int(got[0])
	}
	if prev != 255 {
		t.Errorf("final ramp value = %d, want 255", prev)
	}
}

func TestColorRampStopsSortedDedupedCapped(t *testing.T) {
	// 20 stops, unsorted, with a duplicated position. The encoded table
	// must come out sorted, deduplicated and capped at 16.
	var stops []RampStop
	for i := 19; i >= 0; i-- {
		stops = append(stops, RampStop{Position: float32(i) / 19, Color: [4]uint8{uint8(i), 0, 0, 255}})
	}
	stops = append(stops, RampStop{Position: stops[0].Position, Color: [4]uint8{99, 0, 0, 255}})

	program := Compile(rampGraph(stops, flat(3, 0, 0, 0, 255)))

	// Locate the ramp instruction: flat color (5 bytes) then opColorRamp.
	if program[5] != opColorRamp {
		t.Fatalf("expected ramp opcode at offset 5, got %d", program[5])
	}
	count := int(program[6])
	if count != MaxRampStops {
		t.Fatalf("stop count = %d, want %d", count, MaxRampStops)
	}
	prev := -1
	seen := make(map[int]bool)
	for i := 0; i < count; i++ {
		pos := int(program[7+i*rampStopSize])
		if pos <= prev {
			t.Fatalf("stop %d position %d not strictly increasing after %d", i, pos, prev)
		}
		if seen[pos] {
			t.Fatalf("duplicated stop position %d survived", pos)
		}
		seen[pos] = true
		prev = pos
	}
}

func TestAlphaCutoff(t *testing.T) {
	cases := []struct {
		name      string
		alpha     uint8
		threshold float32
		want      uint8
	}{
		{"below threshold clears", 100, 0.5, 0},
		{"above threshold saturates", 200, 0.5, 255},
		{"at threshold saturates", 128, 0.5, 255},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := &Graph{
				Nodes: []Node{
					{ID: 1, Kind: NodeOutput},
					{ID: 2, Kind: NodeAlphaCutoff, Threshold: tc.threshold},
					flat(3, 50, 50, 50, tc.alpha),
				},
				Connections: []Connection{
					{From: 2, To: 1, Input: 0},
					{From: 3, To: 2, Input: 0},
				},
			}
			var vm VM
			if got := vm.Eval(Compile(g), 0, 0); got[3] != tc.want {
				t.Errorf("alpha = %d, want %d", got[3], tc.want)
			}
		})
	}
}

func TestStackUnderflowSubstitutesGray(t *testing.T) {
	// A hand-built program whose mix has only one operand beneath it.
	program := []byte{opMixLerp, 255, opEnd}
	var vm VM
	if got := vm.Eval(program, 0, 0); got != neutralGray {
		t.Errorf("got %v, want neutral gray from underflow", got)
	}

	// Truncated operand bytes must not read past the stream either.
	truncated := []byte{opFlatColor, 1, 2}
	if got := vm.Eval(truncated, 0, 0); got != neutralGray {
		t.Errorf("truncated program: got %v, want neutral gray", got)
	}
}

func TestNoiseDeterministicAndInRange(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: 1, Kind: NodeOutput},
			{ID: 2, Kind: NodeNoise, Scale: 8, Octaves: 3, Mode: NoiseGrayscale},
		},
		Connections: []Connection{{From: 2, To: 1, Input: 0}},
	}
	program := Compile(g)

	var vm VM
	a := vm.Eval(program, 0.3, 0.7)
	b := vm.Eval(program, 0.3, 0.7)
	if a != b {
		t.Errorf("noise not deterministic: %v vs %v", a, b)
	}
	if a[0] != a[1] || a[1] != a[2] {
		t.Errorf("grayscale noise has unequal channels: %v", a)
	}
	if a[3] != 255 {
		t.Errorf("noise alpha = %d, want 255", a[3])
	}
}

func TestReferencesTexture(t *testing.T) {
	withTex := mixGraph(Node{ID: 3, Kind: NodeTexture}, flat(4, 1, 2, 3, 255), MixLerp, 0.5)
	without := mixGraph(flat(3, 1, 2, 3, 255), flat(4, 4, 5, 6, 255), MixLerp, 0.5)
	orphanTex := &Graph{
		Nodes: []Node{
			{ID: 1, Kind: NodeOutput},
			{ID: 2, Kind: NodeTexture}, // not connected to anything
			flat(3, 9, 9, 9, 255),
		},
		Connections: []Connection{{From: 3, To: 1, Input: 0}},
	}

	cases := []struct {
		name string
		g    *Graph
		want bool
	}{
		{"texture reachable", withTex, true},
		{"no texture node", without, false},
		{"texture node unreachable", orphanTex, false},
		{"nil graph", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReferencesTexture(tc.g); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParallelBakeMatchesSerial(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: 1, Kind: NodeOutput},
			{ID: 2, Kind: NodeVoronoi, Scale: 6, Mode: VoronoiCells},
		},
		Connections: []Connection{{From: 2, To: 1, Input: 0}},
	}
	program := Compile(g)

	serial := Bake(program, 64, 48, nil)
	parallel := NewBaker(WithBakeWorkers(4)).Bake(program, 64, 48, nil)
	if !bytes.Equal(serial, parallel) {
		t.Error("parallel bake differs from serial bake")
	}
}
