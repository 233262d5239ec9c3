package material

// Bytecode instruction set. A program is a flat byte stream of opcode +
// operand tuples terminated by opEnd. All operands are inline bytes, so a
// program is self-contained and replayable without the graph that produced
// it.
//
// Encoding:
//
//	opFlatColor     r g b a
//	opSampleTexture (no operands)
//	opMixMultiply   factor
//	opMixAdd        factor
//	opMixLerp       factor
//	opColorRamp     stopCount, then stopCount x (pos r g b a)
//	opVoronoi       scale mode
//	opAlphaCutoff   threshold
//	opNoise         scale octaves mode
//	opEnd
//
// Factors, ramp positions and thresholds are quantized to 0-255.
const (
	opEnd uint8 = iota
	opFlatColor
	opSampleTexture
	opMixMultiply
	opMixAdd
	opMixLerp
	opColorRamp
	opVoronoi
	opAlphaCutoff
	opNoise
)

// MaxRampStops caps the inline gradient table of a color-ramp instruction.
const MaxRampStops = 16

// rampStopSize is the encoded width of one (position, color) stop.
const rampStopSize = 5
