package material

import "math"

// Procedural pattern evaluation for the noise and voronoi opcodes. All of it
// is integer-hash based and fully deterministic: the same (u, v, operands)
// always produces the same color, which the bake path relies on for
// reproducible textures.

// hash2 mixes two lattice coordinates into a pseudo-random 32-bit value.
func hash2(x, y uint32) uint32 {
	h := x*0x85ebca6b ^ y*0xc2b2ae35
	h ^= h >> 13
	h *= 0x27d4eb2f
	h ^= h >> 15
	return h
}

// latticeValue returns the hash at an integer lattice point as a float in
// [0, 1). Negative coordinates fold through the uint32 conversion, which is
// fine: the lattice only needs to be consistent, not signed.
func latticeValue(x, y int32, seed uint32) float32 {
	return float32(hash2(uint32(x)^seed, uint32(y))&0xFFFF) / 65536
}

// valueNoise evaluates bilinear value noise at a point, smoothstep-eased.
func valueNoise(x, y float32, seed uint32) float32 {
	xi := int32(math.Floor(float64(x)))
	yi := int32(math.Floor(float64(y)))
	fx := x - float32(xi)
	fy := y - float32(yi)

	fx = fx * fx * (3 - 2*fx)
	fy = fy * fy * (3 - 2*fy)

	v00 := latticeValue(xi, yi, seed)
	v10 := latticeValue(xi+1, yi, seed)
	v01 := latticeValue(xi, yi+1, seed)
	v11 := latticeValue(xi+1, yi+1, seed)

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

// fbm layers octaves of value noise, each at double frequency and half
// amplitude, normalized back to [0, 1].
func fbm(x, y float32, octaves int, seed uint32) float32 {
	if octaves < 1 {
		octaves = 1
	}
	var sum, amp, norm float32 = 0, 1, 0
	for i := 0; i < octaves; i++ {
		sum += valueNoise(x, y, seed) * amp
		norm += amp
		amp *= 0.5
		x *= 2
		y *= 2
	}
	return sum / norm
}

// noiseColor evaluates the noise opcode at a UV coordinate.
func noiseColor(u, v float32, scale, octaves, mode uint8) [4]uint8 {
	x := u * float32(scale)
	y := v * float32(scale)

	if mode == NoiseColor {
		r := fbm(x, y, int(octaves), 0x9e3779b9)
		g := fbm(x, y, int(octaves), 0x7f4a7c15)
		b := fbm(x, y, int(octaves), 0x94d049bb)
		return [4]uint8{toByte(r), toByte(g), toByte(b), 255}
	}

	n := toByte(fbm(x, y, int(octaves), 0x9e3779b9))
	return [4]uint8{n, n, n, 255}
}

// voronoiColor evaluates the voronoi opcode: nearest-feature-point distance
// over a jittered lattice, searched in the 3x3 cell neighborhood.
func voronoiColor(u, v float32, scale, mode uint8) [4]uint8 {
	x := u * float32(scale)
	y := v * float32(scale)
	xi := int32(math.Floor(float64(x)))
	yi := int32(math.Floor(float64(y)))

	best := float32(math.MaxFloat32)
	var bestHash uint32

	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			cx, cy := xi+dx, yi+dy
			h := hash2(uint32(cx), uint32(cy))
			px := float32(cx) + float32(h&0xFF)/256
			py := float32(cy) + float32((h>>8)&0xFF)/256
			ddx := x - px
			ddy := y - py
			d := ddx*ddx + ddy*ddy
			if d < best {
				best = d
				bestHash = h
			}
		}
	}

	if mode == VoronoiCells {
		return [4]uint8{
			uint8(bestHash >> 16),
			uint8(bestHash >> 8),
			uint8(bestHash),
			255,
		}
	}

	d := float32(math.Sqrt(float64(best)))
	if d > 1 {
		d = 1
	}
	b := toByte(d)
	return [4]uint8{b, b, b, 255}
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
