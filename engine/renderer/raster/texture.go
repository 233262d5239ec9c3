package raster

import "github.com/roman01la/ps1ender-sub000/common"

// neutralGray is what sampling an empty slot yields. Stale or unbound
// texture references degrade to a visible but harmless flat gray instead of
// faulting.
var neutralGray = common.PackRGBA(128, 128, 128, 255)

// sample returns the texel at (u, v) with nearest filtering and repeat
// wrapping. No filtering beyond nearest: texel edges are part of the look.
func (t *textureSlot) sample(u, v float32) uint32 {
	if t == nil || t.pixels == nil {
		return neutralGray
	}

	u -= float32(int(u))
	if u < 0 {
		u += 1
	}
	v -= float32(int(v))
	if v < 0 {
		v += 1
	}

	x := int(u * float32(t.width))
	y := int(v * float32(t.height))
	if x >= t.width {
		x = t.width - 1
	}
	if y >= t.height {
		y = t.height - 1
	}
	return t.pixels[y*t.width+x]
}
