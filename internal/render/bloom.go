package render

import (
	"fmt"
	"image"

	"github.com/esimov/stackblur-go"
)

// maxBloomRadius is the largest radius the stack blur tables cover.
const maxBloomRadius = 254

// BlendMode selects how the blurred copy is composited back. The zero value
// is additive, matching a "lighter" canvas composite.
type BlendMode uint8

const (
	BlendAdditive BlendMode = iota
	BlendScreen
	BlendOver
)

func (m BlendMode) String() string {
	switch m {
	case BlendScreen:
		return "screen"
	case BlendOver:
		return "over"
	default:
		return "additive"
	}
}

// ParseBlendMode returns the mode whose String is name.
func ParseBlendMode(name string) (BlendMode, error) {
	for _, m := range []BlendMode{BlendAdditive, BlendScreen, BlendOver} {
		if m.String() == name {
			return m, nil
		}
	}
	return BlendAdditive, fmt.Errorf("unknown blend mode %q", name)
}

// ApplyBloom stack-blurs a snapshot of s by radius and composites it back
// over the unblurred contents at opacity alpha. alpha <= 0 or radius <= 0
// leaves s untouched. The blur's fixed-point division can leave a mirrored
// input off by one unit per channel.
func ApplyBloom(s *Surface, alpha float64, radius int, mode BlendMode) {
	if alpha <= 0 || radius <= 0 {
		return
	}
	alpha = min(alpha, 1)
	radius = min(radius, maxBloomRadius)

	blurred, err := stackblur.Process(s.img, uint32(radius))
	if err != nil {
		return
	}
	pix := s.img.Pix
	if len(s.scratch) != len(pix) {
		s.scratch = make([]uint8, len(pix))
	}
	glow := premultiply(s.scratch, blurred, s.Width(), s.Height())

	a := uint32(unitToByte(alpha))
	switch mode {
	case BlendScreen:
		for i, d := range pix {
			g := scale(glow[i], a)
			pix[i] = uint8(255 - (uint32(255-d)*uint32(255-g)+127)/255)
		}
	case BlendOver:
		for i := 0; i < len(pix); i += 4 {
			ga := scale(glow[i+3], a)
			for c := 0; c < 4; c++ {
				g := uint32(scale(glow[i+c], a))
				pix[i+c] = uint8(g + (uint32(pix[i+c])*uint32(255-ga)+127)/255)
			}
		}
	default:
		for i, d := range pix {
			v := uint32(d) + uint32(scale(glow[i], a))
			if v > 255 {
				v = 255
			}
			pix[i] = uint8(v)
		}
	}
}

// premultiply copies the blurred image into dst, packed at 4*w bytes per
// row, in the premultiplied form the surface stores.
func premultiply(dst []uint8, src *image.NRGBA, w, h int) []uint8 {
	i := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:][:w*4]
		for x := 0; x < len(row); x += 4 {
			a := uint32(row[x+3])
			dst[i] = scale(row[x], a)
			dst[i+1] = scale(row[x+1], a)
			dst[i+2] = scale(row[x+2], a)
			dst[i+3] = row[x+3]
			i += 4
		}
	}
	return dst
}

// scale multiplies a premultiplied channel by an 8-bit opacity.
func scale(v uint8, a uint32) uint8 {
	return uint8((uint32(v)*a + 127) / 255)
}
