// Package termview draws RGBA surfaces into terminal text, packing two pixel
// rows per cell with "▀" when colors are available and falling back to an
// ASCII brightness ramp when they are not.
package termview

import (
	"image"
	"strings"
)

// Renderer converts surfaces into terminal strings.
type Renderer struct {
	mode Mode
	sb   strings.Builder
}

// NewRenderer creates a renderer using the current terminal's color capabilities.
func NewRenderer() *Renderer {
	return &Renderer{mode: DetectMode()}
}

// NewRendererMode creates a renderer with a fixed color mode.
func NewRendererMode(m Mode) *Renderer {
	return &Renderer{mode: m}
}

// Color reports whether cells pack two pixel rows.
func (r *Renderer) Color() bool { return r.mode != ModeOff }

// Render scales img into outW x outH cells by nearest neighbour. flipV
// draws the image upside down.
func (r *Renderer) Render(img *image.RGBA, outW, outH int, flipV bool) string {
	if img == nil || outW <= 0 || outH <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}

	r.sb.Reset()
	r.sb.Grow(outW * outH * 24)

	src := sampler{img: img, flip: flipV}
	if r.mode == ModeOff {
		r.renderASCII(src, outW, outH)
	} else {
		r.renderHalfBlock(src, outW, outH)
	}
	return r.sb.String()
}

// renderHalfBlock uses "▀" with fg = top pixel, bg = bottom pixel.
func (r *Renderer) renderHalfBlock(src sampler, outW, outH int) {
	w, h := src.size()
	pixelRows := outH * 2
	var lastFg, lastBg string

	for row := 0; row < outH; row++ {
		topY := row * 2 * h / pixelRows
		botY := (row*2 + 1) * h / pixelRows
		for col := 0; col < outW; col++ {
			x := col * w / outW
			tr, tg, tb := src.at(x, topY)
			br, bg, bb := src.at(x, botY)

			if fg := colorSeq(r.mode, false, tr, tg, tb); fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bgc := colorSeq(r.mode, true, br, bg, bb); bgc != lastBg {
				r.sb.WriteString(bgc)
				lastBg = bgc
			}
			r.sb.WriteString("▀")
		}

		r.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// renderASCII maps each pixel to a brightness character.
func (r *Renderer) renderASCII(src sampler, outW, outH int) {
	w, h := src.size()
	for row := 0; row < outH; row++ {
		y := row * h / outH
		for col := 0; col < outW; col++ {
			pr, pg, pb := src.at(col*w/outW, y)
			r.sb.WriteByte(brightnessChar(luminance(pr, pg, pb)))
		}
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

type sampler struct {
	img  *image.RGBA
	flip bool
}

func (s sampler) size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// at reads the pixel at (x, y) relative to the image origin.
func (s sampler) at(x, y int) (uint8, uint8, uint8) {
	b := s.img.Bounds()
	if s.flip {
		y = b.Dy() - 1 - y
	}
	off := s.img.PixOffset(b.Min.X+x, b.Min.Y+y)
	p := s.img.Pix[off : off+3 : off+3]
	return p[0], p[1], p[2]
}

// CellsFor fits a srcW x srcH image into at most termW x termH cells keeping
// its aspect ratio, taking a cell to be twice as tall as it is wide.
func CellsFor(termW, termH, srcW, srcH int, color bool) (outW, outH int) {
	if srcW <= 0 || srcH <= 0 || termW <= 0 || termH <= 0 {
		return 0, 0
	}
	// pixels per cell row
	rowPix := 2.0
	if !color {
		rowPix = 1
	}
	// a cell is ~0.5 as wide as tall, so one column spans half a row's height
	aspect := float64(srcW) / float64(srcH)
	pixW := float64(termW)
	pixH := pixW / aspect * 0.5 * rowPix
	if maxH := float64(termH) * rowPix; pixH > maxH {
		pixH = maxH
		pixW = pixH * aspect / (0.5 * rowPix)
	}
	outW = max(int(pixW), 4)
	outH = max(int(pixH/rowPix+0.5), 2)
	return min(outW, max(termW, 4)), min(outH, max(termH, 2))
}
