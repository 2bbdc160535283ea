// Package render draws the drum and track views into RGBA surfaces and
// applies the bloom post-effect.
//
// Every entry point fully owns the surface it is handed for the duration of
// the call and never fails: degenerate input (no samples, zero widths, zero
// bloom) is handled by skipping the affected layer.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// Surface is a fixed-size RGBA pixel buffer with the scratch state the
// drawing helpers need. A Surface is not safe for concurrent use.
type Surface struct {
	img     *image.RGBA
	raster  *vector.Rasterizer
	mask    *image.Alpha
	scratch []uint8
}

// NewSurface allocates a w×h surface. Dimensions below one pixel are raised to one.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.Resize(w, h)
	return s
}

// Resize reallocates the pixel buffer when the dimensions change. Contents
// are undefined afterwards; renderers always start by clearing.
func (s *Surface) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if s.img != nil && s.Width() == w && s.Height() == h {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	s.raster = vector.NewRasterizer(w, h)
	s.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	s.scratch = nil
}

func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Image exposes the backing buffer. Callers must not retain it across frames.
func (s *Surface) Image() *image.RGBA { return s.img }

// At returns the pixel at (x, y), or transparent black outside the bounds.
func (s *Surface) At(x, y int) color.RGBA {
	return s.img.RGBAAt(x, y)
}

// Clone returns an independent copy of the pixel contents.
func (s *Surface) Clone() *Surface {
	c := NewSurface(s.Width(), s.Height())
	copy(c.img.Pix, s.img.Pix)
	return c
}

// fillAll paints the whole surface with c, replacing whatever was there.
func fillAll(s *Surface, c color.RGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// fillRect composites c over r at the given opacity.
func fillRect(s *Surface, r image.Rectangle, c color.RGBA, alpha float64) {
	r = r.Intersect(s.img.Bounds())
	if r.Empty() || alpha <= 0 {
		return
	}
	if alpha >= 1 {
		draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Over)
		return
	}
	m := image.NewUniform(color.Alpha{A: unitToByte(alpha)})
	draw.DrawMask(s.img, r, image.NewUniform(c), image.Point{}, m, image.Point{}, draw.Over)
}

// fillPath composites c over the antialiased interior of p.
func fillPath(s *Surface, p *Path, c color.RGBA) {
	coverage(s, p)
	draw.DrawMask(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, s.mask, image.Point{}, draw.Over)
}

// strokeCircle strokes a circle of radius r centred on (cx, cy). The stroke
// is centred on the path, covering r±width/2. A non-nil clip restricts the
// visible part to the clip's coverage.
func strokeCircle(s *Surface, cx, cy, r, width float64, c color.RGBA, clip *image.Alpha) {
	if width <= 0 {
		return
	}
	ring := &Path{}
	ring.Circle(cx, cy, r+width/2, false)
	if inner := r - width/2; inner > 0 {
		ring.Circle(cx, cy, inner, true)
	}
	coverage(s, ring)
	if clip != nil {
		intersect(s.mask, clip)
	}
	draw.DrawMask(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, s.mask, image.Point{}, draw.Over)
}

// clipMask returns a standalone coverage mask of p for use with strokeCircle.
func clipMask(s *Surface, p *Path) *image.Alpha {
	coverage(s, p)
	m := image.NewAlpha(s.mask.Rect)
	copy(m.Pix, s.mask.Pix)
	return m
}

// coverage rasterizes p into s.mask, replacing its previous contents.
func coverage(s *Surface, p *Path) {
	s.raster.Reset(s.Width(), s.Height())
	s.raster.DrawOp = draw.Src
	p.replay(s.raster)
	s.raster.Draw(s.mask, s.mask.Bounds(), image.Opaque, image.Point{})
}

func intersect(dst, clip *image.Alpha) {
	for i, a := range dst.Pix {
		dst.Pix[i] = uint8((uint32(a)*uint32(clip.Pix[i]) + 127) / 255)
	}
}

func unitToByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
