package render

import (
	"image/color"
	"math"

	"github.com/olivier-w/drumvis/internal/config"
)

var (
	Background = color.RGBA{R: 0x1F, G: 0x1E, B: 0x2B, A: 0xFF}
	WaveColor  = color.RGBA{R: 0x91, G: 0xE7, B: 0xEB, A: 0xFF}

	// ring colors, outermost stroke first
	ringColors = [3]color.RGBA{
		{R: 0x44, G: 0x33, B: 0x49, A: 0xFF},
		{R: 0x69, G: 0x48, B: 0x68, A: 0xFF},
		{R: 0x8E, G: 0x5D, B: 0x86, A: 0xFF},
	}
)

const edgeWidth = 2

// Point is a position in surface pixel coordinates.
type Point struct {
	X, Y float64
}

// Segment is one quadratic piece of the waveform outline.
type Segment struct {
	Ctrl Point
	End  Point
}

// Curve is the sampled waveform outline: a start point, one smoothing
// segment per consecutive sample pair, and the closing point.
type Curve struct {
	Start    Point
	Segments []Segment
	Closing  Point
}

// circlePoint measures halfTurns (in units of π) from the downward vertical,
// so 0 is the bottom of the circle, 0.5 the right edge and 1 the top.
func circlePoint(cx, cy, radius, halfTurns float64) Point {
	a := halfTurns * math.Pi
	return Point{X: radius*math.Sin(a) + cx, Y: radius*math.Cos(a) + cy}
}

// SampleCurve maps samples onto circle space around (cx, cy).
//
// In mirror mode the sweep runs over the right half, from the top down to
// the bottom; otherwise it covers the full circle and the first sample is
// repeated at the end so the outline wraps without a seam. Fewer than two
// samples yield ok == false: there is no angular step to take.
// The samples slice is never modified.
func SampleCurve(samples []float64, cfg config.RenderConfig, cx, cy float64) (Curve, bool) {
	if len(samples) < 2 {
		return Curve{}, false
	}

	sweep := 2.0
	if cfg.Mirror {
		sweep = 1
	}

	n := len(samples)
	if !cfg.Mirror {
		n++
	}
	data := make([]float64, n)
	for i, v := range samples {
		data[i] = finite(v)
	}
	if !cfg.Mirror {
		data[n-1] = data[0]
	}

	step := sweep / float64(n-1)
	at := func(halfTurns, v float64) Point {
		return circlePoint(cx, cy, cfg.DrumRadius+v*cfg.UpperBound, halfTurns)
	}

	c := Curve{Segments: make([]Segment, 0, n-1)}
	if cfg.Mirror {
		c.Start = at(1, data[0])
	} else {
		c.Start = at(0, data[0])
	}
	for i := 0; i < n-1; i++ {
		angle := sweep - float64(i)/float64(n-1)*sweep
		c.Segments = append(c.Segments, Segment{
			Ctrl: at(angle, data[i]),
			End:  at(angle-step*0.5, (data[i+1]+data[i])/2),
		})
	}
	if cfg.Mirror {
		c.Closing = at(0, data[n-1])
	} else {
		c.Closing = at(0, data[0])
	}
	return c, true
}

// Path converts the curve into a closed fillable outline.
func (c Curve) Path() *Path {
	p := &Path{}
	p.MoveTo(c.Start)
	for _, seg := range c.Segments {
		p.QuadTo(seg.Ctrl, seg.End)
	}
	p.LineTo(c.Closing)
	p.Close()
	return p
}

// RenderDrum overwrites s with the drum view: background, the waveform
// outline built from samples (mirrored from the right half when cfg.Mirror
// is set), then the centre disk and its layered rim. The disk is rasterized
// after the reflection, so its antialiased edge may differ from its mirror
// image by one unit per channel.
func RenderDrum(s *Surface, samples []float64, cfg config.RenderConfig) {
	fillAll(s, Background)
	drawWaveform(s, samples, cfg)
	drawDisk(s, cfg)
}

func drawWaveform(s *Surface, samples []float64, cfg config.RenderConfig) {
	cx, cy := center(s)
	curve, ok := SampleCurve(samples, cfg, cx, cy)
	if !ok {
		return
	}
	fillPath(s, curve.Path(), WaveColor)
	if cfg.Mirror {
		mirrorRightHalf(s)
	}
}

// mirrorRightHalf overwrites the left half of s with a horizontal reflection
// of its right half. For odd widths the centre column is left in place.
func mirrorRightHalf(s *Surface) {
	w, h := s.Width(), s.Height()
	half := w / 2
	pix, stride := s.img.Pix, s.img.Stride
	for y := 0; y < h; y++ {
		row := y * stride
		for sx := w - half; sx < w; sx++ {
			dx := w - 1 - sx
			copy(pix[row+dx*4:row+dx*4+4], pix[row+sx*4:row+sx*4+4])
		}
	}
}

func drawDisk(s *Surface, cfg config.RenderConfig) {
	cx, cy := center(s)
	r := cfg.DrumRadius
	if r <= 0 {
		return
	}
	disk := &Path{}
	disk.Circle(cx, cy, r, false)
	fillPath(s, disk, Background)

	w := cfg.DrumWidth
	if w <= 0 {
		return
	}
	clip := clipMask(s, disk)
	strokeCircle(s, cx, cy, r, w, ringColors[0], clip)
	strokeCircle(s, cx, cy, r, w*2/3, ringColors[1], clip)
	strokeCircle(s, cx, cy, r, w/3, ringColors[2], clip)
	strokeCircle(s, cx, cy, r, edgeWidth, ringColors[2], nil)
}

func center(s *Surface) (float64, float64) {
	return float64(s.Width()) / 2, float64(s.Height()) / 2
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
