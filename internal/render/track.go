package render

import (
	"image"
	"image/color"
	"math"
)

var (
	TrackColor    = color.RGBA{R: 0xF0, G: 0x89, B: 0x89, A: 0xFF}
	ScrubberColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

const (
	// ScrubberSize is both the scrubber handle width and the idle bar thickness.
	ScrubberSize = 5
	seekExpand   = 3
	trackAlpha   = 0.5
)

// PlaybackState is the per-frame view of the audio session the track shows.
// Position and SeekPosition are fractions of the track length; SeekPosition
// only matters while Seeking.
type PlaybackState struct {
	Position     float64
	Seeking      bool
	SeekPosition float64
}

// Thickness returns the bar height for the state: the base unit normally,
// three times that while the pointer hovers the track.
func (st PlaybackState) Thickness() int {
	if st.Seeking {
		return ScrubberSize * seekExpand
	}
	return ScrubberSize
}

// RenderTrack overwrites s with the scrub bar anchored to the bottom edge.
func RenderTrack(s *Surface, st PlaybackState) {
	w, h := s.Width(), s.Height()
	thickness := st.Thickness()
	top := h - thickness

	fillAll(s, Background)

	fillRect(s, image.Rect(0, top, w, h), TrackColor, trackAlpha)
	if st.Seeking {
		fillRect(s, image.Rect(0, top, spanWidth(st.SeekPosition, w), h), TrackColor, trackAlpha)
	}
	fillRect(s, image.Rect(0, top, spanWidth(st.Position, w), h), TrackColor, 1)

	if st.Seeking {
		x := ScrubberX(st.Position, w)
		fillRect(s, image.Rect(x, top, x+ScrubberSize, h), ScrubberColor, 1)
	}
}

// ScrubberX is the left edge of the scrubber handle on a track w pixels wide.
func ScrubberX(position float64, w int) int {
	return int(math.Round(clamp01(position) * float64(w-ScrubberSize)))
}

func spanWidth(fraction float64, w int) int {
	return int(math.Round(clamp01(fraction) * float64(w)))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
