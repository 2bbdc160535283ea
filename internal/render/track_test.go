package render

import (
	"testing"
)

func TestRenderTrackIdleDrawsProgressWithoutScrubber(t *testing.T) {
	s := NewSurface(200, 20)
	RenderTrack(s, PlaybackState{Position: 0.3})

	bottom := s.Height() - 1
	// round(0.3 * 200) = 60 opaque columns
	if got := s.At(59, bottom); got != TrackColor {
		t.Fatalf("column 59 = %v, want opaque track %v", got, TrackColor)
	}
	if got := s.At(60, bottom); got == TrackColor {
		t.Fatalf("column 60 should be translucent, got %v", got)
	}
	if got := s.At(199, bottom); got == Background {
		t.Fatal("expected translucent track across the full width")
	}

	top := s.Height() - ScrubberSize
	if got := s.At(100, top-1); got != Background {
		t.Fatalf("row above idle bar = %v, want background", got)
	}
	if got := s.At(100, top); got == Background {
		t.Fatal("expected idle bar to be 5px thick")
	}

	for x := 0; x < s.Width(); x++ {
		for y := 0; y < s.Height(); y++ {
			if s.At(x, y) == ScrubberColor {
				t.Fatalf("unexpected scrubber pixel at (%d,%d)", x, y)
			}
		}
	}
}

func TestRenderTrackSeekingLayersPreviewProgressAndScrubber(t *testing.T) {
	s := NewSurface(205, 20)
	st := PlaybackState{Position: 0.5, Seeking: true, SeekPosition: 0.7}
	RenderTrack(s, st)

	bottom := s.Height() - 1
	if got := st.Thickness(); got != 15 {
		t.Fatalf("Thickness() = %d, want 15", got)
	}
	if got := s.At(10, s.Height()-15); got == Background {
		t.Fatal("expected expanded bar while seeking")
	}
	if got := s.At(10, s.Height()-16); got != Background {
		t.Fatalf("row above expanded bar = %v, want background", got)
	}

	// scrubber at round(0.5 * (205-5)) = 100
	if x := ScrubberX(0.5, 205); x != 100 {
		t.Fatalf("ScrubberX = %d, want 100", x)
	}
	for x := 100; x < 105; x++ {
		if got := s.At(x, bottom); got != ScrubberColor {
			t.Fatalf("scrubber column %d = %v", x, got)
		}
	}
	if got := s.At(99, bottom); got != TrackColor {
		t.Fatalf("progress column 99 = %v, want opaque track", got)
	}

	preview := s.At(120, bottom)  // under the 0.7 seek preview
	remainder := s.At(180, bottom) // base track only
	if preview == remainder {
		t.Fatalf("seek preview should be denser than the bare track, both %v", preview)
	}
	if preview == TrackColor {
		t.Fatal("seek preview must stay translucent")
	}
	if preview.R <= remainder.R {
		t.Fatalf("preview red %d should exceed bare track red %d", preview.R, remainder.R)
	}
}

func TestRenderTrackClampsFractions(t *testing.T) {
	s := NewSurface(50, 10)
	RenderTrack(s, PlaybackState{Position: 4, Seeking: true, SeekPosition: -1})
	for _, x := range []int{45, 49} {
		if got := s.At(x, 9); got != ScrubberColor {
			t.Fatalf("scrubber at column %d expected, got %v", x, got)
		}
	}
	if x := ScrubberX(-2, 50); x != 0 {
		t.Fatalf("ScrubberX(-2) = %d, want 0", x)
	}
}
