package ui

import (
	"math"
	"time"

	"github.com/olivier-w/drumvis/internal/render"
)

// Audio is the playback session the TUI drives. *player.Player satisfies it.
type Audio interface {
	Position() time.Duration
	Duration() time.Duration
	Progress() float64
	Paused() bool
	Play()
	Pause()
	TogglePause()
	Seek(delta time.Duration) error
	SeekFraction(frac float64, resume bool) error
	SetVolume(v float64)
	Ended() <-chan struct{}
	Close()
}

// scrubState tracks the pointer over the track. Hovering the track previews
// a seek; pressing pauses and scrubs until release.
type scrubState struct {
	seeking   bool
	scrubbing bool
	x         float64
}

// session feeds the track view: live progress plus the pointer state.
type session struct {
	audio Audio
	scrub scrubState
}

func (s *session) PlaybackState() render.PlaybackState {
	var pos float64
	if s.audio != nil {
		pos = s.audio.Progress()
	}
	return render.PlaybackState{
		Position:     pos,
		Seeking:      s.scrub.seeking,
		SeekPosition: s.scrub.x,
	}
}

// hover handles pointer motion. x is the pointer's fraction of the width.
func (s *session) hover(x float64, onTrack bool) {
	s.scrub.x = clampFrac(x)
	switch {
	case onTrack:
		s.scrub.seeking = true
	case !s.scrub.scrubbing:
		s.scrub.seeking = false
	}
	if s.scrub.scrubbing {
		s.seekToPointer()
	}
}

// press starts a scrub on the track and pauses playback.
func (s *session) press(x float64) {
	s.scrub.x = clampFrac(x)
	s.scrub.seeking = true
	s.scrub.scrubbing = true
	if s.audio != nil {
		s.audio.Pause()
		s.seekToPointer()
	}
}

// release ends a scrub and resumes playback. It reports whether a scrub
// was in progress.
func (s *session) release() bool {
	if !s.scrub.scrubbing {
		return false
	}
	s.scrub.scrubbing = false
	s.scrub.seeking = false
	if s.audio != nil {
		s.audio.Play()
	}
	return true
}

// seekToPointer jumps to the pointer, rounded to whole seconds.
func (s *session) seekToPointer() {
	if s.audio == nil {
		return
	}
	frac := s.scrub.x
	if dur := s.audio.Duration().Seconds(); dur > 0 {
		frac = math.Round(dur*frac) / dur
	}
	s.audio.SeekFraction(frac, false)
}

func clampFrac(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}
