// Package frame runs one frame of the visualizer at a time: it pulls the live
// spectrum, draws the drum and track views, applies bloom, and reports the
// ambient colour for the surrounding chrome.
//
// The orchestrator knows nothing about scheduling. A host calls Tick once per
// display refresh (a bubbletea tick, a timer, an offline export loop) and uses
// Start and Stop to gate it.
package frame

import (
	"image/color"

	"github.com/olivier-w/drumvis/internal/config"
	"github.com/olivier-w/drumvis/internal/easing"
	"github.com/olivier-w/drumvis/internal/render"
)

// Spectrum is the live frequency analyser.
type Spectrum interface {
	FrequencyBinCount() int
	ByteFrequencyData(dst []byte)
}

// Playback reports the audio session state the track view shows.
type Playback interface {
	PlaybackState() render.PlaybackState
}

// Frame describes a finished frame.
type Frame struct {
	Seq      uint64
	Samples  []float64
	Ambient  color.RGBA
	Config   config.RenderConfig
	Bloomed  bool
	Playback render.PlaybackState
}

// AmbientHex is the ambient colour as six hex digits.
func (f Frame) AmbientHex() string { return render.Hex(f.Ambient) }

// Orchestrator owns the two surfaces and renders into them on demand.
type Orchestrator struct {
	drum     *render.Surface
	track    *render.Surface
	configs  *config.Store
	spectrum Spectrum
	playback Playback
	blend    render.BlendMode

	freq    []byte
	seq     uint64
	running bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSpectrum attaches the analyser. Without one every frame has no samples.
func WithSpectrum(s Spectrum) Option {
	return func(o *Orchestrator) { o.spectrum = s }
}

// WithPlayback attaches the playback state source.
func WithPlayback(p Playback) Option {
	return func(o *Orchestrator) { o.playback = p }
}

// WithBlendMode overrides the additive bloom composite.
func WithBlendMode(m render.BlendMode) Option {
	return func(o *Orchestrator) { o.blend = m }
}

// New creates a stopped orchestrator drawing into drum and track.
func New(drum, track *render.Surface, configs *config.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{drum: drum, track: track, configs: configs}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start lets Tick render frames.
func (o *Orchestrator) Start() { o.running = true }

// Stop makes every later Tick a no-op. There is nothing in flight to unwind.
func (o *Orchestrator) Stop() { o.running = false }

// Running reports whether Tick will render.
func (o *Orchestrator) Running() bool { return o.running }

// Drum and Track expose the surfaces for display. They are only valid until
// the next frame.
func (o *Orchestrator) Drum() *render.Surface  { return o.drum }
func (o *Orchestrator) Track() *render.Surface { return o.track }

// Tick renders one frame when running. ok is false when stopped.
func (o *Orchestrator) Tick() (f Frame, ok bool) {
	if !o.running {
		return Frame{}, false
	}
	return o.RenderFrame(), true
}

// RenderFrame renders one frame regardless of the running state, in strict
// order: drum, track, bloom(drum), bloom(track), ambient sample. The
// configuration is read once, so the whole frame sees one snapshot.
func (o *Orchestrator) RenderFrame() Frame {
	cfg := o.configs.Snapshot()
	samples := o.pullSamples(cfg)

	var st render.PlaybackState
	if o.playback != nil {
		st = o.playback.PlaybackState()
	}

	render.RenderDrum(o.drum, samples, cfg)
	render.RenderTrack(o.track, st)

	bloomed := cfg.BloomStrength != 0
	if bloomed {
		render.ApplyBloom(o.drum, cfg.BloomStrength, cfg.BloomRadius, o.blend)
		render.ApplyBloom(o.track, cfg.BloomStrength, cfg.BloomRadius, o.blend)
	}

	o.seq++
	return Frame{
		Seq:      o.seq,
		Samples:  samples,
		Ambient:  render.AmbientColor(o.drum),
		Config:   cfg,
		Bloomed:  bloomed,
		Playback: st,
	}
}

// pullSamples strides through the byte spectrum, normalizes each byte, and
// eases it scaled by the display volume. Strides past the end of the
// spectrum read as silence.
func (o *Orchestrator) pullSamples(cfg config.RenderConfig) []float64 {
	if o.spectrum == nil || cfg.Detail <= 0 {
		return nil
	}
	if n := o.spectrum.FrequencyBinCount(); len(o.freq) != n {
		o.freq = make([]byte, n)
	}
	o.spectrum.ByteFrequencyData(o.freq)

	stride := cfg.SampleMod
	if stride < 1 {
		stride = 1
	}
	// fresh per frame: callers may keep Frame.Samples
	samples := make([]float64, cfg.Detail)
	for i := range samples {
		var raw byte
		if idx := i * stride; idx < len(o.freq) {
			raw = o.freq[idx]
		}
		samples[i] = easing.Apply(cfg.Easing, float64(raw)/255*cfg.DisplayVolume)
	}
	return samples
}
