// Package analyser turns a stream of interleaved s16le PCM into the byte
// frequency spectrum the frame orchestrator samples each tick, in the manner
// of a Web Audio AnalyserNode: Blackman-windowed FFT over the most recent
// window, temporal smoothing, then a decibel range mapped onto 0-255.
package analyser

import (
	"encoding/binary"
	"math"
	"sync"
)

const (
	DefaultFFTSize   = 1024
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Analyser is written to by the audio path and read by the frame loop.
// Write is safe to call concurrently with ByteFrequencyData.
type Analyser struct {
	ring     *sampleRing
	channels int

	mu      sync.Mutex // guards partial
	partial []byte

	plan      *fftPlan
	smoothing float64
	minDB     float64
	maxDB     float64
	window    []float64
	frame     []float32
	re, im    []float64
	smoothed  []float64
}

// Option adjusts an Analyser at construction.
type Option func(*Analyser)

// WithSmoothing sets the time constant blending each spectrum with the previous one.
func WithSmoothing(tau float64) Option {
	return func(a *Analyser) { a.smoothing = math.Max(0, math.Min(1, tau)) }
}

// WithDecibelRange sets the dB values mapped to byte 0 and 255.
func WithDecibelRange(minDB, maxDB float64) Option {
	return func(a *Analyser) {
		if maxDB > minDB {
			a.minDB, a.maxDB = minDB, maxDB
		}
	}
}

// New returns an analyser for PCM with the given channel count.
func New(channels int, opts ...Option) *Analyser {
	if channels < 1 {
		channels = 1
	}
	n := DefaultFFTSize
	a := &Analyser{
		ring:      newSampleRing(n * 2),
		channels:  channels,
		plan:      newFFTPlan(n),
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		window:    blackman(n),
		frame:     make([]float32, n),
		re:        make([]float64, n),
		im:        make([]float64, n),
		smoothed:  make([]float64, n/2),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FrequencyBinCount is half the FFT size: the length ByteFrequencyData fills.
func (a *Analyser) FrequencyBinCount() int { return a.plan.n / 2 }

// Write taps interleaved s16le PCM. Bytes that do not complete a frame are
// held until the next call. It never fails.
func (a *Analyser) Write(p []byte) (int, error) {
	frameSize := a.channels * 2

	a.mu.Lock()
	data := p
	if len(a.partial) > 0 {
		data = append(a.partial, p...)
		a.partial = nil
	}
	whole := len(data) / frameSize * frameSize
	if rest := data[whole:]; len(rest) > 0 {
		a.partial = append([]byte(nil), rest...)
	}
	a.mu.Unlock()

	frames := whole / frameSize
	if frames == 0 {
		return len(p), nil
	}
	mono := make([]float32, frames)
	for f := 0; f < frames; f++ {
		var sum int
		off := f * frameSize
		for ch := 0; ch < a.channels; ch++ {
			sum += int(int16(binary.LittleEndian.Uint16(data[off+ch*2:])))
		}
		mono[f] = float32(sum) / float32(a.channels) / 32768
	}
	a.ring.write(mono)
	return len(p), nil
}

// Reset drops buffered audio and the smoothing history, as after a seek.
func (a *Analyser) Reset() {
	a.mu.Lock()
	a.partial = nil
	a.mu.Unlock()
	a.ring.clear()
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}
}

// ByteFrequencyData fills dst with the current spectrum, one byte per bin
// starting at DC. Bins past len(dst) are computed but dropped; dst entries
// past FrequencyBinCount are left untouched.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	n := a.plan.n
	a.ring.latest(a.frame)
	for i := 0; i < n; i++ {
		a.re[i] = float64(a.frame[i]) * a.window[i]
		a.im[i] = 0
	}
	a.plan.transform(a.re, a.im)

	scale := 1 / float64(n)
	span := a.maxDB - a.minDB
	for k := range a.smoothed {
		mag := math.Hypot(a.re[k], a.im[k]) * scale
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k >= len(dst) {
			continue
		}
		dst[k] = toByte(a.smoothed[k], a.minDB, span)
	}
}

func toByte(mag, minDB, span float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := math.Floor(255 / span * (db - minDB))
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return byte(v)
}

func blackman(n int) []float64 {
	const (
		a0 = 0.42
		a1 = 0.5
		a2 = 0.08
	)
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}
