// Package player decodes a local audio file, plays it through oto and tees
// the PCM it hands to the device into a tap, normally the spectrum analyser.
package player

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	frameSize    = channelCount * bitDepth

	monitorInterval = 100 * time.Millisecond
)

// countingReader tracks bytes read and copies them to an optional tap.
type countingReader struct {
	reader io.Reader
	tap    io.Writer
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	if n > 0 && cr.tap != nil {
		cr.tap.Write(p[:n])
	}
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// sink is the audio output. *oto.Player satisfies it.
type sink interface {
	Play()
	Pause()
	SetVolume(float64)
}

// resetter is implemented by taps that keep history across reads.
type resetter interface {
	Reset()
}

// Player manages playback of one decoded file.
type Player struct {
	decoder     audioDecoder
	counter     *countingReader
	newSink     func(io.Reader) sink
	out         sink
	bytesPerSec int64
	duration    time.Duration
	volume      float64
	paused      bool
	ended       bool
	endedCh     chan struct{}
	stopMon     chan struct{}
	cleanup     func()
	mu          sync.Mutex
	closed      bool
}

// Option configures a Player at Open.
type Option func(*Player)

// WithTap copies every PCM byte sent to the device into w. If w has a Reset
// method it is called after each seek.
func WithTap(w io.Writer) Option {
	return func(p *Player) { p.counter.tap = w }
}

// WithVolume sets the starting output gain.
func WithVolume(v float64) Option {
	return func(p *Player) { p.volume = clampVolume(v) }
}

var (
	globalOtoCtx *oto.Context
	otoRate      int
	otoOnce      sync.Once
	otoInitErr   error
)

// initOto creates the process-wide output context. oto allows only one, so
// the first file's sample rate wins.
func initOto(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate = sampleRate
		}
	})
	if otoInitErr == nil && otoRate != sampleRate {
		return nil, fmt.Errorf("audio device already open at %d Hz, file is %d Hz", otoRate, sampleRate)
	}
	return globalOtoCtx, otoInitErr
}

// Open starts playing the file at path.
func Open(path string, opts ...Option) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	ctx, err := initOto(dec.SampleRate())
	if err != nil {
		f.Close()
		return nil, err
	}

	p := newPlayer(dec, func(r io.Reader) sink { return ctx.NewPlayer(r) }, opts...)
	p.cleanup = func() { f.Close() }
	p.restartOutput(true)
	go p.monitor()
	return p, nil
}

func newPlayer(dec audioDecoder, newSink func(io.Reader) sink, opts ...Option) *Player {
	bps := int64(dec.SampleRate()) * frameSize
	p := &Player{
		decoder:     dec,
		counter:     &countingReader{reader: dec},
		newSink:     newSink,
		bytesPerSec: bps,
		duration:    bytesToDuration(dec.Length(), bps),
		volume:      0.5,
		endedCh:     make(chan struct{}, 1),
		stopMon:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// restartOutput swaps in a fresh sink so buffered audio from before a seek
// is dropped. Callers hold p.mu or own p exclusively.
func (p *Player) restartOutput(play bool) {
	if p.out != nil {
		p.out.Pause()
	}
	p.out = p.newSink(p.counter)
	p.out.SetVolume(p.volume)
	p.paused = !play
	if play {
		p.out.Play()
	}
}

func (p *Player) monitor() {
	t := time.NewTicker(monitorInterval)
	defer t.Stop()
	for {
		select {
		case <-p.stopMon:
			return
		case <-t.C:
			p.checkEnded()
		}
	}
}

// checkEnded pauses at end of track and signals Ended once per arrival.
func (p *Player) checkEnded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.ended || p.paused || p.counter.Pos() < p.decoder.Length() {
		return false
	}
	p.ended = true
	p.paused = true
	if p.out != nil {
		p.out.Pause()
	}
	select {
	case p.endedCh <- struct{}{}:
	default:
	}
	return true
}

// Ended receives a value each time playback reaches the end of the track.
func (p *Player) Ended() <-chan struct{} {
	return p.endedCh
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	paused := p.paused
	p.mu.Unlock()
	if paused {
		p.Play()
	} else {
		p.Pause()
	}
}

// Play resumes playback. At the end of the track it starts over.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.paused {
		return
	}
	if p.ended {
		p.seekLocked(0, true)
		return
	}
	p.paused = false
	if p.out != nil {
		p.out.Play()
	}
}

// Pause stops output without moving the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
	if p.out != nil {
		p.out.Pause()
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	return bytesToDuration(p.counter.Pos(), p.bytesPerSec)
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Progress is the position as a fraction of the track, in [0, 1].
func (p *Player) Progress() float64 {
	total := p.decoder.Length()
	if total <= 0 {
		return 0
	}
	return min(max(float64(p.counter.Pos())/float64(total), 0), 1)
}

// Seek moves playback by delta from the current position.
func (p *Player) Seek(delta time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := p.Position() + delta
	return p.seekLocked(clampSeekByteOffset(pos, p.bytesPerSec, p.decoder.Length(), frameSize), !p.paused)
}

// SeekTo jumps to pos. Playback continues afterwards only if resume is set.
func (p *Player) SeekTo(pos time.Duration, resume bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seekLocked(clampSeekByteOffset(pos, p.bytesPerSec, p.decoder.Length(), frameSize), resume)
}

// SeekFraction jumps to a fraction of the track, as a click on the scrubber.
func (p *Player) SeekFraction(frac float64, resume bool) error {
	frac = min(max(frac, 0), 1)
	return p.SeekTo(time.Duration(math.Round(frac*float64(p.duration))), resume)
}

func (p *Player) seekLocked(offset int64, resume bool) error {
	if _, err := p.decoder.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking: %w", err)
	}
	p.counter.SetPos(offset)
	p.ended = false
	if r, ok := p.counter.tap.(resetter); ok {
		r.Reset()
	}
	if p.newSink == nil {
		p.paused = !resume
		return nil
	}
	p.restartOutput(resume)
	return nil
}

// clampSeekByteOffset converts pos to a byte offset inside [0, total]
// aligned down to a whole sample frame.
func clampSeekByteOffset(pos time.Duration, bytesPerSec, total, align int64) int64 {
	off := int64(pos.Seconds() * float64(bytesPerSec))
	off = min(max(off, 0), total)
	if align > 1 {
		off -= off % align
	}
	return off
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(v)
	if p.out != nil {
		p.out.SetVolume(p.volume)
	}
}

// Close stops output and releases the file.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.out != nil {
		p.out.Pause()
	}
	if p.stopMon != nil {
		close(p.stopMon)
	}
	if p.cleanup != nil {
		p.cleanup()
	}
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}

func bytesToDuration(n, bytesPerSec int64) time.Duration {
	if bytesPerSec <= 0 {
		return 0
	}
	whole, rest := n/bytesPerSec, n%bytesPerSec
	return time.Duration(whole)*time.Second + time.Duration(rest*int64(time.Second)/bytesPerSec)
}
