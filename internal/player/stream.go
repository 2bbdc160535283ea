package player

import (
	"os"
	"time"
)

// Stream is a decoded file with no output device, read at whatever pace the
// caller likes. Reads yield interleaved stereo s16le PCM.
type Stream struct {
	dec  audioDecoder
	file *os.File
}

// OpenStream decodes path without opening the audio device.
func OpenStream(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Stream{dec: dec, file: f}, nil
}

func (s *Stream) Read(p []byte) (int, error) { return s.dec.Read(p) }

// SampleRate is the file's sample rate in Hz.
func (s *Stream) SampleRate() int { return s.dec.SampleRate() }

// BytesPerSecond is the PCM byte rate of Read.
func (s *Stream) BytesPerSecond() int64 { return int64(s.dec.SampleRate()) * frameSize }

// Length is the total number of PCM bytes Read will yield.
func (s *Stream) Length() int64 { return s.dec.Length() }

// Duration returns the total duration of the track.
func (s *Stream) Duration() time.Duration {
	return bytesToDuration(s.dec.Length(), s.BytesPerSecond())
}

func (s *Stream) Close() error { return s.file.Close() }
