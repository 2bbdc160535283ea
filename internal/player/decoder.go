package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// audioDecoder is implemented by all format-specific decoders. Reads yield
// interleaved 16-bit little-endian PCM; Length is in output bytes.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// newDecoder detects format by file extension and returns a stereo decoder.
func newDecoder(f *os.File) (audioDecoder, error) {
	var (
		dec audioDecoder
		err error
	)
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		dec, err = newMP3Decoder(f)
	case ".wav":
		dec, err = newWAVDecoder(f)
	case ".flac":
		dec, err = newFLACDecoder(f)
	case ".ogg":
		dec, err = newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return toStereo(dec)
}

// pcmQueue holds converted PCM the caller has not read yet and tracks the
// output byte position.
type pcmQueue struct {
	buf   []byte
	pos   int64
	total int64
}

func (q *pcmQueue) drain(p []byte) (int, bool) {
	if len(q.buf) == 0 {
		return 0, false
	}
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	q.pos += int64(n)
	return n, true
}

func (q *pcmQueue) hand(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		q.buf = raw[n:]
	}
	q.pos += int64(n)
	return n
}

// target resolves a Seek request to a clamped output byte offset.
func (q *pcmQueue) target(offset int64, whence int) int64 {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = q.pos + offset
	case io.SeekEnd:
		pos = q.total + offset
	}
	return min(max(pos, 0), q.total)
}

func (q *pcmQueue) moved(pos int64) {
	q.buf = nil
	q.pos = pos
}

func clampInt16(v int) int16 {
	return int16(min(max(v, -32768), 32767))
}

// --- MP3 decoder ---

type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}
func (d *mp3Decoder) Length() int64     { return d.dec.Length() }
func (d *mp3Decoder) SampleRate() int   { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- WAV decoder ---

type wavDecoder struct {
	pcmQueue
	file         io.ReadSeeker
	pcmStart     int64
	sampleRate   int
	channels     int
	srcBitDepth  int
	srcFrameSize int64
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bitDepth)
	}
	channels := int(dec.NumChans)
	srcFrameSize := int64(channels) * int64(bitDepth) / 8

	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}

	return &wavDecoder{
		pcmQueue:     pcmQueue{total: dec.PCMLen() / srcFrameSize * int64(channels) * 2},
		file:         f,
		pcmStart:     pcmStart,
		sampleRate:   int(dec.SampleRate),
		channels:     channels,
		srcBitDepth:  bitDepth,
		srcFrameSize: srcFrameSize,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}
	if d.pos >= d.total {
		return 0, io.EOF
	}

	width := d.srcBitDepth / 8
	samples := max(len(p)/2, 1)
	src := make([]byte, samples*width)
	n, err := io.ReadFull(d.file, src)
	samples = n / width
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		off := i * width
		var v int
		switch d.srcBitDepth {
		case 8:
			v = (int(src[off]) - 128) << 8
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			s := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF
			}
			v = int(s >> 8)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clampInt16(v)))
	}

	written := d.hand(p, raw)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return written, err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)
	frame := pos / (int64(d.channels) * 2)
	if _, err := d.file.Seek(d.pcmStart+frame*d.srcFrameSize, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *wavDecoder) Length() int64     { return d.total }
func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

// --- FLAC decoder ---

type flacDecoder struct {
	pcmQueue
	stream     *flac.Stream
	sampleRate int
	channels   int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmQueue:   pcmQueue{total: int64(info.NSamples) * int64(channels) * 2},
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   channels,
		bps:        int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*2)
	for i := 0; i < nSamples; i++ {
		for ch := 0; ch < d.channels; ch++ {
			v := int(frame.Subframes[ch].Samples[i])
			switch {
			case d.bps > 16:
				v >>= d.bps - 16
			case d.bps < 16:
				v <<= 16 - d.bps
			}
			binary.LittleEndian.PutUint16(raw[(i*d.channels+ch)*2:], uint16(clampInt16(v)))
		}
	}
	return d.hand(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)
	sample := uint64(pos / (int64(d.channels) * 2))
	if _, err := d.stream.Seek(sample); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *flacDecoder) Length() int64     { return d.total }
func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- OGG Vorbis decoder ---

type oggDecoder struct {
	pcmQueue
	reader     *oggvorbis.Reader
	sampleRate int
	channels   int
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	channels := reader.Channels()
	return &oggDecoder{
		pcmQueue:   pcmQueue{total: reader.Length() * int64(channels) * 2},
		reader:     reader,
		sampleRate: reader.SampleRate(),
		channels:   channels,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	samples := make([]float32, max(len(p)/2, 1))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		s = min(max(s, -1), 1)
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(s*32767)))
	}
	return d.hand(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)
	if err := d.reader.SetPosition(pos / (int64(d.channels) * 2)); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *oggDecoder) Length() int64     { return d.total }
func (d *oggDecoder) SampleRate() int   { return d.sampleRate }
func (d *oggDecoder) ChannelCount() int { return d.channels }

// --- channel adapter ---

// stereoDecoder presents any channel layout as stereo: mono is duplicated,
// extra channels past the first two are dropped.
type stereoDecoder struct {
	src   audioDecoder
	srcCh int
	carry []byte
	out   []byte
	err   error
}

func toStereo(dec audioDecoder) (audioDecoder, error) {
	switch ch := dec.ChannelCount(); {
	case ch == 2:
		return dec, nil
	case ch < 1:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, ch)
	default:
		return &stereoDecoder{src: dec, srcCh: ch}, nil
	}
}

func (d *stereoDecoder) Read(p []byte) (int, error) {
	frameIn := d.srcCh * 2
	for len(d.out) == 0 && d.err == nil {
		buf := make([]byte, max(len(p)/4, 1)*frameIn)
		n, err := d.src.Read(buf)
		d.carry = append(d.carry, buf[:n]...)

		whole := len(d.carry) / frameIn
		for f := 0; f < whole; f++ {
			in := d.carry[f*frameIn:]
			right := in[0:2]
			if d.srcCh > 1 {
				right = in[2:4]
			}
			d.out = append(d.out, in[0], in[1], right[0], right[1])
		}
		d.carry = append(d.carry[:0], d.carry[whole*frameIn:]...)
		d.err = err
	}

	n := copy(p, d.out)
	d.out = d.out[n:]
	if len(d.out) == 0 && d.err != nil {
		err := d.err
		d.err = nil
		return n, err
	}
	return n, nil
}

func (d *stereoDecoder) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekEnd:
		pos = d.Length() + offset
	default:
		return 0, fmt.Errorf("stereo adapter: unsupported whence %d", whence)
	}
	frame := max(pos, 0) / 4
	got, err := d.src.Seek(frame*int64(d.srcCh)*2, io.SeekStart)
	if err != nil {
		return 0, err
	}
	d.carry, d.out, d.err = d.carry[:0], nil, nil
	return got / int64(d.srcCh*2) * 4, nil
}

func (d *stereoDecoder) Length() int64     { return d.src.Length() / int64(d.srcCh) * 2 }
func (d *stereoDecoder) SampleRate() int   { return d.src.SampleRate() }
func (d *stereoDecoder) ChannelCount() int { return 2 }
