package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/drumvis/internal/analyser"
	"github.com/olivier-w/drumvis/internal/config"
	"github.com/olivier-w/drumvis/internal/frame"
	"github.com/olivier-w/drumvis/internal/player"
	"github.com/olivier-w/drumvis/internal/render"
)

const exportTrackHeight = 16

var errExportCancelled = errors.New("export cancelled")

type exportOptions struct {
	dir      string
	frames   int // 0 renders the whole track
	fps      int
	size     int
	blend    render.BlendMode
	analyser []analyser.Option
}

// exportProgress reports frames written out of the planned total.
type exportProgress struct {
	done, total int
}

// streamClock stands in for the playback session: the position is how much
// of the stream the analyser has been fed.
type streamClock struct {
	pos, total int64
}

func (c *streamClock) PlaybackState() render.PlaybackState {
	if c.total <= 0 {
		return render.PlaybackState{}
	}
	return render.PlaybackState{Position: min(float64(c.pos)/float64(c.total), 1)}
}

// exportFrames decodes path at full speed, feeds the analyser one frame's
// worth of audio at a time and writes each rendered frame as a PNG with the
// drum above the track. It returns the number of frames written.
func exportFrames(ctx context.Context, path string, cfg config.RenderConfig, opts exportOptions, report func(exportProgress)) (int, error) {
	stream, err := player.OpenStream(path)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating export dir: %w", err)
	}

	bytesPerFrame := stream.BytesPerSecond() / int64(opts.fps)
	bytesPerFrame -= bytesPerFrame % 4
	if bytesPerFrame <= 0 {
		return 0, fmt.Errorf("fps %d too high for %d Hz audio", opts.fps, stream.SampleRate())
	}
	total := opts.frames
	if total <= 0 {
		total = int((stream.Length() + bytesPerFrame - 1) / bytesPerFrame)
		total = max(total, 1)
	}

	spectrum := analyser.New(2, opts.analyser...)
	clock := &streamClock{total: stream.Length()}
	orch := frame.New(
		render.NewSurface(opts.size, opts.size),
		render.NewSurface(opts.size, exportTrackHeight),
		config.NewStore(cfg),
		frame.WithSpectrum(spectrum),
		frame.WithPlayback(clock),
		frame.WithBlendMode(opts.blend),
	)
	orch.Start()

	canvas := image.NewRGBA(image.Rect(0, 0, opts.size, opts.size+exportTrackHeight))
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	buf := make([]byte, bytesPerFrame)
	eof := false

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if !eof {
			n, err := io.ReadFull(stream, buf)
			spectrum.Write(buf[:n])
			clock.pos += int64(n)
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
				eof = true
			case err != nil:
				return i, fmt.Errorf("decoding: %w", err)
			}
		}

		f, _ := orch.Tick()
		compose(canvas, orch.Drum().Image(), orch.Track().Image(), !f.Config.Mirror)
		if err := writePNG(filepath.Join(opts.dir, fmt.Sprintf("frame_%05d.png", i)), &enc, canvas); err != nil {
			return i, err
		}
		if report != nil {
			report(exportProgress{done: i + 1, total: total})
		}
		if eof && opts.frames <= 0 {
			return i + 1, nil
		}
	}
	return total, nil
}

// compose stacks the drum over the track. Non-mirror drums are shown
// upside down, as in the terminal view.
func compose(dst, drum, track *image.RGBA, flipDrum bool) {
	w, h := drum.Rect.Dx(), drum.Rect.Dy()
	if flipDrum {
		for y := 0; y < h; y++ {
			src := drum.Pix[(h-1-y)*drum.Stride:][:w*4]
			copy(dst.Pix[y*dst.Stride:], src)
		}
	} else {
		draw.Draw(dst, image.Rect(0, 0, w, h), drum, drum.Rect.Min, draw.Src)
	}
	draw.Draw(dst, image.Rect(0, h, w, h+track.Rect.Dy()), track, track.Rect.Min, draw.Src)
}

func writePNG(path string, enc *png.Encoder, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// runExport drives exportFrames under a small progress view.
func runExport(path string, cfg config.RenderConfig, opts exportOptions) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	m := newExportModel(filepath.Base(path), cancel)
	m.start = exportCmd(ctx, path, cfg, opts, m.statusCh)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	done := final.(exportModel)
	if done.err != nil {
		if errors.Is(done.err, context.Canceled) {
			return errExportCancelled
		}
		return done.err
	}
	fmt.Printf("Wrote %d frames to %s in %s\n", done.written, opts.dir, time.Since(start).Round(time.Millisecond))
	return nil
}
