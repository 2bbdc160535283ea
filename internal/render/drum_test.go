package render

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olivier-w/drumvis/internal/config"
)

func randomSamples(r *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()
	}
	return out
}

func requireOpaque(t *testing.T, s *Surface) {
	t.Helper()
	pix := s.Image().Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0xff {
			px := (i / 4) % s.Width()
			py := (i / 4) / s.Width()
			t.Fatalf("pixel (%d,%d) alpha = %d, want 255", px, py, pix[i])
		}
	}
}

func TestRenderDrumLeavesSurfaceOpaque(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, mirror := range []bool{true, false} {
		for _, n := range []int{2, 3, 20, 350} {
			cfg := config.Default()
			cfg.Mirror = mirror
			s := NewSurface(320, 240)
			RenderDrum(s, randomSamples(r, n), cfg)
			requireOpaque(t, s)
		}
	}
}

func TestMirrorStepReflectsRightHalfExactly(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for _, w := range []int{300, 301} {
		cfg := config.Default()
		cfg.Mirror = true
		s := NewSurface(w, 280)
		fillAll(s, Background)
		drawWaveform(s, randomSamples(r, 40), cfg)

		for y := 0; y < s.Height(); y++ {
			for x := 0; x < w; x++ {
				require.Equal(t, s.At(w-1-x, y), s.At(x, y), "w=%d (%d,%d)", w, x, y)
			}
		}
	}
}

func TestRenderDrumMirrorIsSymmetric(t *testing.T) {
	cfg := config.Default()
	cfg.Mirror = true
	s := NewSurface(400, 400)
	RenderDrum(s, randomSamples(rand.New(rand.NewSource(3)), 32), cfg)

	// the disk is rasterized after the reflection; allow float rounding at its edge
	const tolerance = 1
	for y := 0; y < 400; y++ {
		for x := 0; x < 200; x++ {
			a, b := s.At(x, y), s.At(399-x, y)
			for _, d := range []int{int(a.R) - int(b.R), int(a.G) - int(b.G), int(a.B) - int(b.B)} {
				if d > tolerance || d < -tolerance {
					t.Fatalf("(%d,%d) = %v, mirrored = %v", x, y, a, b)
				}
			}
		}
	}
}

func TestRenderDrumIsIdempotent(t *testing.T) {
	samples := randomSamples(rand.New(rand.NewSource(5)), 64)
	for _, mirror := range []bool{true, false} {
		cfg := config.Default()
		cfg.Mirror = mirror

		a := NewSurface(256, 256)
		b := NewSurface(256, 256)
		RenderDrum(a, samples, cfg)
		RenderDrum(b, samples, cfg)
		require.True(t, bytes.Equal(a.Image().Pix, b.Image().Pix))

		RenderDrum(a, samples, cfg)
		require.True(t, bytes.Equal(a.Image().Pix, b.Image().Pix), "reused surface diverged")
	}
}

func TestRenderDrumDoesNotMutateSamples(t *testing.T) {
	cfg := config.Default()
	cfg.Mirror = false
	backing := []float64{0.1, 0.4, 0.9, 0.77}
	samples := backing[:3]

	RenderDrum(NewSurface(200, 200), samples, cfg)
	require.Equal(t, []float64{0.1, 0.4, 0.9}, samples)
	require.Equal(t, 0.77, backing[3], "spare capacity must not receive the wrap sample")
}

func TestSampleCurveGuardsShortInput(t *testing.T) {
	cfg := config.Default()
	for _, samples := range [][]float64{nil, {}, {0.5}} {
		_, ok := SampleCurve(samples, cfg, 100, 100)
		require.False(t, ok)
	}

	empty := NewSurface(200, 200)
	single := NewSurface(200, 200)
	RenderDrum(empty, nil, cfg)
	RenderDrum(single, []float64{1}, cfg)
	require.True(t, bytes.Equal(empty.Image().Pix, single.Image().Pix))
	requireOpaque(t, single)
}

func TestSampleCurveMirrorStaysOnRightHalf(t *testing.T) {
	cfg := config.Default()
	cfg.Mirror = true
	samples := randomSamples(rand.New(rand.NewSource(9)), 50)
	c, ok := SampleCurve(samples, cfg, 150, 150)
	require.True(t, ok)
	require.Len(t, c.Segments, 49)

	pts := []Point{c.Start, c.Closing}
	for _, seg := range c.Segments {
		pts = append(pts, seg.Ctrl, seg.End)
	}
	for _, p := range pts {
		require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0))
		require.GreaterOrEqual(t, p.X, 150-1e-9)
	}
	// sweep starts at the top and ends at the bottom
	require.InDelta(t, 150-(cfg.DrumRadius+samples[0]*cfg.UpperBound), c.Start.Y, 1e-9)
	require.InDelta(t, 150+(cfg.DrumRadius+samples[49]*cfg.UpperBound), c.Closing.Y, 1e-9)
}

func TestSampleCurveFullCircleWraps(t *testing.T) {
	cfg := config.Default()
	cfg.Mirror = false
	samples := []float64{0.2, 0.8, 0.5, 0.1}
	c, ok := SampleCurve(samples, cfg, 0, 0)
	require.True(t, ok)
	// the first sample is appended, so there is one segment per input sample
	require.Len(t, c.Segments, len(samples))
	require.InDelta(t, c.Start.X, c.Closing.X, 1e-9)
	require.InDelta(t, c.Start.Y, c.Closing.Y, 1e-9)

	last := c.Segments[len(c.Segments)-1]
	r := cfg.DrumRadius + (samples[3]+samples[0])/2*cfg.UpperBound
	require.InDelta(t, r, math.Hypot(last.End.X, last.End.Y), 1e-9)
}

func TestSampleCurveSanitizesNonFinite(t *testing.T) {
	c, ok := SampleCurve([]float64{math.NaN(), math.Inf(1), 0.5}, config.Default(), 50, 50)
	require.True(t, ok)
	for _, seg := range c.Segments {
		require.False(t, math.IsNaN(seg.End.X) || math.IsInf(seg.End.Y, 0))
	}
}

func TestDrumRingsFollowWidth(t *testing.T) {
	cfg := config.Default()
	cfg.DrumRadius = 100
	cfg.DrumWidth = 24
	s := NewSurface(400, 400)
	RenderDrum(s, make([]float64, 20), cfg)

	// x offsets from the centre column sit inside each band of the rim
	require.Equal(t, ringColors[0], s.At(200+100-10, 200))
	require.Equal(t, ringColors[1], s.At(200+100-6, 200))
	require.Equal(t, ringColors[2], s.At(200+100-3, 200))
	require.Equal(t, Background, s.At(200, 200))

	cfg.DrumWidth = 0
	RenderDrum(s, make([]float64, 20), cfg)
	require.Equal(t, Background, s.At(200+100-10, 200))
	require.Equal(t, Background, s.At(200+100-3, 200))
}
