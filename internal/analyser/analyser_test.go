package analyser

import (
	"encoding/binary"
	"math"
	"math/rand"
	"testing"
)

func pcmStereo(frames int, sample func(i int) float64) []byte {
	out := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		v := int16(sample(i) * 32767)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(v))
	}
	return out
}

func TestByteFrequencyDataSilenceIsZero(t *testing.T) {
	a := New(2)
	a.Write(pcmStereo(2048, func(int) float64 { return 0 }))

	dst := make([]byte, a.FrequencyBinCount())
	a.ByteFrequencyData(dst)
	for k, v := range dst {
		if v != 0 {
			t.Fatalf("bin %d = %d, want 0 for silence", k, v)
		}
	}
}

func TestByteFrequencyDataPeaksAtToneBin(t *testing.T) {
	const bin = 64
	a := New(2)
	tone := pcmStereo(DefaultFFTSize, func(i int) float64 {
		return 0.5 * math.Sin(2*math.Pi*bin*float64(i)/DefaultFFTSize)
	})

	dst := make([]byte, a.FrequencyBinCount())
	for range 20 {
		a.Write(tone)
		a.ByteFrequencyData(dst)
	}

	peak := 0
	for k := range dst {
		if dst[k] > dst[peak] {
			peak = k
		}
	}
	if peak < bin-1 || peak > bin+1 {
		t.Fatalf("peak at bin %d, want %d", peak, bin)
	}
	if dst[bin] < 200 {
		t.Fatalf("tone bin = %d, expected a strong level", dst[bin])
	}
	if dst[300] >= dst[bin] {
		t.Fatalf("far bin %d should be quieter than tone bin %d", dst[300], dst[bin])
	}
}

func TestByteFrequencyDataShortDestination(t *testing.T) {
	a := New(1)
	dst := []byte{9, 9, 9}
	a.ByteFrequencyData(dst[:2])
	if dst[2] != 9 {
		t.Fatalf("wrote past destination length: %v", dst)
	}
}

func TestWriteBuffersPartialFrames(t *testing.T) {
	a := New(2)
	frame := pcmStereo(1, func(int) float64 { return 0.25 })

	if n, err := a.Write(frame[:3]); n != 3 || err != nil {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if a.ring.fill != 0 {
		t.Fatalf("partial frame reached the ring: fill=%d", a.ring.fill)
	}
	a.Write(frame[3:])
	if a.ring.fill != 1 {
		t.Fatalf("expected one whole frame, fill=%d", a.ring.fill)
	}

	got := make([]float32, 1)
	a.ring.latest(got)
	if math.Abs(float64(got[0])-0.25) > 1e-3 {
		t.Fatalf("mono sample = %v, want ~0.25", got[0])
	}
}

func TestResetClearsHistory(t *testing.T) {
	a := New(2)
	a.Write(pcmStereo(DefaultFFTSize, func(i int) float64 { return math.Sin(float64(i)) }))
	dst := make([]byte, a.FrequencyBinCount())
	a.ByteFrequencyData(dst)

	a.Reset()
	a.ByteFrequencyData(dst)
	for k, v := range dst {
		if v != 0 {
			t.Fatalf("bin %d = %d after reset", k, v)
		}
	}
}

func TestRingLatestZeroPadsFront(t *testing.T) {
	r := newSampleRing(4)
	r.write([]float32{1, 2})
	got := make([]float32, 3)
	r.latest(got)
	if got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("latest = %v, want [0 1 2]", got)
	}

	r.write([]float32{3, 4, 5})
	r.latest(got)
	if got[0] != 3 || got[1] != 4 || got[2] != 5 {
		t.Fatalf("latest after wrap = %v, want [3 4 5]", got)
	}
}

func TestFFTMatchesNaiveDFT(t *testing.T) {
	const n = 64
	rng := rand.New(rand.NewSource(1))
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range re {
		re[i] = rng.Float64()*2 - 1
	}
	input := append([]float64(nil), re...)

	newFFTPlan(n).transform(re, im)

	for k := 0; k < n; k++ {
		var wr, wi float64
		for j := 0; j < n; j++ {
			angle := -2 * math.Pi * float64(k*j) / n
			wr += input[j] * math.Cos(angle)
			wi += input[j] * math.Sin(angle)
		}
		if math.Abs(wr-re[k]) > 1e-9 || math.Abs(wi-im[k]) > 1e-9 {
			t.Fatalf("bin %d = (%v,%v), want (%v,%v)", k, re[k], im[k], wr, wi)
		}
	}
}

func TestOptionsTuneSmoothingAndRange(t *testing.T) {
	tone := pcmStereo(DefaultFFTSize, func(i int) float64 {
		return 0.5 * math.Sin(2*math.Pi*64*float64(i)/DefaultFFTSize)
	})
	smooth, instant := New(2), New(2, WithSmoothing(0))
	smooth.Write(tone)
	instant.Write(tone)

	a := make([]byte, smooth.FrequencyBinCount())
	b := make([]byte, instant.FrequencyBinCount())
	smooth.ByteFrequencyData(a)
	instant.ByteFrequencyData(b)
	if b[64] <= a[64] {
		t.Fatalf("unsmoothed first read %d should exceed smoothed %d", b[64], a[64])
	}

	inverted := New(2, WithDecibelRange(-30, -100))
	if inverted.minDB != DefaultMinDB || inverted.maxDB != DefaultMaxDB {
		t.Fatalf("inverted range applied: %v..%v", inverted.minDB, inverted.maxDB)
	}
	narrow := New(2, WithDecibelRange(-60, -50))
	if narrow.minDB != -60 || narrow.maxDB != -50 {
		t.Fatalf("range not applied: %v..%v", narrow.minDB, narrow.maxDB)
	}
}
