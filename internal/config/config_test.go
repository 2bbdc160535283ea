package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestClampForcesRanges(t *testing.T) {
	c := Default()
	c.DrumRadius = 1000
	c.DrumWidth = -4
	c.Detail = 0
	c.SampleMod = 0
	c.BloomStrength = 3
	c.Easing = "bogus"

	got := c.Clamp()
	require.Equal(t, 250.0, got.DrumRadius)
	require.Equal(t, 0.0, got.DrumWidth)
	require.Equal(t, 5, got.Detail)
	require.Equal(t, 1, got.SampleMod)
	require.Equal(t, 1.0, got.BloomStrength)
	require.Equal(t, "easeInQuart", got.Easing)
	require.NoError(t, got.Validate())
}

func TestValidateReportsSentinels(t *testing.T) {
	c := Default()
	c.UpperBound = 1
	require.ErrorIs(t, c.Validate(), ErrOutOfRange)

	c = Default()
	c.Easing = "bounce"
	require.ErrorIs(t, c.Validate(), ErrUnknownEasing)
}

func TestFieldAdjustStepsAndClamps(t *testing.T) {
	fields := Fields()
	require.Len(t, fields, 11)

	byName := map[string]Field{}
	for _, f := range fields {
		byName[f.Name] = f
	}

	c := Default()
	c = byName["drumRadius"].Adjust(c, 1)
	require.Equal(t, 105.0, c.DrumRadius)

	c.BloomStrength = 0.95
	c = byName["bloomStrength"].Adjust(c, 1)
	c = byName["bloomStrength"].Adjust(c, 1)
	require.Equal(t, 1.0, c.BloomStrength)

	c.SampleMod = 1
	c = byName["sampleMod"].Adjust(c, -1)
	require.Equal(t, 1, c.SampleMod)

	c = byName["mirror"].Adjust(c, -1)
	require.False(t, c.Mirror)

	before := c.Easing
	c = byName["easing"].Adjust(c, 1)
	require.NotEqual(t, before, c.Easing)
	c = byName["easing"].Adjust(c, -1)
	require.Equal(t, before, c.Easing)

	require.Equal(t, c, byName["detail"].Adjust(c, 0))
}

func TestFieldFormat(t *testing.T) {
	c := Default()
	for _, f := range Fields() {
		switch f.Name {
		case "detail":
			require.Equal(t, "20", f.Format(c))
		case "bloomStrength":
			require.Equal(t, "0.50", f.Format(c))
		case "mirror":
			require.Equal(t, "true", f.Format(c))
		case "easing":
			require.Equal(t, "easeInQuart", f.Format(c))
		}
	}
}

func TestStorePublishesClampedSnapshots(t *testing.T) {
	s := NewStore(Default())
	snap := s.Snapshot()

	s.Update(func(c RenderConfig) RenderConfig {
		c.Detail = 9999
		return c
	})

	require.Equal(t, 20, snap.Detail, "earlier snapshot must not change")
	require.Equal(t, 350, s.Snapshot().Detail)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Default()
	c.Mirror = false
	c.Easing = "easeOutCubic"
	c.Detail = 64

	require.NoError(t, Save(path, c))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detail: 40\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	want := Default()
	want.Detail = 40
	require.Equal(t, want, got)
}

func TestLoadRejectsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_mod: 40\n"), 0o644))

	got, err := Load(path)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Equal(t, Default(), got)
}

func TestLoadRejectsNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drum_radius: .nan\n"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestClampReplacesNaNWithMinimum(t *testing.T) {
	c := Default()
	c.DrumRadius = math.NaN()
	c.BloomStrength = math.NaN()

	got := NewStore(c).Snapshot()
	require.Equal(t, 5.0, got.DrumRadius)
	require.Equal(t, 0.0, got.BloomStrength)
	require.NoError(t, got.Validate())
}
