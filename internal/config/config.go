// Package config holds the render configuration shared by the drum and track
// renderers, the range table enforced at the control-surface boundary, and a
// snapshot store the host publishes new values through.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/olivier-w/drumvis/internal/easing"
)

var (
	// ErrOutOfRange is returned by Validate for a numeric field outside its range.
	ErrOutOfRange = errors.New("value out of range")
	// ErrUnknownEasing is returned by Validate for an unregistered easing name.
	ErrUnknownEasing = errors.New("unknown easing")
)

// RenderConfig is one immutable-per-frame view of every tunable the renderers read.
type RenderConfig struct {
	DrumRadius    float64 `yaml:"drum_radius"`
	DrumWidth     float64 `yaml:"drum_width"`
	UpperBound    float64 `yaml:"upper_bound"`
	Detail        int     `yaml:"detail"`
	SampleMod     int     `yaml:"sample_mod"`
	Mirror        bool    `yaml:"mirror"`
	BloomStrength float64 `yaml:"bloom_strength"`
	BloomRadius   int     `yaml:"bloom_radius"`
	Easing        string  `yaml:"easing"`
	DisplayVolume float64 `yaml:"display_volume"`
	Volume        float64 `yaml:"volume"`
}

// Default returns the startup configuration.
func Default() RenderConfig {
	return RenderConfig{
		DrumRadius:    100,
		DrumWidth:     24,
		UpperBound:    75,
		Detail:        20,
		SampleMod:     2,
		Mirror:        true,
		BloomStrength: 0.5,
		BloomRadius:   20,
		Easing:        easing.Default,
		DisplayVolume: 1,
		Volume:        0.5,
	}
}

// Clamp forces every field into its allowed range. Unknown easing names
// fall back to easing.Default.
func (c RenderConfig) Clamp() RenderConfig {
	for _, f := range numericFields {
		f.set(&c, clampRange(f.get(&c), f.Min, f.Max))
	}
	if _, ok := easing.Lookup(c.Easing); !ok {
		c.Easing = easing.Default
	}
	return c
}

// Validate reports the first field outside its range.
func (c RenderConfig) Validate() error {
	for _, f := range numericFields {
		v := f.get(&c)
		if math.IsNaN(v) || v < f.Min || v > f.Max {
			return fmt.Errorf("%s = %v (want %v..%v): %w", f.Name, v, f.Min, f.Max, ErrOutOfRange)
		}
	}
	if _, ok := easing.Lookup(c.Easing); !ok {
		return fmt.Errorf("easing %q: %w", c.Easing, ErrUnknownEasing)
	}
	return nil
}

// clampRange maps NaN to lo.
func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
