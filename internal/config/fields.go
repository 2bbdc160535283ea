package config

import (
	"fmt"
	"math"
	"strconv"

	"github.com/olivier-w/drumvis/internal/easing"
)

// Kind describes how a control-surface field is adjusted.
type Kind uint8

const (
	KindNumber Kind = iota
	KindToggle
	KindChoice
)

// Field describes one tunable exposed to the control surface.
type Field struct {
	Name string
	Kind Kind
	Min  float64
	Max  float64
	Step float64

	get func(*RenderConfig) float64
	set func(*RenderConfig, float64)
}

var numericFields = []Field{
	floatField("drumRadius", 5, 250, 5, func(c *RenderConfig) *float64 { return &c.DrumRadius }),
	floatField("drumWidth", 0, 100, 2, func(c *RenderConfig) *float64 { return &c.DrumWidth }),
	floatField("upperBound", 5, 250, 5, func(c *RenderConfig) *float64 { return &c.UpperBound }),
	floatField("bloomStrength", 0, 1, 0.05, func(c *RenderConfig) *float64 { return &c.BloomStrength }),
	intField("bloomRadius", 0, 50, 1, func(c *RenderConfig) *int { return &c.BloomRadius }),
	floatField("displayVolume", 0, 1, 0.05, func(c *RenderConfig) *float64 { return &c.DisplayVolume }),
	floatField("volume", 0, 1, 0.05, func(c *RenderConfig) *float64 { return &c.Volume }),
	intField("detail", 5, 350, 5, func(c *RenderConfig) *int { return &c.Detail }),
	intField("sampleMod", 1, 10, 1, func(c *RenderConfig) *int { return &c.SampleMod }),
}

var (
	mirrorField = Field{Name: "mirror", Kind: KindToggle}
	easingField = Field{Name: "easing", Kind: KindChoice}
)

func floatField(name string, lo, hi, step float64, ptr func(*RenderConfig) *float64) Field {
	return Field{
		Name: name, Kind: KindNumber, Min: lo, Max: hi, Step: step,
		get: func(c *RenderConfig) float64 { return *ptr(c) },
		set: func(c *RenderConfig, v float64) { *ptr(c) = v },
	}
}

func intField(name string, lo, hi, step float64, ptr func(*RenderConfig) *int) Field {
	return Field{
		Name: name, Kind: KindNumber, Min: lo, Max: hi, Step: step,
		get: func(c *RenderConfig) float64 { return float64(*ptr(c)) },
		set: func(c *RenderConfig, v float64) { *ptr(c) = int(math.Round(v)) },
	}
}

// Fields returns the control-surface fields in panel order.
func Fields() []Field {
	byName := make(map[string]Field, len(numericFields))
	for _, f := range numericFields {
		byName[f.Name] = f
	}
	return []Field{
		byName["drumRadius"],
		byName["drumWidth"],
		byName["upperBound"],
		byName["bloomStrength"],
		byName["bloomRadius"],
		mirrorField,
		easingField,
		byName["displayVolume"],
		byName["volume"],
		byName["detail"],
		byName["sampleMod"],
	}
}

// Format renders the field's current value in c.
func (f Field) Format(c RenderConfig) string {
	switch f.Kind {
	case KindToggle:
		return strconv.FormatBool(c.Mirror)
	case KindChoice:
		return c.Easing
	}
	v := f.get(&c)
	if f.Step >= 1 {
		return strconv.Itoa(int(math.Round(v)))
	}
	return fmt.Sprintf("%.2f", v)
}

// Adjust moves the field one step in the sign of dir and returns the clamped result.
// Toggles flip regardless of direction; choices cycle through the easing registry.
func (f Field) Adjust(c RenderConfig, dir int) RenderConfig {
	if dir == 0 {
		return c
	}
	switch f.Kind {
	case KindToggle:
		c.Mirror = !c.Mirror
		return c
	case KindChoice:
		step := 1
		if dir < 0 {
			step = -1
		}
		c.Easing = easing.Next(c.Easing, step)
		return c
	}
	delta := f.Step
	if dir < 0 {
		delta = -delta
	}
	v := f.get(&c) + delta
	// snap to the step grid
	v = math.Round(v/f.Step) * f.Step
	f.set(&c, clampRange(v, f.Min, f.Max))
	return c
}
