// Package easing holds the named remapping curves applied to normalized
// spectrum magnitudes before they are drawn.
//
// Every registered curve maps [0,1] onto [0,1], is monotonic non-decreasing,
// and fixes both endpoints: f(0) = 0 and f(1) = 1.
package easing

import (
	"math"
	"sort"
)

// Func remaps a normalized magnitude.
type Func func(t float64) float64

// Default is the curve used when a configuration names nothing known.
const Default = "easeInQuart"

var registry = map[string]Func{
	"linear":         func(t float64) float64 { return t },
	"easeInQuad":     func(t float64) float64 { return t * t },
	"easeOutQuad":    func(t float64) float64 { return t * (2 - t) },
	"easeInOutQuad":  easeInOutQuad,
	"easeInCubic":    func(t float64) float64 { return t * t * t },
	"easeOutCubic":   func(t float64) float64 { u := t - 1; return u*u*u + 1 },
	"easeInOutCubic": easeInOutCubic,
	"easeInQuart":    func(t float64) float64 { return t * t * t * t },
	"easeOutQuart":   func(t float64) float64 { u := t - 1; return 1 - u*u*u*u },
	"easeInOutQuart": easeInOutQuart,
	"easeInQuint":    func(t float64) float64 { return t * t * t * t * t },
	"easeOutQuint":   func(t float64) float64 { u := t - 1; return 1 + u*u*u*u*u },
	"easeInOutQuint": easeInOutQuint,
	"easeInSine":     func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) },
	"easeOutSine":    func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
	"easeInOutSine":  func(t float64) float64 { return (1 - math.Cos(math.Pi*t)) / 2 },
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return (t-1)*(2*t-2)*(2*t-2) + 1
}

func easeInOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	u := t - 1
	return 1 - 8*u*u*u*u
}

func easeInOutQuint(t float64) float64 {
	if t < 0.5 {
		return 16 * t * t * t * t * t
	}
	u := t - 1
	return 1 + 16*u*u*u*u*u
}

// Lookup returns the curve registered under name.
func Lookup(name string) (Func, bool) {
	f, ok := registry[name]
	return f, ok
}

// Get returns the named curve, falling back to Default.
func Get(name string) Func {
	if f, ok := registry[name]; ok {
		return f
	}
	return registry[Default]
}

// Apply clamps t into [0,1] and remaps it with the named curve.
func Apply(name string, t float64) float64 {
	switch {
	case t <= 0 || math.IsNaN(t):
		return 0
	case t >= 1:
		return 1
	}
	return Get(name)(t)
}

// Names returns every registered curve name in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the name following current in Names order, wrapping around.
// An unknown name yields the first entry.
func Next(current string, step int) string {
	names := Names()
	idx := -1
	for i, n := range names {
		if n == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return names[0]
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}
