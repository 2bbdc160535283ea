package config

import "sync/atomic"

// Store hands out whole-frame snapshots of the configuration. The control
// surface publishes replacements; renderers only ever see a value copy, so a
// change can never land halfway through a frame.
type Store struct {
	cur atomic.Pointer[RenderConfig]
}

// NewStore returns a store holding the clamped initial value.
func NewStore(initial RenderConfig) *Store {
	s := &Store{}
	s.Publish(initial)
	return s
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() RenderConfig {
	return *s.cur.Load()
}

// Publish clamps c, makes it current, and returns the stored value.
func (s *Store) Publish(c RenderConfig) RenderConfig {
	c = c.Clamp()
	s.cur.Store(&c)
	return c
}

// Update applies fn to a copy of the current value and publishes the result.
func (s *Store) Update(fn func(RenderConfig) RenderConfig) RenderConfig {
	return s.Publish(fn(s.Snapshot()))
}
