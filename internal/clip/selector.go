package clip

import (
	"errors"
	"fmt"
	"math/rand"
)

// Mode chooses how many of the listed clips a run stores.
type Mode string

const (
	// ModeRandom stores one clip picked uniformly at random.
	ModeRandom Mode = "random"
	// ModeAll stores every listed clip in listing order.
	ModeAll Mode = "all"
)

// ErrUnknownMode is returned by ParseMode for unsupported values.
var ErrUnknownMode = errors.New("clip: unknown selection mode")

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRandom, ModeAll:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Selector picks clips from a listing.
type Selector struct {
	mode Mode
	intN func(n int) int
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithIntN replaces the random index source. fn must return a value in [0, n).
func WithIntN(fn func(n int) int) SelectorOption {
	return func(s *Selector) {
		s.intN = fn
	}
}

// NewSelector creates a Selector for mode.
func NewSelector(mode Mode, opts ...SelectorOption) *Selector {
	s := &Selector{
		mode: mode,
		intN: rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the selection mode.
func (s *Selector) Mode() Mode {
	return s.mode
}

// Select returns the clips to store, or nil for an empty listing.
// The input slice is not modified.
func (s *Selector) Select(clips []Clip) []Clip {
	if len(clips) == 0 {
		return nil
	}

	if s.mode == ModeAll {
		out := make([]Clip, len(clips))
		copy(out, clips)
		return out
	}

	return []Clip{clips[s.intN(len(clips))]}
}
