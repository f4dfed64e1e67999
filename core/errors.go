package core

import "errors"

// Sentinel errors
var (
	// ErrConfiguration marks unusable input: invalid weights, non-positive
	// durations, empty scales, zero PPQ. Fatal, no retry.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrRangeExhausted marks a pitch that cannot be octave-folded into an
	// instrument range. Recovered by clamping; callers log it as a quality
	// warning.
	ErrRangeExhausted = errors.New("instrument range exhausted")

	// ErrBudgetOverrun marks a track exceeding its beat budget. Prevented by
	// construction; observing it is a programming defect and must never be
	// silently truncated at export.
	ErrBudgetOverrun = errors.New("beat budget overrun")
)
