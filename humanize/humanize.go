// Package humanize perturbs event timing and velocity within bounds to
// break mechanical regularity. Events are value types, so a new track is
// produced; the input track is never mutated.
package humanize

import (
	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/rng"
)

// Bounds limits the perturbation applied per event
type Bounds struct {
	Timing   float64 // Max absolute start offset in beats
	Velocity int     // Max absolute velocity delta
}

// DefaultBounds returns the standard light touch
func DefaultBounds() Bounds {
	return Bounds{
		Timing:   parameter.HumanizeTimingBeats,
		Velocity: parameter.HumanizeVelocityDelta,
	}
}

// gapShare bounds jitter strictly inside half the neighbor gap. Two
// adjacent events clamped toward each other close at most 2×gapShare of the
// gap, so originally-distinct starts stay strictly ordered.
const gapShare = 0.499

// Apply returns a new track with every event's start offset by a bounded
// random amount and velocity shifted by a bounded delta. Starts stay
// non-negative, and jitter is clamped to just under half the gap to the
// nearest neighboring distinct start so originally-distinct starts never
// reorder or collide.
func Apply(s *rng.Stream, t core.Track, b Bounds) core.Track {
	out := core.Track{Role: t.Role, Name: t.Name, Events: make([]core.NoteEvent, len(t.Events))}
	copy(out.Events, t.Events)

	if b.Timing <= 0 && b.Velocity <= 0 {
		return out
	}

	for i := range out.Events {
		e := &out.Events[i]

		if b.Timing > 0 {
			back, fwd := neighborGaps(t.Events, i)
			offset := s.Range(-b.Timing, b.Timing)
			if offset < -back*gapShare {
				offset = -back * gapShare
			}
			if offset > fwd*gapShare {
				offset = fwd * gapShare
			}
			e.Start += offset
			if e.Start < 0 {
				e.Start = 0
			}
		}

		if b.Velocity > 0 {
			delta := s.Intn(2*b.Velocity+1) - b.Velocity
			v := e.Velocity + delta
			if v < parameter.VelocityMin {
				v = parameter.VelocityMin
			} else if v > parameter.VelocityMax {
				v = parameter.VelocityMax
			}
			e.Velocity = v
		}
	}
	return out
}

// neighborGaps returns the gaps to the nearest events with distinct
// original starts on either side. Boundary events get an unbounded outward
// gap, limited only by the non-negative start constraint.
func neighborGaps(events []core.NoteEvent, i int) (back, fwd float64) {
	start := events[i].Start
	back, fwd = 1e9, 1e9

	for j := i - 1; j >= 0; j-- {
		if events[j].Start < start {
			back = start - events[j].Start
			break
		}
	}
	for j := i + 1; j < len(events); j++ {
		if events[j].Start > start {
			fwd = events[j].Start - start
			break
		}
	}
	return back, fwd
}
