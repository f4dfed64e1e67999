// Package rhythm produces note-duration sequences that fit a beat budget
// exactly or under, never over.
package rhythm

import (
	"fmt"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/rng"
)

const eps = 1e-9

// Entry is one weighted duration value in a rhythm table
type Entry struct {
	Beats  float64 // Duration in beats, > 0
	Weight float64 // Relative draw weight, >= 0
	Rest   bool    // Rests consume budget but emit no note
}

// Table is a weighted set of allowed durations
type Table []Entry

// Validate checks the table invariants
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty rhythm table", core.ErrConfiguration)
	}
	var total float64
	for i, e := range t {
		if e.Beats <= 0 {
			return fmt.Errorf("%w: rhythm entry %d has non-positive duration %g", core.ErrConfiguration, i, e.Beats)
		}
		if e.Weight < 0 {
			return fmt.Errorf("%w: rhythm entry %d has negative weight %g", core.ErrConfiguration, i, e.Weight)
		}
		total += e.Weight
	}
	if total <= 0 {
		return fmt.Errorf("%w: rhythm table has zero total weight", core.ErrConfiguration)
	}
	return nil
}

// DefaultTable is the standard melodic duration mix
func DefaultTable() Table {
	return Table{
		{Beats: 1.0, Weight: 0.4},              // Quarter
		{Beats: 0.5, Weight: 0.3},              // Eighth
		{Beats: 0.75, Weight: 0.1},             // Dotted eighth
		{Beats: 0.5, Weight: 0.2, Rest: true},  // Eighth rest
	}
}

// Slot is one realized duration in a rhythm line
type Slot struct {
	Beats float64
	Rest  bool
}

// Generate draws durations from the table until the target is exhausted.
// When a draw would overshoot, the largest fitting table duration is
// substituted; when nothing fits, the draw is truncated to the exact
// remainder and the sequence terminates. The realized total therefore never
// exceeds the target and lands within quantum of it.
func Generate(s *rng.Stream, table Table, targetBeats, quantum float64) ([]Slot, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if targetBeats <= 0 {
		return nil, fmt.Errorf("%w: non-positive beat budget %g", core.ErrConfiguration, targetBeats)
	}
	if quantum <= 0 {
		return nil, fmt.Errorf("%w: non-positive quantum %g", core.ErrConfiguration, quantum)
	}

	weights := make([]float64, len(table))
	for i, e := range table {
		weights[i] = e.Weight
	}

	var slots []Slot
	remaining := targetBeats

	for remaining > quantum-eps {
		idx := s.Weighted(weights)
		if idx < 0 {
			return nil, fmt.Errorf("%w: rhythm table has zero total weight", core.ErrConfiguration)
		}
		drawn := table[idx]

		if drawn.Beats <= remaining+eps {
			slots = append(slots, Slot{Beats: drawn.Beats, Rest: drawn.Rest})
			remaining -= drawn.Beats
			continue
		}

		// Overshoot: substitute the largest allowed duration that fits
		if sub, ok := largestFitting(table, remaining); ok {
			slots = append(slots, Slot{Beats: sub.Beats, Rest: sub.Rest})
			remaining -= sub.Beats
			continue
		}

		// Nothing fits: truncate the draw to the exact remainder and stop
		slots = append(slots, Slot{Beats: remaining, Rest: drawn.Rest})
		remaining = 0
	}

	return slots, nil
}

func largestFitting(table Table, remaining float64) (Entry, bool) {
	var best Entry
	found := false
	for _, e := range table {
		if e.Beats <= remaining+eps && (!found || e.Beats > best.Beats) {
			best = e
			found = true
		}
	}
	return best, found
}

// Total returns the summed beats of a slot sequence
func Total(slots []Slot) float64 {
	var sum float64
	for _, s := range slots {
		sum += s.Beats
	}
	return sum
}
