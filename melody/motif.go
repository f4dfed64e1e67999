package melody

import (
	"fmt"

	"github.com/lixenwraith/procsynth/core"
)

// MotifStep is one template slot: a scale-degree offset from the binding
// anchor and a duration, or a rest of that duration
type MotifStep struct {
	Degree int     // Offset from the anchor degree
	Beats  float64 // Beats, > 0
	Rest   bool
}

// Motif is a reusable phrase template: ordered (degree offset, duration)
// pairs bound to neither a scale position nor a start time. Templates are
// built once per run and never mutated; Bind yields fresh pitches per call.
type Motif struct {
	Steps []MotifStep
}

// DefaultMotif returns a one-bar arch phrase: rise to the third, fall back
// through the second, rest on the last eighth
func DefaultMotif() Motif {
	return Motif{Steps: []MotifStep{
		{Degree: 0, Beats: 1.0},
		{Degree: 2, Beats: 0.5},
		{Degree: 4, Beats: 0.5},
		{Degree: 2, Beats: 1.0},
		{Degree: 1, Beats: 0.5},
		{Degree: 0, Beats: 0.5, Rest: true},
	}}
}

// Validate rejects empty templates and non-positive step durations
func (m Motif) Validate() error {
	if len(m.Steps) == 0 {
		return fmt.Errorf("%w: empty motif", core.ErrConfiguration)
	}
	for i, st := range m.Steps {
		if st.Beats <= 0 {
			return fmt.Errorf("%w: motif step %d has non-positive duration %g",
				core.ErrConfiguration, i, st.Beats)
		}
	}
	return nil
}

// Beats returns the motif's total duration
func (m Motif) Beats() float64 {
	var total float64
	for _, st := range m.Steps {
		total += st.Beats
	}
	return total
}

// Bind anchors the motif at a scale degree and a start position and maps
// every step to an absolute pitch under the constraint. Strong positions
// snap to chord tones the same way GeneratePitches does; rest steps still
// carry a pitch so callers can index step-for-step.
func (m Motif) Bind(c Constraint, anchor int, start float64) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	if err := c.validate(); err != nil {
		return Result{}, err
	}

	res := Result{Pitches: make([]core.Pitch, len(m.Steps))}
	pos := start

	for i, st := range m.Steps {
		degree := anchor + st.Degree
		if !st.Rest && c.ChordAt != nil {
			if chord, ok := c.ChordAt(pos); ok && strongPosition(pos) {
				degree = snapToChordTone(c.Scale, chord, degree)
			}
		}
		res.Pitches[i] = foldResult(c, degree, &res.Clamped)
		pos += st.Beats
	}
	return res, nil
}
