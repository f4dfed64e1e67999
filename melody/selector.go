// Package melody turns rhythm slots into pitch sequences constrained to a
// scale and, on strong positions, to the active chord.
package melody

import (
	"fmt"
	"math"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/rhythm"
	"github.com/lixenwraith/procsynth/rng"
	"github.com/lixenwraith/procsynth/theory"
)

// Selector yields the next scale-degree delta for a line.
// Implementations are picked at configuration time, one concrete strategy
// per generation mode.
type Selector interface {
	NextDelta() (int, error)
}

// MarkovSelector walks degrees by sampling a transition table
type MarkovSelector struct {
	stream *rng.Stream
	model  *Markov
	state  int
}

// NewMarkovSelector validates the model and binds it to a stream
func NewMarkovSelector(s *rng.Stream, model *Markov) (*MarkovSelector, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil markov model", core.ErrConfiguration)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return &MarkovSelector{stream: s, model: model, state: model.Start}, nil
}

func (m *MarkovSelector) NextDelta() (int, error) {
	delta, err := m.model.Next(m.stream, m.state)
	if err != nil {
		return 0, err
	}
	m.state = delta
	return delta, nil
}

// NoiseSelector derives degree deltas from a smooth noise field sampled at
// increasing positions. Deltas are bounded by MaxStep, which keeps the
// contour free of leaps.
type NoiseSelector struct {
	noise   *Noise
	pos     float64
	advance float64
	maxStep int
	prev    float64
}

// NewNoiseSelector builds a noise-walk selector
func NewNoiseSelector(s *rng.Stream, advance float64, maxStep int) (*NoiseSelector, error) {
	if advance <= 0 {
		return nil, fmt.Errorf("%w: non-positive noise advance %g", core.ErrConfiguration, advance)
	}
	if maxStep < 1 {
		return nil, fmt.Errorf("%w: noise max step %d below 1", core.ErrConfiguration, maxStep)
	}
	n := NewNoise(s)
	return &NoiseSelector{noise: n, advance: advance, maxStep: maxStep, prev: n.At(0)}, nil
}

func (n *NoiseSelector) NextDelta() (int, error) {
	n.pos += n.advance
	cur := n.noise.At(n.pos)
	delta := int(math.Round((cur - n.prev) * float64(n.maxStep)))
	n.prev = cur

	if delta > n.maxStep {
		delta = n.maxStep
	} else if delta < -n.maxStep {
		delta = -n.maxStep
	}
	return delta, nil
}

// Constraint binds a line to a scale, an optional chord timeline, and an
// instrument range
type Constraint struct {
	Scale      theory.Scale
	ChordAt    func(beat float64) (theory.Chord, bool) // nil means scale-only
	RangeLow   core.Pitch
	RangeHigh  core.Pitch
	BaseOctave int
}

func (c Constraint) validate() error {
	if err := c.Scale.Validate(); err != nil {
		return err
	}
	if c.RangeLow > c.RangeHigh {
		return fmt.Errorf("%w: pitch range [%d, %d] inverted", core.ErrConfiguration, c.RangeLow, c.RangeHigh)
	}
	if !c.RangeLow.Valid() || !c.RangeHigh.Valid() {
		return fmt.Errorf("%w: pitch range [%d, %d] outside MIDI range", core.ErrConfiguration, c.RangeLow, c.RangeHigh)
	}
	return nil
}

// Result carries the generated pitches, one per slot (rest slots repeat the
// previous pitch and emit nothing downstream), plus the count of range
// clamps applied so callers can log quality warnings.
type Result struct {
	Pitches []core.Pitch
	Clamped int
}

// GeneratePitches walks the selector over the slots. On strong positions
// (slots starting on an integer beat) with an active chord, the degree snaps
// to the nearest chord tone; weak positions move freely within the scale.
func GeneratePitches(sel Selector, c Constraint, slots []rhythm.Slot) (Result, error) {
	if err := c.validate(); err != nil {
		return Result{}, err
	}

	res := Result{Pitches: make([]core.Pitch, len(slots))}
	degree := 0
	pos := 0.0

	for i, slot := range slots {
		if slot.Rest {
			res.Pitches[i] = foldResult(c, degree, &res.Clamped)
			pos += slot.Beats
			continue
		}

		delta, err := sel.NextDelta()
		if err != nil {
			return Result{}, err
		}
		degree += delta

		if c.ChordAt != nil {
			if chord, ok := c.ChordAt(pos); ok && strongPosition(pos) {
				degree = snapToChordTone(c.Scale, chord, degree)
			}
		}

		res.Pitches[i] = foldResult(c, degree, &res.Clamped)
		pos += slot.Beats
	}
	return res, nil
}

const strongEps = 1e-6

// strongPosition reports whether a beat offset lands on an integer beat
func strongPosition(beat float64) bool {
	return math.Abs(beat-math.Round(beat)) < strongEps
}

// snapToChordTone moves a degree to the nearest degree whose pitch class is
// a chord tone, searching outward from the proposal
func snapToChordTone(scale theory.Scale, chord theory.Chord, degree int) int {
	if chord.Contains(scale.ClassAt(degree)) {
		return degree
	}
	for d := 1; d <= scale.Len(); d++ {
		if chord.Contains(scale.ClassAt(degree - d)) {
			return degree - d
		}
		if chord.Contains(scale.ClassAt(degree + d)) {
			return degree + d
		}
	}
	return degree
}

// foldResult maps a degree to an absolute pitch inside the range. Octave
// folding is tried first; when the range holds no octave of the degree's
// class, the pitch clamps to the nearest boundary (range exhaustion,
// recovered locally).
func foldResult(c Constraint, degree int, clamped *int) core.Pitch {
	pitch := c.Scale.PitchAt(degree, c.BaseOctave)
	folded, ok := FoldIntoRange(pitch, c.RangeLow, c.RangeHigh)
	if !ok {
		*clamped++
	}
	return folded
}

// FoldIntoRange transposes a pitch by whole octaves into [low, high].
// The second return is false when no octave fits and the result was clamped
// to the nearest boundary.
func FoldIntoRange(p, low, high core.Pitch) (core.Pitch, bool) {
	for p < low {
		p += 12
	}
	for p > high {
		p -= 12
	}
	if p >= low && p <= high {
		return p, true
	}

	// Range narrower than an octave and the class does not fit: clamp
	if p < low {
		return low, false
	}
	return high, false
}
