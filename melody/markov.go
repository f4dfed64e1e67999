package melody

import (
	"fmt"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/rng"
)

// Transition is one weighted successor in a Markov row
type Transition struct {
	Delta  int     // Scale-degree delta to move by
	Weight float64 // Relative probability, >= 0
}

// Markov is a first-order transition table over scale-degree deltas.
// The state is the previous delta; the sampled delta becomes the next state.
type Markov struct {
	Start int
	Rows  map[int][]Transition
}

// DefaultMarkov favors stepwise motion with occasional leaps, the usual
// contour for a singable line
func DefaultMarkov() *Markov {
	step := []Transition{
		{Delta: -2, Weight: 0.10},
		{Delta: -1, Weight: 0.30},
		{Delta: 0, Weight: 0.15},
		{Delta: 1, Weight: 0.30},
		{Delta: 2, Weight: 0.10},
		{Delta: 4, Weight: 0.025},
		{Delta: -4, Weight: 0.025},
	}
	rows := make(map[int][]Transition)
	for _, t := range step {
		// After a leap, resolve by step in the opposite direction
		if t.Delta >= 4 {
			rows[t.Delta] = []Transition{{Delta: -1, Weight: 0.7}, {Delta: -2, Weight: 0.3}}
		} else if t.Delta <= -4 {
			rows[t.Delta] = []Transition{{Delta: 1, Weight: 0.7}, {Delta: 2, Weight: 0.3}}
		} else {
			rows[t.Delta] = step
		}
	}
	return &Markov{Start: 0, Rows: rows}
}

// Validate checks that every state reachable from Start has a non-empty,
// normalizable successor set. A reachable state with no row or zero total
// weight would stall generation, so it is a configuration error.
func (m *Markov) Validate() error {
	if len(m.Rows) == 0 {
		return fmt.Errorf("%w: empty markov table", core.ErrConfiguration)
	}

	seen := map[int]bool{}
	queue := []int{m.Start}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		if seen[state] {
			continue
		}
		seen[state] = true

		row, ok := m.Rows[state]
		if !ok || len(row) == 0 {
			return fmt.Errorf("%w: markov state %d has no successors", core.ErrConfiguration, state)
		}
		var total float64
		for _, t := range row {
			if t.Weight < 0 {
				return fmt.Errorf("%w: markov state %d has negative weight", core.ErrConfiguration, state)
			}
			total += t.Weight
		}
		if total <= 0 {
			return fmt.Errorf("%w: markov state %d has zero total weight", core.ErrConfiguration, state)
		}
		for _, t := range row {
			if t.Weight > 0 && !seen[t.Delta] {
				queue = append(queue, t.Delta)
			}
		}
	}
	return nil
}

// Next samples the successor delta for a state
func (m *Markov) Next(s *rng.Stream, state int) (int, error) {
	row, ok := m.Rows[state]
	if !ok || len(row) == 0 {
		return 0, fmt.Errorf("%w: markov state %d has no successors", core.ErrConfiguration, state)
	}
	weights := make([]float64, len(row))
	for i, t := range row {
		weights[i] = t.Weight
	}
	idx := s.Weighted(weights)
	if idx < 0 {
		return 0, fmt.Errorf("%w: markov state %d has zero total weight", core.ErrConfiguration, state)
	}
	return row[idx].Delta, nil
}
