// Package track generates per-role event streams and assembles them into a
// song. Each role runs its own strategy against a stream derived from the
// top-level seed, so roles generate in parallel without sharing state.
package track

import (
	"fmt"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/harmony"
	"github.com/lixenwraith/procsynth/humanize"
	"github.com/lixenwraith/procsynth/rhythm"
	"github.com/lixenwraith/procsynth/rng"
	"github.com/lixenwraith/procsynth/theory"
)

// Params is the shared generation context handed to every strategy
type Params struct {
	Seed        int64
	Tempo       float64 // BPM
	Budget      float64 // Beats
	Quantum     float64 // Beats, minimal duration unit
	Scale       theory.Scale
	Progression harmony.Progression
	Rhythm      rhythm.Table
	Swing       float64          // Swing amount in [0, 1], 0 disables
	Humanize    *humanize.Bounds // Nil disables
}

func (p Params) validate() error {
	if p.Budget <= 0 {
		return fmt.Errorf("%w: non-positive beat budget %g", core.ErrConfiguration, p.Budget)
	}
	if p.Quantum <= 0 {
		return fmt.Errorf("%w: non-positive quantum %g", core.ErrConfiguration, p.Quantum)
	}
	if err := p.Scale.Validate(); err != nil {
		return err
	}
	if err := p.Rhythm.Validate(); err != nil {
		return err
	}
	return nil
}

// Strategy turns the shared context into one role's events. Implementations
// must stay within the beat budget; the assembler treats an overrun as a
// generation defect.
type Strategy interface {
	Generate(s *rng.Stream, p Params, rc RoleConfig) ([]core.NoteEvent, error)
}

// RoleConfig binds a role to its strategy and loudness
type RoleConfig struct {
	Role     core.Role
	Name     string
	Strategy Strategy
	Dynamic  theory.Dynamic
}

// chordAt adapts the progression to the melody constraint callback
func (p Params) chordAt() func(beat float64) (theory.Chord, bool) {
	if len(p.Progression) == 0 {
		return nil
	}
	return p.Progression.ChordAt
}
