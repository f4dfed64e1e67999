package track

import (
	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/harmony"
	"github.com/lixenwraith/procsynth/melody"
	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/rng"
)

// ChordStrategy realizes the progression as block chords, one voicing per
// harmonic span, with voice-leading smoothing between successive spans
type ChordStrategy struct {
	RangeLow   core.Pitch
	RangeHigh  core.Pitch
	BaseOctave int
}

// NewChordStrategy returns the standard pad setup
func NewChordStrategy() *ChordStrategy {
	return &ChordStrategy{
		RangeLow:   parameter.ChordRangeLow,
		RangeHigh:  parameter.ChordRangeHigh,
		BaseOctave: 4,
	}
}

func (cs *ChordStrategy) Generate(s *rng.Stream, p Params, rc RoleConfig) ([]core.NoteEvent, error) {
	voicings := harmony.Voice(p.Progression, cs.BaseOctave)
	base := rc.Dynamic.Velocity()

	var events []core.NoteEvent
	for i, span := range p.Progression {
		if span.Start >= p.Budget {
			break
		}
		dur := span.Beats
		if span.Start+dur > p.Budget {
			dur = p.Budget - span.Start
		}
		for _, pitch := range voicings[i] {
			folded, _ := melody.FoldIntoRange(pitch, cs.RangeLow, cs.RangeHigh)
			events = append(events, core.NoteEvent{
				Pitch:    folded,
				Start:    span.Start,
				Duration: dur,
				Velocity: base,
			})
		}
	}
	return events, nil
}
