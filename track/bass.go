package track

import (
	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/melody"
	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/rng"
)

// BassStrategy outlines the progression with root and fifth on the beat
// grid. Beats 1 and 3 take the chord root, beats 2 and 4 alternate between
// root and fifth, all folded into the bass range.
type BassStrategy struct {
	RangeLow   core.Pitch
	RangeHigh  core.Pitch
	BaseOctave int
	FifthOdds  float64 // Probability of a fifth on weak beats
}

// NewBassStrategy returns the standard root-fifth walking setup
func NewBassStrategy() *BassStrategy {
	return &BassStrategy{
		RangeLow:   parameter.BassRangeLow,
		RangeHigh:  parameter.BassRangeHigh,
		BaseOctave: 2,
		FifthOdds:  0.5,
	}
}

func (bs *BassStrategy) Generate(s *rng.Stream, p Params, rc RoleConfig) ([]core.NoteEvent, error) {
	base := rc.Dynamic.Velocity()
	var events []core.NoteEvent

	beat := 0.0
	for ; beat+1.0 <= p.Budget+1e-9; beat++ {
		chord, ok := p.Progression.ChordAt(beat)
		if !ok {
			break
		}

		classes := chord.Classes()
		class := classes[0]
		strong := downbeat(beat) || downbeat(beat-2)
		if !strong && len(classes) >= 3 && s.Float64() < bs.FifthOdds {
			class = classes[2] // Chord fifth
		}

		pitch := core.Pitch(parameter.MIDINote(class, bs.BaseOctave))
		folded, _ := melody.FoldIntoRange(pitch, bs.RangeLow, bs.RangeHigh)

		vel := base
		if downbeat(beat) {
			vel += 6
		}
		if vel > parameter.VelocityMax {
			vel = parameter.VelocityMax
		}

		events = append(events, core.NoteEvent{
			Pitch:    folded,
			Start:    beat,
			Duration: 1.0,
			Velocity: vel,
		})
	}

	// Fractional budgets leave a tail shorter than a beat; a shortened root
	// note fills it so the bass spans the same total as the other tracks
	if rem := p.Budget - beat; rem > p.Quantum {
		if chord, ok := p.Progression.ChordAt(beat); ok {
			pitch := core.Pitch(parameter.MIDINote(chord.Classes()[0], bs.BaseOctave))
			folded, _ := melody.FoldIntoRange(pitch, bs.RangeLow, bs.RangeHigh)
			events = append(events, core.NoteEvent{
				Pitch:    folded,
				Start:    beat,
				Duration: rem,
				Velocity: base,
			})
		}
	}
	return events, nil
}
