package track

import (
	"log/slog"
	"math"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/melody"
	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/rhythm"
	"github.com/lixenwraith/procsynth/rng"
)

// MelodyStrategy generates the lead line: rhythm slots from the shared
// table, pitches from a degree selector folded into the melody range,
// chord-tone snapping on strong positions. Setting Motif switches to
// phrase repetition: the template repeats across the budget while the
// selector walks its anchor degree between repetitions.
type MelodyStrategy struct {
	Model        *melody.Markov // Nil selects the default transition table
	UseNoise     bool           // Noise-walk contour instead of the Markov chain
	NoiseAdvance float64
	NoiseMaxStep int
	Motif        *melody.Motif // Nil disables phrase repetition
	RangeLow     core.Pitch
	RangeHigh    core.Pitch
	BaseOctave   int
	Accent       int // Velocity boost on bar downbeats
}

// NewMelodyStrategy returns the standard Markov-driven melody setup
func NewMelodyStrategy() *MelodyStrategy {
	return &MelodyStrategy{
		RangeLow:   parameter.MelodyRangeLow,
		RangeHigh:  parameter.MelodyRangeHigh,
		BaseOctave: 5,
		Accent:     10,
	}
}

func (ms *MelodyStrategy) Generate(s *rng.Stream, p Params, rc RoleConfig) ([]core.NoteEvent, error) {
	if ms.Motif != nil {
		return ms.generateFromMotif(s, p, rc)
	}

	slots, err := rhythm.Generate(s.Derive("rhythm"), p.Rhythm, p.Budget, p.Quantum)
	if err != nil {
		return nil, err
	}
	if p.Swing > 0 {
		slots = rhythm.ApplySwing(s.Derive("swing"), slots, p.Swing)
	}

	sel, err := ms.selector(s.Derive("pitch"))
	if err != nil {
		return nil, err
	}

	res, err := melody.GeneratePitches(sel, melody.Constraint{
		Scale:      p.Scale,
		ChordAt:    p.chordAt(),
		RangeLow:   ms.RangeLow,
		RangeHigh:  ms.RangeHigh,
		BaseOctave: ms.BaseOctave,
	}, slots)
	if err != nil {
		return nil, err
	}
	if res.Clamped > 0 {
		slog.Warn("melody pitches clamped to range boundary",
			"reason", core.ErrRangeExhausted.Error(),
			"count", res.Clamped)
	}

	base := rc.Dynamic.Velocity()
	events := make([]core.NoteEvent, 0, len(slots))
	pos := 0.0

	for i, slot := range slots {
		if slot.Rest {
			pos += slot.Beats
			continue
		}
		vel := base
		if downbeat(pos) {
			vel += ms.Accent
		}
		if vel > parameter.VelocityMax {
			vel = parameter.VelocityMax
		}
		events = append(events, core.NoteEvent{
			Pitch:    res.Pitches[i],
			Start:    pos,
			Duration: slot.Beats,
			Velocity: vel,
		})
		pos += slot.Beats
	}
	stretchTail(events, p.Budget, p.Quantum)
	return events, nil
}

// generateFromMotif repeats the bound phrase template across the budget.
// Each repetition anchors the motif at the current degree, then the
// selector walks the anchor before the next phrase. The final repetition
// truncates at the budget.
func (ms *MelodyStrategy) generateFromMotif(s *rng.Stream, p Params, rc RoleConfig) ([]core.NoteEvent, error) {
	sel, err := ms.selector(s.Derive("pitch"))
	if err != nil {
		return nil, err
	}
	cons := melody.Constraint{
		Scale:      p.Scale,
		ChordAt:    p.chordAt(),
		RangeLow:   ms.RangeLow,
		RangeHigh:  ms.RangeHigh,
		BaseOctave: ms.BaseOctave,
	}

	base := rc.Dynamic.Velocity()
	var events []core.NoteEvent
	anchor, clamped := 0, 0

	for pos := 0.0; pos < p.Budget-p.Quantum; {
		res, err := ms.Motif.Bind(cons, anchor, pos)
		if err != nil {
			return nil, err
		}
		clamped += res.Clamped

		for i, st := range ms.Motif.Steps {
			if pos >= p.Budget-1e-9 {
				break
			}
			dur := st.Beats
			if pos+dur > p.Budget {
				dur = p.Budget - pos
			}
			if !st.Rest {
				vel := base
				if downbeat(pos) {
					vel += ms.Accent
				}
				if vel > parameter.VelocityMax {
					vel = parameter.VelocityMax
				}
				events = append(events, core.NoteEvent{
					Pitch:    res.Pitches[i],
					Start:    pos,
					Duration: dur,
					Velocity: vel,
				})
			}
			pos += st.Beats
		}

		delta, err := sel.NextDelta()
		if err != nil {
			return nil, err
		}
		anchor += delta
	}

	if clamped > 0 {
		slog.Warn("melody pitches clamped to range boundary",
			"reason", core.ErrRangeExhausted.Error(),
			"count", clamped)
	}
	stretchTail(events, p.Budget, p.Quantum)
	return events, nil
}

// stretchTail lets the final note ring out to the budget when trailing
// rests would leave the track shorter than the other roles
func stretchTail(events []core.NoteEvent, budget, quantum float64) {
	if n := len(events); n > 0 {
		if last := &events[n-1]; last.End() < budget-quantum {
			last.Duration = budget - last.Start
		}
	}
}

func (ms *MelodyStrategy) selector(s *rng.Stream) (melody.Selector, error) {
	if ms.UseNoise {
		advance := ms.NoiseAdvance
		if advance <= 0 {
			advance = 0.35
		}
		maxStep := ms.NoiseMaxStep
		if maxStep < 1 {
			maxStep = 3
		}
		return melody.NewNoiseSelector(s, advance, maxStep)
	}
	model := ms.Model
	if model == nil {
		model = melody.DefaultMarkov()
	}
	return melody.NewMarkovSelector(s, model)
}

// downbeat reports whether a beat position starts a bar
func downbeat(beat float64) bool {
	bar := beat / parameter.BeatsPerBar
	return math.Abs(bar-math.Round(bar)) < 1e-6
}
