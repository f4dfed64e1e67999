package track

import (
	"math"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/rng"
)

// DrumStrategy lays a backbeat pattern on a sixteenth-note step grid and
// sprinkles low-velocity ghost hits over the free steps. Ghost placement
// keeps a minimum step distance between hits, so fills never bunch up.
type DrumStrategy struct {
	FillDensity float64 // Ghost probability per free step
	MinGapSteps int     // Minimum step distance between ghost hits
}

// NewDrumStrategy returns the standard backbeat kit
func NewDrumStrategy() *DrumStrategy {
	return &DrumStrategy{
		FillDensity: parameter.DrumFillDensity,
		MinGapSteps: parameter.DrumFillMinGapSteps,
	}
}

// patternHit is one fixed hit slot in the per-bar template
type patternHit struct {
	step  int
	pitch core.Pitch
	boost int // Velocity offset from the role base
}

// barPattern is the 4/4 backbeat template: four-on-the-floor kick,
// snare on 2 and 4, closed hats on the offbeat eighths
var barPattern = []patternHit{
	{step: 0, pitch: parameter.PercKick, boost: 8},
	{step: 4, pitch: parameter.PercKick},
	{step: 8, pitch: parameter.PercKick},
	{step: 12, pitch: parameter.PercKick},
	{step: 4, pitch: parameter.PercSnare, boost: 4},
	{step: 12, pitch: parameter.PercSnare, boost: 4},
	{step: 2, pitch: parameter.PercClosedHat, boost: -16},
	{step: 6, pitch: parameter.PercClosedHat, boost: -16},
	{step: 10, pitch: parameter.PercClosedHat, boost: -16},
	{step: 14, pitch: parameter.PercOpenHat, boost: -12},
}

func (ds *DrumStrategy) Generate(s *rng.Stream, p Params, rc RoleConfig) ([]core.NoteEvent, error) {
	stepBeats := 1.0 / parameter.StepsPerBeat
	// The grid covers the fractional tail step so the track reaches the
	// full budget; tail hits are truncated at the budget boundary
	totalSteps := int(math.Ceil(p.Budget/stepBeats - 1e-9))
	base := rc.Dynamic.Velocity()

	occupied := make([]bool, totalSteps)
	var events []core.NoteEvent

	emit := func(step int, pitch core.Pitch, vel int) {
		if vel < parameter.VelocityMin {
			vel = parameter.VelocityMin
		} else if vel > parameter.VelocityMax {
			vel = parameter.VelocityMax
		}
		start := float64(step) * stepBeats
		dur := stepBeats
		if start+dur > p.Budget {
			dur = p.Budget - start
		}
		events = append(events, core.NoteEvent{
			Pitch:    pitch,
			Start:    start,
			Duration: dur,
			Velocity: vel,
		})
	}

	for step := 0; step < totalSteps; step++ {
		barStep := step % parameter.StepsPerBar
		for _, h := range barPattern {
			if h.step == barStep {
				emit(step, h.pitch, base+h.boost)
				occupied[step] = true
			}
		}
	}

	// Ghost hits: stochastic hats on free steps, minimum-distance spaced
	lastGhost := -ds.MinGapSteps - 1
	for step := 0; step < totalSteps; step++ {
		if occupied[step] || step-lastGhost <= ds.MinGapSteps {
			continue
		}
		if s.Float64() < ds.FillDensity {
			emit(step, parameter.PercClosedHat, base-32)
			lastGhost = step
		}
	}

	// The trailing grid steps may all be silent; the last hit rings out to
	// the budget so every track spans the same total
	last, span := -1, 0.0
	for i, e := range events {
		if e.End() > span {
			span, last = e.End(), i
		}
	}
	if last >= 0 && span < p.Budget-p.Quantum {
		events[last].Duration = p.Budget - events[last].Start
	}

	return events, nil
}
