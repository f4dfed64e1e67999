package track

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/humanize"
	"github.com/lixenwraith/procsynth/rng"
	"github.com/lixenwraith/procsynth/theory"
)

// DefaultRoles returns the standard four-part arrangement
func DefaultRoles() []RoleConfig {
	return []RoleConfig{
		{Role: core.RoleMelody, Name: "melody", Strategy: NewMelodyStrategy(), Dynamic: dynamicFor(core.RoleMelody)},
		{Role: core.RoleBass, Name: "bass", Strategy: NewBassStrategy(), Dynamic: dynamicFor(core.RoleBass)},
		{Role: core.RoleChords, Name: "chords", Strategy: NewChordStrategy(), Dynamic: dynamicFor(core.RoleChords)},
		{Role: core.RoleDrums, Name: "drums", Strategy: NewDrumStrategy(), Dynamic: dynamicFor(core.RoleDrums)},
	}
}

// Assemble runs every role strategy concurrently against its own derived
// stream and joins the results into a song. Stream derivation is keyed by
// role name, not goroutine scheduling, so the output is byte-identical for
// a given seed regardless of execution order.
func Assemble(p Params, roles []RoleConfig) (core.Song, error) {
	if err := p.validate(); err != nil {
		return core.Song{}, err
	}
	if len(roles) == 0 {
		return core.Song{}, fmt.Errorf("%w: no roles configured", core.ErrConfiguration)
	}

	tracks := make([]core.Track, len(roles))
	errs := make([]error, len(roles))

	var wg sync.WaitGroup
	for i, rc := range roles {
		if rc.Strategy == nil {
			return core.Song{}, fmt.Errorf("%w: role %s has no strategy", core.ErrConfiguration, rc.Role)
		}
		wg.Add(1)
		go func(i int, rc RoleConfig) {
			defer wg.Done()
			tracks[i], errs[i] = generateRole(p, rc)
		}(i, rc)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return core.Song{}, fmt.Errorf("role %s: %w", roles[i].Role, err)
		}
	}

	song := core.Song{Tempo: p.Tempo, Budget: p.Budget, Tracks: tracks}
	if err := checkBudget(song, p.Quantum); err != nil {
		return core.Song{}, err
	}
	return song, nil
}

func generateRole(p Params, rc RoleConfig) (core.Track, error) {
	s := rng.DeriveFrom(p.Seed, "track/"+rc.Role.String())

	events, err := rc.Strategy.Generate(s, p, rc)
	if err != nil {
		return core.Track{}, err
	}

	tr := core.Track{Role: rc.Role, Name: rc.Name, Events: events}
	tr.SortEvents()

	if p.Humanize != nil {
		hs := rng.DeriveFrom(p.Seed, "humanize/"+rc.Role.String())
		tr = humanize.Apply(hs, tr, *p.Humanize)
		fitToBudget(&tr, p.Budget, p.Quantum)
	}

	slog.Debug("generated role",
		"role", rc.Role.String(),
		"events", len(tr.Events),
		"span", tr.Span())
	return tr, nil
}

// fitToBudget pulls jittered events back so nothing sounds past the beat
// budget, restretches the final event when jitter left the track short of
// it, then restores start ordering
func fitToBudget(tr *core.Track, budget, quantum float64) {
	for i := range tr.Events {
		e := &tr.Events[i]
		if e.End() > budget {
			e.Start = budget - e.Duration
			if e.Start < 0 {
				e.Start = 0
				e.Duration = budget
			}
		}
	}
	last, span := -1, 0.0
	for i, e := range tr.Events {
		if e.End() > span {
			span, last = e.End(), i
		}
	}
	if last >= 0 && span < budget-quantum {
		tr.Events[last].Duration = budget - tr.Events[last].Start
	}
	tr.SortEvents()
}

// checkBudget verifies every track spans the budget within one quantum,
// neither over nor under. Strategies own the budget, so a violation here is
// a generation defect, not bad input.
func checkBudget(song core.Song, quantum float64) error {
	for _, tr := range song.Tracks {
		span := tr.Span()
		if span > song.Budget+quantum {
			return fmt.Errorf("%w: track %s spans %g beats over budget %g",
				core.ErrBudgetOverrun, tr.Role, span, song.Budget)
		}
		if span < song.Budget-quantum {
			return fmt.Errorf("%w: track %s spans %g beats, short of budget %g",
				core.ErrBudgetOverrun, tr.Role, span, song.Budget)
		}
		if !tr.Sorted() {
			return fmt.Errorf("%w: track %s events out of order", core.ErrBudgetOverrun, tr.Role)
		}
	}
	return nil
}

func dynamicFor(r core.Role) theory.Dynamic {
	switch r {
	case core.RoleMelody:
		return theory.MezzoForte
	case core.RoleBass:
		return theory.MezzoPiano
	case core.RoleChords:
		return theory.Piano
	default:
		return theory.MezzoForte
	}
}
