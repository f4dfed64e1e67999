package config

import (
	"math"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/harmony"
	"github.com/lixenwraith/procsynth/humanize"
	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/rhythm"
	"github.com/lixenwraith/procsynth/rng"
	"github.com/lixenwraith/procsynth/track"
)

// Build runs the full generation pipeline for a validated config: scale,
// progression, then parallel role assembly. Same config in, same song out.
func Build(cfg Config) (core.Song, error) {
	scale, err := cfg.Scale()
	if err != nil {
		return core.Song{}, err
	}

	budget := cfg.BudgetBeats()
	bars := int(math.Ceil(budget / parameter.BeatsPerBar))

	prog, err := harmony.Generate(
		rng.DeriveFrom(cfg.Seed, "harmony"),
		scale, bars,
		harmony.Options{BarBeats: parameter.BeatsPerBar, Sevenths: cfg.Sevenths},
	)
	if err != nil {
		return core.Song{}, err
	}

	params := track.Params{
		Seed:        cfg.Seed,
		Tempo:       cfg.TempoBPM,
		Budget:      budget,
		Quantum:     parameter.QuantumBeats(cfg.PPQ),
		Scale:       scale,
		Progression: prog,
		Rhythm:      rhythm.DefaultTable(),
		Swing:       cfg.Swing,
	}
	if cfg.Humanize.Enabled {
		params.Humanize = &humanize.Bounds{
			Timing:   cfg.Humanize.TimingBeats,
			Velocity: cfg.Humanize.VelocityDelta,
		}
	}

	return track.Assemble(params, cfg.roleConfigs())
}

// roleConfigs maps the role toggles to configured strategies
func (c Config) roleConfigs() []track.RoleConfig {
	var roles []track.RoleConfig
	for _, rc := range track.DefaultRoles() {
		switch rc.Role {
		case core.RoleMelody:
			if !c.Roles.Melody {
				continue
			}
			if c.Roles.MelodyNoise {
				ms := track.NewMelodyStrategy()
				ms.UseNoise = true
				rc.Strategy = ms
			}
		case core.RoleBass:
			if !c.Roles.Bass {
				continue
			}
		case core.RoleChords:
			if !c.Roles.Chords {
				continue
			}
		case core.RoleDrums:
			if !c.Roles.Drums {
				continue
			}
		}
		roles = append(roles, rc)
	}
	return roles
}
