// Package config is the input boundary: a JSON configuration file with
// environment overrides, validated before any generation runs, plus the
// bridge that turns a validated configuration into an assembled song.
package config

import (
	"fmt"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/theory"
)

// Key names the tonal center
type Key struct {
	Root string `json:"root"` // Pitch class name, e.g. "C", "F#", "Bb"
	Mode string `json:"mode"` // Mode name, e.g. "major", "dorian"
}

// Humanize tunes the jitter pass
type Humanize struct {
	Enabled       bool    `json:"enabled"`
	TimingBeats   float64 `json:"timing_beats"`
	VelocityDelta int     `json:"velocity_delta"`
}

// Roles toggles the instrument parts
type Roles struct {
	Melody      bool `json:"melody"`
	Bass        bool `json:"bass"`
	Chords      bool `json:"chords"`
	Drums       bool `json:"drums"`
	MelodyNoise bool `json:"melody_noise"` // Noise-walk contour instead of Markov
}

// Output selects export targets
type Output struct {
	Directory string `json:"directory"`
	Name      string `json:"name"` // Base filename; empty generates one
	MIDI      bool   `json:"midi"`
	WAV       bool   `json:"wav"`
}

// Config is the full generation input
type Config struct {
	Seed            int64    `json:"seed"`
	TempoBPM        float64  `json:"tempo_bpm"`
	DurationSeconds float64  `json:"target_duration_seconds"`
	Key             Key      `json:"key"`
	PPQ             int      `json:"ppq"`
	Swing           float64  `json:"swing"`
	Sevenths        bool     `json:"sevenths"`
	Humanize        Humanize `json:"humanize"`
	Roles           Roles    `json:"roles"`
	Output          Output   `json:"output"`
}

// Default returns the standard configuration: 30 seconds of C major at
// 120 BPM with all four roles
func Default() Config {
	return Config{
		Seed:            42,
		TempoBPM:        parameter.DefaultBPM,
		DurationSeconds: 30,
		Key:             Key{Root: "C", Mode: "major"},
		PPQ:             parameter.DefaultPPQ,
		Swing:           0,
		Humanize: Humanize{
			Enabled:       true,
			TimingBeats:   parameter.HumanizeTimingBeats,
			VelocityDelta: parameter.HumanizeVelocityDelta,
		},
		Roles:  Roles{Melody: true, Bass: true, Chords: true, Drums: true},
		Output: Output{Directory: ".", MIDI: true},
	}
}

// Validate checks every field against its bounds. All failures wrap the
// configuration sentinel, so callers can tell bad input from defects.
func (c Config) Validate() error {
	if c.TempoBPM < parameter.MinBPM || c.TempoBPM > parameter.MaxBPM {
		return fmt.Errorf("%w: tempo %g outside [%g, %g]",
			core.ErrConfiguration, c.TempoBPM, parameter.MinBPM, parameter.MaxBPM)
	}
	if c.DurationSeconds <= 0 {
		return fmt.Errorf("%w: non-positive duration %g", core.ErrConfiguration, c.DurationSeconds)
	}
	if c.PPQ <= 0 {
		return fmt.Errorf("%w: non-positive PPQ %d", core.ErrConfiguration, c.PPQ)
	}
	if c.Swing < 0 || c.Swing > 1 {
		return fmt.Errorf("%w: swing %g outside [0, 1]", core.ErrConfiguration, c.Swing)
	}
	if c.Humanize.TimingBeats < 0 {
		return fmt.Errorf("%w: negative humanize timing %g", core.ErrConfiguration, c.Humanize.TimingBeats)
	}
	if c.Humanize.VelocityDelta < 0 {
		return fmt.Errorf("%w: negative humanize velocity delta %d", core.ErrConfiguration, c.Humanize.VelocityDelta)
	}
	if !c.Roles.Melody && !c.Roles.Bass && !c.Roles.Chords && !c.Roles.Drums {
		return fmt.Errorf("%w: no roles enabled", core.ErrConfiguration)
	}
	if !c.Output.MIDI && !c.Output.WAV {
		return fmt.Errorf("%w: no output format enabled", core.ErrConfiguration)
	}
	if _, err := c.Scale(); err != nil {
		return err
	}
	return nil
}

// Scale resolves the key to a validated scale
func (c Config) Scale() (theory.Scale, error) {
	root, err := theory.ParsePitchClass(c.Key.Root)
	if err != nil {
		return theory.Scale{}, err
	}
	mode, err := theory.ParseMode(c.Key.Mode)
	if err != nil {
		return theory.Scale{}, err
	}
	s := theory.Scale{Tonic: root, Mode: mode}
	return s, s.Validate()
}

// BudgetBeats returns the beat budget implied by duration and tempo
func (c Config) BudgetBeats() float64 {
	return parameter.BeatBudget(c.DurationSeconds, c.TempoBPM)
}
