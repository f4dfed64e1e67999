package render

import (
	"math"

	"github.com/lixenwraith/procsynth/core"
)

// timbre synthesizes one pitched note into a mono buffer. Implementations
// are stateless; all per-note state lives in the local synth loop.
type timbre interface {
	synth(freq float64, frames int, rate int) []float64
}

// adsr is a simple attack/decay/sustain/release envelope in seconds
type adsr struct {
	attack  float64
	decay   float64
	sustain float64 // Level 0-1
	release float64
}

// level returns the envelope value at frame i of a note lasting total frames.
// The release phase is carved out of the note tail, so notes always end at
// zero and never click.
func (e adsr) level(i, total, rate int) float64 {
	att := int(e.attack * float64(rate))
	dec := int(e.decay * float64(rate))
	rel := int(e.release * float64(rate))
	if rel > total {
		rel = total
	}
	relStart := total - rel

	var v float64
	switch {
	case i < att:
		v = float64(i) / float64(att)
	case i < att+dec:
		t := float64(i-att) / float64(dec)
		v = 1.0 - t*(1.0-e.sustain)
	default:
		v = e.sustain
	}

	if i >= relStart && rel > 0 {
		fade := 1.0 - float64(i-relStart)/float64(rel)
		if fade < 0 {
			fade = 0
		}
		v *= fade
	}
	return v
}

// bassTimbre is a saw through a one-pole low-pass whose cutoff tracks the
// envelope, closing as the note decays
type bassTimbre struct{ env adsr }

func (b bassTimbre) synth(freq float64, frames, rate int) []float64 {
	buf := make([]float64, frames)
	phase := 0.0
	filterState := 0.0

	for i := range buf {
		env := b.env.level(i, frames, rate)
		saw := 2.0*phase - 1.0
		cutoff := 0.1 + 0.2*env
		filterState += cutoff * (saw - filterState)
		buf[i] = filterState * env

		phase += freq / float64(rate)
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// leadTimbre is two-operator FM with the modulation index riding the
// envelope, bright on the attack and mellowing into the tail
type leadTimbre struct{ env adsr }

func (l leadTimbre) synth(freq float64, frames, rate int) []float64 {
	buf := make([]float64, frames)
	phase := 0.0
	modPhase := 0.0
	const modRatio = 2.0

	for i := range buf {
		env := l.env.level(i, frames, rate)
		modIndex := 3.0 * env

		mod := math.Sin(2 * math.Pi * modPhase)
		buf[i] = math.Sin(2*math.Pi*phase+modIndex*mod) * env

		phase += freq / float64(rate)
		if phase >= 1.0 {
			phase -= 1.0
		}
		modPhase += freq * modRatio / float64(rate)
		if modPhase >= 1.0 {
			modPhase -= 1.0
		}
	}
	return buf
}

// padTimbre stacks three slightly detuned sines for a wide sustained sound
type padTimbre struct{ env adsr }

func (p padTimbre) synth(freq float64, frames, rate int) []float64 {
	buf := make([]float64, frames)
	const detune = 0.003
	var p1, p2, p3 float64

	advance := func(ph *float64, f float64) {
		*ph += f / float64(rate)
		if *ph >= 1.0 {
			*ph -= 1.0
		}
	}

	for i := range buf {
		env := p.env.level(i, frames, rate)
		s := math.Sin(2*math.Pi*p1) + math.Sin(2*math.Pi*p2) + math.Sin(2*math.Pi*p3)
		buf[i] = s / 3.0 * env

		advance(&p1, freq)
		advance(&p2, freq*(1.0+detune))
		advance(&p3, freq*(1.0-detune))
	}
	return buf
}

// timbreFor maps a role to its instrument sound
func timbreFor(r core.Role) timbre {
	switch r {
	case core.RoleBass:
		return bassTimbre{env: adsr{attack: 0.005, decay: 0.15, sustain: 0.6, release: 0.08}}
	case core.RoleChords:
		return padTimbre{env: adsr{attack: 0.08, decay: 0.2, sustain: 0.7, release: 0.15}}
	default:
		return leadTimbre{env: adsr{attack: 0.01, decay: 0.1, sustain: 0.5, release: 0.1}}
	}
}
