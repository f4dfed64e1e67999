package harmony

import (
	"github.com/lixenwraith/procsynth/core"
)

// Voice realizes each progression chord as concrete pitches, re-voicing
// successive chords so every tone stays close to the previous voicing.
// This is a transform on voicing only; the harmonic function sequence is
// untouched.
func Voice(prog Progression, octave int) [][]core.Pitch {
	voicings := make([][]core.Pitch, 0, len(prog))
	var prev []core.Pitch

	for _, span := range prog {
		base := span.Chord.Pitches(octave)
		if prev == nil {
			voicings = append(voicings, base)
			prev = base
			continue
		}
		v := nearestVoicing(prev, base)
		voicings = append(voicings, v)
		prev = v
	}
	return voicings
}

// nearestVoicing shifts each chord tone by whole octaves to minimize its
// distance to the closest tone of the previous voicing
func nearestVoicing(prev []core.Pitch, next []core.Pitch) []core.Pitch {
	out := make([]core.Pitch, len(next))
	for i, p := range next {
		best := p
		bestDist := distToNearest(prev, p)
		for _, shift := range [...]core.Pitch{-12, 12} {
			cand := p + shift
			if !cand.Valid() {
				continue
			}
			if d := distToNearest(prev, cand); d < bestDist {
				best = cand
				bestDist = d
			}
		}
		out[i] = best
	}
	return out
}

func distToNearest(set []core.Pitch, p core.Pitch) int {
	best := 128
	for _, q := range set {
		d := int(p) - int(q)
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
	}
	return best
}
