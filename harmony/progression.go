// Package harmony produces chord progressions from harmonic-function
// grammars over a key, covering a whole track's bars.
package harmony

import (
	"fmt"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/rng"
	"github.com/lixenwraith/procsynth/theory"
)

// Function is a harmonic function class
type Function int

const (
	FuncTonic Function = iota
	FuncSubdominant
	FuncDominant
	FuncOther
	functionCount
)

func (f Function) String() string {
	names := [...]string{"tonic", "subdominant", "dominant", "other"}
	if int(f) < len(names) {
		return names[f]
	}
	return "unknown"
}

// ParseFunction maps a function name to a Function
func ParseFunction(s string) (Function, error) {
	switch s {
	case "tonic", "T", "I":
		return FuncTonic, nil
	case "subdominant", "S", "IV":
		return FuncSubdominant, nil
	case "dominant", "D", "V":
		return FuncDominant, nil
	case "other":
		return FuncOther, nil
	default:
		return 0, fmt.Errorf("%w: unknown harmonic function %q", core.ErrConfiguration, s)
	}
}

// functionDegrees maps each function to its candidate scale degrees
var functionDegrees = [functionCount][]int{
	FuncTonic:       {0, 5},    // I, vi
	FuncSubdominant: {3, 1},    // IV, ii
	FuncDominant:    {4, 6},    // V, vii
	FuncOther:       {2, 5},    // iii, vi
}

// followers lists the admissible next functions, tonal-cadence style:
// the dominant resolves to the tonic only
var followers = [functionCount][]Function{
	FuncTonic:       {FuncSubdominant, FuncDominant, FuncOther},
	FuncSubdominant: {FuncTonic, FuncDominant, FuncOther},
	FuncDominant:    {FuncTonic},
	FuncOther:       {FuncTonic, FuncSubdominant, FuncDominant},
}

// Span is a concrete chord covering a window of the beat timeline
type Span struct {
	Chord theory.Chord
	Start float64 // Beats
	Beats float64
}

// Progression is the ordered chord timeline for a piece
type Progression []Span

// ChordAt returns the chord active at a beat position
func (p Progression) ChordAt(beat float64) (theory.Chord, bool) {
	for _, s := range p {
		if beat >= s.Start && beat < s.Start+s.Beats {
			return s.Chord, true
		}
	}
	if n := len(p); n > 0 && beat >= p[n-1].Start {
		return p[n-1].Chord, true
	}
	return theory.Chord{}, false
}

// Options tunes progression generation
type Options struct {
	Grammar  []Function // Cycled when non-empty; random-walk otherwise
	BarBeats float64    // Beats per harmonic slot
	Sevenths bool       // Stack sevenths instead of triads
}

// Generate produces one concrete chord per bar. Function order comes from
// the grammar when given, otherwise from a seeded walk over the follower
// table starting at the tonic. Candidate selection within a function uses
// the same stream, so the whole progression is reproducible.
func Generate(s *rng.Stream, scale theory.Scale, bars int, opt Options) (Progression, error) {
	if err := scale.Validate(); err != nil {
		return nil, err
	}
	if bars <= 0 {
		return nil, fmt.Errorf("%w: non-positive bar count %d", core.ErrConfiguration, bars)
	}
	if opt.BarBeats <= 0 {
		return nil, fmt.Errorf("%w: non-positive bar length %g", core.ErrConfiguration, opt.BarBeats)
	}

	prog := make(Progression, 0, bars)
	fn := FuncTonic

	for bar := 0; bar < bars; bar++ {
		if len(opt.Grammar) > 0 {
			fn = opt.Grammar[bar%len(opt.Grammar)]
		} else if bar > 0 {
			next := followers[fn]
			fn = next[s.Intn(len(next))]
		}

		candidates := functionDegrees[fn]
		degree := candidates[s.Intn(len(candidates))]

		var chord theory.Chord
		if opt.Sevenths {
			chord = theory.DiatonicSeventh(scale, degree)
		} else {
			chord = theory.DiatonicTriad(scale, degree)
		}

		prog = append(prog, Span{
			Chord: chord,
			Start: float64(bar) * opt.BarBeats,
			Beats: opt.BarBeats,
		})
	}
	return prog, nil
}
