package harmony

import (
	"errors"
	"testing"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/rng"
	"github.com/lixenwraith/procsynth/theory"
)

func cMajor() theory.Scale {
	return theory.Scale{Tonic: 0, Mode: theory.ModeIonian}
}

// functionOf reverse-maps a chord root to its harmonic function in a scale
func functionOf(t *testing.T, s theory.Scale, ch theory.Chord) Function {
	t.Helper()
	degree := s.DegreeOf(ch.Root)
	if degree < 0 {
		t.Fatalf("Chord root %d not in scale", ch.Root)
	}
	for fn := FuncTonic; fn < functionCount; fn++ {
		for _, d := range functionDegrees[fn] {
			if d == degree {
				return fn
			}
		}
	}
	t.Fatalf("Degree %d not in any function class", degree)
	return 0
}

// TestGenerateDominantResolvesToTonic verifies the cadence rule in the
// random-walk mode across many seeds
func TestGenerateDominantResolvesToTonic(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		prog, err := Generate(rng.New(seed), cMajor(), 16, Options{BarBeats: 4})
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i+1 < len(prog); i++ {
			if functionOf(t, cMajor(), prog[i].Chord) == FuncDominant {
				next := functionOf(t, cMajor(), prog[i+1].Chord)
				if next != FuncTonic {
					t.Fatalf("Seed %d bar %d: dominant followed by %v", seed, i, next)
				}
			}
		}
	}
}

// TestGenerateStartsOnTonic verifies the walk begins at the tonic function
func TestGenerateStartsOnTonic(t *testing.T) {
	prog, err := Generate(rng.New(42), cMajor(), 8, Options{BarBeats: 4})
	if err != nil {
		t.Fatal(err)
	}
	if fn := functionOf(t, cMajor(), prog[0].Chord); fn != FuncTonic {
		t.Errorf("Expected first bar tonic, got %v", fn)
	}
}

// TestGenerateGrammarCycles verifies an explicit grammar repeats in order
func TestGenerateGrammarCycles(t *testing.T) {
	grammar := []Function{FuncTonic, FuncSubdominant, FuncDominant, FuncTonic}
	prog, err := Generate(rng.New(1), cMajor(), 8, Options{Grammar: grammar, BarBeats: 4})
	if err != nil {
		t.Fatal(err)
	}
	for i, span := range prog {
		want := grammar[i%len(grammar)]
		if got := functionOf(t, cMajor(), span.Chord); got != want {
			t.Errorf("Bar %d: expected %v, got %v", i, want, got)
		}
	}
}

// TestGenerateSpansCoverTimeline verifies contiguous bar spans
func TestGenerateSpansCoverTimeline(t *testing.T) {
	prog, err := Generate(rng.New(3), cMajor(), 5, Options{BarBeats: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(prog) != 5 {
		t.Fatalf("Expected 5 spans, got %d", len(prog))
	}
	for i, span := range prog {
		if span.Start != float64(i)*4 {
			t.Errorf("Span %d: expected start %d, got %f", i, i*4, span.Start)
		}
		if span.Beats != 4 {
			t.Errorf("Span %d: expected 4 beats, got %f", i, span.Beats)
		}
	}
}

// TestChordAtExtendsLastSpan verifies lookups past the end return the final
// chord
func TestChordAtExtendsLastSpan(t *testing.T) {
	prog, err := Generate(rng.New(3), cMajor(), 2, Options{BarBeats: 4})
	if err != nil {
		t.Fatal(err)
	}

	ch, ok := prog.ChordAt(100)
	if !ok {
		t.Fatal("Expected a chord past the last span")
	}
	if ch != prog[1].Chord {
		t.Error("Expected the final span's chord")
	}

	if _, ok := prog.ChordAt(-1); ok {
		t.Error("Expected no chord before the timeline")
	}
}

// TestGenerateSevenths verifies seventh chords carry four classes
func TestGenerateSevenths(t *testing.T) {
	prog, err := Generate(rng.New(4), cMajor(), 4, Options{BarBeats: 4, Sevenths: true})
	if err != nil {
		t.Fatal(err)
	}
	for i, span := range prog {
		if got := len(span.Chord.Classes()); got != 4 {
			t.Errorf("Bar %d: expected 4 chord classes, got %d", i, got)
		}
	}
}

// TestGenerateRejectsBadInput verifies option validation
func TestGenerateRejectsBadInput(t *testing.T) {
	if _, err := Generate(rng.New(1), cMajor(), 0, Options{BarBeats: 4}); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Expected configuration error for zero bars, got %v", err)
	}
	if _, err := Generate(rng.New(1), cMajor(), 4, Options{}); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Expected configuration error for zero bar length, got %v", err)
	}
}

// TestVoiceLeadingCloseness verifies re-voiced chords stay near the
// previous voicing
func TestVoiceLeadingCloseness(t *testing.T) {
	prog, err := Generate(rng.New(8), cMajor(), 8, Options{BarBeats: 4})
	if err != nil {
		t.Fatal(err)
	}
	voicings := Voice(prog, 4)
	if len(voicings) != len(prog) {
		t.Fatalf("Expected %d voicings, got %d", len(prog), len(voicings))
	}

	for i := 1; i < len(voicings); i++ {
		for _, p := range voicings[i] {
			if d := distToNearest(voicings[i-1], p); d > 6 {
				t.Errorf("Voicing %d: tone %d is %d semitones from previous voicing", i, int(p), d)
			}
		}
		// Classes are preserved by re-voicing
		want := prog[i].Chord.Classes()
		for j, p := range voicings[i] {
			if p.Class() != want[j] {
				t.Errorf("Voicing %d tone %d: class %d, expected %d", i, j, p.Class(), want[j])
			}
		}
	}
}
