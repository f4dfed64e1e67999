package melody

import (
	"errors"
	"testing"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/rhythm"
	"github.com/lixenwraith/procsynth/rng"
	"github.com/lixenwraith/procsynth/theory"
)

// TestMarkovSingleSuccessor verifies a chain with one successor per state
// is fully deterministic
func TestMarkovSingleSuccessor(t *testing.T) {
	m := &Markov{
		Start: 0,
		Rows: map[int][]Transition{
			0: {{Delta: 1, Weight: 1}},
			1: {{Delta: -1, Weight: 1}},
			-1: {{Delta: 0, Weight: 1}},
		},
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	sel, err := NewMarkovSelector(rng.New(42), m)
	if err != nil {
		t.Fatal(err)
	}

	want := []int{1, -1, 0, 1, -1, 0}
	for i, w := range want {
		got, err := sel.NextDelta()
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("Step %d: expected delta %d, got %d", i, w, got)
		}
	}
}

// TestMarkovValidateUnreachableGap verifies a reachable state without a row
// is rejected
func TestMarkovValidateUnreachableGap(t *testing.T) {
	m := &Markov{
		Start: 0,
		Rows: map[int][]Transition{
			0: {{Delta: 3, Weight: 1}}, // State 3 has no row
		},
	}
	if err := m.Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Expected configuration error for missing row, got %v", err)
	}
}

// TestDefaultMarkovValid verifies the built-in model passes validation
func TestDefaultMarkovValid(t *testing.T) {
	if err := DefaultMarkov().Validate(); err != nil {
		t.Errorf("Default model should validate, got %v", err)
	}
}

// TestNoiseSelectorBounds verifies deltas never exceed the step cap
func TestNoiseSelectorBounds(t *testing.T) {
	sel, err := NewNoiseSelector(rng.New(9), 0.4, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		d, err := sel.NextDelta()
		if err != nil {
			t.Fatal(err)
		}
		if d < -2 || d > 2 {
			t.Fatalf("Delta %d exceeds max step 2", d)
		}
	}
}

// TestNoiseFieldRange verifies the value noise stays in [-1, 1]
func TestNoiseFieldRange(t *testing.T) {
	n := NewNoise(rng.New(3))
	for x := 0.0; x < 50; x += 0.13 {
		v := n.At(x)
		if v < -1 || v > 1 {
			t.Fatalf("Noise value %f at %f out of range", v, x)
		}
	}
}

// TestFoldIntoRange verifies octave folding before boundary clamping
func TestFoldIntoRange(t *testing.T) {
	// Wide range: fold by octaves
	if p, ok := FoldIntoRange(72, 60, 71); !ok || p != 60 {
		t.Errorf("Expected 72 to fold to 60, got %d ok=%v", int(p), ok)
	}
	if p, ok := FoldIntoRange(48, 60, 84); !ok || p != 60 {
		t.Errorf("Expected 48 to fold up to 60, got %d ok=%v", int(p), ok)
	}

	// In-range passes through
	if p, ok := FoldIntoRange(65, 60, 84); !ok || p != 65 {
		t.Errorf("Expected 65 unchanged, got %d ok=%v", int(p), ok)
	}

	// Range narrower than an octave with no fitting octave: clamp
	if p, ok := FoldIntoRange(72, 61, 64); ok || p != 61 {
		t.Errorf("Expected clamp to 61 with ok=false, got %d ok=%v", int(p), ok)
	}
}

// TestGeneratePitchesInRange verifies every pitch lands in the instrument
// range across seeds
func TestGeneratePitchesInRange(t *testing.T) {
	scale := theory.Scale{Tonic: 0, Mode: theory.ModeIonian}

	for seed := int64(0); seed < 20; seed++ {
		s := rng.New(seed)
		slots, err := rhythm.Generate(s.Derive("rhythm"), rhythm.DefaultTable(), 32, 1.0/480)
		if err != nil {
			t.Fatal(err)
		}
		sel, err := NewMarkovSelector(s.Derive("pitch"), DefaultMarkov())
		if err != nil {
			t.Fatal(err)
		}

		res, err := GeneratePitches(sel, Constraint{
			Scale:      scale,
			RangeLow:   60,
			RangeHigh:  84,
			BaseOctave: 5,
		}, slots)
		if err != nil {
			t.Fatal(err)
		}

		for i, p := range res.Pitches {
			if p < 60 || p > 84 {
				t.Fatalf("Seed %d pitch %d: %d outside [60, 84]", seed, i, int(p))
			}
			if !scale.Contains(p.Class()) {
				t.Fatalf("Seed %d pitch %d: class %d not in scale", seed, i, p.Class())
			}
		}
	}
}

// TestGeneratePitchesChordToneOnStrong verifies strong-position snapping
func TestGeneratePitchesChordToneOnStrong(t *testing.T) {
	scale := theory.Scale{Tonic: 0, Mode: theory.ModeIonian}
	chord := theory.Chord{Root: 0, Quality: theory.QualityMajor} // C E G

	// Quarter notes: every slot starts on an integer beat
	slots := make([]rhythm.Slot, 16)
	for i := range slots {
		slots[i] = rhythm.Slot{Beats: 1.0}
	}

	sel, err := NewMarkovSelector(rng.New(11), DefaultMarkov())
	if err != nil {
		t.Fatal(err)
	}

	res, err := GeneratePitches(sel, Constraint{
		Scale: scale,
		ChordAt: func(beat float64) (theory.Chord, bool) {
			return chord, true
		},
		RangeLow:   60,
		RangeHigh:  84,
		BaseOctave: 5,
	}, slots)
	if err != nil {
		t.Fatal(err)
	}

	for i, p := range res.Pitches {
		if !chord.Contains(p.Class()) {
			t.Errorf("Slot %d: pitch class %d is not a chord tone", i, p.Class())
		}
	}
}

// TestMotifBind verifies anchor-relative degree mapping to absolute pitches
func TestMotifBind(t *testing.T) {
	m := Motif{Steps: []MotifStep{
		{Degree: 0, Beats: 1},
		{Degree: 2, Beats: 1},
		{Degree: 4, Beats: 1},
		{Degree: 0, Beats: 1, Rest: true},
	}}
	cons := Constraint{
		Scale:      theory.Scale{Tonic: 0, Mode: theory.ModeIonian},
		RangeLow:   60,
		RangeHigh:  84,
		BaseOctave: 4,
	}

	res, err := m.Bind(cons, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []core.Pitch{60, 64, 67, 60} // C4 E4 G4, rest holds the anchor
	for i, w := range want {
		if res.Pitches[i] != w {
			t.Errorf("Step %d: expected pitch %d, got %d", i, int(w), int(res.Pitches[i]))
		}
	}

	// Anchoring two degrees up shifts the whole phrase
	res, err = m.Bind(cons, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	want = []core.Pitch{64, 67, 71, 64} // E4 G4 B4
	for i, w := range want {
		if res.Pitches[i] != w {
			t.Errorf("Anchor 2 step %d: expected pitch %d, got %d", i, int(w), int(res.Pitches[i]))
		}
	}
}

// TestMotifBindChordSnap verifies strong positions snap to chord tones
func TestMotifBindChordSnap(t *testing.T) {
	m := Motif{Steps: []MotifStep{
		{Degree: 1, Beats: 1}, // D, not a C major chord tone
		{Degree: 3, Beats: 1}, // F, not a chord tone either
	}}
	chord := theory.Chord{Root: 0, Quality: theory.QualityMajor} // C E G

	res, err := m.Bind(Constraint{
		Scale: theory.Scale{Tonic: 0, Mode: theory.ModeIonian},
		ChordAt: func(beat float64) (theory.Chord, bool) {
			return chord, true
		},
		RangeLow:   60,
		RangeHigh:  84,
		BaseOctave: 4,
	}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range res.Pitches {
		if !chord.Contains(p.Class()) {
			t.Errorf("Step %d: pitch class %d is not a chord tone", i, p.Class())
		}
	}
}

// TestMotifValidate verifies template validation and total duration
func TestMotifValidate(t *testing.T) {
	if err := (Motif{}).Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Expected configuration error for empty motif, got %v", err)
	}
	bad := Motif{Steps: []MotifStep{{Degree: 0, Beats: 0}}}
	if err := bad.Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Expected configuration error for zero-beat step, got %v", err)
	}

	def := DefaultMotif()
	if err := def.Validate(); err != nil {
		t.Errorf("Default motif should validate, got %v", err)
	}
	if got := def.Beats(); got != 4 {
		t.Errorf("Expected 4-beat default motif, got %f", got)
	}
}

// TestGeneratePitchesRejectsInvertedRange verifies constraint validation
func TestGeneratePitchesRejectsInvertedRange(t *testing.T) {
	sel, err := NewMarkovSelector(rng.New(1), DefaultMarkov())
	if err != nil {
		t.Fatal(err)
	}
	_, err = GeneratePitches(sel, Constraint{
		Scale:    theory.Scale{Tonic: 0, Mode: theory.ModeIonian},
		RangeLow: 84, RangeHigh: 60,
		BaseOctave: 5,
	}, []rhythm.Slot{{Beats: 1}})
	if !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}
