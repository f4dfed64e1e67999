package theory

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/procsynth/core"
)

// Mode identifies a diatonic mode by its interval row
type Mode int

const (
	ModeIonian Mode = iota
	ModeDorian
	ModePhrygian
	ModeLydian
	ModeMixolydian
	ModeAeolian
	ModeLocrian
	modeCount

	// Common aliases
	ModeMajor        = ModeIonian
	ModeNaturalMinor = ModeAeolian
)

// modeSteps holds semitone steps between successive degrees
var modeSteps = [modeCount][7]int{
	ModeIonian:     {2, 2, 1, 2, 2, 2, 1},
	ModeDorian:     {2, 1, 2, 2, 2, 1, 2},
	ModePhrygian:   {1, 2, 2, 2, 1, 2, 2},
	ModeLydian:     {2, 2, 2, 1, 2, 2, 1},
	ModeMixolydian: {2, 2, 1, 2, 2, 1, 2},
	ModeAeolian:    {2, 1, 2, 2, 1, 2, 2},
	ModeLocrian:    {1, 2, 2, 1, 2, 2, 2},
}

func (m Mode) String() string {
	names := [...]string{"ionian", "dorian", "phrygian", "lydian", "mixolydian", "aeolian", "locrian"}
	if int(m) < len(names) {
		return names[m]
	}
	return "unknown"
}

// Steps returns the semitone step row for the mode
func (m Mode) Steps() []int {
	if m < 0 || m >= modeCount {
		return nil
	}
	steps := modeSteps[m]
	return steps[:]
}

// ParseMode maps a mode name (or major/minor alias) to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major", "ionian":
		return ModeIonian, nil
	case "dorian":
		return ModeDorian, nil
	case "phrygian":
		return ModePhrygian, nil
	case "lydian":
		return ModeLydian, nil
	case "mixolydian":
		return ModeMixolydian, nil
	case "minor", "aeolian":
		return ModeAeolian, nil
	case "locrian":
		return ModeLocrian, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", core.ErrConfiguration, s)
	}
}

// ParsePitchClass maps a note name (C, F#, Bb, ...) to a pitch class 0-11
func ParsePitchClass(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty pitch class", core.ErrConfiguration)
	}

	base := map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}
	pc, ok := base[s[0]&^0x20] // Uppercase first letter
	if !ok {
		return 0, fmt.Errorf("%w: unknown pitch class %q", core.ErrConfiguration, s)
	}

	for _, r := range s[1:] {
		switch r {
		case '#', 's':
			pc++
		case 'b':
			pc--
		default:
			return 0, fmt.Errorf("%w: unknown pitch class %q", core.ErrConfiguration, s)
		}
	}
	return ((pc % 12) + 12) % 12, nil
}

// Scale is a tonic pitch class plus a mode.
// Offsets are distinct and strictly increasing within one octave.
type Scale struct {
	Tonic int // Pitch class 0-11
	Mode  Mode
}

// Offsets returns the pitch-class offsets from the tonic, starting at 0
func (s Scale) Offsets() []int {
	steps := s.Mode.Steps()
	if steps == nil {
		return nil
	}
	offsets := make([]int, 0, len(steps))
	cur := 0
	for _, step := range steps {
		offsets = append(offsets, cur)
		cur += step
	}
	return offsets
}

// Len returns the number of scale degrees
func (s Scale) Len() int {
	return len(s.Mode.Steps())
}

// Validate checks the scale invariants
func (s Scale) Validate() error {
	if s.Tonic < 0 || s.Tonic > 11 {
		return fmt.Errorf("%w: tonic %d outside pitch-class range", core.ErrConfiguration, s.Tonic)
	}
	offsets := s.Offsets()
	if len(offsets) == 0 {
		return fmt.Errorf("%w: empty scale", core.ErrConfiguration)
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return fmt.Errorf("%w: scale offsets not strictly increasing", core.ErrConfiguration)
		}
	}
	if offsets[len(offsets)-1] >= 12 {
		return fmt.Errorf("%w: scale exceeds one octave span", core.ErrConfiguration)
	}
	return nil
}

// ClassAt returns the pitch class of a degree. Degrees outside [0, Len)
// wrap around octaves, so degree -1 is the leading degree below the tonic.
func (s Scale) ClassAt(degree int) int {
	offsets := s.Offsets()
	n := len(offsets)
	idx := ((degree % n) + n) % n
	return (s.Tonic + offsets[idx]) % 12
}

// PitchAt maps a degree to an absolute pitch anchored at the given octave.
// Degree 0 at octave 4 of a C scale is middle C.
func (s Scale) PitchAt(degree, octave int) core.Pitch {
	offsets := s.Offsets()
	n := len(offsets)
	oct := octave
	d := degree
	for d < 0 {
		d += n
		oct--
	}
	oct += d / n
	idx := d % n
	return core.Pitch((oct+1)*12 + s.Tonic + offsets[idx])
}

// DegreeOf returns the degree index of a pitch class, or -1 if the class
// is not in the scale
func (s Scale) DegreeOf(class int) int {
	for i, off := range s.Offsets() {
		if (s.Tonic+off)%12 == class {
			return i
		}
	}
	return -1
}

// Contains reports whether a pitch class belongs to the scale
func (s Scale) Contains(class int) bool {
	return s.DegreeOf(class) >= 0
}
