package theory

import (
	"fmt"

	"github.com/lixenwraith/procsynth/core"
)

// Quality represents chord quality
type Quality int

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDiminished
	QualityAugmented
	QualityMajor7
	QualityMinor7
	QualityDominant7
	qualityCount
)

var qualityOffsets = [qualityCount][]int{
	QualityMajor:      {0, 4, 7},
	QualityMinor:      {0, 3, 7},
	QualityDiminished: {0, 3, 6},
	QualityAugmented:  {0, 4, 8},
	QualityMajor7:     {0, 4, 7, 11},
	QualityMinor7:     {0, 3, 7, 10},
	QualityDominant7:  {0, 4, 7, 10},
}

func (q Quality) String() string {
	names := [...]string{"maj", "min", "dim", "aug", "maj7", "min7", "dom7"}
	if int(q) < len(names) {
		return names[q]
	}
	return "unknown"
}

// Offsets returns semitone offsets from the chord root
func (q Quality) Offsets() []int {
	if q < 0 || q >= qualityCount {
		return nil
	}
	return qualityOffsets[q]
}

// Chord is a root pitch class tagged with a quality
type Chord struct {
	Root    int // Pitch class 0-11
	Quality Quality
}

// Classes returns the chord's pitch-class set
func (c Chord) Classes() []int {
	offsets := c.Quality.Offsets()
	classes := make([]int, len(offsets))
	for i, off := range offsets {
		classes[i] = (c.Root + off) % 12
	}
	return classes
}

// Contains reports whether a pitch class is a chord tone
func (c Chord) Contains(class int) bool {
	for _, off := range c.Quality.Offsets() {
		if (c.Root+off)%12 == class {
			return true
		}
	}
	return false
}

// Pitches realizes the chord as absolute pitches stacked up from the given
// octave's root
func (c Chord) Pitches(octave int) []core.Pitch {
	root := (octave+1)*12 + c.Root
	offsets := c.Quality.Offsets()
	pitches := make([]core.Pitch, len(offsets))
	for i, off := range offsets {
		pitches[i] = core.Pitch(root + off)
	}
	return pitches
}

func (c Chord) String() string {
	names := [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	return fmt.Sprintf("%s%s", names[((c.Root%12)+12)%12], c.Quality)
}

// triadQualityFor classifies a third/fifth interval pair
func triadQualityFor(third, fifth int) Quality {
	switch {
	case third == 4 && fifth == 7:
		return QualityMajor
	case third == 3 && fifth == 7:
		return QualityMinor
	case third == 3 && fifth == 6:
		return QualityDiminished
	case third == 4 && fifth == 8:
		return QualityAugmented
	default:
		// Suspended and altered stacks fall back to major voicing
		return QualityMajor
	}
}

// DiatonicTriad builds the triad on a scale degree by stacking scale thirds.
// The chord root is always a scale degree, which keeps harmonically
// constrained selection inside the key.
func DiatonicTriad(s Scale, degree int) Chord {
	root := s.ClassAt(degree)
	third := (s.ClassAt(degree+2) - root + 12) % 12
	fifth := (s.ClassAt(degree+4) - root + 12) % 12
	return Chord{Root: root, Quality: triadQualityFor(third, fifth)}
}

// DiatonicSeventh builds the seventh chord on a scale degree
func DiatonicSeventh(s Scale, degree int) Chord {
	triad := DiatonicTriad(s, degree)
	seventh := (s.ClassAt(degree+6) - triad.Root + 12) % 12

	switch {
	case triad.Quality == QualityMajor && seventh == 11:
		triad.Quality = QualityMajor7
	case triad.Quality == QualityMajor && seventh == 10:
		triad.Quality = QualityDominant7
	case triad.Quality == QualityMinor && seventh == 10:
		triad.Quality = QualityMinor7
	}
	return triad
}
