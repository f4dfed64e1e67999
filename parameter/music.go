package parameter

// Tempo and Timing
const (
	DefaultBPM   = 120.0
	MinBPM       = 20.0
	MaxBPM       = 300.0
	DefaultPPQ   = 480 // Ticks per quarter note
	StepsPerBeat = 4   // 16th-note drum grid
	BeatsPerBar  = 4   // 4/4 time
	StepsPerBar  = StepsPerBeat * BeatsPerBar
)

// BeatBudget converts a real-world target duration to beats at a tempo
func BeatBudget(seconds, bpm float64) float64 {
	return seconds * bpm / 60.0
}

// QuantumBeats is the minimal quantization unit in beats at a PPQ
func QuantumBeats(ppq int) float64 {
	return 1.0 / float64(ppq)
}

// Note names (semitone offset within octave)
const (
	NoteC  = 0
	NoteCs = 1
	NoteDb = 1
	NoteD  = 2
	NoteDs = 3
	NoteEb = 3
	NoteE  = 4
	NoteF  = 5
	NoteFs = 6
	NoteGb = 6
	NoteG  = 7
	NoteGs = 8
	NoteAb = 8
	NoteA  = 9
	NoteAs = 10
	NoteBb = 10
	NoteB  = 11
)

// MIDINote computes MIDI note number from note + octave
func MIDINote(note, octave int) int {
	return (octave+1)*12 + note // C-1 = 0, C4 = 60
}

// Velocity bounds
const (
	VelocityMin     = 1
	VelocityMax     = 127
	VelocityDefault = 80
)

// Default instrument role ranges (MIDI note numbers)
const (
	MelodyRangeLow  = 60 // C4
	MelodyRangeHigh = 84 // C6
	BassRangeLow    = 36 // C2
	BassRangeHigh   = 55 // G3
	ChordRangeLow   = 48 // C3
	ChordRangeHigh  = 72 // C5
)

// General MIDI percussion map (channel 10 note numbers)
const (
	PercKick      = 36
	PercSnare     = 38
	PercClap      = 39
	PercClosedHat = 42
	PercOpenHat   = 46
)

// Drum fill spacing: minimum step distance between stochastic ghost hits
const (
	DrumFillMinGapSteps = 2
	DrumFillDensity     = 0.12 // Probability of a ghost hit per free step
)

// Humanization defaults
const (
	HumanizeTimingBeats   = 0.02 // Max absolute start offset
	HumanizeVelocityDelta = 8    // Max absolute velocity delta
)

// Swing
const (
	DefaultSwingRatio = 2.0 / 3.0 // Long share of a swung pair
)
