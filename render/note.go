package render

import "math"

// noteFrequencies holds equal-temperament frequencies for MIDI notes 0-127,
// A4 (note 69) = 440Hz
var noteFrequencies [128]float64

func init() {
	for i := range noteFrequencies {
		noteFrequencies[i] = 440.0 * math.Exp2((float64(i)-69.0)/12.0)
	}
}

// NoteFreq returns the frequency in Hz for a MIDI note number
func NoteFreq(midi int) float64 {
	if midi < 0 || midi >= 128 {
		return 0
	}
	return noteFrequencies[midi]
}
