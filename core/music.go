package core

// Pitch is an absolute semitone value in the MIDI range 0-127
type Pitch int

const (
	PitchMin Pitch = 0
	PitchMax Pitch = 127
)

// Class returns the pitch class (0-11, C=0)
func (p Pitch) Class() int {
	return int(p) % 12
}

// Octave returns the MIDI octave number (C4 = 60 is octave 4)
func (p Pitch) Octave() int {
	return int(p)/12 - 1
}

// Valid reports whether the pitch is inside the MIDI range
func (p Pitch) Valid() bool {
	return p >= PitchMin && p <= PitchMax
}

func (p Pitch) String() string {
	names := [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	name := names[p.Class()]
	oct := p.Octave()
	if oct < 0 {
		return name + "-1"
	}
	return name + string(rune('0'+oct))
}

// Role identifies an instrument part in the arrangement
type Role int

const (
	RoleMelody Role = iota
	RoleBass
	RoleChords
	RoleDrums
	RoleCount
)

func (r Role) String() string {
	names := [...]string{"melody", "bass", "chords", "drums"}
	if int(r) < len(names) {
		return names[r]
	}
	return "unknown"
}

// IsPercussive returns true for roles on the percussion channel
func (r Role) IsPercussive() bool {
	return r == RoleDrums
}

// Polyphonic returns true for roles whose events may overlap
func (r Role) Polyphonic() bool {
	return r == RoleChords || r == RoleDrums
}

// Priority orders simultaneous onsets at export time (lower first)
func (r Role) Priority() int {
	order := [...]int{2, 1, 3, 0} // drums, bass, melody, chords
	if int(r) < len(order) {
		return order[r]
	}
	return int(RoleCount)
}
