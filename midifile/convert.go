// Package midifile converts the beat-domain song into tick-domain MIDI
// events and writes Standard MIDI Files. Conversion is deterministic:
// absolute beat positions round independently, so accumulated drift across
// a track stays under one tick.
package midifile

import (
	"fmt"
	"math"
	"sort"

	"github.com/lixenwraith/procsynth/core"
)

// Channel assignment per role; drums land on the General MIDI
// percussion channel
var roleChannel = [core.RoleCount]uint8{
	core.RoleMelody: 0,
	core.RoleBass:   1,
	core.RoleChords: 2,
	core.RoleDrums:  9,
}

// Ticks converts an absolute beat position to an absolute tick count,
// rounding half to even so systematic bias cannot accumulate
func Ticks(beat float64, ppq int) int64 {
	return int64(math.RoundToEven(beat * float64(ppq)))
}

// tickEvent is one note boundary on the absolute tick timeline
type tickEvent struct {
	tick    int64
	on      bool
	channel uint8
	key     uint8
	vel     uint8
	seq     int // Emission order, the stable-sort tiebreak
}

// trackEvents flattens a track to an ordered on/off event list. Every on
// gets a matching off; zero-length notes are stretched to one tick so the
// pair stays distinct. Offs sort before ons at the same tick, which keeps
// repeated pitches from cancelling the wrong note.
func trackEvents(t core.Track, ppq int) ([]tickEvent, error) {
	if t.Role < 0 || t.Role >= core.RoleCount {
		return nil, fmt.Errorf("%w: track role %d out of range", core.ErrConfiguration, int(t.Role))
	}
	ch := roleChannel[t.Role]

	events := make([]tickEvent, 0, 2*len(t.Events))
	for i, e := range t.Events {
		if !e.Pitch.Valid() {
			return nil, fmt.Errorf("%w: pitch %d outside MIDI range", core.ErrConfiguration, int(e.Pitch))
		}
		on := Ticks(e.Start, ppq)
		off := Ticks(e.End(), ppq)
		if off <= on {
			off = on + 1
		}
		vel := e.Velocity
		if vel < 1 {
			vel = 1
		} else if vel > 127 {
			vel = 127
		}
		events = append(events,
			tickEvent{tick: on, on: true, channel: ch, key: uint8(e.Pitch), vel: uint8(vel), seq: i},
			tickEvent{tick: off, on: false, channel: ch, key: uint8(e.Pitch), seq: i},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		if events[i].on != events[j].on {
			return !events[i].on // Offs first at equal ticks
		}
		return events[i].seq < events[j].seq
	})
	return events, nil
}

// FinalTick returns the last tick any track sounds at
func FinalTick(song core.Song, ppq int) int64 {
	var last int64
	for _, t := range song.Tracks {
		if tick := Ticks(t.Span(), ppq); tick > last {
			last = tick
		}
	}
	return last
}
