package core

import "sort"

// NoteEvent is a single note placed on the beat timeline.
// Events are value types and never mutated after emission; transforms
// such as humanization produce new events.
type NoteEvent struct {
	Pitch    Pitch
	Start    float64 // Beats from track zero, >= 0
	Duration float64 // Beats, > 0
	Velocity int     // 1-127
}

// End returns the event end position in beats
func (e NoteEvent) End() float64 {
	return e.Start + e.Duration
}

// Track is the ordered event stream for one instrument role
type Track struct {
	Role   Role
	Name   string
	Events []NoteEvent
}

// Span returns the end of the last-sounding event in beats
func (t *Track) Span() float64 {
	var span float64
	for _, e := range t.Events {
		if end := e.End(); end > span {
			span = end
		}
	}
	return span
}

// Sorted reports whether events are ordered by start time
func (t *Track) Sorted() bool {
	return sort.SliceIsSorted(t.Events, func(i, j int) bool {
		return t.Events[i].Start < t.Events[j].Start
	})
}

// SortEvents orders events by start time, stable for simultaneous onsets
func (t *Track) SortEvents() {
	sort.SliceStable(t.Events, func(i, j int) bool {
		return t.Events[i].Start < t.Events[j].Start
	})
}

// Song is the assembled multi-track piece handed to the export converter
type Song struct {
	Tempo  float64 // BPM
	Budget float64 // Beats
	Tracks []Track
}
