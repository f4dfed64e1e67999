package midifile

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/parameter"
)

// Build converts a song to a format-1 SMF: a conductor track carrying tempo
// and meter, then one track per role in stable role-priority order
func Build(song core.Song, ppq int) (*smf.SMF, error) {
	if ppq <= 0 {
		return nil, fmt.Errorf("%w: non-positive PPQ %d", core.ErrConfiguration, ppq)
	}
	if song.Tempo < parameter.MinBPM || song.Tempo > parameter.MaxBPM {
		return nil, fmt.Errorf("%w: tempo %g outside [%g, %g]",
			core.ErrConfiguration, song.Tempo, parameter.MinBPM, parameter.MaxBPM)
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ppq)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName("procsynth"))
	conductor.Add(0, smf.MetaTempo(song.Tempo))
	conductor.Add(0, smf.MetaMeter(parameter.BeatsPerBar, 4))
	conductor.Close(0)
	if err := sm.Add(conductor); err != nil {
		return nil, fmt.Errorf("add conductor track: %w", err)
	}

	ordered := make([]core.Track, len(song.Tracks))
	copy(ordered, song.Tracks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Role.Priority() < ordered[j].Role.Priority()
	})

	for _, t := range ordered {
		events, err := trackEvents(t, ppq)
		if err != nil {
			return nil, err
		}

		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(t.Name))

		var cursor int64
		for _, e := range events {
			delta := uint32(e.tick - cursor)
			cursor = e.tick
			if e.on {
				tr.Add(delta, midi.NoteOn(e.channel, e.key, e.vel))
			} else {
				tr.Add(delta, midi.NoteOff(e.channel, e.key))
			}
		}
		tr.Close(0)
		if err := sm.Add(tr); err != nil {
			return nil, fmt.Errorf("add %s track: %w", t.Name, err)
		}
	}
	return sm, nil
}

// Encode writes the song as SMF bytes to w
func Encode(w io.Writer, song core.Song, ppq int) error {
	sm, err := Build(song, ppq)
	if err != nil {
		return err
	}
	_, err = sm.WriteTo(w)
	return err
}

// WriteFile writes the song as an SMF to path
func WriteFile(path string, song core.Song, ppq int) error {
	sm, err := Build(song, ppq)
	if err != nil {
		return err
	}
	return sm.WriteFile(path)
}
