package render

import (
	"math"
	"testing"

	"github.com/lixenwraith/procsynth/core"
)

func testSong() core.Song {
	return core.Song{
		Tempo:  120,
		Budget: 4,
		Tracks: []core.Track{
			{
				Role: core.RoleMelody,
				Name: "melody",
				Events: []core.NoteEvent{
					{Pitch: 60, Start: 0, Duration: 1, Velocity: 80},
					{Pitch: 64, Start: 1, Duration: 1, Velocity: 80},
				},
			},
			{
				Role: core.RoleDrums,
				Name: "drums",
				Events: []core.NoteEvent{
					{Pitch: 36, Start: 0, Duration: 0.25, Velocity: 100},
					{Pitch: 38, Start: 1, Duration: 0.25, Velocity: 90},
				},
			},
		},
	}
}

// TestFrames verifies the output length formula
func TestFrames(t *testing.T) {
	// 60 beats at 120 BPM is 30 seconds
	if got := Frames(60, 120, 44100); got != 30*44100 {
		t.Errorf("Expected %d frames, got %d", 30*44100, got)
	}
	// Fractional durations round up
	if got := Frames(1, 120, 44100); got != 22050 {
		t.Errorf("Expected 22050 frames, got %d", got)
	}
}

// TestSongFrameCount verifies the rendered buffer has the exact length
// implied by budget and tempo
func TestSongFrameCount(t *testing.T) {
	opt := DefaultOptions()
	buf, err := Song(testSong(), opt)
	if err != nil {
		t.Fatal(err)
	}
	want := Frames(4, 120, opt.SampleRate)
	if len(buf) != want {
		t.Errorf("Expected %d frames, got %d", want, len(buf))
	}
}

// TestSongOutputBounded verifies the limiter keeps samples in [-1, 1]
func TestSongOutputBounded(t *testing.T) {
	buf, err := Song(testSong(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range buf {
		if s[0] < -1 || s[0] > 1 || s[1] < -1 || s[1] > 1 {
			t.Fatalf("Frame %d out of range: %v", i, s)
		}
	}
}

// TestSongNotSilent verifies notes actually produce audio
func TestSongNotSilent(t *testing.T) {
	buf, err := Song(testSong(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	peak := 0.0
	for _, s := range buf {
		if a := math.Abs(s[0]); a > peak {
			peak = a
		}
	}
	if peak < 0.01 {
		t.Errorf("Expected audible output, peak was %f", peak)
	}
}

// TestSongDeterminism verifies equal input renders identical samples
func TestSongDeterminism(t *testing.T) {
	a, err := Song(testSong(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Song(testSong(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Frame %d differs between identical renders", i)
		}
	}
}

// TestSongRejectsBadInput verifies option and song validation
func TestSongRejectsBadInput(t *testing.T) {
	opt := DefaultOptions()
	opt.ReverbFeedback = 1.0
	if _, err := Song(testSong(), opt); err == nil {
		t.Error("Expected error for unstable reverb feedback")
	}

	song := testSong()
	song.Tempo = 0
	if _, err := Song(song, DefaultOptions()); err == nil {
		t.Error("Expected error for zero tempo")
	}
}

// TestNoteFreq verifies reference tuning
func TestNoteFreq(t *testing.T) {
	if got := NoteFreq(69); math.Abs(got-440) > 1e-9 {
		t.Errorf("Expected A4 = 440Hz, got %f", got)
	}
	if got := NoteFreq(57); math.Abs(got-220) > 1e-6 {
		t.Errorf("Expected A3 = 220Hz, got %f", got)
	}
	if got := NoteFreq(-1); got != 0 {
		t.Errorf("Expected 0 for out-of-range note, got %f", got)
	}
}

// TestTimbresBounded verifies each instrument stays within unit amplitude
func TestTimbresBounded(t *testing.T) {
	timbres := map[string]timbre{
		"bass": timbreFor(core.RoleBass),
		"pad":  timbreFor(core.RoleChords),
		"lead": timbreFor(core.RoleMelody),
	}
	for name, tim := range timbres {
		buf := tim.synth(220, 4410, 44100)
		if len(buf) != 4410 {
			t.Errorf("%s: expected 4410 frames, got %d", name, len(buf))
		}
		for i, v := range buf {
			if v < -1.01 || v > 1.01 {
				t.Fatalf("%s frame %d: %f out of range", name, i, v)
			}
		}
	}
}
