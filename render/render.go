// Package render synthesizes a song offline into audio and encodes it as a
// WAV file. Rendering is sample-accurate and deterministic: frame positions
// derive from beat positions, percussion noise comes from a seeded stream,
// and the output length is fixed by the beat budget and tempo alone.
package render

import (
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/rng"
)

// Options tunes the offline renderer
type Options struct {
	SampleRate     int
	MasterVolume   float64
	ReverbDelaySec float64 // Delay line length in seconds
	ReverbFeedback float64 // Fraction fed back per pass
	ReverbMix      float64 // Wet level added to the dry signal
	NoiseSeed      int64   // Percussion noise seed
}

// DefaultOptions returns the standard render setup: CD-rate stereo with a
// short single-tap reverb
func DefaultOptions() Options {
	return Options{
		SampleRate:     44100,
		MasterVolume:   0.8,
		ReverbDelaySec: 0.05,
		ReverbFeedback: 0.7,
		ReverbMix:      0.25,
		NoiseSeed:      1,
	}
}

func (o Options) validate() error {
	if o.SampleRate <= 0 {
		return fmt.Errorf("%w: non-positive sample rate %d", core.ErrConfiguration, o.SampleRate)
	}
	if o.ReverbFeedback < 0 || o.ReverbFeedback >= 1 {
		return fmt.Errorf("%w: reverb feedback %g outside [0, 1)", core.ErrConfiguration, o.ReverbFeedback)
	}
	return nil
}

// Frames returns the exact output length in frames for a budget and tempo
func Frames(budgetBeats, bpm float64, rate int) int {
	return int(math.Ceil(budgetBeats * 60.0 / bpm * float64(rate)))
}

// rolePan spreads the roles across the stereo field
var rolePan = [core.RoleCount]float64{
	core.RoleMelody: 0.15,
	core.RoleBass:   0.0,
	core.RoleChords: -0.2,
	core.RoleDrums:  0.0,
}

// Song renders a song to a stereo sample buffer of exactly
// Frames(budget, tempo, rate) frames. Notes sounding past the end are
// truncated at the buffer boundary.
func Song(song core.Song, opt Options) ([][2]float64, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	if song.Tempo <= 0 {
		return nil, fmt.Errorf("%w: non-positive tempo %g", core.ErrConfiguration, song.Tempo)
	}
	if song.Budget <= 0 {
		return nil, fmt.Errorf("%w: non-positive budget %g", core.ErrConfiguration, song.Budget)
	}

	rate := opt.SampleRate
	buf := make([][2]float64, Frames(song.Budget, song.Tempo, rate))
	framesPerBeat := 60.0 / song.Tempo * float64(rate)

	kit := newDrumKit(rng.DeriveFrom(opt.NoiseSeed, "render/drums"), rate)

	for _, tr := range song.Tracks {
		pan := 0.0
		if tr.Role >= 0 && tr.Role < core.RoleCount {
			pan = rolePan[tr.Role]
		}
		gainL := math.Min(1.0, 1.0-pan)
		gainR := math.Min(1.0, 1.0+pan)

		var tim timbre
		if !tr.Role.IsPercussive() {
			tim = timbreFor(tr.Role)
		}

		for _, e := range tr.Events {
			start := int(math.Round(e.Start * framesPerBeat))
			if start >= len(buf) {
				continue
			}

			var mono []float64
			amp := float64(e.Velocity) / 127.0
			if tr.Role.IsPercussive() {
				mono = kit.get(int(e.Pitch))
			} else {
				frames := int(math.Round(e.Duration * framesPerBeat))
				if frames <= 0 {
					continue
				}
				mono = tim.synth(NoteFreq(int(e.Pitch)), frames, rate)
			}

			for i, v := range mono {
				idx := start + i
				if idx >= len(buf) {
					break
				}
				buf[idx][0] += v * amp * gainL * 0.25
				buf[idx][1] += v * amp * gainR * 0.25
			}
		}
	}

	applyReverb(buf, opt, rate)
	applyLimiter(buf, opt.MasterVolume)
	return buf, nil
}

// applyReverb runs a single feedback delay line per channel
func applyReverb(buf [][2]float64, opt Options, rate int) {
	delay := int(opt.ReverbDelaySec * float64(rate))
	if delay <= 0 || delay >= len(buf) || opt.ReverbMix <= 0 {
		return
	}
	for ch := 0; ch < 2; ch++ {
		line := make([]float64, delay)
		for i := range buf {
			j := i % delay
			wet := line[j]
			line[j] = buf[i][ch] + wet*opt.ReverbFeedback
			buf[i][ch] += wet * opt.ReverbMix
		}
	}
}

// applyLimiter scales by the master volume, soft-knees above 0.8 and hard
// clips at full scale
func applyLimiter(buf [][2]float64, master float64) {
	limit := func(v float64) float64 {
		v *= master
		if v > 0.8 {
			v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
		} else if v < -0.8 {
			v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
		}
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		return v
	}
	for i := range buf {
		buf[i][0] = limit(buf[i][0])
		buf[i][1] = limit(buf[i][1])
	}
}

// bufferStreamer adapts a rendered sample buffer to the streamer interface
type bufferStreamer struct {
	buf [][2]float64
	pos int
}

func (b *bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	if b.pos >= len(b.buf) {
		return 0, false
	}
	n := copy(samples, b.buf[b.pos:])
	b.pos += n
	return n, true
}

func (b *bufferStreamer) Err() error { return nil }

// WriteFile renders the song and writes it as a 16-bit stereo WAV
func WriteFile(path string, song core.Song, opt Options) error {
	buf, err := Song(song, opt)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(opt.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(f, &bufferStreamer{buf: buf}, format); err != nil {
		f.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	return f.Close()
}
