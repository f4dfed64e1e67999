package render

import (
	"math"

	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/rng"
)

// drumKit holds pre-rendered percussion buffers keyed by GM note number.
// Noise comes from a seeded stream, so the same kit always renders the
// same samples.
type drumKit struct {
	sounds map[int][]float64
}

func newDrumKit(s *rng.Stream, rate int) *drumKit {
	return &drumKit{sounds: map[int][]float64{
		parameter.PercKick:      renderKick(rate),
		parameter.PercSnare:     renderSnare(s.Derive("snare"), rate),
		parameter.PercClap:      renderClap(s.Derive("clap"), rate),
		parameter.PercClosedHat: renderHat(s.Derive("closed-hat"), rate, 0.06),
		parameter.PercOpenHat:   renderHat(s.Derive("open-hat"), rate, 0.25),
	}}
}

// get returns the buffer for a percussion note; unknown notes fall back to
// the closed hat so unexpected events still make a sound
func (k *drumKit) get(note int) []float64 {
	if buf, ok := k.sounds[note]; ok {
		return buf
	}
	return k.sounds[parameter.PercClosedHat]
}

// renderKick is a sine with an exponential pitch drop from 150Hz to 40Hz,
// saturated for punch
func renderKick(rate int) []float64 {
	frames := int(float64(rate) * 0.25)
	buf := make([]float64, frames)

	const startFreq, endFreq = 150.0, 40.0
	phase := 0.0
	for i := range buf {
		t := float64(i) / float64(frames)
		freq := endFreq + (startFreq-endFreq)*math.Exp(-8*t)
		amp := math.Exp(-5 * t)
		buf[i] = math.Tanh(math.Sin(2*math.Pi*phase) * amp * 2.0)
		phase += freq / float64(rate)
	}
	return buf
}

// renderSnare mixes a 200Hz tone body with noise wires, both decaying fast
func renderSnare(s *rng.Stream, rate int) []float64 {
	frames := int(float64(rate) * 0.18)
	buf := make([]float64, frames)

	phase := 0.0
	for i := range buf {
		t := float64(i) / float64(frames)
		tone := math.Sin(2*math.Pi*phase) * math.Exp(-10*t) * 0.5
		noise := (s.Float64()*2 - 1) * math.Exp(-8*t) * 0.5
		buf[i] = tone + noise
		phase += 200.0 / float64(rate)
	}
	return buf
}

// renderHat is high-passed noise with a sharp decay; decay selects closed
// versus open
func renderHat(s *rng.Stream, rate int, decay float64) []float64 {
	frames := int(float64(rate) * decay)
	buf := make([]float64, frames)

	// One-pole high-pass: difference of successive noise samples keeps the
	// sizzle and drops the rumble
	prev := 0.0
	for i := range buf {
		t := float64(i) / float64(frames)
		noise := s.Float64()*2 - 1
		buf[i] = (noise - prev) * 0.5 * math.Exp(-12*t)
		prev = noise
	}
	return buf
}

// renderClap is a cluster of short noise bursts with a decaying tail
func renderClap(s *rng.Stream, rate int) []float64 {
	frames := int(float64(rate) * 0.2)
	buf := make([]float64, frames)

	burstLen := rate / 100
	burstGap := rate / 200
	pos := 0
	for b := 0; b < 4 && pos < frames; b++ {
		burstAmp := 1.0 - float64(b)*0.15
		for i := 0; i < burstLen && pos < frames; i++ {
			t := float64(i) / float64(burstLen)
			buf[pos] = (s.Float64()*2 - 1) * math.Exp(-5*t) * burstAmp
			pos++
		}
		pos += burstGap
	}

	for i := pos; i < frames; i++ {
		t := float64(i-pos) / float64(frames-pos)
		buf[i] = (s.Float64()*2 - 1) * math.Exp(-8*t) * 0.3
	}
	return buf
}
