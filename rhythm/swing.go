package rhythm

import (
	"math"

	"github.com/lixenwraith/procsynth/parameter"
	"github.com/lixenwraith/procsynth/rng"
)

// ApplySwing replaces eligible adjacent duration pairs with a long-short
// 2:1 pair. A pair is eligible when both slots are non-rest, carry the same
// sub-beat duration, and start on a beat boundary, so the swung pair spans
// the same window it replaced. The transform conserves the sequence total
// exactly; only the internal split moves.
func ApplySwing(s *rng.Stream, slots []Slot, amount float64) []Slot {
	if amount <= 0 || len(slots) < 2 {
		return slots
	}
	if amount > 1 {
		amount = 1
	}

	out := make([]Slot, len(slots))
	copy(out, slots)

	pos := 0.0
	for i := 0; i+1 < len(out); i++ {
		a, b := out[i], out[i+1]
		onBeat := math.Abs(pos-math.Round(pos)) < eps

		if onBeat && !a.Rest && !b.Rest && a.Beats == b.Beats && a.Beats < 1.0 {
			if s.Float64() < amount {
				window := a.Beats + b.Beats
				long := window * parameter.DefaultSwingRatio
				out[i].Beats = long
				out[i+1].Beats = window - long
				pos += window
				i++ // Skip the short half of the swung pair
				continue
			}
		}
		pos += a.Beats
	}
	return out
}
