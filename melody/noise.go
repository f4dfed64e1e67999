package melody

import (
	"math"

	"github.com/lixenwraith/procsynth/rng"
)

const noiseLatticeSize = 256

// Noise is a 1-D value-noise field: random lattice values with smoothstep
// interpolation between them. Sampling at slowly increasing positions gives
// a smooth contour, which the noise selector quantizes to degree steps.
type Noise struct {
	lattice [noiseLatticeSize]float64
}

// NewNoise fills the lattice from the given stream; the field is fixed and
// deterministic afterwards
func NewNoise(s *rng.Stream) *Noise {
	n := &Noise{}
	for i := range n.lattice {
		n.lattice[i] = s.Float64()*2 - 1
	}
	return n
}

// At samples the field at position x, returning a value in [-1, 1]
func (n *Noise) At(x float64) float64 {
	xi := math.Floor(x)
	frac := x - xi

	i0 := int(xi) & (noiseLatticeSize - 1)
	i1 := (i0 + 1) & (noiseLatticeSize - 1)

	// Smoothstep interpolation
	t := frac * frac * (3 - 2*frac)
	return n.lattice[i0]*(1-t) + n.lattice[i1]*t
}
