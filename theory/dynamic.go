package theory

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/procsynth/core"
)

// Dynamic is a named loudness marking mapped to MIDI velocity
type Dynamic int

const (
	Pianissimo Dynamic = iota
	Piano
	MezzoPiano
	MezzoForte
	Forte
	Fortissimo
)

var dynamicVelocity = [...]int{16, 32, 48, 64, 80, 112}

// Velocity returns the MIDI velocity for the marking
func (d Dynamic) Velocity() int {
	if int(d) < len(dynamicVelocity) {
		return dynamicVelocity[d]
	}
	return dynamicVelocity[MezzoForte]
}

func (d Dynamic) String() string {
	names := [...]string{"pp", "p", "mp", "mf", "f", "ff"}
	if int(d) < len(names) {
		return names[d]
	}
	return "mf"
}

// ParseDynamic maps a marking name to a Dynamic
func ParseDynamic(s string) (Dynamic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pp", "pianissimo":
		return Pianissimo, nil
	case "p", "piano":
		return Piano, nil
	case "mp", "mezzopiano", "mezzo-piano":
		return MezzoPiano, nil
	case "mf", "mezzoforte", "mezzo-forte":
		return MezzoForte, nil
	case "f", "forte":
		return Forte, nil
	case "ff", "fortissimo":
		return Fortissimo, nil
	default:
		return 0, fmt.Errorf("%w: unknown dynamic %q", core.ErrConfiguration, s)
	}
}
