package core

// LoopMode governs what happens when a track finishes playing.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopAll
	LoopOne
)

// Cycle advances to the next mode: off → all → one → off.
func (m LoopMode) Cycle() LoopMode {
	switch m {
	case LoopOff:
		return LoopAll
	case LoopAll:
		return LoopOne
	default:
		return LoopOff
	}
}

func (m LoopMode) String() string {
	switch m {
	case LoopAll:
		return "all"
	case LoopOne:
		return "one"
	default:
		return "off"
	}
}

// ParseLoopMode converts a config string to a LoopMode.
// Unrecognized values map to LoopOff.
func ParseLoopMode(s string) LoopMode {
	switch s {
	case "all":
		return LoopAll
	case "one":
		return LoopOne
	default:
		return LoopOff
	}
}
