// Package quote estimates project cost, financing and payback for the
// supported business niches.
package quote

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Niche is one of the fixed business verticals.
type Niche int

// Supported niches.
const (
	NicheUnknown Niche = iota
	NicheSolar
	NicheHVAC
	NicheRemodeling
)

// Niches lists every supported niche in display order.
var Niches = []Niche{NicheSolar, NicheHVAC, NicheRemodeling}

func (n Niche) String() string {
	switch n {
	case NicheSolar:
		return "solar"
	case NicheHVAC:
		return "hvac"
	case NicheRemodeling:
		return "remodeling"
	default:
		return "unknown"
	}
}

// Title returns the display name of the niche.
func (n Niche) Title() string {
	switch n {
	case NicheSolar:
		return "Solar"
	case NicheHVAC:
		return "HVAC"
	case NicheRemodeling:
		return "Remodeling"
	default:
		return "Unknown"
	}
}

// ParseNiche maps a user-supplied name onto a Niche.
func ParseNiche(value string) (Niche, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "solar":
		return NicheSolar, nil
	case "hvac":
		return NicheHVAC, nil
	case "remodeling", "remodel":
		return NicheRemodeling, nil
	default:
		return NicheUnknown, eris.Errorf("quote: unknown niche %q", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (n Niche) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Niche) UnmarshalText(text []byte) error {
	parsed, err := ParseNiche(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
