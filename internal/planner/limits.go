package planner

import "github.com/pspoerri/tileforge/internal/geo"

// Limits is the server-wide configuration the Planner validates against,
// loaded once at startup (and atomically swapped on reload, per §5)
// alongside the Catalog.
type Limits struct {
	MaxWidth, MaxHeight int
	Formats             []string // global FORMAT allow list
	CRS                 []*geo.CRS // global CRS allow list; nil means unrestricted
}

func (l Limits) formatAllowed(mime string) bool {
	for _, f := range l.Formats {
		if f == mime {
			return true
		}
	}
	return len(l.Formats) == 0
}

func (l Limits) crsAllowed(crs *geo.CRS) bool {
	if len(l.CRS) == 0 {
		return true
	}
	for _, c := range l.CRS {
		if geo.Equivalent(c, crs) {
			return true
		}
	}
	return false
}

// NegotiateWMSVersion implements §6's WMS version negotiation: no VERSION
// yields 1.3.0; a requested version higher than supported yields 1.3.0;
// lower yields 1.1.1; an unknown value at or below supported yields 1.1.1.
func NegotiateWMSVersion(requested string) string {
	const latest = "1.3.0"
	if requested == "" {
		return latest
	}
	if requested == latest {
		return latest
	}
	if requested > latest {
		return latest
	}
	return "1.1.1"
}
