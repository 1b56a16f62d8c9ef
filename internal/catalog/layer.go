package catalog

import (
	"fmt"

	"github.com/pspoerri/tileforge/internal/geo"
)

// FeatureInfoBinding names the external WMS GetFeatureInfo proxy a Layer
// forwards to. Out of scope beyond carrying the field (§1).
type FeatureInfoBinding struct {
	Endpoint string
}

// Service enumerates the three client protocols a Layer can be enabled for.
type Service int

const (
	ServiceWMS Service = 1 << iota
	ServiceWMTS
	ServiceTMS
)

// Layer is a named, queryable publication, per §3.
type Layer struct {
	ID          string
	Title       string
	Abstract    string
	Keywords    []string
	Pyramid     *Pyramid
	Styles      []*StyleDef // first is default
	AllowedCRS  []*geo.CRS  // allow list for WMS
	GeoBBox     geo.BBox    // geographic bbox (EPSG:4326)
	NativeBBox  geo.BBox    // bbox in the pyramid's native CRS
	Services    Service
	Resampling  string // kernel name (resampler.ByName) for the resample stage, which runs only without reprojection; reprojection always samples nearest-neighbour
	FeatureInfo *FeatureInfoBinding
}

// HasOnDemandLevel reports whether any level of the layer's pyramid is
// on-demand. Per §3, such a layer must have WMS disabled because
// partial-failure semantics differ.
func (l *Layer) HasOnDemandLevel() bool {
	if l.Pyramid == nil {
		return false
	}
	for _, lvl := range l.Pyramid.Levels {
		if lvl.Mode == OnDemand {
			return true
		}
	}
	return false
}

// Validate enforces the cross-field invariant from §3.
func (l *Layer) Validate() error {
	if l.HasOnDemandLevel() && l.Services&ServiceWMS != 0 {
		return fmt.Errorf("catalog: layer %q has an on-demand level and cannot enable WMS", l.ID)
	}
	return nil
}

// DefaultStyle returns the layer's default style (the first in its list),
// or nil if the layer has no styles (implying the identity style).
func (l *Layer) DefaultStyle() *StyleDef {
	if len(l.Styles) == 0 {
		return nil
	}
	return l.Styles[0]
}

// StyleByID looks up an allowed style by identifier.
func (l *Layer) StyleByID(id string) (*StyleDef, bool) {
	for _, s := range l.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// CRSAllowed reports whether crs (or an equivalent CRS) is on the layer's
// allow list, per §4.10 step 3.
func (l *Layer) CRSAllowed(crs *geo.CRS) bool {
	for _, allowed := range l.AllowedCRS {
		if geo.Equivalent(allowed, crs) {
			return true
		}
	}
	return false
}
