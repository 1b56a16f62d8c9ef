// Package geo implements the CRS and bounding-box data-model types: coordinate
// reference systems, their equivalence table, and axis-aware bounding boxes.
package geo

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"
)

// Projection converts between a CRS's native coordinates and WGS84 lon/lat.
// Grounded on the reference tool's coord.Projection interface, generalized
// from a fixed two-CRS set to an open registry.
type Projection interface {
	ToWGS84(x, y float64) (lon, lat float64)
	FromWGS84(lon, lat float64) (x, y float64)
}

// CRS is a coordinate reference system as described in the data model: an
// authority code, a Proj.4-style definition, axis order, unit scale, and a
// geographic validity envelope.
type CRS struct {
	Code          string // e.g. "EPSG:3857", "CRS:84"
	Proj4         string
	LonLatOrder   bool // true for an EPSG lon/lat CRS whose axes are lat/lon on the wire under WMS 1.3.0 (false for CRS:84)
	MetersPerUnit float64
	Validity      Bound // validity envelope, expressed in this CRS's own coordinates
	proj          Projection
}

// Bound is an axis-aligned rectangle without an owning CRS; BBox adds that.
type Bound struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bound) orb() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

func (b Bound) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*CRS{}
	equivMu    sync.RWMutex
	equivTable [][]string // each inner slice is a line of the equivalence table
)

func init() {
	registerBuiltins()
}

// Register installs or replaces a CRS definition in the process-wide registry.
func Register(c *CRS) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Code] = c
}

// Lookup returns the CRS registered under code, or nil.
func Lookup(code string) *CRS {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[code]
}

// SetEquivalenceTable installs the startup equivalence table: each inner
// slice names CRS codes considered interchangeable for reprojection purposes.
func SetEquivalenceTable(lines [][]string) {
	equivMu.Lock()
	defer equivMu.Unlock()
	equivTable = lines
}

// Equivalent reports whether a and b share a line of the equivalence table.
// A CRS is always equivalent to itself.
func Equivalent(a, b *CRS) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Code == b.Code {
		return true
	}
	equivMu.RLock()
	defer equivMu.RUnlock()
	for _, line := range equivTable {
		hasA, hasB := false, false
		for _, code := range line {
			if code == a.Code {
				hasA = true
			}
			if code == b.Code {
				hasB = true
			}
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

// ToWGS84 projects a native-coordinate point to WGS84 lon/lat.
func (c *CRS) ToWGS84(x, y float64) (lon, lat float64, err error) {
	if c.proj == nil {
		return 0, 0, fmt.Errorf("geo: no projection registered for %s", c.Code)
	}
	lon, lat = c.proj.ToWGS84(x, y)
	return lon, lat, nil
}

// FromWGS84 projects a WGS84 lon/lat point into this CRS's native coordinates.
func (c *CRS) FromWGS84(lon, lat float64) (x, y float64, err error) {
	if c.proj == nil {
		return 0, 0, fmt.Errorf("geo: no projection registered for %s", c.Code)
	}
	x, y = c.proj.FromWGS84(lon, lat)
	return x, y, nil
}
