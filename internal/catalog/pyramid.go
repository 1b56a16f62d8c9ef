package catalog

import (
	"fmt"
	"sort"

	"github.com/pspoerri/tileforge/internal/lazyimg"
	"github.com/pspoerri/tileforge/internal/tms"
)

// Pyramid is an ordered map of levels over one TileMatrixSet, uniform in
// format, per §3.
type Pyramid struct {
	ID            string
	TMS           *tms.TileMatrixSet
	Levels        []Level // sorted by descending resolution
	Channels      int
	SampleFormat  lazyimg.SampleFormat
	BitDepth      int
	Photometric   string // "gray" | "rgb" | "palette"
	Compression   Codec
}

// NewPyramid validates and constructs a Pyramid. Per the invariant in §3,
// every level's TileMatrix must belong to the Pyramid's TileMatrixSet and
// every level must share the pyramid's channel count (invariant 1 in §8).
func NewPyramid(id string, set *tms.TileMatrixSet, levels []Level, channels int, format lazyimg.SampleFormat, bitDepth int, photometric string) (*Pyramid, error) {
	if set == nil {
		return nil, fmt.Errorf("catalog: pyramid %q has no TileMatrixSet", id)
	}
	for _, lvl := range levels {
		if !set.Contains(lvl.TM) {
			return nil, fmt.Errorf("catalog: pyramid %q: level %q's TileMatrix does not belong to set %q", id, lvl.TM.ID, set.ID)
		}
		if lvl.Channels != channels {
			return nil, fmt.Errorf("catalog: pyramid %q: level %q has %d channels, pyramid declares %d", id, lvl.TM.ID, lvl.Channels, channels)
		}
	}

	sorted := make([]Level, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TM.Resolution > sorted[j].TM.Resolution
	})

	return &Pyramid{
		ID:           id,
		TMS:          set,
		Levels:       sorted,
		Channels:     channels,
		SampleFormat: format,
		BitDepth:     bitDepth,
		Photometric:  photometric,
	}, nil
}

// BestLevel implements the selection rule of §4.4: iterate levels in
// descending resolution; choose the one whose resolution is the largest
// value not exceeding the requested resolution. If no level is at least as
// fine as requested, the finest level is used. On-demand levels are skipped
// unless includeOnDemand is set (the on-the-fly-tile-build path).
func (p *Pyramid) BestLevel(requestedResolution float64, includeOnDemand bool) (Level, error) {
	var candidates []Level
	for _, lvl := range p.Levels {
		if lvl.Mode == OnDemand && !includeOnDemand {
			continue
		}
		candidates = append(candidates, lvl)
	}
	if len(candidates) == 0 {
		return Level{}, fmt.Errorf("catalog: pyramid %q has no eligible levels", p.ID)
	}

	// candidates is already in descending-resolution order (coarsest-pixel
	// first... no: descending *resolution value* means largest CRS-units-
	// per-pixel, i.e. coarsest, first). Walk looking for the first level
	// whose resolution does not exceed the request.
	var best *Level
	for i := range candidates {
		if candidates[i].TM.Resolution <= requestedResolution {
			best = &candidates[i]
			break
		}
	}
	if best == nil {
		// No level is fine enough; the finest (last, smallest resolution
		// value) level is used per §4.4.
		best = &candidates[len(candidates)-1]
	}
	return *best, nil
}
