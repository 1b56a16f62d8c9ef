package planner

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// OnTheFlyGuard serializes computation of on-the-fly levels (§3, §9): at
// most one compute per (layer, level, col, row) fingerprint runs
// concurrently; a second concurrent request for the same tile waits on the
// first's result instead of recomputing and re-writing, per the Open
// Question decision to adopt a single-flight guard.
type OnTheFlyGuard struct {
	group singleflight.Group
}

// NewOnTheFlyGuard constructs an empty guard. One guard is shared by the
// whole worker pool, per §5's shared-resource policy.
func NewOnTheFlyGuard() *OnTheFlyGuard {
	return &OnTheFlyGuard{}
}

func fingerprint(layerID, levelID string, col, row int) string {
	return fmt.Sprintf("%s/%s/%d/%d", layerID, levelID, col, row)
}

// Compute runs fn at most once concurrently for the given (layer, level,
// col, row); concurrent callers for the same fingerprint block on the
// first caller's result.
func (g *OnTheFlyGuard) Compute(layer *catalog.Layer, level catalog.Level, col, row int, fn func() (lazyimg.Image, error)) (lazyimg.Image, error) {
	key := fingerprint(layer.ID, level.TM.ID, col, row)
	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return v.(lazyimg.Image), nil
}
