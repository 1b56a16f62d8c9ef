package planner

import (
	"context"

	"github.com/pspoerri/tileforge/internal/lazyimg"
	"github.com/pspoerri/tileforge/internal/reproject"
	"github.com/pspoerri/tileforge/internal/resampler"
	"github.com/pspoerri/tileforge/internal/store"
	"github.com/pspoerri/tileforge/internal/style"
)

// nativeDims computes the mosaic's own pixel grid: bbox measured in the
// level's native resolution, not the request's target width/height (those
// may differ once reprojection or resampling is involved).
func nativeDims(bboxW, bboxH, resolution float64) (w, h int) {
	w = int(bboxW/resolution + 0.5)
	h = int(bboxH/resolution + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// BackendOpener resolves a Level's Backend/Root into a pooled Storage
// Context. The backend wiring (filesystem vs. object store, credentials)
// lives in server configuration, not the Planner, so it is injected here.
type BackendOpener func(backend, root string) (key string, open func() (store.Context, error))

// Assemble drives a validated Plan through the fixed pipeline order of
// §4.10: reproject -> resample -> style (style last, so palette application
// sees the final-resolution pixel). The Mosaic/Extender stage runs first
// regardless of protocol: a WMTS/TMS request's bbox covers exactly one
// tile-matrix cell, a WMS request's may span many, and the Mosaic handles
// both by enumerating whatever cells the bbox intersects (§4.7).
func Assemble(ctx context.Context, pool *store.Pool, openBackend BackendOpener, plan *Plan, policy store.RetryPolicy) (lazyimg.Image, error) {
	key, open := openBackend(plan.Level.Backend, plan.Level.Root)

	nativeW, nativeH := nativeDims(plan.BBox.Width(), plan.BBox.Height(), plan.Level.TM.Resolution)
	src, err := buildMosaic(ctx, pool, open, key, plan.Layer, plan.Level, plan.BBox, nativeW, nativeH, policy)
	if err != nil {
		return nil, err
	}

	if !plan.SkipReproject {
		raster, err := reproject.Materialize(src)
		if err != nil {
			return nil, internalErr("materializing source for reprojection: %v", err)
		}
		src = reproject.New(raster, plan.Layer.Pyramid.TMS.CRS, plan.CRS, src.BBox(), plan.BBox, plan.Width, plan.Height, reproject.NearestSampler)
	}

	if src.Width() != plan.Width || src.Height() != plan.Height {
		kernel, ok := resampler.ByName(plan.Layer.Resampling)
		if !ok {
			kernel = resampler.Linear
		}
		src = resampler.New(src, kernel, plan.Width, plan.Height, plan.BBox)
	}

	styled, err := style.Apply(plan.Style, src)
	if err != nil {
		return nil, internalErr("applying style: %v", err)
	}
	return styled, nil
}
