package planner

import (
	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/tms"
)

// Plan is the Planner's output: everything the pipeline assembly and the
// Encoder need, already resolved against the Catalog. Building a Plan never
// touches the Storage Context; it is pure validation and lookup.
type Plan struct {
	Protocol Protocol
	Layer    *catalog.Layer
	Style    *catalog.StyleDef
	CRS      *geo.CRS
	Format   string

	Level   catalog.Level
	TM      tms.TileMatrix
	Col     int
	Row     int
	BBox    geo.BBox
	Width   int
	Height  int

	// SkipReproject is set when the requested CRS is equivalent to the
	// layer's pyramid CRS (§4.10 step 5).
	SkipReproject bool
	// Passthrough is set when the stored tile can be copied to the response
	// verbatim: same format, same dimensions, identity style, no resampling
	// or reprojection (§4.10 step 6, invariant 6 in §8).
	Passthrough bool
}

// Validate runs the six-step pipeline of §4.10 against p. Each failure
// returns the matching Kind from §7; the Planner stops at the first one.
func Validate(cat *catalog.Catalog, limits Limits, p *Params) (*Plan, error) {
	if err := p.checkForbiddenChars(); err != nil {
		return nil, err
	}

	layer, err := validateLayer(cat, p)
	if err != nil {
		return nil, err
	}

	style, err := validateStyle(layer, p)
	if err != nil {
		return nil, err
	}

	crs, err := validateCRS(layer, limits, p)
	if err != nil {
		return nil, err
	}

	if !limits.formatAllowed(p.Format) {
		return nil, unsupportedFormat(p.Format)
	}

	plan := &Plan{Protocol: p.Protocol, Layer: layer, Style: style, CRS: crs, Format: p.Format}

	switch p.Protocol {
	case ProtocolWMS:
		if err := validateWMSGeometry(plan, limits, p); err != nil {
			return nil, err
		}
		if err := resolveWMSLevel(plan, layer); err != nil {
			return nil, err
		}
	case ProtocolWMTS, ProtocolTMS:
		if err := resolveTileAddress(plan, layer, p); err != nil {
			return nil, err
		}
		resolvePassthrough(plan, layer)
	}

	return plan, nil
}

func validateLayer(cat *catalog.Catalog, p *Params) (*catalog.Layer, error) {
	if p.LayerID == "" {
		return nil, missingParameter("LAYER")
	}
	layer, ok := cat.Layers[p.LayerID]
	if !ok {
		return nil, unknownLayer(p.LayerID)
	}
	if !serviceEnabled(layer, p.Protocol) {
		return nil, unknownLayer(p.LayerID)
	}
	for _, q := range p.QueryLayers {
		ql, ok := cat.Layers[q]
		if !ok || ql.FeatureInfo == nil {
			return nil, unknownLayer(q)
		}
	}
	return layer, nil
}

func serviceEnabled(l *catalog.Layer, proto Protocol) bool {
	switch proto {
	case ProtocolWMS:
		return l.Services&catalog.ServiceWMS != 0
	case ProtocolWMTS:
		return l.Services&catalog.ServiceWMTS != 0
	case ProtocolTMS:
		return l.Services&catalog.ServiceTMS != 0
	default:
		return false
	}
}

func validateStyle(layer *catalog.Layer, p *Params) (*catalog.StyleDef, error) {
	if p.StyleID == "" {
		return layer.DefaultStyle(), nil
	}
	style, ok := layer.StyleByID(p.StyleID)
	if !ok {
		return nil, unknownStyle(layer.ID, p.StyleID)
	}
	return style, nil
}

func validateCRS(layer *catalog.Layer, limits Limits, p *Params) (*geo.CRS, error) {
	if p.CRSCode == "" {
		return layer.Pyramid.TMS.CRS, nil
	}
	crs := geo.Lookup(p.CRSCode)
	if crs == nil {
		return nil, unknownCRS(p.CRSCode)
	}
	if !layer.CRSAllowed(crs) {
		return nil, unknownCRS(p.CRSCode)
	}
	if !limits.crsAllowed(crs) {
		return nil, unknownCRS(p.CRSCode)
	}
	return crs, nil
}

func validateWMSGeometry(plan *Plan, limits Limits, p *Params) error {
	if p.Width <= 0 || p.Height <= 0 {
		return invalidParameter("WIDTH and HEIGHT must be positive")
	}
	if limits.MaxWidth > 0 && p.Width > limits.MaxWidth {
		return invalidParameter("WIDTH %d exceeds service maximum %d", p.Width, limits.MaxWidth)
	}
	if limits.MaxHeight > 0 && p.Height > limits.MaxHeight {
		return invalidParameter("HEIGHT %d exceeds service maximum %d", p.Height, limits.MaxHeight)
	}
	if !p.BBoxSet || p.BBox.MaxX <= p.BBox.MinX || p.BBox.MaxY <= p.BBox.MinY {
		return invalidParameter("BBOX is malformed")
	}
	plan.Width, plan.Height, plan.BBox = p.Width, p.Height, p.BBox
	return nil
}

// resolveWMSLevel implements §4.10 step 5: compute the target resolution
// from bbox/(width,height) and select the pyramid level, skipping the
// Reprojector when the requested CRS is (or is equivalent to) the pyramid's.
func resolveWMSLevel(plan *Plan, layer *catalog.Layer) error {
	resX := plan.BBox.Width() / float64(plan.Width)
	resY := plan.BBox.Height() / float64(plan.Height)
	target := resX
	if resY < target {
		target = resY
	}

	level, err := layer.Pyramid.BestLevel(target, false)
	if err != nil {
		return internalErr("selecting level: %v", err)
	}
	plan.Level = level
	plan.TM = level.TM
	plan.SkipReproject = geo.Equivalent(plan.CRS, layer.Pyramid.TMS.CRS)
	return nil
}

// resolveTileAddress implements §4.10 step 4 for WMTS/TMS: the tileMatrix
// must be present in the pyramid's TMS and (col,row) must fall within the
// level's tile window.
func resolveTileAddress(plan *Plan, layer *catalog.Layer, p *Params) error {
	if !p.TileSet || p.TileMatrix == "" {
		return missingParameter("TILEMATRIX")
	}
	tm, ok := layer.Pyramid.TMS.ByID(p.TileMatrix)
	if !ok {
		return invalidParameter("TILEMATRIX %q not in pyramid's TileMatrixSet", p.TileMatrix)
	}
	var level catalog.Level
	found := false
	for _, lvl := range layer.Pyramid.Levels {
		if lvl.TM.ID == tm.ID {
			level, found = lvl, true
			break
		}
	}
	if !found {
		return invalidParameter("TILEMATRIX %q has no level in this pyramid", p.TileMatrix)
	}
	if !level.Window.Contains(p.Col, p.Row) {
		return invalidParameter("TILECOL/TILEROW (%d,%d) out of range", p.Col, p.Row)
	}

	box, err := tm.TileBBox(p.Col, p.Row, layer.Pyramid.TMS.CRS)
	if err != nil {
		return internalErr("computing tile bbox: %v", err)
	}

	plan.Level = level
	plan.TM = tm
	plan.Col, plan.Row = p.Col, p.Row
	plan.BBox = box
	plan.Width, plan.Height = tm.TileW, tm.TileH
	plan.SkipReproject = geo.Equivalent(plan.CRS, layer.Pyramid.TMS.CRS)
	return nil
}

// resolvePassthrough implements §4.10 step 6: a byte-identical copy of the
// stored tile is possible exactly when format, dimensions, style and CRS
// all already match what's on disk.
func resolvePassthrough(plan *Plan, layer *catalog.Layer) {
	plan.Passthrough = plan.Style.IsIdentity() &&
		plan.SkipReproject &&
		nativeMIME(plan.Level.Codec) == plan.Format
}

func nativeMIME(codec catalog.Codec) string {
	switch codec {
	case catalog.CodecPNG:
		return "image/png"
	case catalog.CodecJPEG:
		return "image/jpeg"
	case catalog.CodecWebP:
		return "image/webp"
	default:
		return ""
	}
}
