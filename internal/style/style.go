// Package style implements the Style Processor (§4.8): a chain of per-pixel
// lazy image wrappers (palette, hillshade, slope, aspect) applied in the
// order declared by a catalog.StyleDef, plus legend swatch rendering.
package style

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Apply wraps src with every transform in def's pipeline, in order, per
// §4.8: "a style is an ordered list of these transforms applied as a lazy
// image wrapper." An identity style (no transforms) returns src unchanged.
func Apply(def *catalog.StyleDef, src lazyimg.Image) (lazyimg.Image, error) {
	if def.IsIdentity() {
		return src, nil
	}
	cur := src
	for _, t := range def.Transforms {
		switch {
		case t.Palette != nil:
			cur = NewPalette(cur, t.Palette, cur.NoData())
		case t.Hillshade != nil:
			cur = NewHillshade(cur, t.Hillshade, t.Hillshade.Kernel)
		case t.Slope != nil:
			cur = NewSlope(cur, t.Slope)
		case t.Aspect != nil:
			cur = NewAspect(cur, t.Aspect)
		default:
			return nil, fmt.Errorf("style: transform has no variant set")
		}
	}
	if cur.Channels() != def.OutputChannels {
		return nil, fmt.Errorf("style %q: pipeline produced %d channels, declared %d", def.ID, cur.Channels(), def.OutputChannels)
	}
	return cur, nil
}

// RenderLegendSwatch draws a vertical color ramp swatch for a palette
// transform, used by the (out-of-scope) Capabilities document to point at a
// generated legend image. Grounded on the <LegendURL> metadata carried by
// rok4server/Style.h; rendering itself uses gg since the pack carries no
// dedicated legend-drawing library.
func RenderLegendSwatch(p *catalog.PaletteTransform, width, height int) ([]byte, error) {
	dc := gg.NewContext(width, height)
	stops := p.Stops
	if len(stops) == 0 {
		return nil, fmt.Errorf("style: palette has no stops")
	}
	lo, hi := stops[0].Key, stops[len(stops)-1].Key
	span := hi - lo
	for y := 0; y < height; y++ {
		t := 1 - float64(y)/float64(height-1)
		value := lo + t*span
		var v float64
		if span > 0 {
			v = value
		}
		r, g, b := sampleStopsRGB(stops, v, p.ContinuousRGB)
		dc.SetRGB255(int(r), int(g), int(b))
		dc.DrawRectangle(0, float64(y), float64(width), 1)
		dc.Fill()
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("style: encoding legend swatch: %w", err)
	}
	return buf.Bytes(), nil
}

func sampleStopsRGB(stops []catalog.PaletteStop, value float64, continuous bool) (r, g, b uint8) {
	lo, hi, frac := lookup(stops, value)
	if continuous {
		return lerp(lo.R, hi.R, frac), lerp(lo.G, hi.G, frac), lerp(lo.B, hi.B, frac)
	}
	return lo.R, lo.G, lo.B
}
