package style

import (
	"sort"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Palette is the lazy image produced by a palette mapping: a single-channel
// input value is looked up against a sorted stop table and turned into RGB,
// or RGBA, per §4.8. Grounded on the value/colour lookup table described in
// rok4server/Style.h's <palette> example and lib/libimage/Palette, adapted
// from the C++ class's std::map<double,Colour> to an explicit sorted slice
// with binary search.
type Palette struct {
	guard lazyimg.LineGuard

	src    lazyimg.Image
	def    *catalog.PaletteTransform
	nodata []float64
	outCh  int
}

var _ lazyimg.Image = (*Palette)(nil)

// NewPalette wraps src (one channel) with a PaletteTransform. Stops must
// already be sorted ascending by Key (the Layer/Style loader's job).
func NewPalette(src lazyimg.Image, def *catalog.PaletteTransform, nodata []float64) *Palette {
	outCh := 4
	if def.NoAlpha {
		outCh = 3
	}
	return &Palette{src: src, def: def, nodata: nodata, outCh: outCh}
}

func (p *Palette) Width() int                         { return p.src.Width() }
func (p *Palette) Height() int                         { return p.src.Height() }
func (p *Palette) Channels() int                       { return p.outCh }
func (p *Palette) SampleFormat() lazyimg.SampleFormat { return lazyimg.UInt8 }
func (p *Palette) BBox() geo.BBox                      { return p.src.BBox() }
func (p *Palette) NoData() []float64                   { return p.nodata }

// lookup finds the bracketing stops for value. lo is the last stop with
// Key <= value (or stops[0] if value is below every stop); hi is the first
// stop with Key > value (or the last stop if value is at or above every
// stop).
func lookup(stops []catalog.PaletteStop, value float64) (lo, hi catalog.PaletteStop, frac float64) {
	n := len(stops)
	idx := sort.Search(n, func(i int) bool { return stops[i].Key > value })
	switch {
	case idx == 0:
		return stops[0], stops[0], 0
	case idx == n:
		return stops[n-1], stops[n-1], 0
	default:
		lo, hi = stops[idx-1], stops[idx]
		span := hi.Key - lo.Key
		if span <= 0 {
			return lo, hi, 0
		}
		return lo, hi, (value - lo.Key) / span
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// sample maps one input value to RGBA, honoring the continuous/discrete
// flags independently for RGB and alpha.
func (p *Palette) sample(value float64) (r, g, b, a uint8) {
	lo, hi, frac := lookup(p.def.Stops, value)
	if p.def.ContinuousRGB {
		r = lerp(lo.R, hi.R, frac)
		g = lerp(lo.G, hi.G, frac)
		b = lerp(lo.B, hi.B, frac)
	} else {
		r, g, b = lo.R, lo.G, lo.B
	}
	if p.def.ContinuousAlpha {
		a = lerp(lo.A, hi.A, frac)
	} else {
		a = lo.A
	}
	return
}

func (p *Palette) FillLine(i int, buf []float64) error {
	if err := p.guard.Check(i); err != nil {
		return err
	}
	srcRow := make([]float64, p.src.Width()*p.src.Channels())
	if err := p.src.FillLine(i, srcRow); err != nil {
		return err
	}
	srcCh := p.src.Channels()
	srcNoData := p.src.NoData()
	for x := 0; x < p.Width(); x++ {
		v := srcRow[x*srcCh]
		if isNoDataValue(v, srcNoData) {
			for c := 0; c < p.outCh; c++ {
				buf[x*p.outCh+c] = nodataAt(p.nodata, c)
			}
			continue
		}
		r, g, b, a := p.sample(v)
		buf[x*p.outCh+0] = float64(r)
		buf[x*p.outCh+1] = float64(g)
		buf[x*p.outCh+2] = float64(b)
		if p.outCh == 4 {
			buf[x*p.outCh+3] = float64(a)
		}
	}
	return nil
}

func isNoDataValue(v float64, nodata []float64) bool {
	return len(nodata) > 0 && v == nodata[0]
}

func nodataAt(nodata []float64, ch int) float64 {
	if ch < len(nodata) {
		return nodata[ch]
	}
	return 0
}
