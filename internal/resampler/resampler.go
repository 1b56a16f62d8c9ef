// Package resampler implements the Resampler component (§4.6): presenting a
// source lazy image at a different pixel size with a separable kernel,
// maintaining a sliding window of source lines under monotonic output-line
// access.
package resampler

import (
	"fmt"

	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Resampled is the lazy image variant produced by the Resampler.
type Resampled struct {
	guard lazyimg.LineGuard

	src    lazyimg.Image
	kernel Kernel
	outW, outH int
	box    geo.BBox
	nodata []float64

	scaleX, scaleY float64 // source pixels per output pixel

	nextSrcLine int
	srcRows     map[int][]float64 // absolute source row -> raw channel-interleaved row
	hcache      map[int][]float64 // absolute source row -> horizontally-resampled row (outW*channels)
}

var _ lazyimg.Image = (*Resampled)(nil)

// New builds a Resampled image of src at outW×outH using kernel, per §4.6.
func New(src lazyimg.Image, kernel Kernel, outW, outH int, box geo.BBox) *Resampled {
	return &Resampled{
		src: src, kernel: kernel, outW: outW, outH: outH, box: box, nodata: src.NoData(),
		scaleX:  float64(src.Width()) / float64(outW),
		scaleY:  float64(src.Height()) / float64(outH),
		srcRows: map[int][]float64{},
		hcache:  map[int][]float64{},
	}
}

func (r *Resampled) Width() int                    { return r.outW }
func (r *Resampled) Height() int                   { return r.outH }
func (r *Resampled) Channels() int                 { return r.src.Channels() }
func (r *Resampled) SampleFormat() lazyimg.SampleFormat { return r.src.SampleFormat() }
func (r *Resampled) BBox() geo.BBox                { return r.box }
func (r *Resampled) NoData() []float64             { return r.nodata }

// rowWindow returns the inclusive [lo, hi] source row range the kernel touches
// for an output row centered at outRow, clamped to the source height. This
// is "the sliding window of source lines of exactly kernel_support size"
// the Resampler must maintain per §4.6.
func (r *Resampled) rowWindow(outRow int) (lo, hi int) {
	center := (float64(outRow) + 0.5) * r.scaleY
	support := r.kernel.Support * max(r.scaleY, 1)
	lo = int(center - support)
	hi = int(center + support)
	if lo < 0 {
		lo = 0
	}
	if hi >= r.src.Height() {
		hi = r.src.Height() - 1
	}
	return lo, hi
}

func (r *Resampled) colWindow(outCol int) (lo, hi int) {
	center := (float64(outCol) + 0.5) * r.scaleX
	support := r.kernel.Support * max(r.scaleX, 1)
	lo = int(center - support)
	hi = int(center + support)
	if lo < 0 {
		lo = 0
	}
	if hi >= r.src.Width() {
		hi = r.src.Width() - 1
	}
	return lo, hi
}

// ensureSrcRow advances the underlying source up to and including row y,
// honoring its ascending-only access contract, and caches rows in the
// sliding window.
func (r *Resampled) ensureSrcRow(y int) error {
	ch := r.src.Channels()
	for r.nextSrcLine <= y {
		buf := make([]float64, r.src.Width()*ch)
		if err := r.src.FillLine(r.nextSrcLine, buf); err != nil {
			return fmt.Errorf("resampler: reading source line %d: %w", r.nextSrcLine, err)
		}
		r.srcRows[r.nextSrcLine] = buf
		r.nextSrcLine++
	}
	return nil
}

// evict drops cached rows below lo: the sliding window never needs them
// again since output rows are requested in ascending order.
func (r *Resampled) evict(lo int) {
	for row := range r.srcRows {
		if row < lo {
			delete(r.srcRows, row)
			delete(r.hcache, row)
		}
	}
}

func (r *Resampled) horizontalResample(row int) []float64 {
	if cached, ok := r.hcache[row]; ok {
		return cached
	}
	ch := r.src.Channels()
	srcRow := r.srcRows[row]
	out := make([]float64, r.outW*ch)

	for x := 0; x < r.outW; x++ {
		lo, hi := r.colWindow(x)
		center := (float64(x) + 0.5) * r.scaleX
		weights := make([]float64, hi-lo+1)
		sumW := 0.0
		for c, sx := lo, 0; c <= hi; c, sx = c+1, sx+1 {
			d := (float64(c) + 0.5 - center) / max(r.scaleX, 1)
			w := r.kernel.Weight(d)
			if isNoDataRow(srcRow, c, ch, r.nodata) {
				w = 0
			}
			weights[sx] = w
			sumW += w
		}
		for ch0 := 0; ch0 < ch; ch0++ {
			if sumW == 0 {
				out[x*ch+ch0] = nodataOr(r.nodata, ch0)
				continue
			}
			acc := 0.0
			for c, sx := lo, 0; c <= hi; c, sx = c+1, sx+1 {
				acc += weights[sx] * srcRow[c*ch+ch0]
			}
			out[x*ch+ch0] = acc / sumW
		}
	}
	r.hcache[row] = out
	return out
}

func isNoDataRow(row []float64, col, channels int, nodata []float64) bool {
	if nodata == nil {
		return false
	}
	off := col * channels
	for c := 0; c < channels && c < len(nodata); c++ {
		if row[off+c] != nodata[c] {
			return false
		}
	}
	return true
}

func nodataOr(nodata []float64, ch int) float64 {
	if ch < len(nodata) {
		return nodata[ch]
	}
	return 0
}

// FillLine implements §4.6: the kernel is applied separably in x then y;
// out-of-range/nodata contributions get zero weight and the result is
// renormalized by the sum of in-range weights, or set to nodata if that
// sum is zero.
func (r *Resampled) FillLine(i int, buf []float64) error {
	if err := r.guard.Check(i); err != nil {
		return err
	}
	ch := r.src.Channels()
	lo, hi := r.rowWindow(i)
	if err := r.ensureSrcRow(hi); err != nil {
		return err
	}
	r.evict(lo)

	if r.kernel.Name == "nearest" {
		center := (float64(i) + 0.5) * r.scaleY
		row := r.horizontalResampleNearest(int(center))
		copy(buf, row)
		return nil
	}

	center := (float64(i) + 0.5) * r.scaleY
	weights := make([]float64, hi-lo+1)
	for y, sy := lo, 0; y <= hi; y, sy = y+1, sy+1 {
		d := (float64(y) + 0.5 - center) / max(r.scaleY, 1)
		weights[sy] = r.kernel.Weight(d)
	}

	hrows := make([][]float64, hi-lo+1)
	for y, sy := lo, 0; y <= hi; y, sy = y+1, sy+1 {
		hrows[sy] = r.horizontalResample(y)
	}

	for x := 0; x < r.outW; x++ {
		sumW := 0.0
		for sy := range hrows {
			if !isNoDataRow(hrows[sy], x, ch, r.nodata) {
				sumW += weights[sy]
			}
		}
		for c := 0; c < ch; c++ {
			if sumW == 0 {
				buf[x*ch+c] = nodataOr(r.nodata, c)
				continue
			}
			acc := 0.0
			for sy := range hrows {
				if !isNoDataRow(hrows[sy], x, ch, r.nodata) {
					acc += weights[sy] * hrows[sy][x*ch+c]
				}
			}
			buf[x*ch+c] = acc / sumW
		}
	}
	return nil
}

func (r *Resampled) horizontalResampleNearest(srcRow int) []float64 {
	if srcRow >= r.src.Height() {
		srcRow = r.src.Height() - 1
	}
	row := r.srcRows[srcRow]
	ch := r.src.Channels()
	out := make([]float64, r.outW*ch)
	for x := 0; x < r.outW; x++ {
		sc := int((float64(x) + 0.5) * r.scaleX)
		if sc >= r.src.Width() {
			sc = r.src.Width() - 1
		}
		copy(out[x*ch:x*ch+ch], row[sc*ch:sc*ch+ch])
	}
	return out
}
