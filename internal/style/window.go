package style

import (
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// window3 maintains a 3-row cache (previous, current, next) of a
// single-channel source image under ascending-only access, with reflected
// (edge-replicated) boundary conditions at the top and bottom rows, as
// required by the Hillshade/Slope/Aspect transforms (§4.8).
type window3 struct {
	src         lazyimg.Image
	nodata      float64
	hasNodata   bool
	nextSrcLine int
	rows        map[int][]float64
}

func newWindow3(src lazyimg.Image) *window3 {
	nd := src.NoData()
	w := &window3{src: src, rows: map[int][]float64{}}
	if len(nd) > 0 {
		w.nodata = nd[0]
		w.hasNodata = true
	}
	return w
}

func (w *window3) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= w.src.Height() {
		return w.src.Height() - 1
	}
	return r
}

// ensure advances the source in ascending order up to row (clamped), caching
// it, then evicts rows no longer needed by the 3-row window centered on row.
func (w *window3) ensure(row int) error {
	clamped := w.clampRow(row)
	for w.nextSrcLine <= clamped {
		buf := make([]float64, w.src.Width())
		if err := w.src.FillLine(w.nextSrcLine, buf); err != nil {
			return err
		}
		w.rows[w.nextSrcLine] = buf
		w.nextSrcLine++
	}
	keep := map[int]bool{w.clampRow(row - 1): true, clamped: true, w.clampRow(row + 1): true}
	for r := range w.rows {
		if !keep[r] {
			delete(w.rows, r)
		}
	}
	return nil
}

// at returns the value at (row+dy, col+dx) with both axes reflected
// (edge-replicated) at the image boundary, and reports whether that sample
// is nodata.
func (w *window3) at(row, col, dy, dx int) (float64, bool) {
	r := w.clampRow(row + dy)
	c := col + dx
	if c < 0 {
		c = 0
	}
	if c >= w.src.Width() {
		c = w.src.Width() - 1
	}
	v := w.rows[r][c]
	return v, w.hasNodata && v == w.nodata
}

// window9 reads the full reflected 3x3 neighbourhood around (row, col) and
// reports whether any of the nine samples is nodata.
func (w *window3) window9(row, col int) (v [3][3]float64, anyNoData bool) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			val, nd := w.at(row, col, dy, dx)
			v[dy+1][dx+1] = val
			if nd {
				anyNoData = true
			}
		}
	}
	return
}
