// Package mosaic implements the Mosaic/Extender component (§4.7): composing
// several lazy images placed on one output pixel grid, padding missing
// areas with nodata and resolving overlaps by first-wins scan order.
package mosaic

import (
	"fmt"

	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Placed is one component image positioned on the mosaic's output grid by
// its top-left pixel offset.
type Placed struct {
	Image       lazyimg.Image
	OffsetX, OffsetY int
}

// Mosaic is the lazy image variant produced by the composer. It handles
// both the tight-mosaic case (inputs tile the output exactly) and the
// extended-mosaic case (inputs cover a strict subset; the remainder is
// nodata), per §4.7.
type Mosaic struct {
	guard lazyimg.LineGuard

	tiles   []Placed
	width, height, channels int
	format  lazyimg.SampleFormat
	box     geo.BBox
	nodata  []float64

	tmp []float64
}

var _ lazyimg.Image = (*Mosaic)(nil)

// New builds a Mosaic of the given tiles over an output grid of width x
// height pixels, channels wide, filling gaps with nodata. Tiles earlier in
// the slice win overlaps, per §4.7's first-wins-in-scan-order rule.
func New(tiles []Placed, width, height, channels int, format lazyimg.SampleFormat, box geo.BBox, nodata []float64) *Mosaic {
	return &Mosaic{
		tiles: tiles, width: width, height: height, channels: channels,
		format: format, box: box, nodata: nodata,
		tmp: make([]float64, width*channels),
	}
}

func (m *Mosaic) Width() int                    { return m.width }
func (m *Mosaic) Height() int                   { return m.height }
func (m *Mosaic) Channels() int                 { return m.channels }
func (m *Mosaic) SampleFormat() lazyimg.SampleFormat { return m.format }
func (m *Mosaic) BBox() geo.BBox                { return m.box }
func (m *Mosaic) NoData() []float64             { return m.nodata }

// FillLine composes output row i from whichever placed tiles cover it,
// first-wins on overlap, nodata elsewhere.
func (m *Mosaic) FillLine(i int, buf []float64) error {
	if err := m.guard.Check(i); err != nil {
		return err
	}

	filled := make([]bool, m.width)
	for x := 0; x < m.width; x++ {
		for c := 0; c < m.channels; c++ {
			buf[x*m.channels+c] = nodataOr(m.nodata, c)
		}
	}

	for _, t := range m.tiles {
		localRow := i - t.OffsetY
		if localRow < 0 || localRow >= t.Image.Height() {
			continue
		}
		tw := t.Image.Width()
		if cap(m.tmp) < tw*m.channels {
			m.tmp = make([]float64, tw*m.channels)
		}
		row := m.tmp[:tw*m.channels]
		if err := t.Image.FillLine(localRow, row); err != nil {
			return fmt.Errorf("mosaic: reading tile line %d: %w", localRow, err)
		}

		for lx := 0; lx < tw; lx++ {
			ox := t.OffsetX + lx
			if ox < 0 || ox >= m.width || filled[ox] {
				continue
			}
			copy(buf[ox*m.channels:ox*m.channels+m.channels], row[lx*m.channels:lx*m.channels+m.channels])
			filled[ox] = true
		}
	}
	return nil
}

func nodataOr(nodata []float64, ch int) float64 {
	if ch < len(nodata) {
		return nodata[ch]
	}
	return 0
}
