package lazyimg

import "github.com/pspoerri/tileforge/internal/geo"

// Nodata is the lazy image variant that fills every pixel with a level's
// nodata vector, used by the Level Reader for tiles outside a level's valid
// window (§4.3) and by the Mosaic/Extender for the padding region of an
// extended mosaic (§4.7).
type Nodata struct {
	W, H    int
	Ch      int
	Format  SampleFormat
	Box     geo.BBox
	Value   []float64 // per-channel nodata vector, len == Ch
	guard   LineGuard
}

var _ Image = (*Nodata)(nil)

func (n *Nodata) Width() int               { return n.W }
func (n *Nodata) Height() int              { return n.H }
func (n *Nodata) Channels() int            { return n.Ch }
func (n *Nodata) SampleFormat() SampleFormat { return n.Format }
func (n *Nodata) BBox() geo.BBox           { return n.Box }
func (n *Nodata) NoData() []float64        { return n.Value }

func (n *Nodata) FillLine(i int, buf []float64) error {
	if err := n.guard.Check(i); err != nil {
		return err
	}
	for x := 0; x < n.W; x++ {
		for c := 0; c < n.Ch; c++ {
			v := 0.0
			if c < len(n.Value) {
				v = n.Value[c]
			}
			buf[x*n.Ch+c] = v
		}
	}
	return nil
}
