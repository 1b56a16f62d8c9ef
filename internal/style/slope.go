package style

import (
	"math"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Slope computes the magnitude of the surface gradient, per §4.8. Nodata
// propagates from any of the 3x3 neighbours; the result is clamped at
// MaxSlope.
type Slope struct {
	guard lazyimg.LineGuard

	src              lazyimg.Image
	def              *catalog.SlopeTransform
	pxSizeX, pxSizeY float64
	win              *window3
	nodataOut        []float64
}

var _ lazyimg.Image = (*Slope)(nil)

func NewSlope(src lazyimg.Image, def *catalog.SlopeTransform) *Slope {
	box := src.BBox()
	return &Slope{
		src: src, def: def,
		pxSizeX: box.Width() / float64(src.Width()),
		pxSizeY: box.Height() / float64(src.Height()),
		win:       newWindow3(src),
		nodataOut: []float64{-1},
	}
}

func (s *Slope) Width() int                    { return s.src.Width() }
func (s *Slope) Height() int                   { return s.src.Height() }
func (s *Slope) Channels() int                 { return 1 }
func (s *Slope) SampleFormat() lazyimg.SampleFormat { return lazyimg.Float32 }
func (s *Slope) BBox() geo.BBox                { return s.src.BBox() }
func (s *Slope) NoData() []float64             { return s.nodataOut }

func (s *Slope) FillLine(i int, buf []float64) error {
	if err := s.guard.Check(i); err != nil {
		return err
	}
	if err := s.win.ensure(i); err != nil {
		return err
	}

	for x := 0; x < s.Width(); x++ {
		v, anyNoData := s.win.window9(i, x)
		if anyNoData {
			buf[x] = s.nodataOut[0]
			continue
		}
		dzdx, dzdy := gradient(v, s.pxSizeX, s.pxSizeY, s.def.Kernel)
		slopeRad := math.Atan(math.Hypot(dzdx, dzdy))

		var val float64
		switch s.def.Unit {
		case catalog.SlopePercent:
			val = 100 * math.Tan(slopeRad)
		default:
			val = slopeRad * 180 / math.Pi
		}
		if s.def.MaxSlope > 0 && val > s.def.MaxSlope {
			val = s.def.MaxSlope
		}
		buf[x] = val
	}
	return nil
}
