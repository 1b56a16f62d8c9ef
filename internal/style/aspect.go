package style

import (
	"math"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Aspect computes gradient direction in degrees clockwise from north, per
// §4.8. Pixels whose slope falls below MinSlope are marked nodata to
// suppress noise on flat terrain.
type Aspect struct {
	guard lazyimg.LineGuard

	src              lazyimg.Image
	def              *catalog.AspectTransform
	pxSizeX, pxSizeY float64
	win              *window3
	nodataOut        []float64
}

var _ lazyimg.Image = (*Aspect)(nil)

func NewAspect(src lazyimg.Image, def *catalog.AspectTransform) *Aspect {
	box := src.BBox()
	return &Aspect{
		src: src, def: def,
		pxSizeX: box.Width() / float64(src.Width()),
		pxSizeY: box.Height() / float64(src.Height()),
		win:       newWindow3(src),
		nodataOut: []float64{-1},
	}
}

func (a *Aspect) Width() int                    { return a.src.Width() }
func (a *Aspect) Height() int                   { return a.src.Height() }
func (a *Aspect) Channels() int                 { return 1 }
func (a *Aspect) SampleFormat() lazyimg.SampleFormat { return lazyimg.Float32 }
func (a *Aspect) BBox() geo.BBox                { return a.src.BBox() }
func (a *Aspect) NoData() []float64             { return a.nodataOut }

func (a *Aspect) FillLine(i int, buf []float64) error {
	if err := a.guard.Check(i); err != nil {
		return err
	}
	if err := a.win.ensure(i); err != nil {
		return err
	}

	for x := 0; x < a.Width(); x++ {
		v, anyNoData := a.win.window9(i, x)
		if anyNoData {
			buf[x] = a.nodataOut[0]
			continue
		}
		dzdx, dzdy := gradient(v, a.pxSizeX, a.pxSizeY, a.def.Kernel)
		slopeRad := math.Atan(math.Hypot(dzdx, dzdy))
		if slopeRad*180/math.Pi < a.def.MinSlope {
			buf[x] = a.nodataOut[0]
			continue
		}

		aspectRad := math.Atan2(dzdy, -dzdx)
		deg := 90 - aspectRad*180/math.Pi
		if deg < 0 {
			deg += 360
		}
		if deg >= 360 {
			deg -= 360
		}
		buf[x] = deg
	}
	return nil
}
