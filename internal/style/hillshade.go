package style

import (
	"math"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Hillshade computes Lambertian illumination from a single-channel elevation
// input, per §4.8. Pixels within one sample of an edge use reflected
// boundary conditions; a nodata-valued neighbour propagates to nodata.
type Hillshade struct {
	guard lazyimg.LineGuard

	src            lazyimg.Image
	def            *catalog.HillshadeTransform
	kernel         catalog.KernelShading
	pxSizeX, pxSizeY float64
	win            *window3
	nodataOut      []float64
}

var _ lazyimg.Image = (*Hillshade)(nil)

// NewHillshade wraps src (one channel, elevation). kernel selects the
// finite-difference scheme used to estimate the gradient.
func NewHillshade(src lazyimg.Image, def *catalog.HillshadeTransform, kernel catalog.KernelShading) *Hillshade {
	box := src.BBox()
	return &Hillshade{
		src: src, def: def, kernel: kernel,
		pxSizeX: box.Width() / float64(src.Width()),
		pxSizeY: box.Height() / float64(src.Height()),
		win:     newWindow3(src),
		nodataOut: []float64{0},
	}
}

func (h *Hillshade) Width() int                    { return h.src.Width() }
func (h *Hillshade) Height() int                   { return h.src.Height() }
func (h *Hillshade) Channels() int                 { return 1 }
func (h *Hillshade) SampleFormat() lazyimg.SampleFormat { return lazyimg.UInt8 }
func (h *Hillshade) BBox() geo.BBox                { return h.src.BBox() }
func (h *Hillshade) NoData() []float64             { return h.nodataOut }

func (h *Hillshade) FillLine(i int, buf []float64) error {
	if err := h.guard.Check(i); err != nil {
		return err
	}
	if err := h.win.ensure(i); err != nil {
		return err
	}

	zenithRad := h.def.ZenithDeg * math.Pi / 180
	azimuthRad := h.def.AzimuthDeg * math.Pi / 180
	cosZenith, sinZenith := math.Cos(zenithRad), math.Sin(zenithRad)

	for x := 0; x < h.Width(); x++ {
		v, anyNoData := h.win.window9(i, x)
		if anyNoData {
			buf[x] = h.nodataOut[0]
			continue
		}
		dzdx, dzdy := gradient(v, h.pxSizeX, h.pxSizeY, h.kernel)
		dzdx *= h.def.ZFactor
		dzdy *= h.def.ZFactor

		slopeRad := math.Atan(math.Hypot(dzdx, dzdy))
		aspectRad := math.Atan2(dzdy, -dzdx)

		shade := cosZenith*math.Cos(slopeRad) + sinZenith*math.Sin(slopeRad)*math.Cos(azimuthRad-aspectRad)
		val := 255 * shade
		if val < 0 {
			val = 0
		}
		if val > 255 {
			val = 255
		}
		buf[x] = val
	}
	return nil
}
