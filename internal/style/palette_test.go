package style

import (
	"testing"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type elevationImage struct {
	guard  lazyimg.LineGuard
	w, h   int
	box    geo.BBox
	values func(x, y int) float64
	nodata []float64
}

func (e *elevationImage) Width() int                    { return e.w }
func (e *elevationImage) Height() int                   { return e.h }
func (e *elevationImage) Channels() int                 { return 1 }
func (e *elevationImage) SampleFormat() lazyimg.SampleFormat { return lazyimg.Float32 }
func (e *elevationImage) BBox() geo.BBox                { return e.box }
func (e *elevationImage) NoData() []float64             { return e.nodata }
func (e *elevationImage) FillLine(i int, buf []float64) error {
	if err := e.guard.Check(i); err != nil {
		return err
	}
	for x := 0; x < e.w; x++ {
		buf[x] = e.values(x, i)
	}
	return nil
}

func flatElevation(w, h int, v float64) *elevationImage {
	merc := geo.Lookup("EPSG:3857")
	box, _ := geo.NewBBox(0, 0, float64(w), float64(h), merc)
	return &elevationImage{w: w, h: h, box: box, values: func(x, y int) float64 { return v }}
}

func TestPaletteContinuousInterpolates(t *testing.T) {
	src := flatElevation(2, 1, 128)
	def := &catalog.PaletteTransform{
		Stops: []catalog.PaletteStop{
			{Key: 0, R: 0, G: 0, B: 0, A: 255},
			{Key: 256, R: 255, G: 255, B: 255, A: 255},
		},
		ContinuousRGB: true, ContinuousAlpha: true,
	}
	p := NewPalette(src, def, nil)
	buf := make([]float64, 2*4)
	require.NoError(t, p.FillLine(0, buf))
	assert.InDelta(t, 128, buf[0], 1)
	assert.Equal(t, 255.0, buf[3])
}

func TestPaletteDiscreteStepsAndNoAlpha(t *testing.T) {
	src := flatElevation(1, 1, 10)
	def := &catalog.PaletteTransform{
		Stops: []catalog.PaletteStop{
			{Key: 0, R: 10, G: 20, B: 30},
			{Key: 100, R: 200, G: 200, B: 200},
		},
		NoAlpha: true,
	}
	p := NewPalette(src, def, nil)
	assert.Equal(t, 3, p.Channels())
	buf := make([]float64, 3)
	require.NoError(t, p.FillLine(0, buf))
	assert.Equal(t, []float64{10, 20, 30}, buf)
}

func TestPaletteNoDataPassesThrough(t *testing.T) {
	src := flatElevation(1, 1, -9999)
	src.nodata = []float64{-9999}
	def := &catalog.PaletteTransform{
		Stops: []catalog.PaletteStop{{Key: 0, R: 1, G: 2, B: 3, A: 4}},
	}
	p := NewPalette(src, def, []float64{0, 0, 0, 0})
	buf := make([]float64, 4)
	require.NoError(t, p.FillLine(0, buf))
	assert.Equal(t, []float64{0, 0, 0, 0}, buf)
}
