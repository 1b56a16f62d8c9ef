package resampler

import (
	"testing"

	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rampImage struct {
	guard lazyimg.LineGuard
	w, h  int
	box   geo.BBox
	nd    []float64
}

func (r *rampImage) Width() int                    { return r.w }
func (r *rampImage) Height() int                   { return r.h }
func (r *rampImage) Channels() int                 { return 1 }
func (r *rampImage) SampleFormat() lazyimg.SampleFormat { return lazyimg.UInt8 }
func (r *rampImage) BBox() geo.BBox                { return r.box }
func (r *rampImage) NoData() []float64             { return r.nd }
func (r *rampImage) FillLine(i int, buf []float64) error {
	if err := r.guard.Check(i); err != nil {
		return err
	}
	for x := 0; x < r.w; x++ {
		buf[x] = float64(i*r.w + x)
	}
	return nil
}

func TestNearestUpsampleAscendingAccess(t *testing.T) {
	merc := geo.Lookup("EPSG:3857")
	box, _ := geo.NewBBox(0, 0, 4, 4, merc)
	src := &rampImage{w: 4, h: 4, box: box}
	r := New(src, Nearest, 8, 8, box)

	buf := make([]float64, 8)
	for i := 0; i < 8; i++ {
		require.NoError(t, r.FillLine(i, buf))
	}
	// Revisiting an earlier line must fail (ascending-only contract).
	err := r.FillLine(0, buf)
	assert.Error(t, err)
}

func TestDownsampleAveragesWithLinearKernel(t *testing.T) {
	merc := geo.Lookup("EPSG:3857")
	box, _ := geo.NewBBox(0, 0, 4, 4, merc)
	src := &rampImage{w: 4, h: 4, box: box}
	r := New(src, Linear, 2, 2, box)

	buf := make([]float64, 2)
	require.NoError(t, r.FillLine(0, buf))
	// Downsampled value should lie within the range of source pixels it covers.
	assert.GreaterOrEqual(t, buf[0], 0.0)
	assert.LessOrEqual(t, buf[0], 15.0)
}

func TestAllNoDataYieldsNoData(t *testing.T) {
	merc := geo.Lookup("EPSG:3857")
	box, _ := geo.NewBBox(0, 0, 2, 2, merc)
	src := &rampImage{w: 2, h: 2, box: box, nd: []float64{0}}
	// Force every source pixel to equal the nodata value.
	src2 := &constNoDataImage{w: 2, h: 2, box: box, nd: 0}
	_ = src

	r := New(src2, Linear, 2, 2, box)
	buf := make([]float64, 2)
	require.NoError(t, r.FillLine(0, buf))
	assert.Equal(t, []float64{0, 0}, buf)
}

type constNoDataImage struct {
	guard lazyimg.LineGuard
	w, h  int
	box   geo.BBox
	nd    float64
}

func (c *constNoDataImage) Width() int                    { return c.w }
func (c *constNoDataImage) Height() int                   { return c.h }
func (c *constNoDataImage) Channels() int                 { return 1 }
func (c *constNoDataImage) SampleFormat() lazyimg.SampleFormat { return lazyimg.UInt8 }
func (c *constNoDataImage) BBox() geo.BBox                { return c.box }
func (c *constNoDataImage) NoData() []float64             { return []float64{c.nd} }
func (c *constNoDataImage) FillLine(i int, buf []float64) error {
	if err := c.guard.Check(i); err != nil {
		return err
	}
	for x := range buf {
		buf[x] = c.nd
	}
	return nil
}
