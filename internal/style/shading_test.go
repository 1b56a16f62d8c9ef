package style

import (
	"testing"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampElevation(w, h int, slopePerPixel float64) *elevationImage {
	src := flatElevation(w, h, 0)
	src.values = func(x, y int) float64 { return float64(x) * slopePerPixel }
	return src
}

func TestHillshadeFlatTerrainFullyLit(t *testing.T) {
	src := flatElevation(5, 5, 100)
	def := &catalog.HillshadeTransform{AzimuthDeg: 315, ZenithDeg: 0, ZFactor: 1}
	h := NewHillshade(src, def, catalog.KernelHorn)

	buf := make([]float64, 5)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.FillLine(i, buf))
		for _, v := range buf {
			assert.InDelta(t, 255, v, 0.01)
		}
	}
}

func TestHillshadeNoDataNeighbourPropagates(t *testing.T) {
	src := flatElevation(3, 3, 50)
	src.nodata = []float64{50}
	def := &catalog.HillshadeTransform{AzimuthDeg: 315, ZenithDeg: 45, ZFactor: 1}
	h := NewHillshade(src, def, catalog.KernelHorn)

	buf := make([]float64, 3)
	require.NoError(t, h.FillLine(0, buf))
	assert.Equal(t, []float64{0, 0, 0}, buf)
}

func TestSlopeZeroOnFlatTerrain(t *testing.T) {
	src := flatElevation(4, 4, 200)
	def := &catalog.SlopeTransform{Kernel: catalog.KernelHorn, Unit: catalog.SlopeDegrees, MaxSlope: 90}
	s := NewSlope(src, def)

	buf := make([]float64, 4)
	require.NoError(t, s.FillLine(1, buf))
	for _, v := range buf {
		assert.InDelta(t, 0, v, 1e-9)
	}
}

func TestSlopePositiveOnRampAndClamped(t *testing.T) {
	src := rampElevation(6, 6, 500)
	def := &catalog.SlopeTransform{Kernel: catalog.KernelZevenbergenThorne, Unit: catalog.SlopeDegrees, MaxSlope: 10}
	s := NewSlope(src, def)

	buf := make([]float64, 6)
	require.NoError(t, s.FillLine(2, buf))
	for _, v := range buf {
		assert.LessOrEqual(t, v, 10.0)
		assert.Greater(t, v, 0.0)
	}
}

func TestAspectFlatTerrainIsNoData(t *testing.T) {
	src := flatElevation(3, 3, 10)
	def := &catalog.AspectTransform{Kernel: catalog.KernelHorn, MinSlope: 0.01}
	a := NewAspect(src, def)

	buf := make([]float64, 3)
	require.NoError(t, a.FillLine(1, buf))
	for _, v := range buf {
		assert.Equal(t, a.nodataOut[0], v)
	}
}

func TestAspectOnRampIsInRange(t *testing.T) {
	src := rampElevation(5, 5, 300)
	def := &catalog.AspectTransform{Kernel: catalog.KernelHorn, MinSlope: 0}
	a := NewAspect(src, def)

	buf := make([]float64, 5)
	require.NoError(t, a.FillLine(2, buf))
	for _, v := range buf {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 360.0)
	}
}
