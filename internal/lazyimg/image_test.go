package lazyimg

import (
	"testing"

	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineGuardAscending(t *testing.T) {
	var g LineGuard
	require.NoError(t, g.Check(0))
	require.NoError(t, g.Check(1))
	require.NoError(t, g.Check(5))
}

func TestLineGuardRejectsRevisit(t *testing.T) {
	var g LineGuard
	require.NoError(t, g.Check(3))
	err := g.Check(3)
	require.Error(t, err)
	var ooo *OutOfOrderError
	assert.ErrorAs(t, err, &ooo)
}

func TestLineGuardRejectsBackward(t *testing.T) {
	var g LineGuard
	require.NoError(t, g.Check(5))
	err := g.Check(2)
	require.Error(t, err)
}

func TestNodataFillsVector(t *testing.T) {
	box, _ := geo.NewBBox(0, 0, 1, 1, geo.Lookup("EPSG:3857"))
	n := &Nodata{W: 2, H: 2, Ch: 3, Format: UInt8, Box: box, Value: []float64{7, 8, 9}}

	buf := make([]float64, 2*3)
	require.NoError(t, n.FillLine(0, buf))
	assert.Equal(t, []float64{7, 8, 9, 7, 8, 9}, buf)

	require.NoError(t, n.FillLine(1, buf))
	err := n.FillLine(0, buf)
	assert.Error(t, err)
}
