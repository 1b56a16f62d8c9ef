package planner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
	"github.com/pspoerri/tileforge/internal/store"
	"github.com/pspoerri/tileforge/internal/tms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTile(t *testing.T, dir, object string, vals []byte) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(object))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, vals, 0o644))
}

func fsOpener(dir string) BackendOpener {
	return func(backend, root string) (string, func() (store.Context, error)) {
		return store.Key("fs", dir, ""), func() (store.Context, error) {
			return store.NewFileContext(filepath.Join(dir, root)), nil
		}
	}
}

func TestAssembleSingleTileNoTransformsReturnsStoredPixelsUnchanged(t *testing.T) {
	dir := t.TempDir()
	// 4x4 single-channel tile, value 7 everywhere except one marked pixel.
	raw := make([]byte, 16)
	for i := range raw {
		raw[i] = 7
	}
	raw[5] = 42
	writeTile(t, filepath.Join(dir, "dem"), "dem/0/0/0.bin", raw)

	merc := geo.Lookup("EPSG:3857")
	set, err := tms.NewTileMatrixSet("grid", merc, []tms.TileMatrix{
		{ID: "0", Resolution: 1.0, X0: 0, Y0: 4, TileW: 4, TileH: 4, MatrixW: 1, MatrixH: 1},
	})
	require.NoError(t, err)
	level := catalog.Level{
		TM: set.Matrices()[0], Backend: "fs", Root: "dem",
		Codec: catalog.CodecUncompressed, Channels: 1, NoData: []float64{255},
		Window: catalog.TileWindow{MinCol: 0, MinRow: 0, MaxCol: 0, MaxRow: 0},
	}
	pyr, err := catalog.NewPyramid("dem", set, []catalog.Level{level}, 1, lazyimg.UInt8, 8, "gray")
	require.NoError(t, err)
	layer := &catalog.Layer{
		ID: "dem", Pyramid: pyr,
		Styles:     []*catalog.StyleDef{{ID: "default", OutputChannels: 1}},
		AllowedCRS: []*geo.CRS{merc},
		Services:   catalog.ServiceWMTS,
		Resampling: "nearest",
	}
	cat := catalog.NewCatalog()
	cat.Layers["dem"] = layer

	plan, err := Validate(cat, Limits{}, &Params{
		Protocol: ProtocolWMTS, LayerID: "dem", Format: "image/png",
		TileMatrix: "0", Col: 0, Row: 0, TileSet: true,
	})
	require.NoError(t, err)
	assert.False(t, plan.Passthrough)

	pool, err := store.NewPool(4)
	require.NoError(t, err)

	img, err := Assemble(context.Background(), pool, fsOpener(dir), plan, store.DefaultRetryPolicy())
	require.NoError(t, err)
	require.Equal(t, 4, img.Width())
	require.Equal(t, 4, img.Height())

	buf := make([]float64, 4)
	for y := 0; y < 4; y++ {
		require.NoError(t, img.FillLine(y, buf))
		for x := 0; x < 4; x++ {
			want := 7.0
			if y*4+x == 5 {
				want = 42.0
			}
			assert.Equal(t, want, buf[x], "pixel (%d,%d)", x, y)
		}
	}
}

func TestAssembleUncoveredTileFillsNoData(t *testing.T) {
	dir := t.TempDir()
	// No tile file is written; the mosaic must fill nodata for the whole
	// request (§4.7).
	merc := geo.Lookup("EPSG:3857")
	set, err := tms.NewTileMatrixSet("grid", merc, []tms.TileMatrix{
		{ID: "0", Resolution: 1.0, X0: 0, Y0: 4, TileW: 4, TileH: 4, MatrixW: 1, MatrixH: 1},
	})
	require.NoError(t, err)
	level := catalog.Level{
		TM: set.Matrices()[0], Backend: "fs", Root: "dem",
		Codec: catalog.CodecUncompressed, Channels: 1, NoData: []float64{255},
		Window: catalog.TileWindow{MinCol: 0, MinRow: 0, MaxCol: 0, MaxRow: 0},
	}
	pyr, err := catalog.NewPyramid("dem", set, []catalog.Level{level}, 1, lazyimg.UInt8, 8, "gray")
	require.NoError(t, err)
	layer := &catalog.Layer{
		ID: "dem", Pyramid: pyr,
		Styles:     []*catalog.StyleDef{{ID: "default", OutputChannels: 1}},
		AllowedCRS: []*geo.CRS{merc},
		Services:   catalog.ServiceWMTS,
	}
	cat := catalog.NewCatalog()
	cat.Layers["dem"] = layer

	plan, err := Validate(cat, Limits{}, &Params{
		Protocol: ProtocolWMTS, LayerID: "dem", Format: "image/png",
		TileMatrix: "0", Col: 0, Row: 0, TileSet: true,
	})
	require.NoError(t, err)

	pool, err := store.NewPool(4)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dem"), 0o755))

	img, err := Assemble(context.Background(), pool, fsOpener(dir), plan, store.DefaultRetryPolicy())
	require.NoError(t, err)

	buf := make([]float64, 4)
	require.NoError(t, img.FillLine(0, buf))
	for _, v := range buf {
		assert.Equal(t, 255.0, v)
	}
}
