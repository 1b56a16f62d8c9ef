package planner

import (
	"context"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
	"github.com/pspoerri/tileforge/internal/mosaic"
	"github.com/pspoerri/tileforge/internal/store"
	"github.com/pspoerri/tileforge/internal/tiledecoder"
)

// decodedImage adapts a tiledecoder.Decoded rectangle to lazyimg.Image so it
// can be wrapped by the Mosaic, Reprojector, Resampler, and Style stages
// without those stages knowing it came off disk.
type decodedImage struct {
	guard   lazyimg.LineGuard
	decoded *tiledecoder.Decoded
	box     geo.BBox
	nodata  []float64
}

func (d *decodedImage) Width() int                         { return d.decoded.Width }
func (d *decodedImage) Height() int                         { return d.decoded.Height }
func (d *decodedImage) Channels() int                       { return d.decoded.Channels }
func (d *decodedImage) SampleFormat() lazyimg.SampleFormat  { return d.decoded.Format }
func (d *decodedImage) BBox() geo.BBox                      { return d.box }
func (d *decodedImage) NoData() []float64                   { return d.nodata }
func (d *decodedImage) FillLine(i int, buf []float64) error {
	if err := d.guard.Check(i); err != nil {
		return err
	}
	copy(buf, d.decoded.Line(i))
	return nil
}

// fetchAndDecode reads one stored tile's bytes through the pooled Storage
// Context (with transport retry) and decodes it. A missing or malformed tile
// is recovered locally per §4.2/§7: a nodata tile is returned in its place
// and the response continues rather than failing the whole request.
func fetchAndDecode(ctx context.Context, pool *store.Pool, backendOpen func() (store.Context, error), backendKey string, layer *catalog.Layer, level catalog.Level, col, row int, policy store.RetryPolicy) (lazyimg.Image, error) {
	object := level.ObjectName(layer.ID, col, row)
	box, err := level.TM.TileBBox(col, row, layer.Pyramid.TMS.CRS)
	if err != nil {
		return nil, internalErr("computing tile bbox: %v", err)
	}

	sc, err := pool.GetOrOpen(ctx, backendKey, backendOpen)
	if err != nil {
		return nil, transportErr(err)
	}

	raw, err := store.ReadRangeWithRetry(ctx, sc, object, 0, -1, policy)
	if err != nil {
		if store.IsNotFound(err) {
			return &lazyimg.Nodata{
				W: level.TM.TileW, H: level.TM.TileH, Ch: layer.Pyramid.Channels,
				Format: layer.Pyramid.SampleFormat, Box: box, Value: level.NoData,
			}, nil
		}
		return nil, transportErr(err)
	}

	decoded, err := tiledecoder.Decode(level.Codec, raw, level.TM.TileW, level.TM.TileH, layer.Pyramid.Channels, layer.Pyramid.SampleFormat)
	if err != nil {
		var malformed *tiledecoder.ErrMalformedTile
		if isMalformed(err, &malformed) {
			return &lazyimg.Nodata{
				W: level.TM.TileW, H: level.TM.TileH, Ch: layer.Pyramid.Channels,
				Format: layer.Pyramid.SampleFormat, Box: box, Value: level.NoData,
			}, nil
		}
		return nil, internalErr("decoding tile %s: %v", object, err)
	}

	return &decodedImage{decoded: decoded, box: box, nodata: level.NoData}, nil
}

func isMalformed(err error, target **tiledecoder.ErrMalformedTile) bool {
	if m, ok := err.(*tiledecoder.ErrMalformedTile); ok {
		*target = m
		return true
	}
	return false
}

// coveringTiles enumerates the (col,row) tile-matrix cells intersecting
// bbox, clamped to the level's tile window.
func coveringTiles(tm interface {
	TileBBox(col, row int, crs *geo.CRS) (geo.BBox, error)
}, level catalog.Level, crs *geo.CRS, bbox geo.BBox) ([][2]int, error) {
	var cells [][2]int
	for row := level.Window.MinRow; row <= level.Window.MaxRow; row++ {
		for col := level.Window.MinCol; col <= level.Window.MaxCol; col++ {
			box, err := tm.TileBBox(col, row, crs)
			if err != nil {
				return nil, err
			}
			if _, ok := box.Intersect(bbox); ok {
				cells = append(cells, [2]int{col, row})
			}
		}
	}
	return cells, nil
}

// buildMosaic fetches every tile covering bbox at level and places it into
// one Mosaic per §4.7, first-wins in scan order with nodata padding for
// uncovered regions (S3 in §8).
func buildMosaic(ctx context.Context, pool *store.Pool, backendOpen func() (store.Context, error), backendKey string, layer *catalog.Layer, level catalog.Level, bbox geo.BBox, outW, outH int, policy store.RetryPolicy) (lazyimg.Image, error) {
	cells, err := coveringTiles(level.TM, level, layer.Pyramid.TMS.CRS, bbox)
	if err != nil {
		return nil, internalErr("enumerating covering tiles: %v", err)
	}

	var placed []mosaic.Placed
	for _, cell := range cells {
		col, row := cell[0], cell[1]
		img, err := fetchAndDecode(ctx, pool, backendOpen, backendKey, layer, level, col, row, policy)
		if err != nil {
			return nil, err
		}
		tileBox := img.BBox()
		offX := int((tileBox.MinX - bbox.MinX) / level.TM.Resolution)
		offY := int((bbox.MaxY - tileBox.MaxY) / level.TM.Resolution)
		placed = append(placed, mosaic.Placed{Image: img, OffsetX: offX, OffsetY: offY})
	}

	return mosaic.New(placed, outW, outH, layer.Pyramid.Channels, layer.Pyramid.SampleFormat, bbox, level.NoData), nil
}
