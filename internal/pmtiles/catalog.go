package pmtiles

import (
	"fmt"
	"strconv"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/tms"
)

// webMercatorHalfExtent is half of EPSG:3857's world extent in meters (the
// distance from the origin to the edge), the constant the reference tool's mercator.go and this archive format both
// build their zoom pyramids from.
const webMercatorHalfExtent = 20037508.342789244

// WebMercatorTileMatrixSet builds the standard "Google Maps Compatible"
// pyramid a PMTiles archive addresses its tiles against: 2^z by 2^z tiles of
// tileSize pixels per side at zoom z, covering the whole world.
func WebMercatorTileMatrixSet(tileSize, minZoom, maxZoom int) (*tms.TileMatrixSet, error) {
	crs := geo.Lookup("EPSG:3857")
	if crs == nil {
		return nil, fmt.Errorf("pmtiles: EPSG:3857 not registered")
	}

	var matrices []tms.TileMatrix
	for z := minZoom; z <= maxZoom; z++ {
		n := 1 << uint(z)
		resolution := (2 * webMercatorHalfExtent) / (float64(n) * float64(tileSize))
		matrices = append(matrices, tms.TileMatrix{
			ID:         strconv.Itoa(z),
			Resolution: resolution,
			X0:         -webMercatorHalfExtent,
			Y0:         webMercatorHalfExtent,
			TileW:      tileSize,
			TileH:      tileSize,
			MatrixW:    n,
			MatrixH:    n,
		})
	}
	return tms.NewTileMatrixSet("GoogleMapsCompatible", crs, matrices)
}

// codecFromTileType maps a PMTiles header's tile type onto the codec the
// rest of the pipeline tags a stored level with.
func codecFromTileType(t uint8) catalog.Codec {
	switch t {
	case TileTypePNG:
		return catalog.CodecPNG
	case TileTypeJPEG:
		return catalog.CodecJPEG
	case TileTypeWebP:
		return catalog.CodecWebP
	default:
		return catalog.CodecUncompressed
	}
}

// LevelsFromArchive opens the PMTiles archive at path and returns one
// catalog.Level per zoom it addresses, backed by this package's Context and
// Naming scheme. backendName must be registered in server configuration as
// a "pmtiles" backend; every returned level has Root set to path, so the
// Storage Context Pool opens the same archive the caller just inspected.
func LevelsFromArchive(path, backendName string, channels int, nodata []float64) ([]catalog.Level, *tms.TileMatrixSet, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	h := r.Header()
	tileSize := 256
	set, err := WebMercatorTileMatrixSet(tileSize, int(h.MinZoom), int(h.MaxZoom))
	if err != nil {
		return nil, nil, err
	}

	codec := codecFromTileType(h.TileType)
	naming := Naming()

	levels := make([]catalog.Level, 0, len(set.Matrices()))
	for _, tm := range set.Matrices() {
		levels = append(levels, catalog.Level{
			TM:       tm,
			Backend:  backendName,
			Root:     path,
			Naming:   naming,
			Codec:    codec,
			Channels: channels,
			NoData:   nodata,
			Window:   catalog.TileWindow{MinCol: 0, MinRow: 0, MaxCol: tm.MatrixW - 1, MaxRow: tm.MatrixH - 1},
			Mode:     catalog.Stored,
		})
	}
	return levels, set, nil
}
