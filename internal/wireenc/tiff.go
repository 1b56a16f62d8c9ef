package wireenc

import (
	"fmt"
	"io"

	"golang.org/x/image/tiff"

	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// encodeTIFF emits plain TIFF via x/image/tiff for image/tiff, or a
// hand-written GeoTIFF (with ModelPixelScale/ModelTiepoint/GeoKeyDirectory
// tags) for image/geotiff, per §4.9.
func encodeTIFF(img lazyimg.Image, w io.Writer, geo bool, nodata []float64) error {
	if geo {
		return encodeGeoTIFF(img, w, nodata)
	}
	stdImg, err := materialize(img)
	if err != nil {
		return err
	}
	if err := tiff.Encode(w, stdImg, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return fmt.Errorf("wireenc: tiff encode: %w", err)
	}
	return nil
}
