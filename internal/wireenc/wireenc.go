// Package wireenc implements the Encoder component (§4.9): serializing a
// finished lazy image into the bytes of a requested MIME type, reading lines
// in ascending order and reporting transient write errors. Encode dispatches
// to one small function per format.
package wireenc

import (
	"fmt"
	"io"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// MIME type identifiers named in §4.9.
const (
	MimePNG     = "image/png"
	MimeJPEG    = "image/jpeg"
	MimeTIFF    = "image/tiff"
	MimeGeoTIFF = "image/geotiff"
	MimeBIL32   = "image/x-bil;bits=32"
	MimeGIF     = "image/gif"
	MimeASCII   = "text/asc"
)

// Options carries the format-specific knobs the Planner resolves from
// request parameters and the layer's declared style.
type Options struct {
	JPEGQuality int                     // 1-100, default 85
	Palette     *catalog.PaletteTransform // non-nil when the style produced indexed colour and PNG should emit a paletted IDAT
	NoData      []float64
}

// Encode dispatches to the format-specific writer. It reads img line by line
// in ascending order (directly for the streaming formats, or by first
// materializing a stdlib image.Image for formats whose Go encoders require
// one) and writes to w.
func Encode(img lazyimg.Image, mime string, opts Options, w io.Writer) error {
	switch mime {
	case MimePNG:
		return encodePNG(img, opts, w)
	case MimeJPEG:
		return encodeJPEG(img, opts, w)
	case MimeTIFF:
		return encodeTIFF(img, w, false, nil)
	case MimeGeoTIFF:
		return encodeTIFF(img, w, true, opts.NoData)
	case MimeBIL32:
		return encodeBIL(img, w)
	case MimeGIF:
		return encodeGIF(img, opts, w)
	case MimeASCII:
		return encodeASCIIGrid(img, w)
	default:
		return fmt.Errorf("wireenc: unsupported format %q", mime)
	}
}

// Passthrough copies already-encoded tile bytes directly to the response
// stream, bypassing the lazy-image pipeline entirely. Used when the Planner
// proves the pipeline is a byte-for-byte passthrough of a stored tile (§4.9,
// §4.10 step 6).
func Passthrough(raw []byte, w io.Writer) error {
	_, err := w.Write(raw)
	if err != nil {
		return fmt.Errorf("wireenc: passthrough write: %w", err)
	}
	return nil
}
