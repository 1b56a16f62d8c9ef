package wireenc

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// encodeGIF emits a single-frame GIF, quantizing the materialized RGB/RGBA
// image to a fixed palette with Floyd-Steinberg dithering, since GIF has no
// true-colour mode.
func encodeGIF(img lazyimg.Image, opts Options, w io.Writer) error {
	stdImg, err := materialize(img)
	if err != nil {
		return err
	}
	bounds := stdImg.Bounds()
	paletted := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, bounds, stdImg, image.Point{})

	if err := gif.Encode(w, paletted, nil); err != nil {
		return fmt.Errorf("wireenc: gif encode: %w", err)
	}
	return nil
}
