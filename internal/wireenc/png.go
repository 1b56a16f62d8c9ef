package wireenc

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// encodePNG emits a paletted PNG (PLTE + tRNS chunks) when the input is a
// single channel and the style carries a palette, otherwise RGB/RGBA, per
// §4.9. The paletted path mirrors lib/libimage/Palette's PNG palette+
// transparency chunk construction, expressed through Go's stdlib
// image.Paletted/image/png instead of the hand-rolled chunk writer the
// original builds byte by byte.
func encodePNG(img lazyimg.Image, opts Options, w io.Writer) error {
	var stdImg image.Image
	var err error

	if opts.Palette != nil && img.Channels() == 1 {
		stdImg, err = materializePaletted(img, opts.Palette)
	} else {
		stdImg, err = materialize(img)
	}
	if err != nil {
		return err
	}

	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, stdImg); err != nil {
		return fmt.Errorf("wireenc: png encode: %w", err)
	}
	return nil
}

func materializePaletted(img lazyimg.Image, pal *catalog.PaletteTransform) (*image.Paletted, error) {
	w, h := img.Width(), img.Height()
	colors := make([]color.Color, len(pal.Stops))
	for i, s := range pal.Stops {
		colors[i] = color.NRGBA{R: s.R, G: s.G, B: s.B, A: s.A}
	}
	out := image.NewPaletted(image.Rect(0, 0, w, h), colors)

	row := make([]float64, w*img.Channels())
	for y := 0; y < h; y++ {
		if err := img.FillLine(y, row); err != nil {
			return nil, fmt.Errorf("wireenc: reading line %d: %w", y, err)
		}
		for x := 0; x < w; x++ {
			idx := stopIndex(pal.Stops, row[x])
			out.SetColorIndex(x, y, uint8(idx))
		}
	}
	return out, nil
}

// stopIndex returns the index of the last stop whose Key <= value (discrete
// lookup — no interpolation possible once reduced to a palette index).
func stopIndex(stops []catalog.PaletteStop, value float64) int {
	n := len(stops)
	idx := sort.Search(n, func(i int) bool { return stops[i].Key > value })
	if idx == 0 {
		return 0
	}
	return idx - 1
}
