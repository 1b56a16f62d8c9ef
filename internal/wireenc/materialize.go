package wireenc

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// materialize reads img fully, in the ascending order its contract requires,
// into a stdlib image.Image. Go's png/jpeg/gif encoders all require a
// fully-addressable image.Image, so every encoder that defers to one of
// them pays this cost once per response.
func materialize(img lazyimg.Image) (image.Image, error) {
	w, h, ch := img.Width(), img.Height(), img.Channels()
	row := make([]float64, w*ch)

	switch ch {
	case 1:
		out := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			if err := img.FillLine(y, row); err != nil {
				return nil, fmt.Errorf("wireenc: reading line %d: %w", y, err)
			}
			for x := 0; x < w; x++ {
				out.SetGray(x, y, color.Gray{Y: clampByte(row[x])})
			}
		}
		return out, nil
	case 3:
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			if err := img.FillLine(y, row); err != nil {
				return nil, fmt.Errorf("wireenc: reading line %d: %w", y, err)
			}
			for x := 0; x < w; x++ {
				out.SetRGBA(x, y, color.RGBA{
					R: clampByte(row[x*3+0]), G: clampByte(row[x*3+1]), B: clampByte(row[x*3+2]), A: 255,
				})
			}
		}
		return out, nil
	case 4:
		out := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			if err := img.FillLine(y, row); err != nil {
				return nil, fmt.Errorf("wireenc: reading line %d: %w", y, err)
			}
			for x := 0; x < w; x++ {
				out.SetNRGBA(x, y, color.NRGBA{
					R: clampByte(row[x*4+0]), G: clampByte(row[x*4+1]), B: clampByte(row[x*4+2]), A: clampByte(row[x*4+3]),
				})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("wireenc: cannot materialize a %d-channel image", ch)
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
