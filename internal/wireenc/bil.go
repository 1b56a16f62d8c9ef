package wireenc

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// encodeBIL streams raw band-interleaved-by-line float32 samples, per
// §4.9's image/x-bil;bits=32. There is no ecosystem Go package for this
// (it is a raw binary dump, not a container format), so this is hand-written
// against the stdlib binary package; unlike the materialized formats it
// writes each line directly as it is produced, honoring the Encoder's
// ascending-read contract without buffering the whole image.
func encodeBIL(img lazyimg.Image, w io.Writer) error {
	ch := img.Channels()
	row := make([]float64, img.Width()*ch)
	out := make([]byte, img.Width()*ch*4)

	for y := 0; y < img.Height(); y++ {
		if err := img.FillLine(y, row); err != nil {
			return fmt.Errorf("wireenc: reading line %d: %w", y, err)
		}
		for i, v := range row {
			binary.LittleEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(float32(v)))
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("wireenc: writing BIL line %d: %w", y, err)
		}
	}
	return nil
}
