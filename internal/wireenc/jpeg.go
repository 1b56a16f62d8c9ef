package wireenc

import (
	"fmt"
	"image/jpeg"
	"io"

	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// encodeJPEG emits RGB-only JPEG, per §4.9: JPEG on non-RGB inputs is a
// bad-request class error, not a silent conversion.
func encodeJPEG(img lazyimg.Image, opts Options, w io.Writer) error {
	if img.Channels() != 3 && img.Channels() != 4 {
		return fmt.Errorf("%w: jpeg requires an RGB(A) image, got %d channels", ErrUnsupportedForInput, img.Channels())
	}
	stdImg, err := materialize(img)
	if err != nil {
		return err
	}
	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = 85
	}
	if err := jpeg.Encode(w, stdImg, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("wireenc: jpeg encode: %w", err)
	}
	return nil
}
