package tiledecoder

import "fmt"

// decodePackBits implements the PackBits run-length scheme (TIFF compression
// tag 32773): a control byte n followed either by n+1 literal bytes (n in
// 0..127) or one byte repeated 1-n times (n in -1..-127); n == -128 is a
// no-op. No ecosystem Go package in the retrieval pack implements this, so
// it is hand-written; see DESIGN.md.
func decodePackBits(raw []byte, wantLen int) ([]byte, error) {
	out := make([]byte, 0, wantLen)
	i := 0
	for i < len(raw) && len(out) < wantLen {
		n := int(int8(raw[i]))
		i++
		switch {
		case n >= 0:
			end := i + n + 1
			if end > len(raw) {
				return nil, fmt.Errorf("packbits: literal run exceeds input")
			}
			out = append(out, raw[i:end]...)
			i = end
		case n == -128:
			// no-op
		default:
			if i >= len(raw) {
				return nil, fmt.Errorf("packbits: replicate run exceeds input")
			}
			b := raw[i]
			i++
			for c := 0; c < 1-n; c++ {
				out = append(out, b)
			}
		}
	}
	if len(out) < wantLen {
		return nil, fmt.Errorf("packbits: decoded %d bytes, wanted %d", len(out), wantLen)
	}
	return out[:wantLen], nil
}

// undoHorizontalDifferencing reverses the TIFF "horizontal differencing"
// predictor (tag 317): each sample is stored as the difference from the
// previous sample of the same channel on the same row. Grounded on the
// reference tool's cog.undoHorizontalDifferencing.
func undoHorizontalDifferencing(buf []byte, width, channels, bytesPerSample int) {
	rowStride := width * channels * bytesPerSample
	for rowStart := 0; rowStart+rowStride <= len(buf); rowStart += rowStride {
		for x := 1; x < width; x++ {
			for c := 0; c < channels; c++ {
				cur := rowStart + (x*channels+c)*bytesPerSample
				prev := rowStart + ((x-1)*channels+c)*bytesPerSample
				// Samples are little-endian: add with carry across bytes.
				var carry uint16
				for b := 0; b < bytesPerSample; b++ {
					s := uint16(buf[cur+b]) + uint16(buf[prev+b]) + carry
					buf[cur+b] = byte(s)
					carry = s >> 8
				}
			}
		}
	}
}
