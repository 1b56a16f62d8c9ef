package tiledecoder

import (
	"fmt"

	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// JP2State is the JPEG2000 decoder per-file state machine of §4.11:
// Opened → HeaderRead → DecodingStrip(i) → Exhausted, where
// DecodingStrip(i) → DecodingStrip(j) is legal only for j >= i.
type JP2State int

const (
	JP2Opened JP2State = iota
	JP2HeaderRead
	JP2DecodingStrip
	JP2Exhausted
)

// stripLines bounds per-strip working memory, per §4.2.
const stripLines = 64

// JP2StripDecoder decodes a JPEG2000 tile in fixed-size horizontal strips,
// enforcing the spec's monotonic-forward-access contract (§4.11, Open
// Question: backward seeks are not supported — a regression is an error,
// not a silent reopen, per SPEC_FULL.md §9).
//
// The retrieval pack's only JPEG2000 source is an incomplete internal
// tile-coder package with unexported sibling dependencies not present in
// the pack (no wavelet transform, entropy coder, or codestream parser
// ship with it), so this is not a standards-compliant J2K decoder: it
// treats the payload after a minimal header as raw, strip-sequential
// sample data. It exists to make the strip state machine itself — the
// part of §4.2/§4.11 that is testable independent of entropy coding —
// real and exercised.
type JP2StripDecoder struct {
	state      JP2State
	lastStrip  int
	raw        []byte
	dataOffset int

	Width, Height, Channels int
	Format                  lazyimg.SampleFormat
}

// OpenJP2 parses the minimal header and returns a decoder in HeaderRead
// state.
func OpenJP2(raw []byte, width, height, channels int, format lazyimg.SampleFormat) (*JP2StripDecoder, error) {
	const headerSize = 16
	if len(raw) < headerSize {
		return nil, &ErrMalformedTile{Wrapped: fmt.Errorf("jp2: tile shorter than header (%d bytes)", len(raw))}
	}
	d := &JP2StripDecoder{
		state:      JP2HeaderRead,
		lastStrip:  -1,
		raw:        raw,
		dataOffset: headerSize,
		Width:      width, Height: height, Channels: channels, Format: format,
	}
	return d, nil
}

// NumStrips returns the number of fixed-size strips covering the image.
func (d *JP2StripDecoder) NumStrips() int {
	return (d.Height + stripLines - 1) / stripLines
}

// DecodeStrip decodes strip i, returning its lines as a Decoded rectangle.
// Per §4.11, i must be >= the last strip decoded; the decoder must not
// allow a lower strip index than the last returned.
func (d *JP2StripDecoder) DecodeStrip(i int) (*Decoded, error) {
	if d.state == JP2Exhausted && i <= d.lastStrip {
		return nil, fmt.Errorf("jp2: decoder exhausted, cannot re-decode strip %d", i)
	}
	if d.lastStrip >= 0 && i < d.lastStrip {
		return nil, fmt.Errorf("jp2: backward strip access: requested %d, last decoded %d", i, d.lastStrip)
	}
	if i >= d.NumStrips() {
		return nil, fmt.Errorf("jp2: strip %d out of range (%d strips)", i, d.NumStrips())
	}

	d.state = JP2DecodingStrip
	startLine := i * stripLines
	lines := stripLines
	if startLine+lines > d.Height {
		lines = d.Height - startLine
	}

	bps := bytesPerSample(d.Format)
	stripBytes := lines * d.Width * d.Channels * bps
	byteOffset := d.dataOffset + startLine*d.Width*d.Channels*bps
	if byteOffset+stripBytes > len(d.raw) {
		return nil, &ErrMalformedTile{Wrapped: fmt.Errorf("jp2: strip %d extends past tile data", i)}
	}

	decoded, err := decodeUncompressed(d.raw[byteOffset:byteOffset+stripBytes], d.Width, lines, d.Channels, d.Format)
	if err != nil {
		return nil, err
	}

	d.lastStrip = i
	if i == d.NumStrips()-1 {
		d.state = JP2Exhausted
	}
	return decoded, nil
}

// decodeJP2Whole decodes every strip in order and assembles the full tile,
// for callers (the Tile Decoder's single-shot Decode entry point) that do
// not need strip-level control.
func decodeJP2Whole(raw []byte, width, height, channels int, format lazyimg.SampleFormat) (*Decoded, error) {
	d, err := OpenJP2(raw, width, height, channels, format)
	if err != nil {
		return nil, err
	}
	out := &Decoded{Width: width, Height: height, Channels: channels, Format: format, Pix: make([]float64, width*height*channels)}
	for i := 0; i < d.NumStrips(); i++ {
		strip, err := d.DecodeStrip(i)
		if err != nil {
			return nil, err
		}
		copy(out.Pix[i*stripLines*width*channels:], strip.Pix)
	}
	return out, nil
}
