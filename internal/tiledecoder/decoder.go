// Package tiledecoder implements the Tile Decoder component (§4.2):
// decompressing one stored tile's bytes into a raw pixel rectangle in the
// pyramid's native sample format, top-down, channel-interleaved.
package tiledecoder

import (
	"bytes"
	"compress/flate"
	"compress/lzw"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/gen2brain/webp"
	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Decoded is a raw pixel rectangle: top-down rows, channel-interleaved,
// samples widened to float64 (as lazyimg.Image.FillLine expects).
type Decoded struct {
	Width, Height, Channels int
	Format                  lazyimg.SampleFormat
	Pix                     []float64
}

// Line returns a view of row y as a channel-interleaved slice.
func (d *Decoded) Line(y int) []float64 {
	start := y * d.Width * d.Channels
	return d.Pix[start : start+d.Width*d.Channels]
}

// ErrMalformedTile indicates the tile's bytes could not be decoded at all:
// fatal for the tile; the Mosaic treats it as nodata, per §4.2.
type ErrMalformedTile struct{ Wrapped error }

func (e *ErrMalformedTile) Error() string { return fmt.Sprintf("tiledecoder: malformed tile: %v", e.Wrapped) }
func (e *ErrMalformedTile) Unwrap() error { return e.Wrapped }

// ErrCodecMismatch indicates the decoded geometry does not match the owning
// TileMatrix/Pyramid: fatal for the request, per §4.2.
type ErrCodecMismatch struct {
	Want, Got string
}

func (e *ErrCodecMismatch) Error() string {
	return fmt.Sprintf("tiledecoder: codec mismatch: want %s, got %s", e.Want, e.Got)
}

// Decode dispatches on codec and returns a Decoded rectangle matching
// (width, height, channels) in format. raw is the stored tile's bytes.
func Decode(codec catalog.Codec, raw []byte, width, height, channels int, format lazyimg.SampleFormat) (*Decoded, error) {
	switch codec {
	case catalog.CodecUncompressed:
		return decodeUncompressed(raw, width, height, channels, format)
	case catalog.CodecPackBits:
		unpacked, err := decodePackBits(raw, width*height*channels*bytesPerSample(format))
		if err != nil {
			return nil, &ErrMalformedTile{Wrapped: err}
		}
		return decodeUncompressed(unpacked, width, height, channels, format)
	case catalog.CodecLZW:
		unpacked, err := decodeLZW(raw)
		if err != nil {
			return nil, &ErrMalformedTile{Wrapped: err}
		}
		undoHorizontalDifferencing(unpacked, width, channels, bytesPerSample(format))
		return decodeUncompressed(unpacked, width, height, channels, format)
	case catalog.CodecDeflate:
		unpacked, err := decodeDeflate(raw)
		if err != nil {
			return nil, &ErrMalformedTile{Wrapped: err}
		}
		return decodeUncompressed(unpacked, width, height, channels, format)
	case catalog.CodecJPEG:
		img, err := jpeg.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, &ErrMalformedTile{Wrapped: err}
		}
		return fromImage(img, width, height, channels, format)
	case catalog.CodecWebP:
		img, err := webp.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, &ErrMalformedTile{Wrapped: err}
		}
		return fromImage(img, width, height, channels, format)
	case catalog.CodecPNG:
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, &ErrMalformedTile{Wrapped: err}
		}
		return fromImage(img, width, height, channels, format)
	case catalog.CodecJPEG2000:
		return decodeJP2Whole(raw, width, height, channels, format)
	default:
		return nil, &ErrCodecMismatch{Want: "known codec", Got: string(codec)}
	}
}

func bytesPerSample(f lazyimg.SampleFormat) int {
	switch f {
	case lazyimg.UInt8:
		return 1
	case lazyimg.UInt16:
		return 2
	case lazyimg.Float32:
		return 4
	default:
		return 1
	}
}

func decodeUncompressed(raw []byte, width, height, channels int, format lazyimg.SampleFormat) (*Decoded, error) {
	bps := bytesPerSample(format)
	want := width * height * channels * bps
	if len(raw) < want {
		return nil, &ErrMalformedTile{Wrapped: fmt.Errorf("expected %d bytes, got %d", want, len(raw))}
	}
	pix := make([]float64, width*height*channels)
	for i := range pix {
		off := i * bps
		switch format {
		case lazyimg.UInt8:
			pix[i] = float64(raw[off])
		case lazyimg.UInt16:
			pix[i] = float64(uint16(raw[off]) | uint16(raw[off+1])<<8)
		case lazyimg.Float32:
			bits := uint32(raw[off]) | uint32(raw[off+1])<<8 | uint32(raw[off+2])<<16 | uint32(raw[off+3])<<24
			pix[i] = float64(math.Float32frombits(bits))
		}
	}
	return &Decoded{Width: width, Height: height, Channels: channels, Format: format, Pix: pix}, nil
}

func decodeLZW(raw []byte) ([]byte, error) {
	r := lzw.NewReader(bytes.NewReader(raw), lzw.MSB, 8)
	defer r.Close()
	return io.ReadAll(r)
}

func decodeDeflate(raw []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	return io.ReadAll(r)
}

// fromImage widens a decoded image.Image (from JPEG/WebP/PNG) into a
// channel-interleaved Decoded rectangle, transposing from the library's
// internal (possibly planar YCbCr) layout per the Tile Decoder's contract.
func fromImage(img image.Image, width, height, channels int, format lazyimg.SampleFormat) (*Decoded, error) {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, &ErrCodecMismatch{Want: fmt.Sprintf("%dx%d", width, height), Got: fmt.Sprintf("%dx%d", b.Dx(), b.Dy())}
	}
	pix := make([]float64, width*height*channels)
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			switch channels {
			case 1:
				pix[idx] = float64(r >> 8)
				idx++
			case 3:
				pix[idx] = float64(r >> 8)
				pix[idx+1] = float64(g >> 8)
				pix[idx+2] = float64(bl >> 8)
				idx += 3
			default:
				pix[idx] = float64(r >> 8)
				pix[idx+1] = float64(g >> 8)
				pix[idx+2] = float64(bl >> 8)
				pix[idx+3] = float64(a >> 8)
				idx += 4
			}
		}
	}
	return &Decoded{Width: width, Height: height, Channels: channels, Format: format, Pix: pix}, nil
}
