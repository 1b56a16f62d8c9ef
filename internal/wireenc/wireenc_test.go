package wireenc

import (
	"bytes"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type solidRGB struct {
	guard  lazyimg.LineGuard
	w, h   int
	r, g, b uint8
}

func (s *solidRGB) Width() int                    { return s.w }
func (s *solidRGB) Height() int                   { return s.h }
func (s *solidRGB) Channels() int                 { return 3 }
func (s *solidRGB) SampleFormat() lazyimg.SampleFormat { return lazyimg.UInt8 }
func (s *solidRGB) BBox() geo.BBox {
	box, _ := geo.NewBBox(0, 0, float64(s.w), float64(s.h), geo.Lookup("EPSG:3857"))
	return box
}
func (s *solidRGB) NoData() []float64 { return nil }
func (s *solidRGB) FillLine(i int, buf []float64) error {
	if err := s.guard.Check(i); err != nil {
		return err
	}
	for x := 0; x < s.w; x++ {
		buf[x*3+0], buf[x*3+1], buf[x*3+2] = float64(s.r), float64(s.g), float64(s.b)
	}
	return nil
}

type solidGray struct {
	guard lazyimg.LineGuard
	w, h  int
	v     float64
	nd    []float64
}

func (s *solidGray) Width() int                    { return s.w }
func (s *solidGray) Height() int                   { return s.h }
func (s *solidGray) Channels() int                 { return 1 }
func (s *solidGray) SampleFormat() lazyimg.SampleFormat { return lazyimg.Float32 }
func (s *solidGray) BBox() geo.BBox {
	box, _ := geo.NewBBox(100, 200, float64(100+s.w), float64(200+s.h), geo.Lookup("EPSG:3857"))
	return box
}
func (s *solidGray) NoData() []float64 { return s.nd }
func (s *solidGray) FillLine(i int, buf []float64) error {
	if err := s.guard.Check(i); err != nil {
		return err
	}
	for x := 0; x < s.w; x++ {
		buf[x] = s.v
	}
	return nil
}

func TestEncodePNGRGB(t *testing.T) {
	src := &solidRGB{w: 4, h: 4, r: 10, g: 20, b: 30}
	var buf bytes.Buffer
	require.NoError(t, Encode(src, MimePNG, Options{}, &buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestEncodePNGPaletted(t *testing.T) {
	src := &solidGray{w: 2, h: 2, v: 50}
	pal := &catalog.PaletteTransform{Stops: []catalog.PaletteStop{
		{Key: 0, R: 1, G: 2, B: 3, A: 255},
		{Key: 100, R: 250, G: 250, B: 250, A: 255},
	}}
	var buf bytes.Buffer
	require.NoError(t, Encode(src, MimePNG, Options{Palette: pal}, &buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestEncodeJPEGRejectsGrayInput(t *testing.T) {
	src := &solidGray{w: 2, h: 2, v: 1}
	var buf bytes.Buffer
	err := Encode(src, MimeJPEG, Options{}, &buf)
	assert.ErrorIs(t, err, ErrUnsupportedForInput)
}

func TestEncodeJPEGAcceptsRGB(t *testing.T) {
	src := &solidRGB{w: 4, h: 4, r: 1, g: 2, b: 3}
	var buf bytes.Buffer
	require.NoError(t, Encode(src, MimeJPEG, Options{JPEGQuality: 90}, &buf))
	_, err := jpeg.Decode(&buf)
	require.NoError(t, err)
}

func TestEncodeGIF(t *testing.T) {
	src := &solidRGB{w: 3, h: 3, r: 100, g: 150, b: 200}
	var buf bytes.Buffer
	require.NoError(t, Encode(src, MimeGIF, Options{}, &buf))
	_, err := gif.Decode(&buf)
	require.NoError(t, err)
}

func TestEncodeBILStreamsFloat32(t *testing.T) {
	src := &solidGray{w: 2, h: 2, v: 42.5}
	var buf bytes.Buffer
	require.NoError(t, Encode(src, MimeBIL32, Options{}, &buf))
	assert.Equal(t, 2*2*4, buf.Len())
}

func TestEncodeASCIIGrid(t *testing.T) {
	src := &solidGray{w: 2, h: 2, v: 7, nd: []float64{-9999}}
	var buf bytes.Buffer
	require.NoError(t, Encode(src, MimeASCII, Options{}, &buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "ncols 2\n"))
	assert.Contains(t, out, "NODATA_value -9999")
}

func TestEncodeGeoTIFFRoundTripsRasterViaXImageTIFF(t *testing.T) {
	src := &solidGray{w: 4, h: 3, v: 12}
	var buf bytes.Buffer
	require.NoError(t, Encode(src, MimeGeoTIFF, Options{NoData: []float64{-1}}, &buf))

	img, err := tiff.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}

func TestPassthroughCopiesBytesVerbatim(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	var buf bytes.Buffer
	require.NoError(t, Passthrough(raw, &buf))
	assert.Equal(t, raw, buf.Bytes())
}
