package wireenc

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// TIFF tag IDs, GeoKey IDs and data types used by the GeoTIFF writer.
const (
	tagImageWidth         = 256
	tagImageLength        = 257
	tagBitsPerSample      = 258
	tagCompression        = 259
	tagPhotometric        = 262
	tagStripOffsets       = 273
	tagSamplesPerPixel    = 277
	tagRowsPerStrip       = 278
	tagStripByteCounts    = 279
	tagPlanarConfig       = 284
	tagSampleFormat       = 339
	tagModelPixelScaleTag = 33550
	tagModelTiepointTag   = 33922
	tagGeoKeyDirectoryTag = 34735

	dtASCII  = 2
	dtShort  = 3
	dtLong   = 4
	dtDouble = 12

	tagGDALNoData = 42113

	gkModelTypeGeoKey       = 1024
	gkRasterTypeGeoKey      = 1025
	gkGeographicTypeGeoKey  = 2048
	gkProjectedCSTypeGeoKey = 3072
)

// entry is one not-yet-serialized IFD directory entry.
type entry struct {
	tag      uint16
	dataType uint16
	count    uint32
	inline   [4]byte // used when count*typeSize(dataType) <= 4
	external []byte  // used otherwise; entry.value becomes an offset into it
}

func typeSize(dt uint16) int {
	switch dt {
	case dtShort:
		return 2
	case dtLong:
		return 4
	case dtDouble:
		return 8
	default:
		return 1
	}
}

func shortEntry(tag uint16, vals []uint16) entry {
	e := entry{tag: tag, dataType: dtShort, count: uint32(len(vals))}
	buf := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	if len(buf) <= 4 {
		copy(e.inline[:], buf)
	} else {
		e.external = buf
	}
	return e
}

func longEntry(tag uint16, v uint32) entry {
	e := entry{tag: tag, dataType: dtLong, count: 1}
	binary.LittleEndian.PutUint32(e.inline[:], v)
	return e
}

func asciiEntry(tag uint16, s string) entry {
	buf := append([]byte(s), 0)
	e := entry{tag: tag, dataType: dtASCII, count: uint32(len(buf))}
	if len(buf) <= 4 {
		copy(e.inline[:], buf)
	} else {
		e.external = buf
	}
	return e
}

func doubleEntry(tag uint16, vals []float64) entry {
	e := entry{tag: tag, dataType: dtDouble, count: uint32(len(vals))}
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	e.external = buf // 8 bytes/value never fits inline
	return e
}

// geoKeyEPSG resolves the GeoTIFF GeoKeyDirectory entries for a CRS code
// such as "EPSG:3857" or "CRS:84", per §3's CRS data model.
func geoKeyEPSG(code string) (modelType uint16, keyID uint16, epsg uint16) {
	if code == "CRS:84" || code == "EPSG:4326" {
		return 2, gkGeographicTypeGeoKey, 4326 // GTModelTypeGeographic
	}
	parts := strings.SplitN(code, ":", 2)
	if len(parts) == 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			return 1, gkProjectedCSTypeGeoKey, uint16(n) // GTModelTypeProjected
		}
	}
	return 1, gkProjectedCSTypeGeoKey, 0
}

func sampleFormatCode(f lazyimg.SampleFormat) (bitsPerSample uint16, sampleFormat uint16) {
	switch f {
	case lazyimg.UInt16:
		return 16, 1 // unsigned integer
	case lazyimg.Float32:
		return 32, 3 // IEEE float
	default:
		return 8, 1
	}
}

func narrowSample(v float64, f lazyimg.SampleFormat, dst []byte) {
	switch f {
	case lazyimg.UInt16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case lazyimg.Float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
	default:
		dst[0] = clampByte(v)
	}
}

// encodeGeoTIFF writes an uncompressed, single-strip TIFF carrying
// ModelPixelScale/ModelTiepoint/GeoKeyDirectory tags.
func encodeGeoTIFF(img lazyimg.Image, w io.Writer, nodata []float64) error {
	width, height, channels := img.Width(), img.Height(), img.Channels()
	format := img.SampleFormat()
	bitsPerSample, sampleFormat := sampleFormatCode(format)
	sampleBytes := int(bitsPerSample) / 8

	// Materialize the strip: one scanline at a time, channel-interleaved, in
	// the pyramid's native sample format.
	row := make([]float64, width*channels)
	strip := make([]byte, width*height*channels*sampleBytes)
	stride := width * channels * sampleBytes
	for y := 0; y < height; y++ {
		if err := img.FillLine(y, row); err != nil {
			return fmt.Errorf("wireenc: reading line %d: %w", y, err)
		}
		for x := 0; x < width*channels; x++ {
			off := y*stride + x*sampleBytes
			narrowSample(row[x], format, strip[off:off+sampleBytes])
		}
	}

	box := img.BBox()
	pxSizeX := box.Width() / float64(width)
	pxSizeY := box.Height() / float64(height)

	photometric := uint16(1) // BlackIsZero
	if channels >= 3 {
		photometric = 2 // RGB
	}

	bitsPerSampleVals := make([]uint16, channels)
	sampleFormatVals := make([]uint16, channels)
	for i := range bitsPerSampleVals {
		bitsPerSampleVals[i] = bitsPerSample
		sampleFormatVals[i] = sampleFormat
	}

	modelType, keyID, epsg := geoKeyEPSG(box.CRS.Code)
	geoKeys := []uint16{
		1, 1, 0, 3, // KeyDirectoryVersion, KeyRevision, MinorRevision, NumberOfKeys
		gkModelTypeGeoKey, 0, 1, modelType,
		gkRasterTypeGeoKey, 0, 1, 1, // RasterPixelIsArea
		keyID, 0, 1, epsg,
	}

	entries := []entry{
		longEntry(tagImageWidth, uint32(width)),
		longEntry(tagImageLength, uint32(height)),
		shortEntry(tagBitsPerSample, bitsPerSampleVals),
		shortEntry(tagCompression, []uint16{1}),
		shortEntry(tagPhotometric, []uint16{photometric}),
		longEntry(tagStripOffsets, 0), // patched below once the pixel offset is known
		shortEntry(tagSamplesPerPixel, []uint16{uint16(channels)}),
		longEntry(tagRowsPerStrip, uint32(height)),
		longEntry(tagStripByteCounts, uint32(len(strip))),
		shortEntry(tagPlanarConfig, []uint16{1}),
		shortEntry(tagSampleFormat, sampleFormatVals),
		doubleEntry(tagModelPixelScaleTag, []float64{pxSizeX, pxSizeY, 0}),
		doubleEntry(tagModelTiepointTag, []float64{0, 0, 0, box.MinX, box.MaxY, 0}),
		shortEntry(tagGeoKeyDirectoryTag, geoKeys),
	}
	if len(nodata) > 0 {
		entries = append(entries, asciiEntry(tagGDALNoData, strconv.FormatFloat(nodata[0], 'g', -1, 64)))
	}

	return writeTIFFLayout(w, entries, strip)
}

// writeTIFFLayout serializes a classic (non-Big) little-endian TIFF: header,
// pixel strip, external tag value blocks, then the IFD itself. entries must
// already be sorted ascending by tag (TIFF's recommended, though not
// strictly required, ordering).
func writeTIFFLayout(w io.Writer, entries []entry, strip []byte) error {
	const headerSize = 8
	stripOffset := uint32(headerSize)

	// Patch the StripOffsets entry now that we know where the strip lands.
	for i := range entries {
		if entries[i].tag == tagStripOffsets {
			binary.LittleEndian.PutUint32(entries[i].inline[:], stripOffset)
		}
	}

	externalOffset := stripOffset + uint32(len(strip))
	var external []byte
	for i := range entries {
		if entries[i].external == nil {
			continue
		}
		off := externalOffset + uint32(len(external))
		binary.LittleEndian.PutUint32(entries[i].inline[:], off)
		external = append(external, entries[i].external...)
	}

	ifdOffset := externalOffset + uint32(len(external))

	var buf []byte
	// Header: "II", magic 42, first IFD offset.
	buf = append(buf, 'I', 'I')
	buf = binary.LittleEndian.AppendUint16(buf, 42)
	buf = binary.LittleEndian.AppendUint32(buf, ifdOffset)

	buf = append(buf, strip...)
	buf = append(buf, external...)

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(entries)))
	for _, e := range entries {
		buf = binary.LittleEndian.AppendUint16(buf, e.tag)
		buf = binary.LittleEndian.AppendUint16(buf, e.dataType)
		buf = binary.LittleEndian.AppendUint32(buf, e.count)
		buf = append(buf, e.inline[:]...)
	}
	buf = binary.LittleEndian.AppendUint32(buf, 0) // no next IFD

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("wireenc: writing geotiff: %w", err)
	}
	return nil
}
