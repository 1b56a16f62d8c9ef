// Package reproject implements the Reprojector component (§4.5): presenting
// a source lazy image in a different CRS at a caller-chosen pixel grid via
// point-based inverse sampling.
package reproject

import (
	"fmt"

	"github.com/pspoerri/tileforge/internal/geo"
	"github.com/pspoerri/tileforge/internal/lazyimg"
)

// Sampler samples a materialized raster at a fractional (col, row) source
// pixel coordinate into out (len(out) == channels). It must leave out
// untouched and return false when the coordinate (or any pixel its kernel
// touches) is nodata or out of range, so the caller can substitute nodata.
type Sampler func(raster *Raster, col, row float64, out []float64) (ok bool)

// Raster is a fully-materialized source image: the Reprojector's inverse
// point-sampling contract is incompatible with the lazy image's
// sequential-forward-only access, so the source is read once, top to
// bottom (honoring its own access contract), into memory. Grounded on the
// reference tool's per-pixel renderTile, which samples a fully mmap'd COG
// the same way.
type Raster struct {
	Width, Height, Channels int
	Format                  lazyimg.SampleFormat
	Pix                     []float64 // channel-interleaved, row-major
	NoData                  []float64
}

// Materialize reads every line of src in order and returns the resulting
// Raster.
func Materialize(src lazyimg.Image) (*Raster, error) {
	w, h, ch := src.Width(), src.Height(), src.Channels()
	r := &Raster{Width: w, Height: h, Channels: ch, Format: src.SampleFormat(), Pix: make([]float64, w*h*ch), NoData: src.NoData()}
	line := make([]float64, w*ch)
	for y := 0; y < h; y++ {
		if err := src.FillLine(y, line); err != nil {
			return nil, fmt.Errorf("reproject: materializing source line %d: %w", y, err)
		}
		copy(r.Pix[y*w*ch:], line)
	}
	return r, nil
}

func (r *Raster) isNoData(col, row int) bool {
	if r.NoData == nil {
		return false
	}
	off := (row*r.Width + col) * r.Channels
	for c := 0; c < r.Channels; c++ {
		if r.Pix[off+c] != r.NoData[c] {
			return false
		}
	}
	return true
}

// NearestSampler implements nearest-neighbour point sampling.
func NearestSampler(r *Raster, col, row float64, out []float64) bool {
	if col < 0 || row < 0 {
		return false
	}
	ci, ri := int(col), int(row)
	if ci < 0 || ci >= r.Width || ri < 0 || ri >= r.Height || r.isNoData(ci, ri) {
		return false
	}
	off := (ri*r.Width + ci) * r.Channels
	copy(out, r.Pix[off:off+r.Channels])
	return true
}

// Reprojected is the lazy image variant produced by the Reprojector.
type Reprojected struct {
	guard lazyimg.LineGuard

	source  *Raster
	sourceCRS, targetCRS *geo.CRS
	sourceBBox, targetBBox geo.BBox
	width, height int
	sample  Sampler
	nodata  []float64
}

var _ lazyimg.Image = (*Reprojected)(nil)

// New builds a Reprojected image presenting source (already materialized
// from sourceBBox) in targetCRS over targetBBox at width×height pixels.
// Equivalent CRSs bypass the point transform entirely and the source is
// wrapped with only a bbox relabel, per §4.5.
func New(source *Raster, sourceCRS, targetCRS *geo.CRS, sourceBBox, targetBBox geo.BBox, width, height int, sample Sampler) *Reprojected {
	return &Reprojected{
		source: source, sourceCRS: sourceCRS, targetCRS: targetCRS,
		sourceBBox: sourceBBox, targetBBox: targetBBox,
		width: width, height: height, sample: sample, nodata: source.NoData,
	}
}

func (r *Reprojected) Width() int                   { return r.width }
func (r *Reprojected) Height() int                  { return r.height }
func (r *Reprojected) Channels() int                { return r.source.Channels }
func (r *Reprojected) SampleFormat() lazyimg.SampleFormat { return r.source.Format }
func (r *Reprojected) BBox() geo.BBox               { return r.targetBBox }
func (r *Reprojected) NoData() []float64            { return r.nodata }

// FillLine implements the point-based contract of §4.5: each target pixel
// center maps through the inverse CRS transform to a source coordinate.
func (r *Reprojected) FillLine(i int, buf []float64) error {
	if err := r.guard.Check(i); err != nil {
		return err
	}
	ch := r.source.Channels
	pxW := r.targetBBox.Width() / float64(r.width)
	pxH := r.targetBBox.Height() / float64(r.height)
	worldY := r.targetBBox.MaxY - (float64(i)+0.5)*pxH

	equivalent := geo.Equivalent(r.sourceCRS, r.targetCRS)

	for x := 0; x < r.width; x++ {
		worldX := r.targetBBox.MinX + (float64(x)+0.5)*pxW

		var srcX, srcY float64
		ok := true
		if equivalent {
			srcX, srcY = worldX, worldY
		} else {
			lon, lat, err := r.targetCRS.ToWGS84(worldX, worldY)
			if err != nil {
				return err
			}
			if !r.targetCRS.Validity.Contains(worldX, worldY) {
				ok = false
			} else {
				srcX, srcY, err = r.sourceCRS.FromWGS84(lon, lat)
				if err != nil {
					return err
				}
				ok = r.sourceCRS.Validity.Contains(srcX, srcY)
			}
		}

		out := buf[x*ch : x*ch+ch]
		if !ok {
			r.fillNoData(out)
			continue
		}

		srcRes := r.sourceBBox.Width() / float64(r.source.Width)
		col := (srcX - r.sourceBBox.MinX) / srcRes
		row := (r.sourceBBox.MaxY - srcY) / srcRes

		if !r.sample(r.source, col, row, out) {
			r.fillNoData(out)
		}
	}
	return nil
}

func (r *Reprojected) fillNoData(out []float64) {
	for c := range out {
		if c < len(r.nodata) {
			out[c] = r.nodata[c]
		} else {
			out[c] = 0
		}
	}
}
