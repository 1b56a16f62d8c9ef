package geo

import "fmt"

// BBox is an axis-aligned rectangle owned by a CRS, per the data model.
// Invariant: MinX < MaxX, MinY < MaxY.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
	CRS                    *CRS
}

// NewBBox validates the invariant and returns a BBox.
func NewBBox(minX, minY, maxX, maxY float64, crs *CRS) (BBox, error) {
	if minX >= maxX || minY >= maxY {
		return BBox{}, fmt.Errorf("geo: invalid bbox (%g,%g,%g,%g)", minX, minY, maxX, maxY)
	}
	return BBox{minX, minY, maxX, maxY, crs}, nil
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Intersect returns the overlap of two bboxes already in the same CRS. The
// second return value is false when the boxes do not overlap.
func (b BBox) Intersect(o BBox) (BBox, bool) {
	minX, minY := max(b.MinX, o.MinX), max(b.MinY, o.MinY)
	maxX, maxY := min(b.MaxX, o.MaxX), min(b.MaxY, o.MaxY)
	if minX >= maxX || minY >= maxY {
		return BBox{}, false
	}
	return BBox{minX, minY, maxX, maxY, b.CRS}, true
}

// Reproject maps b into target, cropping to the intersection of both CRSs'
// validity envelopes when the source extent exceeds the target's area of
// use, per §3's BBox operations. Equivalent CRSs are a relabel only.
func (b BBox) Reproject(target *CRS) (BBox, error) {
	if b.CRS == nil || target == nil {
		return BBox{}, fmt.Errorf("geo: reproject requires both source and target CRS")
	}
	if Equivalent(b.CRS, target) {
		return BBox{b.MinX, b.MinY, b.MaxX, b.MaxY, target}, nil
	}

	// Crop the source box to its own CRS's validity envelope first.
	cropped, ok := b.Intersect(BBox{b.CRS.Validity.MinX, b.CRS.Validity.MinY, b.CRS.Validity.MaxX, b.CRS.Validity.MaxY, b.CRS})
	if !ok {
		return BBox{}, fmt.Errorf("geo: bbox lies entirely outside %s's validity envelope", b.CRS.Code)
	}

	// Sample the four corners plus edge midpoints through the forward
	// transform and take the enclosing rectangle; point-based sampling
	// matches the Reprojector's own contract (§4.5).
	xs := []float64{cropped.MinX, cropped.MaxX, (cropped.MinX + cropped.MaxX) / 2}
	ys := []float64{cropped.MinY, cropped.MaxY, (cropped.MinY + cropped.MaxY) / 2}

	first := true
	var minX, minY, maxX, maxY float64
	for _, x := range xs {
		for _, y := range ys {
			lon, lat, err := cropped.CRS.ToWGS84(x, y)
			if err != nil {
				return BBox{}, err
			}
			tx, ty, err := target.FromWGS84(lon, lat)
			if err != nil {
				return BBox{}, err
			}
			if first {
				minX, maxX, minY, maxY = tx, tx, ty, ty
				first = false
				continue
			}
			minX, maxX = min(minX, tx), max(maxX, tx)
			minY, maxY = min(minY, ty), max(maxY, ty)
		}
	}

	// Crop to the target's own validity envelope.
	out, ok := BBox{minX, minY, maxX, maxY, target}.Intersect(
		BBox{target.Validity.MinX, target.Validity.MinY, target.Validity.MaxX, target.Validity.MaxY, target})
	if !ok {
		return BBox{}, fmt.Errorf("geo: reprojected bbox lies entirely outside %s's validity envelope", target.Code)
	}
	return out, nil
}
