// Package tms implements the TileMatrix and TileMatrixSet data-model types:
// the grid parameters of one pyramid resolution level and the ordered family
// of such grids sharing a CRS.
package tms

import (
	"fmt"
	"sort"

	"github.com/pspoerri/tileforge/internal/geo"
)

// TileMatrix is a single pyramid level's grid, per §3. Invariant: the world
// bbox of tile (col,row) is derived solely from these fields.
type TileMatrix struct {
	ID         string
	Resolution float64 // CRS units per pixel
	X0, Y0     float64 // top-left corner world coordinate
	TileW      int
	TileH      int
	MatrixW    int // extent in tiles
	MatrixH    int
}

// TileBBox returns the world bbox of tile (col,row), per the invariant in §3:
// row index grows downward from the matrix's top-left corner.
func (tm TileMatrix) TileBBox(col, row int, crs *geo.CRS) (geo.BBox, error) {
	minX := tm.X0 + float64(col)*float64(tm.TileW)*tm.Resolution
	maxY := tm.Y0 - float64(row)*float64(tm.TileH)*tm.Resolution
	maxX := minX + float64(tm.TileW)*tm.Resolution
	minY := maxY - float64(tm.TileH)*tm.Resolution
	return geo.NewBBox(minX, minY, maxX, maxY, crs)
}

// Extent returns the world bbox covering the whole matrix (col 0..MatrixW-1,
// row 0..MatrixH-1), used by invariant 4 in §8 (every tile's bbox is a
// subset of the full matrix extent).
func (tm TileMatrix) Extent(crs *geo.CRS) (geo.BBox, error) {
	minX := tm.X0
	maxY := tm.Y0
	maxX := minX + float64(tm.MatrixW*tm.TileW)*tm.Resolution
	minY := maxY - float64(tm.MatrixH*tm.TileH)*tm.Resolution
	return geo.NewBBox(minX, minY, maxX, maxY, crs)
}

// InBounds reports whether (col,row) lies within the matrix's tile grid.
func (tm TileMatrix) InBounds(col, row int) bool {
	return col >= 0 && col < tm.MatrixW && row >= 0 && row < tm.MatrixH
}

// TileMatrixSet is an ordered family of TileMatrix values sharing one CRS,
// per §3. Loaded once at startup; read-only thereafter.
type TileMatrixSet struct {
	ID       string
	CRS      *geo.CRS
	matrices []TileMatrix // sorted by descending resolution
	byID     map[string]int
}

// NewTileMatrixSet builds a TileMatrixSet, sorting matrices by descending
// resolution (the ordering that defines a pyramid, per §3).
func NewTileMatrixSet(id string, crs *geo.CRS, matrices []TileMatrix) (*TileMatrixSet, error) {
	if len(matrices) == 0 {
		return nil, fmt.Errorf("tms: %q has no matrices", id)
	}
	sorted := make([]TileMatrix, len(matrices))
	copy(sorted, matrices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Resolution > sorted[j].Resolution
	})

	byID := make(map[string]int, len(sorted))
	for i, m := range sorted {
		if _, exists := byID[m.ID]; exists {
			return nil, fmt.Errorf("tms: duplicate matrix id %q in set %q", m.ID, id)
		}
		byID[m.ID] = i
	}

	return &TileMatrixSet{ID: id, CRS: crs, matrices: sorted, byID: byID}, nil
}

// Matrices returns the matrices in descending-resolution order. The caller
// must not mutate the returned slice.
func (s *TileMatrixSet) Matrices() []TileMatrix { return s.matrices }

// ByID looks up a matrix by its identifier.
func (s *TileMatrixSet) ByID(id string) (TileMatrix, bool) {
	i, ok := s.byID[id]
	if !ok {
		return TileMatrix{}, false
	}
	return s.matrices[i], true
}

// Contains reports whether tm (by value) belongs to this set, used to
// enforce invariant 1 of §8 (`L.tm ∈ L.pyramid.tms.matrices`).
func (s *TileMatrixSet) Contains(tm TileMatrix) bool {
	i, ok := s.byID[tm.ID]
	return ok && s.matrices[i] == tm
}
