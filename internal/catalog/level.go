// Package catalog implements the process-wide configuration data model:
// Level, Pyramid, Style, and Layer (§3), held in read-only catalogues that
// are swapped atomically on reload (§5).
package catalog

import (
	"fmt"

	"github.com/pspoerri/tileforge/internal/tms"
)

// RenderingMode selects how a Level produces its pixels, per §3.
type RenderingMode int

const (
	// Stored levels serve pre-rendered tiles directly.
	Stored RenderingMode = iota
	// OnDemand levels are resampled from another level/pyramid per request
	// and never persisted.
	OnDemand
	// OnTheFly levels are resampled per request and then persisted as a
	// best-effort side effect (§6 "Persisted state").
	OnTheFly
)

func (m RenderingMode) String() string {
	switch m {
	case Stored:
		return "stored"
	case OnDemand:
		return "on-demand"
	case OnTheFly:
		return "on-the-fly"
	default:
		return "unknown"
	}
}

// Codec names the tile compression format a Level declares, per §4.2.
type Codec string

const (
	CodecUncompressed Codec = "uncompressed"
	CodecPackBits     Codec = "packbits"
	CodecLZW          Codec = "lzw"
	CodecDeflate      Codec = "deflate"
	CodecJPEG         Codec = "jpeg"
	CodecWebP         Codec = "webp"
	CodecPNG          Codec = "png"
	CodecJPEG2000     Codec = "jpeg2000"
)

// TileWindow is the matrix-aligned window of tiles that actually exist for a
// Level, per §3.
type TileWindow struct {
	MinCol, MinRow, MaxCol, MaxRow int
}

// Contains reports whether (col,row) falls within the window.
func (w TileWindow) Contains(col, row int) bool {
	return col >= w.MinCol && col <= w.MaxCol && row >= w.MinRow && row <= w.MaxRow
}

// NamingScheme turns tile indices into a storage object name. The reference
// tool's PMTiles-archive and directory-tree layouts are both instances.
type NamingScheme func(layerID, levelID string, col, row int) (object string)

// DirectoryNaming is the common `<layer>/<level>/<row>/<col>.<ext>` layout.
func DirectoryNaming(ext string) NamingScheme {
	return func(layerID, levelID string, col, row int) string {
		return fmt.Sprintf("%s/%s/%d/%d.%s", layerID, levelID, row, col, ext)
	}
}

// Level binds one TileMatrix to a storage layout, per §3.
type Level struct {
	TM         tms.TileMatrix
	Backend    string // Storage Context pool key
	Root       string // container (directory or bucket) within that backend
	Naming     NamingScheme
	Codec      Codec
	Channels   int
	NoData     []float64
	Window     TileWindow
	Mode       RenderingMode
}

// ObjectName resolves the storage object name for tile (col,row) on this
// level within layer layerID.
func (l Level) ObjectName(layerID string, col, row int) string {
	if l.Naming == nil {
		return DirectoryNaming("bin")(layerID, l.TM.ID, col, row)
	}
	return l.Naming(layerID, l.TM.ID, col, row)
}
