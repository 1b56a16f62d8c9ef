package planner

import (
	"strings"

	"github.com/pspoerri/tileforge/internal/geo"
)

// Protocol is the external interface the request arrived on, per §6.
type Protocol int

const (
	ProtocolWMS Protocol = iota
	ProtocolWMTS
	ProtocolTMS
)

func (p Protocol) String() string {
	switch p {
	case ProtocolWMS:
		return "WMS"
	case ProtocolWMTS:
		return "WMTS"
	case ProtocolTMS:
		return "TMS"
	default:
		return "unknown"
	}
}

// Params is the protocol-neutral parse of a request's parameters. Handlers
// for each protocol build one of these from KVP or path segments before
// handing it to the Planner; the Planner never sees raw query strings.
type Params struct {
	Protocol Protocol
	Version  string

	LayerID     string
	QueryLayers []string // GetFeatureInfo only
	StyleID     string   // empty means the layer's default style
	CRSCode     string
	Format      string // MIME type

	// WMS GetMap geometry.
	Width, Height int
	BBox          geo.BBox
	BBoxSet       bool

	// WMTS / TMS tile addressing.
	TileMatrixSet string
	TileMatrix    string
	Col, Row      int
	TileSet       bool
}

// forbiddenChars blocks injection into generated XML per §6's "forbidden
// characters" rule: request string parameters may not contain '<' or '>'.
func forbiddenChars(s string) bool {
	return strings.ContainsAny(s, "<>")
}

// checkForbiddenChars scans every string-valued parameter the caller
// controls. It runs first, ahead of any catalogue lookup, so an injection
// attempt never reaches an error message that could echo it back (S6). A
// forbidden character in the layer name is reported as unknown-layer.
func (p *Params) checkForbiddenChars() error {
	if forbiddenChars(p.LayerID) {
		return &Error{Kind: KindUnknownLayer, Message: "layer name contains forbidden character"}
	}
	fields :=[]string{p.LayerID, p.StyleID, p.CRSCode, p.Format, p.TileMatrixSet, p.TileMatrix, p.Version}
	for _, f := range fields {
		if forbiddenChars(f) {
			return invalidParameter("parameter contains forbidden character")
		}
	}
	for _, q := range p.QueryLayers {
		if forbiddenChars(q) {
			return invalidParameter("parameter contains forbidden character")
		}
	}
	return nil
}
