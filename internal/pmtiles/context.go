package pmtiles

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/store"
)

// Naming returns a catalog.NamingScheme that addresses tiles by "z/x/y"
// rather than a directory path, for levels backed by a PMTiles archive.
// levelID is parsed as the zoom integer, matching the reference tool's own
// z/x/y addressing of a PMTiles archive's tile data section.
func Naming() catalog.NamingScheme {
	return func(layerID, levelID string, col, row int) string {
		return levelID + "/" + strconv.Itoa(col) + "/" + strconv.Itoa(row)
	}
}

// Context is the Storage Context variant backed by a single PMTiles v3
// archive (§4.1's "S3-compatible object-store backends" generalized to a
// third kind: an already-assembled tile archive opened once and read
// many times). container is unused; object is the "z/x/y" string produced
// by Naming.
type Context struct {
	Path string

	reader *Reader
}

var _ store.Context = (*Context)(nil)

// NewContext creates a Context for the PMTiles archive at path. The archive
// is not opened until Open is called, matching FileContext's lazy-open
// convention.
func NewContext(path string) *Context {
	return &Context{Path: path}
}

func (c *Context) Open(ctx context.Context) error {
	r, err := OpenReader(c.Path)
	if err != nil {
		return &store.Error{Kind: store.KindNotFound, Object: c.Path, Wrapped: err}
	}
	c.reader = r
	return nil
}

// ReadRange ignores offset/length: a PMTiles tile is read and returned
// whole, then handed to the Tile Decoder like any other backend's bytes.
func (c *Context) ReadRange(ctx context.Context, object string, offset, length int64) ([]byte, error) {
	z, x, y, err := parseZXY(object)
	if err != nil {
		return nil, &store.Error{Kind: store.KindMalformed, Object: object, Wrapped: err}
	}
	data, err := c.reader.ReadTile(z, x, y)
	if err != nil {
		return nil, &store.Error{Kind: store.KindTransport, Object: object, Wrapped: err}
	}
	if data == nil {
		return nil, &store.Error{Kind: store.KindNotFound, Object: object, Wrapped: fmt.Errorf("no tile at z%d/%d/%d", z, x, y)}
	}
	return data, nil
}

func (c *Context) Close() error {
	if c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func parseZXY(object string) (z, x, y int, err error) {
	parts := strings.Split(object, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("pmtiles: malformed tile address %q", object)
	}
	z, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, fmt.Errorf("pmtiles: malformed tile address %q", object)
	}
	return z, x, y, nil
}
