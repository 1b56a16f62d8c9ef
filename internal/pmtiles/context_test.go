package pmtiles

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.pmtiles")
	w, err := NewWriter(path, WriterOptions{TileFormat: 1, MinZoom: 0, MaxZoom: 0})
	require.NoError(t, err)
	require.NoError(t, w.WriteTile(0, 0, 0, []byte("tile-bytes")))
	require.NoError(t, w.Finalize())
	return path
}

func TestContextReadsTileByZXYAddress(t *testing.T) {
	path := writeTestArchive(t)
	c := NewContext(path)
	require.NoError(t, c.Open(context.Background()))
	defer c.Close()

	data, err := c.ReadRange(context.Background(), "0/0/0", 0, -1)
	require.NoError(t, err)
	require.Equal(t, []byte("tile-bytes"), data)
}

func TestContextReturnsNotFoundForMissingTile(t *testing.T) {
	path := writeTestArchive(t)
	c := NewContext(path)
	require.NoError(t, c.Open(context.Background()))
	defer c.Close()

	_, err := c.ReadRange(context.Background(), "0/5/5", 0, -1)
	require.Error(t, err)
}

func TestNamingProducesZXYAddress(t *testing.T) {
	scheme := Naming()
	require.Equal(t, "3/7/9", scheme("dem", "3", 7, 9))
}
