package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "worker_pool_size: 16\n")
	srv, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, srv.WorkerPoolSize)
	assert.Equal(t, 32, srv.StoragePoolCapacity)
	assert.Equal(t, 0.8, srv.MemoryPressureFrac)
	assert.Equal(t, "info", srv.LogLevel)
}

func TestLoadParsesBackends(t *testing.T) {
	path := writeConfig(t, `
worker_pool_size: 4
backends:
  dem-archive:
    type: object
    endpoint: s3.example.com
    bucket: tiles
    use_ssl: true
`)
	srv, err := Load(path)
	require.NoError(t, err)
	b, ok := srv.Backends["dem-archive"]
	require.True(t, ok)
	assert.Equal(t, "object", b.Type)
	assert.Equal(t, "tiles", b.Bucket)
	assert.True(t, b.UseSSL)
}

func TestLoadRejectsNonPositiveWorkerPool(t *testing.T) {
	path := writeConfig(t, "worker_pool_size: 0\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadDeadline(t *testing.T) {
	path := writeConfig(t, "worker_pool_size: 1\nrequest_deadline: not-a-duration\n")
	_, err := Load(path)
	assert.Error(t, err)
}
