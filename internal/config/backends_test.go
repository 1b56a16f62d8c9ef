package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackendOpenerDispatchesFileBackend(t *testing.T) {
	srv := &Server{Backends: map[string]Backend{"local": {Type: "file"}}}
	opener := NewBackendOpener(srv)

	key, open := opener("local", t.TempDir())
	assert.NotEmpty(t, key)
	sc, err := open()
	require.NoError(t, err)
	require.NoError(t, sc.Open(context.Background()))
}

func TestNewBackendOpenerRejectsUnknownBackend(t *testing.T) {
	srv := &Server{Backends: map[string]Backend{}}
	opener := NewBackendOpener(srv)

	_, open := opener("missing", "/tmp")
	_, err := open()
	assert.Error(t, err)
}
