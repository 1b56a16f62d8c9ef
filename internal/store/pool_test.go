package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolReusesContext(t *testing.T) {
	pool, err := NewPool(4)
	require.NoError(t, err)

	opens := 0
	open := func() (Context, error) {
		opens++
		return &countingFailingContext{fn: func() error { return nil }}, nil
	}

	c1, err := pool.GetOrOpen(context.Background(), "k", open)
	require.NoError(t, err)
	c2, err := pool.GetOrOpen(context.Background(), "k", open)
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, opens)
}
