package obs

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fakeContext struct{}

func (fakeContext) Open(context.Context) error { return nil }
func (fakeContext) Close() error                { return nil }
func (fakeContext) ReadRange(ctx context.Context, object string, offset, length int64) ([]byte, error) {
	return []byte("ok"), nil
}

func TestTimedContextObservesLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	tc := &TimedContext{Context: fakeContext{}, Metrics: m}

	data, err := tc.ReadRange(context.Background(), "x", 0, 2)
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), data)
	require.Equal(t, uint64(1), testutil.CollectAndCount(m.StorageReadSeconds))
}
