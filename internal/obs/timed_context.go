package obs

import (
	"context"
	"time"

	"github.com/pspoerri/tileforge/internal/store"
)

// TimedContext wraps a Storage Context and records read latency on a
// Metrics histogram, the "storage read latency" instrumentation point
// named in §10. It implements store.Context so it drops into store.Pool
// transparently.
type TimedContext struct {
	store.Context
	Metrics *Metrics
}

var _ store.Context = (*TimedContext)(nil)

// ReadRange delegates to the wrapped Context, observing wall-clock latency
// regardless of outcome (a failed read still consumed backend time).
func (t *TimedContext) ReadRange(ctx context.Context, object string, offset, length int64) ([]byte, error) {
	start := time.Now()
	data, err := t.Context.ReadRange(ctx, object, offset, length)
	if t.Metrics != nil {
		t.Metrics.StorageReadSeconds.Observe(time.Since(start).Seconds())
	}
	return data, err
}
