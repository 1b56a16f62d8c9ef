package store

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Pool is the process-wide Storage Context handle pool, keyed by
// (backend-type, endpoint, credentials), per the ownership rule in §3:
// "Storage Contexts are process-wide, pooled by (backend-type, endpoint,
// credentials)." Backed by github.com/hashicorp/golang-lru/v2 so a
// long-running server bounds the number of concurrently-open backends.
type Pool struct {
	cache *lru.Cache[string, Context]
}

// NewPool creates a Pool holding at most capacity open Storage Contexts.
func NewPool(capacity int) (*Pool, error) {
	cache, err := lru.NewWithEvict[string, Context](capacity, func(_ string, c Context) {
		_ = c.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("store: building pool: %w", err)
	}
	return &Pool{cache: cache}, nil
}

// Key builds the pool key for a backend.
func Key(backendType, endpoint, credentialsFingerprint string) string {
	return backendType + "|" + endpoint + "|" + credentialsFingerprint
}

// GetOrOpen returns the pooled Context for key, opening and inserting it via
// open if not already present.
func (p *Pool) GetOrOpen(ctx context.Context, key string, open func() (Context, error)) (Context, error) {
	if c, ok := p.cache.Get(key); ok {
		return c, nil
	}
	c, err := open()
	if err != nil {
		return nil, err
	}
	if err := c.Open(ctx); err != nil {
		return nil, err
	}
	p.cache.Add(key, c)
	return c, nil
}

// ReadRangeWithRetry retries transport errors per policy, per §4.1's "at
// most N retries with fixed backoff" rule. Other error kinds are returned
// immediately without retry.
func ReadRangeWithRetry(ctx context.Context, c Context, object string, offset, length int64, policy RetryPolicy) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		data, err := c.ReadRange(ctx, object, offset, length)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !IsTransport(err) {
			return nil, err
		}
		if attempt < policy.MaxRetries {
			wait := time.Duration(policy.Backoff(attempt)) * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return nil, lastErr
}
