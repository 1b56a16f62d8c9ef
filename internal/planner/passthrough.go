package planner

import (
	"context"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/store"
)

// FetchRaw reads one stored tile's undecoded bytes, for the passthrough
// path of §4.9/§4.10 step 6: when a request can be proved to be a
// byte-for-byte copy of a stored tile, the Encoder is bypassed entirely.
func FetchRaw(ctx context.Context, pool *store.Pool, openBackend BackendOpener, layer *catalog.Layer, level catalog.Level, col, row int, policy store.RetryPolicy) ([]byte, error) {
	key, open := openBackend(level.Backend, level.Root)
	sc, err := pool.GetOrOpen(ctx, key, open)
	if err != nil {
		return nil, transportErr(err)
	}
	object := level.ObjectName(layer.ID, col, row)
	raw, err := store.ReadRangeWithRetry(ctx, sc, object, 0, -1, policy)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, &Error{Kind: KindInvalidParameter, Message: "no stored tile at this address"}
		}
		return nil, transportErr(err)
	}
	return raw, nil
}
