package planner

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pspoerri/tileforge/internal/catalog"
	"github.com/pspoerri/tileforge/internal/lazyimg"
	"github.com/pspoerri/tileforge/internal/tms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnTheFlyGuardDedupesConcurrentSameTile(t *testing.T) {
	g := NewOnTheFlyGuard()
	layer := &catalog.Layer{ID: "dem"}
	level := catalog.Level{TM: tms.TileMatrix{ID: "2"}}

	var calls int32
	start := make(chan struct{})
	var wg sync.WaitGroup
	results := make([]lazyimg.Image, 8)
	errs := make([]error, 8)

	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			img, err := g.Compute(layer, level, 3, 4, func() (lazyimg.Image, error) {
				atomic.AddInt32(&calls, 1)
				return &lazyimg.Nodata{W: 1, H: 1, Ch: 1, Value: []float64{42}}, nil
			})
			results[i] = img
			errs[i] = err
		}()
	}
	close(start)
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOnTheFlyGuardDoesNotDedupeDifferentTiles(t *testing.T) {
	g := NewOnTheFlyGuard()
	layer := &catalog.Layer{ID: "dem"}
	level := catalog.Level{TM: tms.TileMatrix{ID: "2"}}

	var calls int32
	compute := func(col, row int) (lazyimg.Image, error) {
		return g.Compute(layer, level, col, row, func() (lazyimg.Image, error) {
			atomic.AddInt32(&calls, 1)
			return &lazyimg.Nodata{W: 1, H: 1, Ch: 1, Value: []float64{0}}, nil
		})
	}

	_, err := compute(0, 0)
	require.NoError(t, err)
	_, err = compute(1, 0)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
