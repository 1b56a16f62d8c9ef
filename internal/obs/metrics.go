package obs

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the ambient side-channel of instrumentation points named in
// §10: storage read latency, tiles decoded, nodata substitutions, and
// cache hit ratio. Not wired to any HTTP exporter (HTTP is out of scope
// per §1); callers that do expose one register these on their own
// registry, or use the process default via NewMetrics().
type Metrics struct {
	StorageReadSeconds prometheus.Histogram
	TilesDecoded       *prometheus.CounterVec
	NodataSubstitutions prometheus.Counter
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
}

// NewMetrics registers and returns a Metrics bound to reg. Pass
// prometheus.NewRegistry() in tests to avoid polluting the global default
// registry across test runs.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StorageReadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tileforge_storage_read_seconds",
			Help:    "Latency of Storage Context range reads.",
			Buckets: prometheus.DefBuckets,
		}),
		TilesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tileforge_tiles_decoded_total",
			Help: "Tiles successfully decoded, by codec.",
		}, []string{"codec"}),
		NodataSubstitutions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tileforge_nodata_substitutions_total",
			Help: "Tiles replaced by nodata after a malformed-tile or not-found error.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tileforge_storage_pool_hits_total",
			Help: "Storage Context pool lookups served from an already-open handle.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tileforge_storage_pool_misses_total",
			Help: "Storage Context pool lookups that opened a new handle.",
		}),
	}
	reg.MustRegister(m.StorageReadSeconds, m.TilesDecoded, m.NodataSubstitutions, m.CacheHits, m.CacheMisses)
	return m
}
