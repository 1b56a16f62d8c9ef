package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerFallsBackToInfoOnBadLevel(t *testing.T) {
	log := NewLogger("not-a-level").(*logrus.Logger)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesValidLevel(t *testing.T) {
	log := NewLogger("debug").(*logrus.Logger)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewMetricsRegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.TilesDecoded.WithLabelValues("png").Inc()
	m.NodataSubstitutions.Inc()

	require.Equal(t, float64(1), testutil.ToFloat64(m.TilesDecoded.WithLabelValues("png")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.NodataSubstitutions))
}
