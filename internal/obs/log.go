// Package obs carries the ambient logging and metrics concerns named in
// §10: structured logging via logrus and counters/histograms via
// client_golang, threaded through the planner and storage layers as
// explicit dependencies rather than global state, mirroring the reference
// tool's verbose-gated call sites.
package obs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide structured logger. level is parsed
// leniently; an unrecognised value falls back to Info, matching the
// reference tool's tolerant flag handling.
func NewLogger(level string) logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// RequestFields builds the structured field set attached to every log line
// for one request, per §10: layer, level, and tile address (z, x, y). It
// carries no duration field.
func RequestFields(layer, level string, z, x, y int) logrus.Fields {
	return logrus.Fields{
		"layer": layer,
		"level": level,
		"z":     z,
		"x":     x,
		"y":     y,
	}
}
