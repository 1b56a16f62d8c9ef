// Package lazyimg defines the lazy image abstraction that is the central
// working type of the pipeline (§3): a rectangular pixel grid exposing one
// operation, "produce line i", under the guarantee that lines are requested
// in ascending order without revisits. Concrete variants (decoded-tile,
// mosaic, reprojected, resampled, styled, nodata) live in their owning
// packages and compose by wrapping, never by inheritance.
package lazyimg

import (
	"strconv"

	"github.com/pspoerri/tileforge/internal/geo"
)

// SampleFormat is the pixel sample representation carried end to end through
// the pipeline.
type SampleFormat int

const (
	UInt8 SampleFormat = iota
	UInt16
	Float32
)

// Image is the lazy image interface. FillLine writes channel-interleaved
// samples for output row i into buf (len(buf) == Width()*Channels()) as
// float64 regardless of SampleFormat, so downstream numeric code (resample
// kernels, style transforms) never special-cases bit depth; Encoder narrows
// back to the wire representation.
//
// Implementations must reject out-of-order or repeated line requests: once
// FillLine(i) returns, FillLine(j) for any j <= i is an error, a repeat of
// i itself included. Line guard enforcement is provided by embedding
// LineGuard.
type Image interface {
	Width() int
	Height() int
	Channels() int
	SampleFormat() SampleFormat
	BBox() geo.BBox
	NoData() []float64 // per-channel nodata vector, nil if the image carries none
	FillLine(i int, buf []float64) error
}

// LineGuard enforces the ascending-line-only access contract described on
// Image. Embed it in a concrete image and call Check(i) at the top of
// FillLine before doing any work.
type LineGuard struct {
	last int
	used bool
}

// Check validates that i is a legal next line request and records it.
func (g *LineGuard) Check(i int) error {
	if g.used && i <= g.last {
		return &OutOfOrderError{Requested: i, LastReturned: g.last}
	}
	g.last = i
	g.used = true
	return nil
}

// OutOfOrderError reports a violation of the ascending-line-access contract.
type OutOfOrderError struct {
	Requested    int
	LastReturned int
}

func (e *OutOfOrderError) Error() string {
	return "lazyimg: line " + strconv.Itoa(e.Requested) + " requested after line " + strconv.Itoa(e.LastReturned) + " was already returned"
}
