package planner

import "fmt"

// State is the per-request state machine of §4.11:
// Parsed -> Validated -> Planned -> Streaming -> Done | Failed.
// Transitions into Failed may occur from any earlier state;
// Streaming -> Failed implies partial output was already written.
type State int

const (
	Parsed State = iota
	Validated
	Planned
	Streaming
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Validated:
		return "validated"
	case Planned:
		return "planned"
	case Streaming:
		return "streaming"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request tracks one request's progress through the state machine. It is
// owned by a single worker goroutine and never shared (§5: "workers do not
// share request state").
type Request struct {
	state State
	// PartialOutput is set once Streaming has written at least one byte to
	// the response. A Streaming -> Failed transition after that point closes
	// the connection without a terminal framing record rather than emitting
	// an error document (§4.11, §7).
	PartialOutput bool
}

// NewRequest starts a request in the Parsed state.
func NewRequest() *Request { return &Request{state: Parsed} }

func (r *Request) State() State { return r.state }

// Advance moves the request forward through the fixed sequence. Advancing
// to a state other than the immediate successor or Failed is a programming
// error.
func (r *Request) Advance(to State) error {
	if to == Failed {
		r.state = Failed
		return nil
	}
	if to != r.state+1 {
		return fmt.Errorf("planner: illegal state transition %s -> %s", r.state, to)
	}
	r.state = to
	return nil
}

// MarkStreaming records that the response body has started writing, so a
// later failure is known to be mid-stream.
func (r *Request) MarkStreaming() {
	r.PartialOutput = true
}

// Fail transitions to Failed from any state.
func (r *Request) Fail() {
	r.state = Failed
}
