// Package planner implements the Request Planner of §4.10: given parsed
// request parameters, it validates them against the current Catalog and
// assembles the reproject -> resample -> style pipeline that the Encoder
// then drains line by line.
package planner

import "fmt"

// Kind is the small sentinel-kind error taxonomy of §7, irrespective of
// protocol. Handlers map Kind to the OGC ServiceException code and HTTP
// status appropriate for their protocol.
type Kind int

const (
	KindMissingParameter Kind = iota
	KindInvalidParameter
	KindUnknownLayer
	KindUnknownStyle
	KindUnsupportedFormat
	KindUnknownCRS
	KindTransport
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindMissingParameter:
		return "missing-parameter"
	case KindInvalidParameter:
		return "invalid-parameter"
	case KindUnknownLayer:
		return "unknown-layer"
	case KindUnknownStyle:
		return "unknown-style"
	case KindUnsupportedFormat:
		return "unsupported-format"
	case KindUnknownCRS:
		return "unknown-crs"
	case KindTransport:
		return "transport"
	default:
		return "internal"
	}
}

// HTTPStatus is the HTTP status code §7 assigns to this Kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindTransport:
		return 503
	case KindInternal:
		return 500
	default:
		return 400
	}
}

// OGCExceptionCode is the ServiceException code §7 assigns to this Kind.
func (k Kind) OGCExceptionCode() string {
	switch k {
	case KindMissingParameter:
		return "MissingParameterValue"
	case KindInvalidParameter:
		return "InvalidParameterValue"
	case KindUnknownLayer:
		return "LayerNotDefined"
	case KindUnknownStyle:
		return "StyleNotDefined"
	case KindUnsupportedFormat:
		return "InvalidFormat"
	case KindUnknownCRS:
		return "InvalidCRS"
	default:
		return "NoApplicableCode"
	}
}

// Error is the Planner's wrapped-error type: a Kind plus a causal chain,
// inspected with errors.As/errors.Is per §9's error-handling decision.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("planner: %s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("planner: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

func missingParameter(name string) error {
	return &Error{Kind: KindMissingParameter, Message: fmt.Sprintf("missing required parameter %q", name)}
}

func invalidParameter(format string, args ...any) error {
	return &Error{Kind: KindInvalidParameter, Message: fmt.Sprintf(format, args...)}
}

func unknownLayer(id string) error {
	return &Error{Kind: KindUnknownLayer, Message: fmt.Sprintf("layer %q not in catalogue", id)}
}

func unknownStyle(layerID, styleID string) error {
	return &Error{Kind: KindUnknownStyle, Message: fmt.Sprintf("style %q not in layer %q's style list", styleID, layerID)}
}

func unsupportedFormat(format string) error {
	return &Error{Kind: KindUnsupportedFormat, Message: fmt.Sprintf("format %q not supported", format)}
}

func unknownCRS(code string) error {
	return &Error{Kind: KindUnknownCRS, Message: fmt.Sprintf("CRS %q not recognised or not allowed", code)}
}

func transportErr(err error) error {
	return &Error{Kind: KindTransport, Message: "storage read failed after retries", Wrapped: err}
}

func internalErr(format string, args ...any) error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}
