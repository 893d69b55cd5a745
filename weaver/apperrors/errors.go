// Package apperrors provides the error taxonomy shared by every pipeline
// stage. Each stage classifies only the failures it understands and wraps
// everything else as Internal; nothing is swallowed.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for propagation and user messaging.
type Kind int

const (
	// Internal is the catch-all for unexpected failures (store connections,
	// panics recovered upstream, unclassifiable provider errors).
	Internal Kind = iota
	// Validation covers malformed or missing input: empty query, bad URL,
	// empty endpoint name, nil schema or extracted data.
	Validation
	// Generation means the text-generation provider returned empty output.
	Generation
	// Upstream is a non-success response from an external provider.
	Upstream
	// Connectivity is a network/stream-level failure during extraction,
	// kept distinct so the user gets actionable guidance.
	Connectivity
	// Timeout means the bounded extraction window elapsed.
	Timeout
	// Parse means model output was not valid JSON after fence stripping.
	Parse
	// NotFound covers empty search responses and absent retrieval keys.
	NotFound
	// Conflict means the derived slug is already deployed for this user.
	Conflict
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Generation:
		return "generation"
	case Upstream:
		return "upstream"
	case Connectivity:
		return "connectivity"
	case Timeout:
		return "timeout"
	case Parse:
		return "parse"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error wraps a failure with its classification and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an existing error, keeping it as the cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the classification of err. Unclassified errors are Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a classification to the response status used by the RPC
// surface. The public retrieval endpoint has its own fixed envelopes and
// does not use this mapping.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Timeout:
		return http.StatusGatewayTimeout
	case Upstream, Connectivity:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
