package syncerr

import (
	"errors"
	"fmt"
)

// Kind tags one class of failure.
type Kind string

const (
	// DecodeFailure marks a malformed capture payload or response body.
	DecodeFailure Kind = "DECODE_FAILURE"
	// TransportFailure marks a connection, DNS or TLS failure (status 0).
	TransportFailure Kind = "TRANSPORT_FAILURE"
	// RemoteRejection marks an HTTP status of 400 or above.
	RemoteRejection Kind = "REMOTE_REJECTION"
	// ConfigurationGap marks a missing target or session setting.
	ConfigurationGap Kind = "CONFIGURATION_GAP"
)

// Error carries the kind, the failing operation and an optional HTTP status.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind and operation name.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Rejected builds a RemoteRejection for an HTTP status line.
func Rejected(op string, status int, statusLine string) *Error {
	return &Error{Kind: RemoteRejection, Op: op, Status: status, Err: errors.New(statusLine)}
}

// KindOf returns the kind of the first tagged error in the chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
