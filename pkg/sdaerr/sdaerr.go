// Package sdaerr defines the single domain-wide tagged error type used by
// every layer of the protocol. Layers add context with fmt.Errorf's %w but
// never retype the Kind, so a caller at any depth can recover the original
// classification with errors.As.
package sdaerr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed. See spec §7.
type Kind int

const (
	// Unknown is the zero value and is never intentionally returned.
	Unknown Kind = iota
	// PermissionDenied means the caller's identity failed an access rule.
	PermissionDenied
	// InvalidCredentials means the caller's identity could not be established.
	InvalidCredentials
	// NotFound means a required entity is missing.
	NotFound
	// InvalidArgument means the input was malformed, dimension-mismatched, or
	// scheme-mismatched.
	InvalidArgument
	// SignatureInvalid means payload signature verification failed.
	SignatureInvalid
	// CryptoFailure means decryption or decoding failed, opaque to the
	// caller.
	CryptoFailure
	// Conflict means a duplicate submission of an immutable entity carried a
	// differing body.
	Conflict
	// Inconsistent means a server-side store invariant was violated; fatal
	// to the request.
	Inconsistent
	// Transport means a network/IO failure occurred; the caller may retry.
	Transport
)

func (k Kind) String() string {
	switch k {
	case PermissionDenied:
		return "permission_denied"
	case InvalidCredentials:
		return "invalid_credentials"
	case NotFound:
		return "not_found"
	case InvalidArgument:
		return "invalid_argument"
	case SignatureInvalid:
		return "signature_invalid"
	case CryptoFailure:
		return "crypto_failure"
	case Conflict:
		return "conflict"
	case Inconsistent:
		return "inconsistent"
	case Transport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the concrete shape carried through every layer: a classification,
// the operation that failed, and the cause (which may itself be an *Error
// from a lower layer).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sda: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("sda: %s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error with no wrapped cause.
func New(op string, kind Kind, msg string) *Error {
	if msg == "" {
		return &Error{Kind: kind, Op: op}
	}
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// Wrap attaches op context to an existing error. If err already carries an
// *Error at any wrapping depth, its Kind is kept on the new outer layer, so
// a layer adds context without retyping; otherwise kind is used. The inner
// error stays reachable via Unwrap/As.
func Wrap(op string, kind Kind, err error) *Error {
	var inner *Error
	if errors.As(err, &inner) {
		kind = inner.Kind
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is an *Error (at any wrapping depth) of the given
// Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of the first *Error found by unwrapping err, or
// Unknown if none is found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
