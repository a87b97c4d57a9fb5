package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a query that is empty after trimming.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrSessionClosed indicates a command was sent to a closed search session.
	ErrSessionClosed = errors.New("search session closed")

	// ErrFetchFailed indicates the session ended up in its error state.
	// The underlying cause is logged, not surfaced.
	ErrFetchFailed = errors.New("fetching results failed")

	// ErrInvalidConfig indicates the search configuration is unusable.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// FetchErrorKind classifies why a page fetch failed.
type FetchErrorKind int

const (
	// FetchTransport covers connectivity failures (DNS, timeout, reset).
	FetchTransport FetchErrorKind = iota + 1

	// FetchHTTPStatus covers any non-200 response.
	FetchHTTPStatus

	// FetchDecode covers a 200 response whose body does not match the schema.
	FetchDecode
)

// String returns the string representation of the kind.
func (k FetchErrorKind) String() string {
	switch k {
	case FetchTransport:
		return "transport"
	case FetchHTTPStatus:
		return "http_status"
	case FetchDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned by a SearchClient when a page could not be fetched.
type FetchError struct {
	Kind FetchErrorKind

	// StatusCode is set for FetchHTTPStatus.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("fetch: unexpected HTTP status %d", e.StatusCode)
	case FetchDecode:
		if e.Err != nil {
			return fmt.Sprintf("fetch: decoding response body: %v", e.Err)
		}
		return "fetch: decoding response body"
	case FetchTransport:
		if e.Err != nil {
			return fmt.Sprintf("fetch: transport failure: %v", e.Err)
		}
		return "fetch: transport failure"
	default:
		return "fetch: unknown failure"
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewHTTPStatusError returns a FetchHTTPStatus error for code.
func NewHTTPStatusError(code int, cause error) *FetchError {
	return &FetchError{Kind: FetchHTTPStatus, StatusCode: code, Err: cause}
}

// NewDecodeError returns a FetchDecode error wrapping cause.
func NewDecodeError(cause error) *FetchError {
	return &FetchError{Kind: FetchDecode, Err: cause}
}

// NewTransportError returns a FetchTransport error wrapping cause.
func NewTransportError(cause error) *FetchError {
	return &FetchError{Kind: FetchTransport, Err: cause}
}

// IsFetchKind reports whether err is a FetchError of the given kind.
func IsFetchKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind == FetchHTTPStatus {
		return fe.StatusCode
	}
	return 0
}
