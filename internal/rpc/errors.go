package rpc

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for rpc operations.
var (
	// ErrEmptyAuth is returned when the login call succeeded but the backend
	// handed back no usable session identifier (false, null or zero).
	ErrEmptyAuth = errors.New("authentication returned no session")
	// ErrInvalidArgument is returned when a model or method name is not a
	// valid backend identifier.
	ErrInvalidArgument = errors.New("invalid argument")
)

// TransportError reports a failed HTTP exchange: either the request never
// completed (Err is set) or the backend answered with a non-2xx status.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		if e.Status != 0 {
			return fmt.Sprintf("transport: status %d: %v", e.Status, e.Err)
		}
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport: unexpected status %d %s", e.Status, http.StatusText(e.Status))
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is an error envelope returned by the backend, including
// authentication failures.
type RemoteError struct {
	Code    int
	Message string
	Name    string
	Subcode string
}

func newRemoteError(f Failure) *RemoteError {
	return &RemoteError{
		Code:    f.Code,
		Message: f.Message,
		Name:    f.Name,
		Subcode: f.Subcode,
	}
}

// Error prefers the sub-code message since the top-level message is usually
// a generic "Server Error" string.
func (e *RemoteError) Error() string {
	if e.Subcode != "" {
		return e.Subcode
	}
	if e.Message != "" {
		return e.Message
	}
	return "remote error"
}

// Exception names that mean the session can no longer be used.
var authExceptions = []string{
	"AccessDenied",
	"SessionExpiredException",
}

// IsAuthFailure reports whether the backend rejected the call because the
// credentials or the session are no longer valid.
func (e *RemoteError) IsAuthFailure() bool {
	for _, name := range authExceptions {
		if strings.HasSuffix(e.Name, name) {
			return true
		}
	}
	return false
}
