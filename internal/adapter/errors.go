package adapter

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors wrapped by *StatusError and the auth flow.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("client unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrPrecondition   = errors.New("precondition failed")
	ErrServerError    = errors.New("server error")
	ErrUnexpectedCode = errors.New("unexpected status")

	ErrNoAuthURL         = errors.New("no auth url given")
	ErrAuthFailed        = errors.New("auth failed")
	ErrUnknownAuthMethod = errors.New("unknown auth method")
	ErrNoEndpoint        = errors.New("no storage endpoint in auth response")
	ErrCDNUnsupported    = errors.New("no cdn management url available")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
	Headers    http.Header

	kind error
}

// Error renders the status line and, when present, the response body.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return e.Status
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Body)
}

// Unwrap returns the sentinel matching the status class.
func (e *StatusError) Unwrap() error {
	return e.kind
}
