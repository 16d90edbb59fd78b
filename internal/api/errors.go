package api

import (
	"errors"
	"fmt"
	"net"
)

// Sentinel transport errors, distinguishable for user-facing messages
var (
	// ErrTimeout marks a request that exceeded the client timeout
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork marks any other transport-level failure
	ErrNetwork = errors.New("network unreachable")
)

// APIError is an application-level failure: the HTTP exchange succeeded but
// the envelope carried a non-200 code
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api error %d: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("api error %d", e.Code)
}

// Message returns the server-supplied message, or the given fallback
func (e *APIError) Message(fallback string) string {
	if e.Msg != "" {
		return e.Msg
	}
	return fallback
}

// IsLoginRequired reports whether the error means the NetEase session is
// missing or expired. The backend answers 400 for requests whose session
// cookie no longer resolves.
func IsLoginRequired(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 400 || apiErr.Code == 401
	}
	return false
}

func classifyTransport(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
