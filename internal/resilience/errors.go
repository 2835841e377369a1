package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// TransientError marks an error as safe to retry (429, 5xx, network timeout).
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError wraps err as transient with an optional HTTP status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// IsTransient returns true if the error chain contains a TransientError or
// matches common network-level transient failure patterns.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// Wrapped errors from HTTP clients lose their type; match on message.
	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus returns true for status codes that indicate a
// transient server-side condition.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
