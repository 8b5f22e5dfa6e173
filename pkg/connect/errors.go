package connect

import (
	"errors"
	"net/http"
)

// ErrAuthentication indicates the remote rejected the stored credentials. Callers should escalate
// to a logged-out state rather than retrying.
var ErrAuthentication = errors.New("remote rejected credentials")

// ProtocolError reports a response with an unexpected status code. Any status of 300 or higher
// degrades the
// single resource fetch that triggered it; it never terminates the process.
type ProtocolError struct {
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	if e.Body == "" {
		return "unexpected response: " + http.StatusText(e.StatusCode)
	}
	return "unexpected response: " + http.StatusText(e.StatusCode) + ": " + e.Body
}

// Temporary returns true if the error might be the result of a transient server-side condition and
// the same request could succeed later without user action.
func (e *ProtocolError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Temporary returns true if err wraps a transient protocol failure.
func Temporary(err error) bool {
	var protoErr *ProtocolError
	return errors.As(err, &protoErr) && protoErr.Temporary()
}
