package cpanel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by ReadFile when the file could not be read for
// any reason.
var ErrNotFound = errors.New("file not found or unreadable")

// APIError describes a failed UAPI call.
type APIError struct {
	Endpoint   string
	Method     string
	StatusCode int      // HTTP status, 0 when no response arrived
	Message    string   // Human readable reason
	Remote     []string // errors array reported by cPanel, if any
	Err        error    // Underlying transport or decode error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cpanel %s %s", e.Method, e.Endpoint)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}
