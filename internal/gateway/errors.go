package gateway

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a 2xx response whose body is missing required
// fields or carries success=false. Wrapped with detail at each decode site.
var ErrMalformedResponse = errors.New("gateway: malformed response")

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string // truncated body snippet for logs
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: %s returned status %d", e.Operation, e.StatusCode)
}

// transportError wraps network-level failures (unreachable host, timeout)
// so they stay distinguishable from status and decode errors.
func transportError(operation string, err error) error {
	return fmt.Errorf("gateway: %s request failed: %w", operation, err)
}

func malformed(operation, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, operation, detail)
}
