package lens

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed input caught before any network call.
// Operations that fail validation send nothing to the server.
type ValidationError struct {
	Field  string // input that failed validation, e.g. "priority"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports a failure to complete the HTTP exchange: connection
// refused, DNS failure, timeout, or a response body that could not be read.
// No server response was obtained, so callers can distinguish "server
// unreachable" from "server rejected" ([RequestError]).
type TransportError struct {
	Op  string // "POST /lens/reasoning/process"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestError reports a non-2xx response from the server. Message carries
// the server-supplied detail when the body had one, otherwise the raw body.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// ProcessingError wraps failures from [QueryProcessor] operations.
// Use [errors.As] to recover the underlying [RequestError] or
// [TransportError].
type ProcessingError struct {
	Op  string // "process query", "get contract", ...
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// SteeringError wraps failures from [SteeringManager] operations. For batch
// staging, Entry and StepID identify the directive that failed; Entry is -1
// for non-batch failures.
type SteeringError struct {
	Op     string
	Entry  int
	StepID string
	Err    error
}

func (e *SteeringError) Error() string {
	if e.Entry >= 0 {
		return fmt.Sprintf("failed to %s: entry %d (step %s): %v", e.Op, e.Entry, e.StepID, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *SteeringError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err wraps a 404 response, meaning the contract
// or resource does not exist on the server.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}
