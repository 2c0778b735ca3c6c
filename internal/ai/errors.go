package ai

import (
	"errors"
	"fmt"
)

// UpstreamError marks a failure of the model provider: a transport or API
// error, an empty response, or output that violates the provider contract
// (such as an embedding of the wrong dimension).
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("openai %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

func upstream(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}
