package gateway

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when the model does not answer within llm.timeout.
var ErrTimeout = errors.New("LLM request timed out")

// RequestError wraps a transport or HTTP failure talking to the provider.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("LLM request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError means the response could not be turned into questions. Raw
// holds the untouched model output for display.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse LLM response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
