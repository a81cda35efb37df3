package service

import "errors"

var ErrDiagramNotFound = errors.New("diagram not found")

// ValidationError is a user-facing rejection of a selection or generation
// request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
