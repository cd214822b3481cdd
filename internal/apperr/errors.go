package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Content-generation failures at the LLM boundary.
	ErrAuth          = errors.New("authentication failed")
	ErrEmptyResponse = errors.New("empty model response")

	// ErrGenerationInFlight is returned when a generation request for a
	// supervisee is refused because one is already outstanding.
	ErrGenerationInFlight = errors.New("generation already in flight")
)
