package service

import "errors"

var (
	// ErrNotFound indicates a profile lookup found no record. Callers surface
	// it as a user-visible "not found" outcome rather than a failure.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists indicates a create raced with a concurrent insert for
	// the same user ID. Callers treat the existing record as the result.
	ErrAlreadyExists = errors.New("user already exists")
)
