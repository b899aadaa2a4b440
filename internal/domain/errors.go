package domain

import "errors"

// Sentinel errors returned by services and matched by handlers with errors.Is.
var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("invalid input")

	// ErrUnauthorized indicates the caller's workspace does not own the resource.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSlotTaken indicates the requested appointment slot was booked
	// between the availability check and the create attempt.
	ErrSlotTaken = errors.New("slot no longer available")
)
