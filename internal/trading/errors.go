package trading

import "errors"

// Settlement failures surfaced to the HTTP boundary. Messages are the exact
// plain-text bodies the Express routes answered with.
var (
	ErrMissingFields       = errors.New("Missing required fields")
	ErrProjectNotFound     = errors.New("Project not found")
	ErrInsufficientBalance = errors.New("Insufficient balance")
)
