package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Ledger errors
	ErrMsgAlreadyJoined    = "job already joined"
	ErrMsgNotJoined        = "job not joined"
	ErrMsgJobLimitExceeded = "job limit exceeded"

	// Catalog errors
	ErrMsgJobNotFound = "job not found"

	// Persistence errors
	ErrMsgEntryNotFound = "ledger entry not found"

	// Economy errors
	ErrMsgEconomyUnavailable = "economy provider unavailable"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Ledger errors
	ErrAlreadyJoined    = errors.New(ErrMsgAlreadyJoined)
	ErrNotJoined        = errors.New(ErrMsgNotJoined)
	ErrJobLimitExceeded = errors.New(ErrMsgJobLimitExceeded)

	// Catalog errors
	ErrJobNotFound = errors.New(ErrMsgJobNotFound)

	// Persistence errors
	ErrEntryNotFound = errors.New(ErrMsgEntryNotFound)

	// Economy errors
	ErrEconomyUnavailable = errors.New(ErrMsgEconomyUnavailable)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
