package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest  = "Invalid request body"
	ErrMsgInvalidPlayerID = "Invalid player id"

	ErrMsgGetJobsFailed    = "Failed to retrieve jobs"
	ErrMsgGetEntriesFailed = "Failed to retrieve player jobs"
	ErrMsgJoinFailed       = "Failed to join job"
	ErrMsgLeaveFailed      = "Failed to leave job"
	ErrMsgResetFailed      = "Failed to reset job XP"

	ErrMsgJobNotFound      = "Job not found"
	ErrMsgAlreadyJoined    = "Already joined"
	ErrMsgNotJoined        = "Not joined"
	ErrMsgJobLimitExceeded = "Job limit reached"

	ErrMsgIntakeFull = "Event intake at capacity"

	ErrMsgReloadFailed       = "Catalog reload rejected"
	ErrMsgGrantBoosterFailed = "Failed to grant booster"
	ErrMsgSaveFailed         = "Failed to save ledger"
)
