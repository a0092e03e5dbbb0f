package transcode

import "errors"

// Sentinel errors for the transcode package.
var (
	// ErrInvalidTransition is returned when a job is asked to move to a
	// status the state machine does not allow from its current one.
	ErrInvalidTransition = errors.New("invalid status transition")
)
