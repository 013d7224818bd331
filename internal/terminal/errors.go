package terminal

import "errors"

// Error taxonomy for the terminal core. Every tool-facing failure wraps one
// of these sentinels so callers can distinguish the failure kind.
var (
	// ErrNotFound means the session id is unknown or already reaped.
	ErrNotFound = errors.New("session not found")

	// ErrLaunchFailure means a terminal window could not be opened: no
	// supported emulator, the automation bridge errored, or the window
	// never became interactable within the launch timeout.
	ErrLaunchFailure = errors.New("terminal launch failed")

	// ErrChannelClosed means the operation targeted a closed or dead
	// session.
	ErrChannelClosed = errors.New("terminal channel closed")

	// ErrInvalidArgument means a caller-supplied value was malformed.
	ErrInvalidArgument = errors.New("invalid argument")
)
