package chat

import "errors"

var (
	// ErrStorageUnavailable means the backing store could not be reached or
	// refused the operation. Surfaced once, never retried internally.
	ErrStorageUnavailable = errors.New("chat storage unavailable")

	// ErrInvalidMessage means the message text was empty or whitespace-only.
	// Rejected before any write.
	ErrInvalidMessage = errors.New("message text is empty")
)
