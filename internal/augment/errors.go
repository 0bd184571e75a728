package augment

import "errors"

var (
	// ErrConfiguration: invalid bounds or probability, unreadable or malformed
	// resource file, unknown action or swap mode. Returned by constructors.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput: unsupported data passed to an augment call.
	ErrInvalidInput = errors.New("invalid input")
)
