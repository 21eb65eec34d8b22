package conversation

import "errors"

var (
	// ErrGenerationUnavailable marks a generation call that failed or
	// timed out; the pipeline substitutes the fallback reply.
	ErrGenerationUnavailable = errors.New("conversation: generation unavailable")

	// ErrEmptyMessage is returned for an inbound message with no content.
	ErrEmptyMessage = errors.New("conversation: empty message content")
)
