package domain

import "errors"

var (
	// ErrSubscriptionFailed is returned when subscription to events fails
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrMalformedEvent is returned when a decoded event does not match its ABI shape
	ErrMalformedEvent = errors.New("malformed event")

	// ErrUnknownEvent is returned when an event name has no handler
	ErrUnknownEvent = errors.New("unknown event")

	// ErrUnknownSource is returned when an event comes from an untracked contract
	ErrUnknownSource = errors.New("unknown event source")
)
