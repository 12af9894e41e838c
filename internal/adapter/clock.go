package adapter

import (
	"math"
	"time"
)

// Clock is the time source of the block cache, the emitter cursor and the
// rate limiter, injected so their expiry and pacing can be driven by tests
//
//go:generate mockgen -source=clock.go -destination=../mocks/clock.go -package=mocks -mock_names=Clock=MockClock
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	After(d time.Duration) <-chan time.Time

	// BlockTime converts a block header timestamp in unix seconds to UTC
	BlockTime(timestamp uint64) time.Time
}

type systemClock struct{}

// NewClock returns the wall clock
func NewClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (systemClock) BlockTime(timestamp uint64) time.Time {
	return time.Unix(int64(min(timestamp, math.MaxInt64)), 0).UTC()
}
