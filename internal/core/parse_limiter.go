package core

// parse_limiter.go bounds how many uploaded files are decoded at once.
//
// Spreadsheet decoding holds the whole workbook in memory, so a burst of
// uploads can exhaust the process. Each parse takes a slot from a buffered
// channel; when none is free the caller waits up to maxWait and then gets
// ErrTooManyParses. Shutdown uses WaitForDrain to let in-flight parses end.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyParses is returned when no parse slot frees up within the wait time.
var ErrTooManyParses = errors.New("too many files being processed, please try again later")

const (
	DefaultMaxConcurrentParses = 4
	DefaultParseWaitTime       = 15 * time.Second
)

// ParseLimiter is a counting semaphore over file parsing.
type ParseLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int32
}

// NewParseLimiter allows at most maxConcurrent parses. Non-positive
// arguments fall back to the defaults.
func NewParseLimiter(maxConcurrent int, maxWait time.Duration) *ParseLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentParses
	}
	if maxWait <= 0 {
		maxWait = DefaultParseWaitTime
	}
	return &ParseLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most the configured time.
// A successful Acquire must be paired with Release.
func (l *ParseLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyParses
	}
}

// Release returns a slot taken by Acquire.
func (l *ParseLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Active returns the number of parses in progress.
func (l *ParseLimiter) Active() int {
	return int(l.active.Load())
}

// Capacity returns the maximum number of concurrent parses.
func (l *ParseLimiter) Capacity() int {
	return cap(l.slots)
}

// WaitForDrain blocks until no parse is in progress or ctx is done.
func (l *ParseLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// ParseLimiterStatus is a point-in-time view of the limiter.
type ParseLimiterStatus struct {
	Active   int `json:"active"`
	Capacity int `json:"capacity"`
}

// Status returns the limiter state for health reporting.
func (l *ParseLimiter) Status() ParseLimiterStatus {
	return ParseLimiterStatus{Active: l.Active(), Capacity: l.Capacity()}
}
