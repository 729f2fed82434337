// Package ratelimit provides a fixed-window request throttle for a single provider.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultWindow is the length of one quota window.
const DefaultWindow = 60 * time.Second

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limiter allows at most Limit calls per window. Calls over quota block until
// the current window ends.
type Limiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	clock       Clock
	onWait      func(time.Duration)
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(l *Limiter) { l.clock = c }
}

// WithWindow overrides the window length.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) { l.window = d }
}

// WithWaitHook registers a callback invoked before each blocking wait.
func WithWaitHook(fn func(time.Duration)) Option {
	return func(l *Limiter) { l.onWait = fn }
}

// New creates a limiter allowing requestsPerMinute calls per window.
// A non-positive limit disables throttling.
func New(requestsPerMinute int, opts ...Option) *Limiter {
	l := &Limiter{
		limit:  requestsPerMinute,
		window: DefaultWindow,
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.windowStart = l.clock.Now()
	return l
}

// Limit returns the configured per-window quota.
func (l *Limiter) Limit() int {
	return l.limit
}

// Wait counts one call against the quota, blocking until the window resets
// when the quota is exhausted. It only returns an error if ctx ends first.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.clock.Now()
		elapsed := now.Sub(l.windowStart)
		if elapsed >= l.window {
			l.count = 0
			l.windowStart = now
			elapsed = 0
		}
		if l.limit <= 0 || l.count < l.limit {
			l.count++
			l.mu.Unlock()
			return nil
		}
		wait := l.window - elapsed
		l.mu.Unlock()

		if l.onWait != nil {
			l.onWait(wait)
		}
		if err := l.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}
