package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiterUnderQuotaDoesNotWait(t *testing.T) {
	clock := newFakeClock()
	l := New(3, WithClock(clock))

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Empty(t, clock.sleeps)
}

func TestLimiterSecondCallWaitsForWindowRemainder(t *testing.T) {
	clock := newFakeClock()
	var hooked []time.Duration
	l := New(1, WithClock(clock), WithWaitHook(func(d time.Duration) { hooked = append(hooked, d) }))

	require.NoError(t, l.Wait(context.Background()))
	clock.Advance(10 * time.Second)
	require.NoError(t, l.Wait(context.Background()))

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 50*time.Second, clock.sleeps[0])
	assert.Equal(t, clock.sleeps, hooked)

	// The waiting call was counted in the fresh window.
	l.mu.Lock()
	assert.Equal(t, 1, l.count)
	l.mu.Unlock()
}

func TestLimiterResetsAfterWindowElapsed(t *testing.T) {
	clock := newFakeClock()
	l := New(2, WithClock(clock))

	require.NoError(t, l.Wait(context.Background()))
	require.NoError(t, l.Wait(context.Background()))
	clock.Advance(61 * time.Second)
	require.NoError(t, l.Wait(context.Background()))

	assert.Empty(t, clock.sleeps)
	l.mu.Lock()
	assert.Equal(t, 1, l.count)
	l.mu.Unlock()
}

func TestLimiterDisabled(t *testing.T) {
	clock := newFakeClock()
	l := New(0, WithClock(clock))
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Empty(t, clock.sleeps)
}

func TestLimiterRealClockHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := New(1, WithWindow(time.Hour))
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiterConcurrentCallersRespectQuota(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := New(5, WithWindow(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Wait(ctx); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, admitted)
}
