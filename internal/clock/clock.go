// Package clock abstracts the timers used by the typing animation and the
// submission guard so tests can run them without waiting.
package clock

import (
	"context"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error

	// AfterFunc runs f once d has elapsed. stop cancels it and reports whether
	// it was still pending.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// Real is the wall clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (Real) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Fake is a logical clock. Time only moves through Advance or Sleep, and
// Sleep returns immediately after moving it.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	slept  []time.Duration
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
}

func NewFake() *Fake {
	return &Fake{now: time.Unix(0, 0)}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	c.slept = append(c.slept, d)
	c.mu.Unlock()

	c.Advance(d)
	return nil
}

func (c *Fake) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)

	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()

		if t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

// Advance moves time forward and runs every timer that came due, in the order
// they were set.
// Timer funcs run on the caller's goroutine without the clock's lock held.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)

	due := []*fakeTimer{}
	pending := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.at.After(c.now):
			t.stopped = true
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Slept returns every duration passed to Sleep.
func (c *Fake) Slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.slept...)
}
