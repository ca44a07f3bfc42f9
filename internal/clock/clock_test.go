package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeAfterFunc(t *testing.T) {
	c := NewFake()
	fired := []string{}

	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	stop := c.AfterFunc(time.Second, func() { fired = append(fired, "stopped") })

	assert.True(t, stop())
	assert.False(t, stop())

	c.Advance(999 * time.Millisecond)
	assert.Empty(t, fired)

	c.Advance(time.Millisecond)
	assert.Equal(t, []string{"a"}, fired)

	c.Advance(time.Hour)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, time.Unix(0, 0).Add(time.Hour+time.Second), c.Now())
}

func TestFakeStopAfterFire(t *testing.T) {
	c := NewFake()

	stop := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)

	assert.False(t, stop())
}

func TestFakeSleep(t *testing.T) {
	c := NewFake()

	fired := false
	c.AfterFunc(10*time.Millisecond, func() { fired = true })

	require.NoError(t, c.Sleep(context.Background(), 15*time.Millisecond))
	assert.True(t, fired)
	assert.Equal(t, []time.Duration{15 * time.Millisecond}, c.Slept())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Sleep(ctx, time.Second), context.Canceled)
	assert.Len(t, c.Slept(), 1)
}

func TestRealSleepCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Real{}.Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Real{}.Sleep(context.Background(), time.Millisecond))
}
