package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type failingState struct{}

func (failingState) LoadLimit(context.Context) (State, error) { return State{}, errors.New("disk gone") }
func (failingState) SaveLimit(context.Context, State) error   { return errors.New("disk gone") }

func TestDailyQuota(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2025, 11, 27, 10, 0, 0, 0, time.UTC)}
	l := New(3, nil, WithClock(c.now))

	assert.Equal(t, 3, l.Remaining())
	for i := 0; i < 3; i++ {
		require.True(t, l.Check())
		require.NoError(t, l.Record(ctx))
	}
	assert.False(t, l.Check())
	assert.Equal(t, 0, l.Remaining())

	c.t = c.t.Add(24 * time.Hour)
	assert.True(t, l.Check(), "a new day resets the quota")
	assert.Equal(t, 3, l.Remaining())
}

func TestCountSurvivesReload(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2025, 11, 27, 23, 0, 0, 0, time.UTC)}
	store := &MemoryState{}

	first := New(DefaultDailyLimit, store, WithClock(c.now))
	require.NoError(t, first.Record(ctx))
	require.NoError(t, first.Record(ctx))

	second := New(DefaultDailyLimit, store, WithClock(c.now))
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, DefaultDailyLimit-2, second.Remaining())
}

func TestDayBoundaryIsUTC(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+8", 8*3600)
	c := &clock{t: time.Date(2025, 11, 28, 7, 59, 0, 0, loc)}
	l := New(1, nil, WithClock(c.now))
	require.NoError(t, l.Record(ctx))
	assert.False(t, l.Check())

	c.t = time.Date(2025, 11, 28, 8, 0, 0, 0, loc)
	assert.True(t, l.Check())
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	l := New(2, failingState{})

	assert.Error(t, l.Load(ctx))
	assert.Equal(t, 2, l.Remaining())

	assert.Error(t, l.Record(ctx))
	assert.Equal(t, 1, l.Remaining(), "the counter still advances in memory")
}

func TestNonPositiveLimitUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultDailyLimit, New(0, nil).Limit())
}
