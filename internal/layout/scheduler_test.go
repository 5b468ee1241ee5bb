package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineSchedulesItsOwnTicks(t *testing.T) {
	loop := NewFrameLoop()
	e := New(Viewport{Width: 1000, Height: 800}, loop, WithSeed(1))
	e.RegisterNodes(manyRecords(3))
	require.Equal(t, 1, loop.Pending())

	var seen int
	e.OnTick(func(nodes []Node) {
		seen++
		assert.Len(t, nodes, 3)
	})
	for i := 0; i < 5; i++ {
		loop.Advance(frame)
	}
	assert.Equal(t, uint64(5), e.Ticks())
	assert.Equal(t, 5, seen)
}

func TestStopIsIdempotentAndCancelsEverything(t *testing.T) {
	loop := NewFrameLoop()
	e := New(Viewport{Width: 1000, Height: 800}, loop, WithSeed(1))
	e.RegisterNodes(manyRecords(3))
	calls := 0
	e.OnTick(func([]Node) { calls++ })
	loop.Advance(frame)

	assert.NotPanics(t, func() {
		e.Stop()
		e.Stop()
	})
	assert.Zero(t, loop.Pending())
	assert.True(t, e.Stopped())

	before := e.Nodes()
	for i := 0; i < 20; i++ {
		loop.Advance(time.Second)
	}
	e.Tick(time.Second)
	assert.Equal(t, before, e.Nodes())
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), e.Ticks())
}

func TestStopDuringDrag(t *testing.T) {
	loop := NewFrameLoop()
	e := New(Viewport{Width: 1000, Height: 800}, loop, WithSeed(1))
	e.RegisterNodes(manyRecords(2))
	require.True(t, e.Pin("s0", 400, 400))
	loop.Advance(frame)

	e.Stop()
	assert.Zero(t, loop.Pending())
	assert.False(t, e.Pin("s0", 10, 10))
	assert.False(t, e.Unpin("s0"))
	assert.Zero(t, e.RegisterNodes(manyRecords(5)))
}

func TestFrameLoopCancelDuringAdvance(t *testing.T) {
	loop := NewFrameLoop()
	var order []string
	var cancelB func()
	loop.Every(func(time.Duration) {
		order = append(order, "a")
		cancelB()
	})
	cancelB = loop.Every(func(time.Duration) { order = append(order, "b") })

	loop.Advance(frame)
	loop.Advance(frame)
	assert.Equal(t, []string{"a", "a"}, order)
	assert.Equal(t, 1, loop.Pending())
	cancelB()
	assert.Equal(t, 1, loop.Pending())
	assert.Equal(t, uint64(2), loop.Frames)
}
