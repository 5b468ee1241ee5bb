package layout

import (
	"slices"
	"time"
)

// Scheduler runs callbacks once per frame until they are cancelled.
type Scheduler interface {
	Every(fn func(dt time.Duration)) (cancel func())
}

// FrameLoop is a cooperative Scheduler advanced by the window's update
// loop. Callbacks run in registration order on the caller's goroutine.
type FrameLoop struct {
	nextID int
	order  []int
	fns    map[int]func(time.Duration)
	Frames uint64
}

// NewFrameLoop creates an empty loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{fns: make(map[int]func(time.Duration))}
}

// Every schedules fn for every subsequent Advance. The returned cancel
// func may be called any number of times.
func (l *FrameLoop) Every(fn func(dt time.Duration)) func() {
	id := l.nextID
	l.nextID++
	l.order = append(l.order, id)
	l.fns[id] = fn
	return func() { l.remove(id) }
}

func (l *FrameLoop) remove(id int) {
	if _, ok := l.fns[id]; !ok {
		return
	}
	delete(l.fns, id)
	l.order = slices.DeleteFunc(l.order, func(v int) bool { return v == id })
}

// Advance runs one frame. A callback cancelled by an earlier callback in
// the same frame does not run.
func (l *FrameLoop) Advance(dt time.Duration) {
	l.Frames++
	for _, id := range slices.Clone(l.order) {
		if fn, ok := l.fns[id]; ok {
			fn(dt)
		}
	}
}

// Pending returns the number of scheduled callbacks.
func (l *FrameLoop) Pending() int { return len(l.fns) }
