// Package ratelimit enforces the daily submission quota.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDailyLimit is the number of stars a user may create per day.
const DefaultDailyLimit = 20

const dateLayout = "2006-01-02"

// State is the persisted quota counter. Date is the UTC day the count
// belongs to.
type State struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StateStore persists the counter between runs.
type StateStore interface {
	LoadLimit(ctx context.Context) (State, error)
	SaveLimit(ctx context.Context, s State) error
}

// Limiter counts submissions per UTC day.
type Limiter struct {
	limit int
	store StateStore
	now   func() time.Time
	log   *zap.Logger
	state State
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Limiter) { l.log = log }
}

// New creates a limiter allowing limit submissions per day. A nil store
// keeps the counter in memory only.
func New(limit int, store StateStore, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if store == nil {
		store = &MemoryState{}
	}
	l := &Limiter{limit: limit, store: store, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the persisted counter. A store error leaves a fresh counter.
func (l *Limiter) Load(ctx context.Context) error {
	s, err := l.store.LoadLimit(ctx)
	if err != nil {
		l.state = State{}
		return fmt.Errorf("load rate limit: %w", err)
	}
	l.state = s
	return nil
}

func (l *Limiter) today() string {
	return l.now().UTC().Format(dateLayout)
}

// Remaining returns how many submissions are left today.
func (l *Limiter) Remaining() int {
	if l.state.Date != l.today() {
		return l.limit
	}
	return max(0, l.limit-l.state.Count)
}

// Check reports whether another submission is allowed today.
func (l *Limiter) Check() bool {
	return l.Remaining() > 0
}

// Limit returns the daily quota.
func (l *Limiter) Limit() int { return l.limit }

// Record counts one submission and persists the counter. The in-memory
// count advances even if persisting fails.
func (l *Limiter) Record(ctx context.Context) error {
	today := l.today()
	if l.state.Date != today {
		l.state = State{Date: today}
	}
	l.state.Count++
	if err := l.store.SaveLimit(ctx, l.state); err != nil {
		return fmt.Errorf("save rate limit: %w", err)
	}
	l.log.Debug("submission recorded", zap.String("date", today), zap.Int("count", l.state.Count))
	return nil
}

// MemoryState is a StateStore that lives only as long as the process.
type MemoryState struct {
	mu    sync.Mutex
	state State
}

// LoadLimit implements StateStore.
func (m *MemoryState) LoadLimit(context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

// SaveLimit implements StateStore.
func (m *MemoryState) SaveLimit(_ context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	return nil
}
