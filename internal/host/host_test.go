package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankfika/thanksgiving/internal/analysis"
	"github.com/frankfika/thanksgiving/internal/layout"
	"github.com/frankfika/thanksgiving/internal/ratelimit"
	"github.com/frankfika/thanksgiving/internal/star"
	"github.com/frankfika/thanksgiving/internal/store"
)

type fakeEngine struct {
	registered []star.Record
}

func (f *fakeEngine) RegisterNodes(recs []star.Record) int {
	f.registered = append(f.registered, recs...)
	return len(recs)
}

type countingObserver struct{ created []string }

func (c *countingObserver) StarCreated(category string) { c.created = append(c.created, category) }

type failingBackend struct{ list []star.Record }

func (f failingBackend) List(context.Context) ([]star.Record, error) { return f.list, nil }
func (failingBackend) Save(context.Context, star.Record) error      { return errors.New("offline") }

func rec(id, category string) star.Record {
	return star.Record{
		ID:   id,
		Text: "thankful for " + id,
		Reading: star.Reading{
			Category:       category,
			SentimentColor: "#FFD700",
			Brightness:     0.7,
		},
	}
}

func waitPoll(t *testing.T, h *Host) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Poll() > 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestStartMergesDefaultsAndBackend(t *testing.T) {
	eng := &fakeEngine{}
	backend := store.NewMemory(10, rec("shared-1", "Career"), rec("init-2", "Family"))
	h := New(Deps{
		Engine:   eng,
		Backend:  backend,
		Defaults: []star.Record{rec("init-1", "Family"), rec("init-2", "Nature")},
	})
	require.NoError(t, h.Start(context.Background()))

	var ids []string
	for _, r := range eng.registered {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"init-1", "shared-1", "init-2"}, ids)
	assert.Equal(t, "Family", eng.registered[2].Category(), "the backend copy wins")
}

func TestSubmitPipeline(t *testing.T) {
	eng := &fakeEngine{}
	backend := store.NewMemory(10)
	obs := &countingObserver{}
	h := New(Deps{
		Engine:   eng,
		Backend:  backend,
		Analyzer: analysis.NewKeyword(1),
		Observer: obs,
		Defaults: []star.Record{rec("init-1", "Family")},
	})
	require.NoError(t, h.Start(context.Background()))
	before := h.Remaining()

	require.NoError(t, h.Submit("  my grandmother and my sister  "))
	assert.True(t, h.Busy())
	assert.ErrorIs(t, h.Submit("another"), ErrBusy)

	waitPoll(t, h)
	assert.False(t, h.Busy())
	assert.Equal(t, before-1, h.Remaining())

	require.Len(t, eng.registered, 2)
	born := eng.registered[1]
	assert.Equal(t, "my grandmother and my sister", born.Text)
	assert.Equal(t, "Family", born.Category())

	sel, ok := h.Selected()
	require.True(t, ok)
	assert.Equal(t, born.ID, sel.ID)
	assert.Len(t, h.Stars(), 2)
	assert.Equal(t, 1, backend.Len())
	assert.Equal(t, []string{"Family"}, obs.created)
	assert.Equal(t, Birth, h.Notices().Recent(1)[0].Priority)
}

func TestSubmitRejectsBlank(t *testing.T) {
	h := New(Deps{Engine: &fakeEngine{}})
	assert.ErrorIs(t, h.Submit("   "), ErrEmptyText)
	assert.False(t, h.Busy())
}

func TestSubmitRateLimited(t *testing.T) {
	day := time.Date(2025, 11, 27, 12, 0, 0, 0, time.UTC)
	lim := ratelimit.New(1, nil, ratelimit.WithClock(func() time.Time { return day }))
	h := New(Deps{Engine: &fakeEngine{}, Limiter: lim, Analyzer: analysis.NewKeyword(1)})
	require.NoError(t, h.Start(context.Background()))

	require.NoError(t, h.Submit("first"))
	waitPoll(t, h)
	assert.Equal(t, 0, h.Remaining())

	assert.ErrorIs(t, h.Submit("second"), ErrRateLimited)
	assert.Equal(t, Warning, h.Notices().Recent(1)[0].Priority)
}

func TestAnalyzerFailureYieldsEcho(t *testing.T) {
	eng := &fakeEngine{}
	h := New(Deps{
		Engine: eng,
		Analyzer: analysis.Func(func(context.Context, string) (star.Record, error) {
			return star.Record{}, errors.New("no network")
		}),
	})
	require.NoError(t, h.Start(context.Background()))
	require.NoError(t, h.Submit("thanks anyway"))
	waitPoll(t, h)

	require.Len(t, eng.registered, 1)
	assert.Equal(t, "Echo", eng.registered[0].Category())
}

func TestSaveFailureStillShowsStar(t *testing.T) {
	eng := &fakeEngine{}
	h := New(Deps{Engine: eng, Backend: failingBackend{}, Analyzer: analysis.NewKeyword(1)})
	require.NoError(t, h.Start(context.Background()))
	require.NoError(t, h.Submit("the sunrise"))
	waitPoll(t, h)

	require.Len(t, eng.registered, 1)
	var warned bool
	for _, n := range h.Notices().Recent(10) {
		warned = warned || n.Priority == Warning
	}
	assert.True(t, warned)
}

func TestStartToleratesBrokenBackend(t *testing.T) {
	eng := &fakeEngine{}
	lim := ratelimit.New(5, brokenState{})
	h := New(Deps{
		Engine:   eng,
		Backend:  store.NewRemote("http://127.0.0.1:1"),
		Limiter:  lim,
		Defaults: []star.Record{rec("init-1", "Family")},
	})
	err := h.Start(context.Background())
	assert.Error(t, err)
	require.Len(t, eng.registered, 1)
	assert.Equal(t, 5, h.Remaining())
}

type brokenState struct{}

func (brokenState) LoadLimit(context.Context) (ratelimit.State, error) {
	return ratelimit.State{}, errors.New("locked")
}
func (brokenState) SaveLimit(context.Context, ratelimit.State) error { return errors.New("locked") }

func TestSelectionAndHover(t *testing.T) {
	h := New(Deps{Engine: &fakeEngine{}})
	_, ok := h.Selected()
	assert.False(t, ok)

	r := rec("a", "Family")
	h.Select(r)
	got, ok := h.Selected()
	require.True(t, ok)
	assert.Equal(t, r, got)
	h.ClearSelection()
	_, ok = h.Selected()
	assert.False(t, ok)

	h.Hover(&r, 10, 20)
	hv, x, y, ok := h.Hovered()
	require.True(t, ok)
	assert.Equal(t, "a", hv.ID)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)
	h.Hover(nil, 0, 0)
	_, _, _, ok = h.Hovered()
	assert.False(t, ok)
}

func TestSubmitInputClearsBox(t *testing.T) {
	h := New(Deps{Engine: &fakeEngine{}, Analyzer: analysis.NewKeyword(1)})
	require.NoError(t, h.Start(context.Background()))
	h.Input().Insert([]rune("my dog")...)
	require.NoError(t, h.SubmitInput())
	assert.Equal(t, "", h.Input().Text())
	waitPoll(t, h)

	h.Input().Insert(' ')
	assert.ErrorIs(t, h.SubmitInput(), ErrEmptyText)
	assert.Equal(t, " ", h.Input().Text())
}

func TestCloseAbandonsPendingJob(t *testing.T) {
	started := make(chan struct{})
	h := New(Deps{
		Engine: &fakeEngine{},
		Analyzer: analysis.Func(func(ctx context.Context, _ string) (star.Record, error) {
			close(started)
			<-ctx.Done()
			return star.Record{}, ctx.Err()
		}),
	})
	require.NoError(t, h.Submit("slow"))
	<-started
	h.Close()
	assert.Never(t, func() bool { return h.Poll() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestWorksWithRealEngine(t *testing.T) {
	e := layout.New(layout.Viewport{Width: 1000, Height: 800}, nil, layout.WithSeed(3))
	h := New(Deps{Engine: e, Analyzer: analysis.NewKeyword(1), Defaults: star.Defaults()})
	require.NoError(t, h.Start(context.Background()))
	assert.Equal(t, len(star.Defaults()), e.Len())

	require.NoError(t, h.Submit("my friends"))
	waitPoll(t, h)
	assert.Equal(t, len(star.Defaults())+1, e.Len())
}
