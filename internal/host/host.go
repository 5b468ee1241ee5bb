// Package host runs the submission pipeline and holds the UI state that
// sits around the starfield: selection, hover, notices and typed input.
package host

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/analysis"
	"github.com/frankfika/thanksgiving/internal/ratelimit"
	"github.com/frankfika/thanksgiving/internal/star"
	"github.com/frankfika/thanksgiving/internal/store"
)

// Submission errors.
var (
	ErrEmptyText   = errors.New("host: nothing to submit")
	ErrRateLimited = errors.New("host: daily limit reached")
	ErrBusy        = errors.New("host: still analyzing the last star")
)

// DefaultTimeout bounds one analysis + save.
const DefaultTimeout = 30 * time.Second

// Engine is the part of the layout engine the host feeds.
type Engine interface {
	RegisterNodes(records []star.Record) int
}

// Observer is told about finished submissions.
type Observer interface {
	StarCreated(category string)
}

// Deps are the collaborators a Host needs. Backend and Observer may be nil.
type Deps struct {
	Engine   Engine
	Analyzer analysis.Analyzer
	Backend  store.Backend
	Limiter  *ratelimit.Limiter
	Defaults []star.Record
	Observer Observer
	Log      *zap.Logger
	Timeout  time.Duration
}

type result struct {
	rec     star.Record
	saveErr error
}

// Host owns the star list shown in the window and the async submission
// job. All methods except the background job run on the window loop.
type Host struct {
	deps    Deps
	log     *zap.Logger
	stars   *store.Store
	notices *Notices
	input   Input

	ctx     context.Context
	cancel  context.CancelFunc
	results chan result
	busy    bool

	selected *star.Record
	hovered  *star.Record
	hoverX   float64
	hoverY   float64
}

// New creates a host. Call Start before Submit.
func New(deps Deps) *Host {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultTimeout
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.New(ratelimit.DefaultDailyLimit, nil)
	}
	if deps.Analyzer == nil {
		deps.Analyzer = analysis.NewKeyword(uint64(time.Now().UnixNano()))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Host{
		deps:    deps,
		log:     deps.Log,
		stars:   store.New(),
		notices: NewNotices(8),
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan result, 1),
	}
}

// Start loads the quota and the star list and hands the stars to the
// engine. Load failures are reported but leave a usable host showing the
// default stars.
func (h *Host) Start(ctx context.Context) error {
	var errs []error
	if err := h.deps.Limiter.Load(ctx); err != nil {
		h.log.Warn("rate limit state unavailable", zap.Error(err))
		errs = append(errs, err)
	}
	s, err := store.Load(ctx, h.deps.Backend, h.deps.Defaults)
	if err != nil {
		h.log.Warn("star archive unavailable", zap.Error(err))
		h.notices.Add("The star archive is out of reach; showing the first stars only.", Warning)
		errs = append(errs, err)
	}
	h.stars = s
	n := h.deps.Engine.RegisterNodes(s.Records())
	h.log.Info("starfield loaded", zap.Int("stars", n))
	return errors.Join(errs...)
}

// Stars returns the records shown, in order.
func (h *Host) Stars() []star.Record { return h.stars.Records() }

// Submit starts turning text into a star. The star appears on a later Poll.
func (h *Host) Submit(text string) error {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return ErrEmptyText
	case h.busy:
		return ErrBusy
	case !h.deps.Limiter.Check():
		h.notices.Add(fmt.Sprintf("You have reached today's limit of %d stars. Come back tomorrow.", h.deps.Limiter.Limit()), Warning)
		return ErrRateLimited
	}
	h.busy = true
	go h.process(text)
	return nil
}

// SubmitInput submits the typed text and clears the box on success.
func (h *Host) SubmitInput() error {
	if err := h.Submit(h.input.Text()); err != nil {
		return err
	}
	h.input.Clear()
	return nil
}

func (h *Host) process(text string) {
	ctx, cancel := context.WithTimeout(h.ctx, h.deps.Timeout)
	defer cancel()

	rec, err := h.deps.Analyzer.Analyze(ctx, text)
	if h.ctx.Err() != nil {
		return
	}
	if err != nil {
		h.log.Warn("analysis failed", zap.Error(err))
		rec = star.Echo(text)
	}
	var saveErr error
	if h.deps.Backend != nil {
		saveErr = h.deps.Backend.Save(ctx, rec)
	}
	select {
	case h.results <- result{rec: rec, saveErr: saveErr}:
	case <-h.ctx.Done():
	}
}

// Busy reports whether a submission is being analyzed.
func (h *Host) Busy() bool { return h.busy }

// Poll applies finished submissions and returns how many there were.
func (h *Host) Poll() int {
	n := 0
	for {
		select {
		case r := <-h.results:
			h.apply(r)
			n++
		default:
			return n
		}
	}
}

func (h *Host) apply(r result) {
	h.busy = false
	if err := h.deps.Limiter.Record(h.ctx); err != nil {
		h.log.Warn("could not persist rate limit", zap.Error(err))
	}
	if r.saveErr != nil {
		h.log.Warn("star not saved", zap.String("id", r.rec.ID), zap.Error(r.saveErr))
		h.notices.Add("Your star shines here, but could not reach the shared sky.", Warning)
	}
	h.stars.Append(r.rec)
	h.deps.Engine.RegisterNodes([]star.Record{r.rec})
	h.Select(r.rec)
	h.notices.AddBirth(fmt.Sprintf("A new %s star is born: %s", r.rec.Category(), r.rec.Reading.Archetype), r.rec.Reading.SentimentColor)
	if h.deps.Observer != nil {
		h.deps.Observer.StarCreated(r.rec.Category())
	}
}

// Remaining returns the submissions left today.
func (h *Host) Remaining() int { return h.deps.Limiter.Remaining() }

// Notices returns the notice log.
func (h *Host) Notices() *Notices { return h.notices }

// Input returns the submission text box.
func (h *Host) Input() *Input { return &h.input }

// Select shows the detail card for rec.
func (h *Host) Select(rec star.Record) { h.selected = &rec }

// Selected returns the star whose detail card is open.
func (h *Host) Selected() (star.Record, bool) {
	if h.selected == nil {
		return star.Record{}, false
	}
	return *h.selected, true
}

// ClearSelection closes the detail card.
func (h *Host) ClearSelection() { h.selected = nil }

// Hover records the hovered star and pointer for the tooltip. A nil rec
// hides the tooltip.
func (h *Host) Hover(rec *star.Record, x, y float64) {
	if rec == nil {
		h.hovered = nil
		return
	}
	r := *rec
	h.hovered = &r
	h.hoverX, h.hoverY = x, y
}

// Hovered returns the tooltip star and pointer position.
func (h *Host) Hovered() (rec star.Record, x, y float64, ok bool) {
	if h.hovered == nil {
		return star.Record{}, 0, 0, false
	}
	return *h.hovered, h.hoverX, h.hoverY, true
}

// Close abandons any running submission.
func (h *Host) Close() {
	h.cancel()
}
