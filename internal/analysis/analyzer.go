// Package analysis turns a gratitude statement into a star reading.
package analysis

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/star"
)

// ErrEmptyText is returned for blank statements.
var ErrEmptyText = errors.New("analysis: empty text")

// Analyzer interprets one statement. The returned record carries a fresh id
// and the trimmed text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (star.Record, error)
}

// Func adapts a function to Analyzer.
type Func func(ctx context.Context, text string) (star.Record, error)

// Analyze implements Analyzer.
func (f Func) Analyze(ctx context.Context, text string) (star.Record, error) { return f(ctx, text) }

// Fallback wraps an analyzer so that any failure yields the echo star.
type Fallback struct {
	Next    Analyzer
	Log     *zap.Logger
	OnError func(err error)
}

// WithFallback returns a Fallback around a.
func WithFallback(a Analyzer, log *zap.Logger) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{Next: a, Log: log}
}

// Analyze implements Analyzer. It only fails for blank text.
func (f *Fallback) Analyze(ctx context.Context, text string) (star.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return star.Record{}, ErrEmptyText
	}
	rec, err := f.Next.Analyze(ctx, text)
	if err == nil {
		return rec, nil
	}
	f.Log.Warn("analysis failed, using echo star", zap.Error(err))
	if f.OnError != nil {
		f.OnError(err)
	}
	return star.Echo(text), nil
}
