// Package app opens the backends and analyzers a config selects.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/analysis"
	"github.com/frankfika/thanksgiving/internal/config"
	"github.com/frankfika/thanksgiving/internal/ratelimit"
	"github.com/frankfika/thanksgiving/internal/store"
)

// Backend is an opened star backend plus, when it can hold one, the
// rate-limit state store that lives next to it.
type Backend struct {
	Stars  store.Backend
	Limits ratelimit.StateStore
	close  func() error
}

// Close releases the backend.
func (b *Backend) Close() error { return b.close() }

// OpenBackend opens the store the config selects.
func OpenBackend(c *config.Config, log *zap.Logger) (*Backend, error) {
	nop := func() error { return nil }
	switch c.Store.Backend {
	case "memory":
		return &Backend{Stars: store.NewMemory(c.Store.Capacity), close: nop}, nil
	case "remote":
		if c.Store.URL == "" {
			return nil, fmt.Errorf("store.url is required for the remote backend")
		}
		return &Backend{Stars: store.NewRemote(c.Store.URL), close: nop}, nil
	case "", "sqlite":
		path := c.DatabasePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := store.NewSQLite(path, log.Named("sqlite"))
		if err != nil {
			return nil, err
		}
		log.Debug("opened star database", zap.String("path", path))
		return &Backend{Stars: db, Limits: db, close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}

// NewAnalyzer builds the analyzer the config selects. It is not wrapped
// in a fallback.
func NewAnalyzer(c *config.Config, log *zap.Logger) (analysis.Analyzer, error) {
	switch c.Analysis.Provider {
	case "", "keyword":
		return analysis.NewKeyword(Seed(c.Physics.Seed)), nil
	case "deepseek":
		key := c.Analysis.APIKey
		if key == "" {
			key = analysis.APIKeyFromEnv()
		}
		if key == "" {
			log.Warn("no DeepSeek API key configured; new stars will be echoes")
		}
		ds := analysis.NewDeepSeek(key, log.Named("deepseek"))
		if c.Analysis.Endpoint != "" {
			ds.Endpoint = c.Analysis.Endpoint
		}
		if c.Analysis.Model != "" {
			ds.Model = c.Analysis.Model
		}
		ds.Client.Timeout = c.Analysis.Timeout()
		return ds, nil
	case "remote":
		if c.Analysis.URL == "" {
			return nil, fmt.Errorf("analysis.url is required for the remote provider")
		}
		r := analysis.NewRemote(c.Analysis.URL)
		r.Client.Timeout = c.Analysis.Timeout()
		return r, nil
	default:
		return nil, fmt.Errorf("unknown analysis provider %q", c.Analysis.Provider)
	}
}

// Seed returns seed, or a clock-derived seed when it is zero.
func Seed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}
