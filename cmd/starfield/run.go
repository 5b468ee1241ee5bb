package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/analysis"
	"github.com/frankfika/thanksgiving/internal/app"
	"github.com/frankfika/thanksgiving/internal/host"
	"github.com/frankfika/thanksgiving/internal/layout"
	"github.com/frankfika/thanksgiving/internal/metrics"
	"github.com/frankfika/thanksgiving/internal/ratelimit"
	"github.com/frankfika/thanksgiving/internal/render"
	"github.com/frankfika/thanksgiving/internal/scene"
	"github.com/frankfika/thanksgiving/internal/star"
)

func runCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the starfield window",
		Long: `Open the starfield window. Type what you are thankful for and press
Enter; hover a star to see its constellation, drag it around, click it
to read its card.

  starfield run
  starfield run --metrics :9100   # expose layout metrics while running`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	return cmd
}

func runWindow(ctx context.Context, metricsAddr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := app.OpenBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("close backend", zap.Error(err))
		}
	}()

	analyzer, err := app.NewAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	m := metrics.New("starfield", analysis.Categories()...)
	fallback := analysis.WithFallback(analyzer, logger.Named("analysis"))
	fallback.OnError = m.AnalysisFailed

	limiter := ratelimit.New(cfg.Limit.Daily, b.Limits, ratelimit.WithLogger(logger.Named("limit")))

	g := newGame(gameDeps{
		analyzer: fallback,
		backend:  b,
		limiter:  limiter,
		metrics:  m,
	})
	defer g.Close()

	if err := g.host.Start(ctx); err != nil {
		logger.Warn("starting with partial state", zap.Error(err))
	}

	if metricsAddr != "" {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go serveMetrics(ctx, metricsAddr, m)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)

	logger.Info("opening window",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("stars", len(g.host.Stars())),
	)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

type gameDeps struct {
	analyzer analysis.Analyzer
	backend  *app.Backend
	limiter  *ratelimit.Limiter
	metrics  *metrics.Collector
}

func newGame(d gameDeps) *Game {
	loop := layout.NewFrameLoop()
	vp := layout.Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	seed := app.Seed(cfg.Physics.Seed)

	engine := layout.New(vp, loop,
		layout.WithParams(cfg.Physics.Params()),
		layout.WithSeed(seed),
		layout.WithLogger(logger.Named("layout")),
		layout.WithObserver(d.metrics.ObserveTick),
	)
	h := host.New(host.Deps{
		Engine:   engine,
		Analyzer: d.analyzer,
		Backend:  d.backend.Stars,
		Limiter:  d.limiter,
		Defaults: star.Defaults(),
		Observer: d.metrics,
		Log:      logger.Named("host"),
		Timeout:  cfg.Analysis.Timeout(),
	})
	sc := scene.New(engine, loop,
		scene.OnSelect(h.Select),
		scene.OnHover(h.Hover),
		scene.WithLogger(logger.Named("scene")),
	)

	return &Game{
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		loop:     loop,
		engine:   engine,
		scene:    sc,
		host:     h,
		renderer: render.NewRenderer(seed),
		log:      logger.Named("game"),
	}
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Collector) {
	r := chi.NewRouter()
	r.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	logger.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("metrics server stopped", zap.Error(err))
	}
}
