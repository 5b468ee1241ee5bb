package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/analysis"
	"github.com/frankfika/thanksgiving/internal/app"
	"github.com/frankfika/thanksgiving/internal/ratelimit"
	"github.com/frankfika/thanksgiving/internal/star"
	"github.com/frankfika/thanksgiving/internal/store"
	"github.com/frankfika/thanksgiving/internal/ui"
)

func starsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stars",
		Short: "Inspect and add stars without opening the window",
	}
	cmd.AddCommand(starsListCmd(), starsAddCmd())
	return cmd
}

func starsListCmd() *cobra.Command {
	var withDefaults bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored stars",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.OpenBackend(cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			var defaults []star.Record
			if withDefaults {
				defaults = star.Defaults()
			}
			s, err := store.Load(cmd.Context(), b.Stars, defaults)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			recs := s.Records()
			if len(recs) == 0 {
				ui.Subtle.Fprintln(out, "  The sky is empty. Add a star with `starfield stars add`.")
				return nil
			}
			rows := make([][]string, 0, len(recs))
			for _, r := range recs {
				rows = append(rows, []string{
					shortID(r.ID),
					r.Category(),
					fmt.Sprintf("%.2f", r.Brightness()),
					r.Excerpt(40),
				})
			}
			ui.Table(out, []string{"ID", "CATEGORY", "BRIGHT", "TEXT"}, rows)
			fmt.Fprintf(out, "\n  %s\n", ui.Subtle.Sprintf("%d stars", len(recs)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withDefaults, "defaults", false, "include the built-in stars")
	return cmd
}

func starsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Analyze a gratitude statement and store it as a star",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return analysis.ErrEmptyText
			}

			b, err := app.OpenBackend(cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			limiter := ratelimit.New(cfg.Limit.Daily, b.Limits, ratelimit.WithLogger(logger.Named("limit")))
			if err := limiter.Load(cmd.Context()); err != nil {
				logger.Warn("rate limit state unavailable", zap.Error(err))
			}
			if !limiter.Check() {
				return fmt.Errorf("today's limit of %d stars is reached", limiter.Limit())
			}

			analyzer, err := app.NewAnalyzer(cfg, logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Analysis.Timeout())
			defer cancel()

			rec, err := analysis.WithFallback(analyzer, logger.Named("analysis")).Analyze(ctx, text)
			if err != nil {
				return err
			}
			if err := b.Stars.Save(ctx, rec); err != nil {
				return fmt.Errorf("save star: %w", err)
			}
			if err := limiter.Record(ctx); err != nil {
				logger.Warn("could not persist rate limit", zap.Error(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Sprint(ui.Star), ui.Brand.Sprint(rec.Category()), ui.Subtle.Sprint(shortID(rec.ID)))
			fmt.Fprintf(out, "  %s\n", rec.Reading.Blessing)
			fmt.Fprintf(out, "  %s\n", ui.Subtle.Sprintf("%s · %s · %s", rec.Reading.Archetype, rec.Reading.Distance, rec.Reading.Frequency))
			fmt.Fprintf(out, "  %s\n", ui.Subtle.Sprintf("%d left today", limiter.Remaining()))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
