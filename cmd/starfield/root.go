package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/config"
	"github.com/frankfika/thanksgiving/internal/logging"
	"github.com/frankfika/thanksgiving/internal/ui"
)

var version = "0.3.0"

var (
	cfgPath string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "starfield",
	Short: "starfield - a sky of small thanks",
	Long: ui.Brand.Sprint(ui.Star+" starfield") + " - write what you are thankful for and watch it become a star\n" +
		ui.Subtle.Sprint("Run with no command to open the window"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			ui.Warn.Fprintf(cmd.ErrOrStderr(), "starfield: %v (using defaults)\n", err)
		}
		cfg = c
		l, err := logging.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			ui.Warn.Fprintf(cmd.ErrOrStderr(), "starfield: %v\n", err)
			l = logging.Must("info", cfg.Log.Development)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWindow(cmd.Context(), "")
	},
}

func init() {
	rootCmd.SetVersionTemplate("starfield {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", fmt.Sprintf("config file (default %s)", config.Path()))

	rootCmd.AddCommand(
		runCmd(),
		serveCmd(),
		starsCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Fprintf(rootCmd.ErrOrStderr(), "starfield: %v\n", err)
		return err
	}
	return nil
}
