package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/frankfika/thanksgiving/internal/config"
	"github.com/frankfika/thanksgiving/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				path := cfgPath
				if path == "" {
					path = config.Path()
				}
				if _, err := os.Stat(path); err == nil {
					ui.Warn.Fprintf(cmd.OutOrStdout(), "  %s already exists\n", path)
					return nil
				}
				if err := config.Save(config.Default(), path); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s wrote %s\n", ui.StatusIcon(true), path)
				return nil
			},
		},
	)
	return cmd
}
