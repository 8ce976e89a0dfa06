// Package cmd implements the snsbot command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mystylekpop/snsbot/internal/build"
)

var configFile string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     build.AppName,
		Short:   "K-POP fashion magazine SNS operations bot",
		Long:    "Generates K-POP fashion magazine posts, routes them through Telegram review, and publishes them to X and Instagram on a fixed daily schedule.",
		Version: build.Version,
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	cmd.AddCommand(startCmd())
	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
