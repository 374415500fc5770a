// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-stats CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-stats/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd resolves every author in the input file and prints citation stats.
var rootCmd = &cobra.Command{
	Use:   "scholar-stats [flags] <author-file>",
	Short: "Look up citation statistics for a list of authors",
	Long: `scholar-stats reads one author name per line, searches an academic profile
service for each distinct name, and prints the total citation count and h-index
of the best matching profile.

When a name matches several profiles, the top candidates are scored by how many
domain keywords appear in their publication titles and the highest scoring one
wins. Lookups run concurrently on a bounded worker pool.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", func(name string, err error) {
			fmt.Fprintf(os.Stderr, "Warning: skipping secret %s: %v\n", name, err)
		})
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(viper.GetViper(), loadedSecrets)
		return run(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholar-stats.yaml or ~/.config/scholar-stats/config.yaml)")

	registerFlags(rootCmd.Flags())
	bindFlags(viper.GetViper(), rootCmd.Flags())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-stats")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-stats"))
		}
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
