// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kken7231/screensaver/internal/version"
)

// envFile holds the --env-file flag.
var envFile string

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:     "screensaver",
	Short:   "Full-screen dashboard of weather, calendar and clock widgets",
	Version: version.Get().String(),
	Long: `screensaver serves a grid of widgets described by a layout file.

Each widget fetches its data from /api/{type}; the page binds the returned
JSON into elements whose ids follow wgcontent-{widgetId}-{key-path}.
Configuration comes from SCREENSAVER_* environment variables and an
optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadEnv()
	},
	RunE: runServe,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment from this file (default .env if present)")
}

// loadEnv loads .env files. An explicit --env-file must exist.
func loadEnv() error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}
