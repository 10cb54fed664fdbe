// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main is the digestctl command line tool. It summarizes a single
// video, prints the digest of a channel and mints API tokens, using the same
// configuration files as the server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/telemetry"
)

var (
	verbose   bool
	configDir string
	runtime   string
	serverURL string
	cfg       *cloud.Config
)

var rootCmd = &cobra.Command{
	Use:   "digestctl",
	Short: "YouTube channel digest tools",
	Long: `digestctl works with the channel digest from the command line.

Example usage:
  digestctl summarize --title "..." --description "..."
  digestctl digest https://www.youtube.com/@handle
  digestctl digest UCxxxx --server http://localhost:5003
  digestctl token --user alice`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "directory holding the .env TOML files")
	rootCmd.PersistentFlags().StringVar(&runtime, "runtime", "local", "runtime overlay to load (.env.<runtime>.toml)")
	rootCmd.AddCommand(summarizeCmd, digestCmd, tokenCmd)
}

// initConfig sets up logging and loads the configuration.
func initConfig() error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	telemetry.SetupLogging("", level)

	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		_ = os.Setenv(cloud.EnvConfigFilePrefix, configDir)
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		_ = os.Setenv(cloud.EnvConfigRuntime, runtime)
	}
	cfg = cloud.NewConfig()
	if err := cloud.LoadConfig(cfg); err != nil {
		return err
	}
	return cloud.ApplyEnvironment(cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
