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

// Package cloud provides components for interacting with Google Cloud services.
// This file contains the hierarchical configuration loader.
//
// Functions:
//   - fileExists: A simple helper to check if a file exists.
//   - LoadConfig: Reads a base configuration file and then overwrites values with a
//     second, environment-specific file (e.g., .env.local.toml, .env.test.toml). The
//     environment is determined by an environment variable.
//   - ApplyEnvironment: Overlays secrets and deployment settings from environment
//     variables (optionally seeded from a .env file) onto the loaded configuration.
package cloud

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Cloud Constants define key strings used for configuration loading.
const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test", "prod").
	DotEnvFile          = ".env"              // Optional KEY=VALUE file loaded into the environment.
)

// Environment variables read by ApplyEnvironment.
const (
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvYouTubeAPIKey = "YOUTUBE_API_KEY"
	EnvJWTSecret     = "DIGEST_JWT_SECRET"
	EnvPort          = "PORT"
	EnvRedisURL      = "REDIS_URL"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvProjectID     = "GOOGLE_CLOUD_PROJECT"
)

// fileExists checks if a file or directory exists at the given path.
//
// Inputs:
//   - in: The path to the file or directory as a string.
//
// Outputs:
//   - bool: Returns true if the file exists, and false if it does not.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// ConfigFileNames returns the base and the runtime specific configuration file
// paths derived from the GCP_CONFIG_PREFIX and GCP_RUNTIME variables.
func ConfigFileNames() (base string, runtime string) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	base = configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	runtime = configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension
	return base, runtime
}

// LoadConfig provides a hierarchical configuration loading mechanism. It first loads a
// base configuration file and then overwrites its values with an environment-specific
// configuration file. Missing files are skipped; the defaults already present in
// baseConfig remain.
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct.
//
// Outputs:
//   - error: A decode error for the first file that could not be parsed.
func LoadConfig(baseConfig interface{}) error {
	baseConfigFileName, envConfigFileName := ConfigFileNames()
	slog.Debug("configuration files", "base", baseConfigFileName, "runtime", envConfigFileName)

	for _, name := range []string{baseConfigFileName, envConfigFileName} {
		if !fileExists(name) {
			continue
		}
		if _, err := toml.DecodeFile(name, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnvironment loads the optional .env file and overlays the supported
// environment variables onto the configuration. Environment values win over TOML.
func ApplyEnvironment(config *Config) error {
	if fileExists(DotEnvFile) {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
		}
	}
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		config.Application.GeminiAPIKey = v
	}
	if v := os.Getenv(EnvYouTubeAPIKey); v != "" {
		config.YouTube.APIKey = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		config.Redis.URL = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		config.Postgres.URL = v
	}
	if v := os.Getenv(EnvProjectID); v != "" {
		config.Application.GoogleProjectId = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		config.Application.Port = port
	}
	return nil
}

// MaskSecret returns the first ten characters of a secret followed by "...",
// suitable for logging. Secrets of ten characters or fewer are hidden entirely.
func MaskSecret(secret string) string {
	if len(secret) <= 10 {
		return "..."
	}
	return secret[:10] + "..."
}
