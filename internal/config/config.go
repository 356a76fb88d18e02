// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

// Package config loads service configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the full service configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Database DatabaseConfig `koanf:"database"`
	Cookie   CookieConfig   `koanf:"cookie"`
	Guard    GuardConfig    `koanf:"guard"`
	Log      LogConfig      `koanf:"log"`
}

// HTTPConfig configures the application HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// MetricsConfig configures the observability listener. An empty addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// CookieConfig configures the session cookie.
type CookieConfig struct {
	// Secure marks the cookie Secure; enable in production-grade
	// deployments behind TLS.
	Secure bool `koanf:"secure"`
}

// GuardConfig configures the route guard.
type GuardConfig struct {
	// Protected lists glob patterns of paths that require a session
	// cookie to be present.
	Protected []string `koanf:"protected"`
	// Landing is where anonymous requests for protected paths are
	// redirected.
	Landing string `koanf:"landing"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// defaults returns the baseline configuration.
func defaults() map[string]any {
	return map[string]any{
		"http.addr":       ":8080",
		"metrics.addr":    "127.0.0.1:9100",
		"database.url":    os.Getenv("DATABASE_URL"),
		"cookie.secure":   false,
		"guard.protected": []string{"/dashboard", "/dashboard/**"},
		"guard.landing":   "/",
		"log.format":      "json",
		"log.level":       "info",
	}
}

// Load builds the configuration from defaults, then the YAML file at
// path (skipped when path is empty), then flag overrides (skipped when
// flags is nil). Later sources win.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_DEFAULTS_FAILED").With("key", key).Wrap(err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if cfg.Guard.Landing == "" {
		cfg.Guard.Landing = "/"
	}

	return &cfg, nil
}
