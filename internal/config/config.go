// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

// Package config loads service configuration from an optional YAML
// file, command-line flags, and a small set of environment fallbacks.
// Precedence: flags over file over defaults.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Defaults applied when neither file nor flags set a value.
const (
	DefaultListenAddr  = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultTokenTTL    = 60 * time.Minute
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Token    TokenConfig    `koanf:"token"`
}

// ServerConfig configures the HTTP API and observability endpoints.
type ServerConfig struct {
	Addr        string `koanf:"addr"`
	MetricsAddr string `koanf:"metrics_addr"`
	LogFormat   string `koanf:"log_format"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// TokenConfig configures identity token issuance. Verification uses the
// same values; they must match across every process that accepts tokens.
type TokenConfig struct {
	Key      string        `koanf:"key"`
	Issuer   string        `koanf:"issuer"`
	Audience string        `koanf:"audience"`
	TTL      time.Duration `koanf:"ttl"`
}

// Load reads configuration from the optional YAML file at path, then
// overlays the given flag set. Secrets fall back to the environment:
// DATABASE_URL for the store, SHADOWREALM_TOKEN_KEY for signing.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultListenAddr
	}
	if cfg.Server.MetricsAddr == "" {
		cfg.Server.MetricsAddr = DefaultMetricsAddr
	}
	if cfg.Server.LogFormat == "" {
		cfg.Server.LogFormat = DefaultLogFormat
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Token.Key == "" {
		cfg.Token.Key = os.Getenv("SHADOWREALM_TOKEN_KEY")
	}
	if cfg.Token.Issuer == "" {
		cfg.Token.Issuer = "shadowrealm"
	}
	if cfg.Token.Audience == "" {
		cfg.Token.Audience = "shadowrealm-client"
	}
	if cfg.Token.TTL <= 0 {
		cfg.Token.TTL = DefaultTokenTTL
	}
}

// Validate checks structural validity. Presence of secrets is checked
// by the commands that need them, not here, so read-only commands can
// run without a signing key.
func (cfg *Config) Validate() error {
	if cfg.Server.LogFormat != "json" && cfg.Server.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", cfg.Server.LogFormat).
			Errorf("log format must be 'json' or 'text'")
	}
	return nil
}
