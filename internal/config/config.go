// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

// Package config loads pais settings from built-in defaults, an optional
// YAML file, and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/pais-dev/pais/internal/logging"
	"github.com/pais-dev/pais/internal/plugin"
	"github.com/pais-dev/pais/internal/xdg"
)

// Audit sink names.
const (
	SinkFile   = "file"
	SinkStdout = "stdout"
	SinkHTTP   = "http"
)

// Audit configures the dispatch audit trail.
type Audit struct {
	Enabled        bool     `koanf:"enabled"`
	Sinks          []string `koanf:"sinks"`
	Dir            string   `koanf:"dir"`
	HTTPEndpoint   string   `koanf:"http-endpoint"`
	IncludePayload bool     `koanf:"include-payload"`
	MaxOutput      int      `koanf:"max-output"`
}

// Metrics configures pushing metrics at process exit.
type Metrics struct {
	// Pushgateway is the Pushgateway URL; empty disables pushing.
	Pushgateway string `koanf:"pushgateway"`
	Job         string `koanf:"job"`
}

// Config holds every setting of a pais invocation.
type Config struct {
	PluginDirs      []string      `koanf:"plugin-dirs"`
	LogFormat       string        `koanf:"log-format"`
	LogLevel        string        `koanf:"log-level"`
	DefaultTimeout  time.Duration `koanf:"default-timeout"`
	BuildTimeout    time.Duration `koanf:"build-timeout"`
	BlockableEvents []string      `koanf:"blockable-events"`
	Audit           Audit         `koanf:"audit"`
	Metrics         Metrics       `koanf:"metrics"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		PluginDirs:     []string{xdg.PluginsDir()},
		LogFormat:      "text",
		LogLevel:       "warn",
		DefaultTimeout: 30 * time.Second,
		BuildTimeout:   10 * time.Minute,
		BlockableEvents: []string{
			string(plugin.EventPreToolUse),
			string(plugin.EventPermissionRequest),
			string(plugin.EventUserPromptSubmit),
			string(plugin.EventStop),
			string(plugin.EventSubagentStop),
		},
		Audit: Audit{
			Enabled:   true,
			Sinks:     []string{SinkFile},
			Dir:       xdg.HistoryDir(),
			MaxOutput: 4096,
		},
		Metrics: Metrics{
			Job: "pais",
		},
	}
}

// Source says where to read configuration from.
type Source struct {
	// Path is the config file. Empty means the default location.
	Path string
	// Flags, when set, override file values for every flag the user changed.
	// Flag names are config keys, e.g. --log-level sets log-level.
	Flags *pflag.FlagSet
}

// Load reads and validates configuration. A missing file at the default
// location is not an error; a missing file named explicitly is.
func Load(src Source) (*Config, error) {
	k := koanf.New(".")

	path := src.Path
	explicit := path != ""
	if !explicit {
		path = xdg.ConfigFile()
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, ErrConfigInvalid(path, err)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigInvalid(path, err)
	}

	if src.Flags != nil {
		provider := posflag.ProviderWithFlag(src.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(src.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, ErrConfigInvalid("flags", err)
		}
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, ErrConfigInvalid(path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (cfg *Config) Validate() error {
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return ErrConfigInvalid("log-format", fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.LogFormat))
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ErrConfigInvalid("log-level", err)
	}
	if cfg.DefaultTimeout <= 0 {
		return ErrConfigInvalid("default-timeout", fmt.Errorf("must be positive, got %s", cfg.DefaultTimeout))
	}
	if cfg.BuildTimeout <= 0 {
		return ErrConfigInvalid("build-timeout", fmt.Errorf("must be positive, got %s", cfg.BuildTimeout))
	}
	for _, name := range cfg.BlockableEvents {
		if _, ok := plugin.ParseEvent(name); !ok {
			return ErrConfigInvalid("blockable-events", fmt.Errorf("unknown event %q", name))
		}
	}
	for _, sink := range cfg.Audit.Sinks {
		switch sink {
		case SinkFile, SinkStdout:
		case SinkHTTP:
			if cfg.Audit.HTTPEndpoint == "" {
				return ErrConfigInvalid("audit.http-endpoint", fmt.Errorf("required by the http sink"))
			}
		default:
			return ErrConfigInvalid("audit.sinks", fmt.Errorf("unknown sink %q", sink))
		}
	}
	if cfg.Audit.MaxOutput < 0 {
		return ErrConfigInvalid("audit.max-output", fmt.Errorf("must not be negative, got %d", cfg.Audit.MaxOutput))
	}
	return nil
}
