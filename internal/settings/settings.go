// Package settings reads the tool's own runtime settings from the process
// environment.
package settings

import (
	"fmt"

	"go-simpler.org/env"
)

// Settings are overridable on the command line.
type Settings struct {
	LogLevel  string `env:"ENVPROC_LOG_LEVEL" default:"info"`
	LogFormat string `env:"ENVPROC_LOG_FORMAT" default:"text"`
	ConfigDir string `env:"ENVPROC_CONFIG_DIR" default:"config"`
	EnvFile   string `env:"ENVPROC_ENV_FILE" default:".env"`
	Mapping   string `env:"ENVPROC_MAPPING"`
}

// Load reads Settings from the environment.
func Load() (*Settings, error) {
	var s Settings
	if err := env.Load(&s, nil); err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Settings) validate() error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid ENVPROC_LOG_LEVEL %q: use debug, info, warn or error", s.LogLevel)
	}

	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid ENVPROC_LOG_FORMAT %q: use text or json", s.LogFormat)
	}

	return nil
}
