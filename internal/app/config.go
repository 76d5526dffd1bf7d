package app

import (
	"time"

	"github.com/pkg/errors"
	"github.com/specialistvlad/picharness/internal/options"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Options    *options.Options
	ConfigPath string   // optional HCL harness file
	Scenarios  []string // files or directories

	LogFormat string
	LogLevel  string
	Workers   int
	Timeout   time.Duration // overrides the harness file when non-zero
	Update    bool
	PrintEnv  bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Options == nil {
		return nil, errors.New("Options is a required configuration field and cannot be nil")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("Workers must be at least 1")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("Timeout must not be negative")
	}
	return &cfg, nil
}
