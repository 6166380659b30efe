package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// NetPath is an .hcl file or a directory of .hcl files.
	NetPath string

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.NetPath == "" {
		return nil, errors.New("NetPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("WorkerCount must be at least 1")
	}
	return &cfg, nil
}
