// Package app wires the net loader, the operator registry and the executors
// into a runnable application.
package app

import (
	"io"
	"log/slog"

	"github.com/vk/dagnet/internal/operators"
	"github.com/vk/dagnet/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp constructs an App with an isolated logger and registry. When no
// modules are given, the built-in operator types are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)

	reg := registry.New()
	if len(modules) == 0 {
		modules = []registry.Module{operators.Module{}}
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Operator modules registered.", "types", reg.Types())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
