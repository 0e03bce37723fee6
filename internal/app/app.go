// Package app provides the top-level application lifecycle management for
// the venue adapter service. It wires together all dependencies (adapters,
// registry, caches, blob storage, sink) and starts the appropriate work
// based on the configured operating mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/polydraft/venues/internal/config"
)

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions that are called in reverse order on
// shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()

	resolveTargets []string
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// SetResolveTargets sets the market ids resolve mode will check.
func (a *App) SetResolveTargets(ids []string) {
	a.resolveTargets = ids
}

// Run is the main entry point. It wires all dependencies, selects the
// operating mode, runs it, and blocks until the work completes or the
// context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	switch strings.ToLower(a.cfg.Mode) {
	case "sync":
		return a.SyncMode(ctx, deps)
	case "refresh":
		return a.RefreshMode(ctx, deps)
	case "stream":
		return a.StreamMode(ctx, deps)
	case "snapshot":
		return a.SnapshotMode(ctx, deps)
	case "resolve":
		return a.ResolveMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. Safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
