package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/adapter/outbound/api"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/adapter/outbound/state"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/config"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/session"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/metrics"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/port/outbound"
	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/service"
)

// app is the composition root shared by every command: config, logger,
// and a fully wired Portal.
type app struct {
	cfg    *config.PortalConfig
	logger *slog.Logger
	portal *service.Portal
	states outbound.StateStore
}

// newApp loads configuration and wires the portal. Callers must defer
// a.close().
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Debug("loaded config", "file", configFile)
	}

	statePath := stateFilePath
	if statePath == "" {
		statePath = cfg.State.Path
	}
	if err := os.MkdirAll(filepath.Dir(statePath), 0700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	states, err := newStateStore(cfg, statePath, logger)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(logger)
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	// The auth-reject hook needs the portal, which needs the backend:
	// late-bind through the pointer.
	var portal *service.Portal
	backend := api.NewClient(cfg.API.BaseURL, logger,
		api.WithTimeout(cfg.APITimeout()),
		api.WithTokenSource(sessions.Token),
		api.WithAuthRejectHook(func() {
			if portal != nil {
				portal.AuthRejected()
			}
		}),
	)

	portal, err = service.NewPortal(service.Deps{
		Sessions: sessions,
		Backend:  backend,
		States:   states,
		Metrics:  m,
		Logger:   logger,
		CacheTTL: cfg.CacheTTL(),
	})
	if err != nil {
		return nil, err
	}

	if err := portal.Init(ctx); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, portal: portal, states: states}, nil
}

func (a *app) close() {
	if err := a.portal.Close(); err != nil {
		a.logger.Warn("failed to persist state", "error", err)
	}
	if c, ok := a.states.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close state store", "error", err)
		}
	}
}

func newStateStore(cfg *config.PortalConfig, path string, logger *slog.Logger) (outbound.StateStore, error) {
	if cfg.State.Backend == "sqlite" {
		return state.NewSQLiteStateStore(path, logger)
	}
	return state.NewFileStateStore(path, logger), nil
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
