// Package store selects and opens the configured case store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/config"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/store/postgres"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/store/sqlite"
)

// Backend is a case store that also keeps import history.
type Backend interface {
	core.Store
	core.BatchHistory
	Ping(ctx context.Context) error
}

// Open connects to the store named by cfg.Driver and applies its schema.
// The returned func releases the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Backend, func(), error) {
	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "":
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database", "driver", "sqlite", "path", cfg.SQLitePath)
		return s, func() {
			if err := s.Close(); err != nil {
				slog.Warn("close sqlite", "error", err)
			}
		}, nil

	case "postgres":
		s, err := postgres.Connect(ctx, cfg.URL, postgres.PoolConfig{
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database", "driver", "postgres")
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
