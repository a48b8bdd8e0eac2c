// Package database opens the PostgreSQL handle the repositories run on.
//
// The handle is a plain *sql.DB over the pgx stdlib driver, so every
// repository call can take its own scoped connection from it. When the log
// level is debug, pgx query tracing is routed into the project logger.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/gotrepository/internal/common"
	"github.com/dmitrijs2005/gotrepository/internal/config"
	"github.com/dmitrijs2005/gotrepository/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
)

// DefaultPingTimeout applies when the config carries no connect timeout.
const DefaultPingTimeout = 10 * time.Second

// Open connects to the database described by cfg and pings it. A failed
// ping is reported as common.ErrStoreUnavailable.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	if log.Enabled(ctx, slog.LevelDebug) {
		connConfig.Tracer = &tracelog.TraceLog{
			Logger:   logging.NewTraceLogger(log.With("component", "pgx")),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	db := stdlib.OpenDB(*connConfig)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s:%d: %w", common.ErrStoreUnavailable, cfg.DBHost, cfg.DBPort, err)
	}

	log.Info(ctx, "connected to the database", "host", cfg.DBHost, "port", cfg.DBPort, "database", cfg.DBName)
	return db, nil
}
