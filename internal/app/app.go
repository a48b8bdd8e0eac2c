// Package app wires configuration, logging, the database handle and the
// person repository together for the command-line tools.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gotrepository/internal/config"
	"github.com/dmitrijs2005/gotrepository/internal/database"
	"github.com/dmitrijs2005/gotrepository/internal/logging"
	"github.com/dmitrijs2005/gotrepository/internal/repositories/persons"
	"github.com/dmitrijs2005/gotrepository/internal/schema"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	persons *persons.Provider
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.SlogLevel())

	db, err := database.Open(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(c, logger, db), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB) *App {
	return &App{config: c, logger: logger, db: db, persons: persons.NewProvider(db, logger)}
}

// Migrate applies the schema migrations and reports how many persons are
// stored.
func (app *App) Migrate(ctx context.Context) error {
	if err := schema.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration failed", "error", err.Error())
		return err
	}

	repo, err := app.persons.Get(ctx)
	if err != nil {
		return err
	}

	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	app.logger.Info(ctx, "schema up to date", "table", schema.TableName, "rows", n)
	return nil
}

// Reset drops the person table through the migrations and forgets the
// shared repository, so the next use recreates the table.
func (app *App) Reset(ctx context.Context) error {
	if err := schema.Reset(ctx, app.db); err != nil {
		app.logger.Error(ctx, "reset failed", "error", err.Error())
		return err
	}

	app.persons.Reset()
	app.logger.Info(ctx, "schema reset", "table", schema.TableName)
	return nil
}

func (app *App) Close() error {
	return app.db.Close()
}
