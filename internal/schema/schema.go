// Package schema owns the person table: the on-demand CREATE TABLE used when a
// repository is built, and the goose migrations used by tooling.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gotrepository/internal/common"
	"github.com/dmitrijs2005/gotrepository/internal/dbx"
	"github.com/dmitrijs2005/gotrepository/internal/logging"
	"github.com/dmitrijs2005/gotrepository/internal/migrations"
	"github.com/dmitrijs2005/gotrepository/internal/sqlerr"
	"github.com/pressly/goose/v3"
)

const TableName = "person"

// CreateTableSQL is the person table definition.
const CreateTableSQL = `CREATE TABLE person (
  id    INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
  name  VARCHAR(255),
  city  VARCHAR(255),
  house VARCHAR(255),
  UNIQUE (name, city, house)
)`

// EnsureTable creates the person table unless it already exists. An
// "already exists" answer from the store is logged and treated as success.
func EnsureTable(ctx context.Context, db *sql.DB, log logging.Logger) error {
	err := dbx.WithConn(ctx, db, func(ctx context.Context, conn dbx.DBTX) error {
		_, err := conn.ExecContext(ctx, CreateTableSQL)
		return err
	})

	if err == nil {
		log.Info(ctx, "table created", "table", TableName)
		return nil
	}

	err = sqlerr.Classify(err)

	// concurrent CREATE TABLE can also trip the pg_type unique index
	if errors.Is(err, common.ErrSchemaConflict) || errors.Is(err, common.ErrConstraintViolation) {
		log.Warn(ctx, "table already exists", "table", TableName, "error", err.Error())
		return nil
	}

	log.Error(ctx, "create table failed", "table", TableName, "error", err.Error())
	return fmt.Errorf("create table %s: %w", TableName, err)
}

// gooseUpContext and gooseDownToContext are seams for testing.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

var gooseDownToContext = func(ctx context.Context, db *sql.DB, dir string, version int64, opts ...goose.OptionsFunc) error {
	return goose.DownToContext(ctx, db, dir, version, opts...)
}

func setupGoose() error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.SetDialect("pgx")
}

// RunMigrations applies the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return sqlerr.Classify(err)
	}
	return nil
}

// Reset rolls every migration back, dropping the person table. The next
// table creation starts identities at 1 again.
func Reset(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := gooseDownToContext(ctx, db, ".", 0); err != nil {
		return sqlerr.Classify(err)
	}
	return nil
}
