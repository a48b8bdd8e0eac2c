package schema

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gotrepository/internal/common"
	"github.com/dmitrijs2005/gotrepository/internal/logging"
	"github.com/dmitrijs2005/gotrepository/internal/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

var createTable = regexp.QuoteMeta(CreateTableSQL)

func TestEnsureTable_Creates(t *testing.T) {
	db, mock := newDB(t)
	log, buf := newLogger()

	mock.ExpectExec(createTable).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureTable(context.Background(), db, log))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), "table created")
}

func TestEnsureTable_TwiceIsIdempotent(t *testing.T) {
	db, mock := newDB(t)
	log, buf := newLogger()

	mock.ExpectExec(createTable).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(createTable).
		WillReturnError(&pgconn.PgError{Code: "42P07", Message: `relation "person" already exists`})

	require.NoError(t, EnsureTable(context.Background(), db, log))
	require.NoError(t, EnsureTable(context.Background(), db, log))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), "level=WARN msg=\"table already exists\"")
}

func TestEnsureTable_ConcurrentCreateRace(t *testing.T) {
	db, mock := newDB(t)
	log, _ := newLogger()

	mock.ExpectExec(createTable).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "pg_type_typname_nsp_index"})

	require.NoError(t, EnsureTable(context.Background(), db, log))
}

func TestEnsureTable_StoreUnavailable(t *testing.T) {
	db, mock := newDB(t)
	log, buf := newLogger()

	mock.ExpectExec(createTable).
		WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})

	err := EnsureTable(context.Background(), db, log)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestEnsureTable_OtherError(t *testing.T) {
	db, mock := newDB(t)
	log, _ := newLogger()

	mock.ExpectExec(createTable).WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied"})

	err := EnsureTable(context.Background(), db, log)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrSchemaConflict)
	assert.Contains(t, err.Error(), "create table person")
}

func TestMigrations_Embedded(t *testing.T) {
	b, err := fs.ReadFile(migrations.Migrations, "00001_create_person.sql")
	require.NoError(t, err)

	src := string(b)
	assert.Contains(t, src, "-- +goose Up")
	assert.Contains(t, src, "id    INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY")
	assert.Contains(t, src, "UNIQUE (name, city, house)")
	assert.Contains(t, src, "DROP TABLE IF EXISTS person")
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err := RunMigrations(context.Background(), db)
	require.EqualError(t, err, "boom")
}

func TestReset_DownToZero(t *testing.T) {
	db, _ := newDB(t)

	var gotVersion int64 = -1
	orig := gooseDownToContext
	gooseDownToContext = func(ctx context.Context, db *sql.DB, dir string, version int64, opts ...goose.OptionsFunc) error {
		gotVersion = version
		return nil
	}
	defer func() { gooseDownToContext = orig }()

	require.NoError(t, Reset(context.Background(), db))
	assert.Equal(t, int64(0), gotVersion)
}

func TestReset_ClassifiesError(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseDownToContext
	gooseDownToContext = func(ctx context.Context, db *sql.DB, dir string, version int64, opts ...goose.OptionsFunc) error {
		return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}
	defer func() { gooseDownToContext = orig }()

	assert.ErrorIs(t, Reset(context.Background(), db), common.ErrStoreUnavailable)
}
