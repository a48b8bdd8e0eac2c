// Package sqlerr sorts driver errors into the small set of store failures the
// repositories care about. Raw pgx/database/sql errors are matched by SQLSTATE
// or by type and wrapped with the matching sentinel from package common.
package sqlerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/dmitrijs2005/gotrepository/internal/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Code is the classified kind of a store error.
type Code int

const (
	Other Code = iota
	StoreUnavailable
	SchemaConflict
	ConstraintViolation
	NotFound
)

// PostgreSQL SQLSTATE values we react to.
const (
	uniqueViolation     = "23505"
	duplicateTable      = "42P07"
	connectionException = "08"
	adminShutdown       = "57P01"
)

func (c Code) String() string {
	switch c {
	case StoreUnavailable:
		return "store unavailable"
	case SchemaConflict:
		return "schema conflict"
	case ConstraintViolation:
		return "constraint violation"
	case NotFound:
		return "not found"
	default:
		return "other"
	}
}

// ErrCode reports the classified Code for err. Nil maps to Other.
func ErrCode(err error) Code {
	if err == nil {
		return Other
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return ConstraintViolation
		case duplicateTable:
			return SchemaConflict
		case adminShutdown:
			return StoreUnavailable
		}
		if strings.HasPrefix(pgErr.Code, connectionException) {
			return StoreUnavailable
		}
		return Other
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, common.ErrorNotFound) {
		return NotFound
	}

	if isUnavailable(err) {
		return StoreUnavailable
	}

	return Other
}

func isUnavailable(err error) bool {
	if errors.Is(err, common.ErrStoreUnavailable) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Classify wraps err with the sentinel for its Code so that both
// errors.Is(err, common.ErrXxx) and errors.As(err, *pgconn.PgError) keep
// working. Unclassified errors and nil are returned unchanged.
func Classify(err error) error {
	var sentinel error

	switch ErrCode(err) {
	case StoreUnavailable:
		sentinel = common.ErrStoreUnavailable
	case SchemaConflict:
		sentinel = common.ErrSchemaConflict
	case ConstraintViolation:
		sentinel = common.ErrConstraintViolation
	case NotFound:
		sentinel = common.ErrorNotFound
	default:
		return err
	}

	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
