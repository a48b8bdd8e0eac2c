// Package persons stores Person records in PostgreSQL.
//
// Every operation runs on its own scoped connection. Store failures never
// escape as panics: they are classified (see package sqlerr), logged and
// returned as errors matching the sentinels in package common. A duplicate
// natural key on save is not a failure; the stored row is returned instead.
package persons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/gotrepository/internal/common"
	"github.com/dmitrijs2005/gotrepository/internal/dbx"
	"github.com/dmitrijs2005/gotrepository/internal/logging"
	"github.com/dmitrijs2005/gotrepository/internal/models"
	"github.com/dmitrijs2005/gotrepository/internal/schema"
	"github.com/dmitrijs2005/gotrepository/internal/sqlerr"
)

type PostgresRepository struct {
	db  *sql.DB
	log logging.Logger
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository builds a repository on db, creating the person table
// first if it is missing.
func NewPostgresRepository(ctx context.Context, db *sql.DB, log logging.Logger) (*PostgresRepository, error) {
	log = log.With("repository", schema.TableName)

	if err := schema.EnsureTable(ctx, db, log); err != nil {
		return nil, err
	}

	return &PostgresRepository{db: db, log: log}, nil
}

// Save inserts a person without identity and updates one with identity.
// An update that matches no row falls back to an insert, so the returned
// person then carries a fresh store identity instead of the requested one.
func (r *PostgresRepository) Save(ctx context.Context, person models.Person) (*models.Person, error) {
	var saved *models.Person

	var err error
	if person.HasID() {
		err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			n, err := r.update(ctx, tx, person)
			if err != nil {
				return err
			}
			if n > 0 {
				saved = &person
				return nil
			}

			r.log.Info(ctx, "no person with requested id, inserting", "id", person.ID)
			saved, err = r.insert(ctx, tx, person)
			return err
		})
	} else {
		err = dbx.WithConn(ctx, r.db, func(ctx context.Context, conn dbx.DBTX) error {
			var err error
			saved, err = r.insert(ctx, conn, person)
			return err
		})
	}

	if err == nil {
		return saved, nil
	}

	err = sqlerr.Classify(err)
	if !errors.Is(err, common.ErrConstraintViolation) {
		return nil, r.fail(ctx, "save", err, "person", person.String())
	}

	r.log.Info(ctx, "person already stored", "person", person.String())

	existing, err := r.findByNaturalKey(ctx, person)
	if err != nil {
		return nil, r.fail(ctx, "save", err, "person", person.String())
	}
	return existing, nil
}

func (r *PostgresRepository) insert(ctx context.Context, db dbx.DBTX, person models.Person) (*models.Person, error) {
	query :=
		`INSERT INTO person (name, city, house)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	var id int64
	err := db.QueryRowContext(ctx, query, person.Name, person.City, person.House).Scan(&id)
	if err != nil {
		return nil, err
	}

	saved := person.WithID(id)
	return &saved, nil
}

// update returns the number of rows it changed: 0 when no row has the id.
func (r *PostgresRepository) update(ctx context.Context, db dbx.DBTX, person models.Person) (int64, error) {
	if !storable(person.ID) {
		return 0, nil
	}

	query :=
		`UPDATE person SET name = $1, city = $2, house = $3
		 WHERE id = $4
		 `

	res, err := db.ExecContext(ctx, query, person.Name, person.City, person.House, person.ID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *PostgresRepository) findByNaturalKey(ctx context.Context, person models.Person) (*models.Person, error) {
	query :=
		`SELECT id, name, city, house FROM person
		 WHERE name = $1 AND city = $2 AND house = $3
		 `

	var found *models.Person
	err := dbx.WithConn(ctx, r.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		found, err = scanPerson(conn.QueryRowContext(ctx, query, person.Name, person.City, person.House))
		return err
	})

	return found, err
}

// Delete removes the person with the given id. A missing row is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if !storable(id) {
		r.log.Debug(ctx, "nothing to delete", "id", id)
		return nil
	}

	query := `DELETE FROM person WHERE id = $1`

	var n int64
	err := dbx.WithConn(ctx, r.db, func(ctx context.Context, conn dbx.DBTX) error {
		res, err := conn.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return r.fail(ctx, "delete", err, "id", id)
	}

	if n == 0 {
		r.log.Debug(ctx, "nothing to delete", "id", id)
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	query := `DELETE FROM person`

	var n int64
	err := dbx.WithConn(ctx, r.db, func(ctx context.Context, conn dbx.DBTX) error {
		res, err := conn.ExecContext(ctx, query)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return r.fail(ctx, "delete all", err)
	}

	r.log.Info(ctx, "persons deleted", "count", n)
	return nil
}

// Find returns common.ErrorNotFound when no person has the id.
func (r *PostgresRepository) Find(ctx context.Context, id int64) (*models.Person, error) {
	if !storable(id) {
		r.log.Debug(ctx, "person not found", "id", id, "op", "find")
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, name, city, house FROM person
		 WHERE id = $1
		 `

	var person *models.Person
	err := dbx.WithConn(ctx, r.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		person, err = scanPerson(conn.QueryRowContext(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, r.fail(ctx, "find", err, "id", id)
	}

	return person, nil
}

// FindByHouse returns every person of the house, ordered by id. The slice is
// empty, not nil, when nobody matches.
func (r *PostgresRepository) FindByHouse(ctx context.Context, house string) ([]models.Person, error) {
	query :=
		`SELECT id, name, city, house FROM person
		 WHERE house = $1
		 ORDER BY id
		 `

	persons := make([]models.Person, 0)
	err := dbx.WithConn(ctx, r.db, func(ctx context.Context, conn dbx.DBTX) error {
		rows, err := conn.QueryContext(ctx, query, house)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPerson(rows)
			if err != nil {
				return err
			}
			persons = append(persons, *p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, r.fail(ctx, "find by house", err, "house", house)
	}

	return persons, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM person`

	var n int64
	err := dbx.WithConn(ctx, r.db, func(ctx context.Context, conn dbx.DBTX) error {
		return conn.QueryRowContext(ctx, query).Scan(&n)
	})
	if err != nil {
		return 0, r.fail(ctx, "count", err)
	}

	return n, nil
}

// fail classifies and logs err. Not-found comes back as the bare sentinel,
// everything else wrapped as a db error.
func (r *PostgresRepository) fail(ctx context.Context, op string, err error, args ...any) error {
	err = sqlerr.Classify(err)
	args = append(args, "op", op, "error", err.Error())

	if errors.Is(err, common.ErrorNotFound) {
		r.log.Debug(ctx, "person not found", args...)
		return common.ErrorNotFound
	}

	r.log.Error(ctx, "person store error", args...)
	return fmt.Errorf("db error: %w", err)
}

// storable reports whether id fits the INTEGER identity column. No stored
// row can carry any other id, and the driver refuses to encode ids above
// math.MaxInt32 for that column.
func storable(id int64) bool {
	return id >= 1 && id <= math.MaxInt32
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (*models.Person, error) {
	var (
		p                 models.Person
		name, city, house sql.NullString
	)

	if err := row.Scan(&p.ID, &name, &city, &house); err != nil {
		return nil, err
	}

	p.Name, p.City, p.House = name.String, city.String, house.String
	return &p, nil
}
