// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package repository holds all SQL access. Lookups that find nothing
// return sql.ErrNoRows; inserts that hit a UNIQUE constraint return
// ErrDuplicate.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vinovest/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicate is returned when a write violates a UNIQUE constraint.
var ErrDuplicate = errors.New("duplicate")

// Repository wraps sqlx for database operations.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying connection for direct access.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// requireAffected turns an update or delete that matched nothing into sql.ErrNoRows.
func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// duplicate wraps UNIQUE constraint violations in ErrDuplicate and returns
// other errors unchanged.
func duplicate(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}
