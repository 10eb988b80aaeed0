// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// User owns projects, time entries, leave entries and project targets.
// Deleting a user cascades to all of them.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	Language     string    `db:"language" json:"language"` // empty: negotiate from request
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
