// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/timetracker/internal/models"
)

const userColumns = `id, username, email, password_hash, is_admin, language, created_at`

// CreateUser creates a new user.
func (r *Repository) CreateUser(ctx context.Context, username, email, passwordHash string, isAdmin bool) (*models.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_admin) VALUES (?, ?, ?, ?)`,
		username, email, passwordHash, isAdmin)
	if err != nil {
		return nil, duplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = ?`, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists checks if a user with the given username exists.
func (r *Repository) UserExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM users WHERE username = ?`, username); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountUsers returns the total number of users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM users`); err != nil {
		return 0, err
	}
	return count, nil
}

// ListUsers returns all users in creation order.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserAdmin sets or removes admin status for a user.
func (r *Repository) SetUserAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return requireAffected(r.db.ExecContext(ctx, `UPDATE users SET is_admin = ? WHERE id = ?`, isAdmin, id))
}

// SetUserLanguage stores the preferred UI language of a user.
func (r *Repository) SetUserLanguage(ctx context.Context, id int64, language string) error {
	return requireAffected(r.db.ExecContext(ctx, `UPDATE users SET language = ? WHERE id = ?`, language, id))
}

// DeleteUser deletes a user and, through foreign keys, everything they own.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id))
}
