// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/timetracker/internal/models"
)

const leaveColumns = `id, user_id, leave_type, start_date, end_date, description, created_at`

// CreateLeave records a leave period for a user.
func (r *Repository) CreateLeave(ctx context.Context, userID int64, leaveType models.LeaveType, start, end models.Date, description string) (*models.LeaveEntry, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO leave_entries (user_id, leave_type, start_date, end_date, description) VALUES (?, ?, ?, ?, ?)`,
		userID, string(leaveType), start, end, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetLeave(ctx, id)
}

// GetLeave retrieves a leave entry by ID regardless of owner.
func (r *Repository) GetLeave(ctx context.Context, id int64) (*models.LeaveEntry, error) {
	var l models.LeaveEntry
	if err := r.db.GetContext(ctx, &l, `SELECT `+leaveColumns+` FROM leave_entries WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLeave deletes a leave entry by ID.
func (r *Repository) DeleteLeave(ctx context.Context, id int64) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM leave_entries WHERE id = ?`, id))
}

// ListLeave returns all leave of a user, latest start first.
func (r *Repository) ListLeave(ctx context.Context, userID int64) ([]models.LeaveEntry, error) {
	leaves := []models.LeaveEntry{}
	err := r.db.SelectContext(ctx, &leaves,
		`SELECT `+leaveColumns+` FROM leave_entries WHERE user_id = ? ORDER BY start_date DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return leaves, nil
}

// ListLeaveOverlapping returns leave of a user that touches [start, end],
// ordered by ID so callers can take the first match per day.
func (r *Repository) ListLeaveOverlapping(ctx context.Context, userID int64, start, end models.Date) ([]models.LeaveEntry, error) {
	leaves := []models.LeaveEntry{}
	err := r.db.SelectContext(ctx, &leaves,
		`SELECT `+leaveColumns+` FROM leave_entries
		 WHERE user_id = ? AND start_date <= ? AND end_date >= ?
		 ORDER BY id`,
		userID, end, start)
	if err != nil {
		return nil, err
	}
	return leaves, nil
}
