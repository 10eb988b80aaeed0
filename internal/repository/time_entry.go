// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/timetracker/internal/models"
)

const timeEntryColumns = `id, user_id, project_id, date, hours, description, is_rest_time, travel_allowance, created_at`

// UpsertProjectEntry stores the hours for a project on a day. An existing
// entry for the same (user, project, date) is overwritten; an empty
// description keeps the stored one.
func (r *Repository) UpsertProjectEntry(ctx context.Context, userID, projectID int64, date models.Date, hours float64, description string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_entries (user_id, project_id, date, hours, description, is_rest_time)
		VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT (user_id, project_id, date) WHERE is_rest_time = 0
		DO UPDATE SET hours = excluded.hours,
			description = CASE WHEN excluded.description = '' THEN description ELSE excluded.description END`,
		userID, projectID, date, hours, description)
	return err
}

// UpsertRestEntry stores the rest time of a day. There is at most one per
// user and day.
func (r *Repository) UpsertRestEntry(ctx context.Context, userID int64, date models.Date, hours float64, travelAllowance bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_entries (user_id, project_id, date, hours, is_rest_time, travel_allowance)
		VALUES (?, NULL, ?, ?, 1, ?)
		ON CONFLICT (user_id, date) WHERE is_rest_time = 1
		DO UPDATE SET hours = excluded.hours, travel_allowance = excluded.travel_allowance`,
		userID, date, hours, travelAllowance)
	return err
}

// DeleteRestEntry removes the rest time of a day. Deleting a missing entry is not an error.
func (r *Repository) DeleteRestEntry(ctx context.Context, userID int64, date models.Date) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM time_entries WHERE user_id = ? AND date = ? AND is_rest_time = 1`,
		userID, date)
	return err
}

// ListEntriesBetween returns all entries of a user with start <= date <= end.
func (r *Repository) ListEntriesBetween(ctx context.Context, userID int64, start, end models.Date) ([]models.TimeEntry, error) {
	entries := []models.TimeEntry{}
	err := r.db.SelectContext(ctx, &entries,
		`SELECT `+timeEntryColumns+` FROM time_entries
		 WHERE user_id = ? AND date BETWEEN ? AND ?
		 ORDER BY date, id`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
