// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/timetracker/internal/models"
)

const targetColumns = `id, user_id, project_id, year, month, target_percentage, created_at`

// UpsertTarget sets the target percentage for a project in a month,
// replacing any previous value for the same (user, project, year, month).
func (r *Repository) UpsertTarget(ctx context.Context, userID, projectID int64, year, month int, percentage float64) (*models.ProjectTarget, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_targets (user_id, project_id, year, month, target_percentage)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, project_id, year, month)
		DO UPDATE SET target_percentage = excluded.target_percentage`,
		userID, projectID, year, month, percentage)
	if err != nil {
		return nil, err
	}

	var t models.ProjectTarget
	err = r.db.GetContext(ctx, &t,
		`SELECT `+targetColumns+` FROM project_targets
		 WHERE user_id = ? AND project_id = ? AND year = ? AND month = ?`,
		userID, projectID, year, month)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTarget retrieves a target by ID regardless of owner.
func (r *Repository) GetTarget(ctx context.Context, id int64) (*models.ProjectTarget, error) {
	var t models.ProjectTarget
	if err := r.db.GetContext(ctx, &t, `SELECT `+targetColumns+` FROM project_targets WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTarget deletes a target by ID.
func (r *Repository) DeleteTarget(ctx context.Context, id int64) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM project_targets WHERE id = ?`, id))
}

// ListTargets returns the targets of a user for one month.
func (r *Repository) ListTargets(ctx context.Context, userID int64, year, month int) ([]models.ProjectTarget, error) {
	targets := []models.ProjectTarget{}
	err := r.db.SelectContext(ctx, &targets,
		`SELECT `+targetColumns+` FROM project_targets
		 WHERE user_id = ? AND year = ? AND month = ?
		 ORDER BY project_id`,
		userID, year, month)
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// ListTargetsBetween returns the targets of a user for all months from
// (fromYear, fromMonth) to (toYear, toMonth) inclusive.
func (r *Repository) ListTargetsBetween(ctx context.Context, userID int64, fromYear, fromMonth, toYear, toMonth int) ([]models.ProjectTarget, error) {
	targets := []models.ProjectTarget{}
	err := r.db.SelectContext(ctx, &targets,
		`SELECT `+targetColumns+` FROM project_targets
		 WHERE user_id = ? AND year * 12 + month BETWEEN ? AND ?
		 ORDER BY year, month, project_id`,
		userID, fromYear*12+fromMonth, toYear*12+toMonth)
	if err != nil {
		return nil, err
	}
	return targets, nil
}
