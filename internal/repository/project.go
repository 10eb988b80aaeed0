// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/timetracker/internal/models"
)

const projectColumns = `id, user_id, name, description, active, created_at`

// CreateProject creates a new active project for a user. Names are unique
// per user.
func (r *Repository) CreateProject(ctx context.Context, userID int64, name, description string) (*models.Project, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (user_id, name, description) VALUES (?, ?, ?)`,
		userID, name, description)
	if err != nil {
		return nil, duplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetProject(ctx, userID, id)
}

// GetProject retrieves a project owned by the given user.
func (r *Repository) GetProject(ctx context.Context, userID, id int64) (*models.Project, error) {
	var p models.Project
	err := r.db.GetContext(ctx, &p,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all projects of a user in creation order.
func (r *Repository) ListProjects(ctx context.Context, userID int64) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ListActiveProjects returns the active projects of a user in creation order.
func (r *Repository) ListActiveProjects(ctx context.Context, userID int64) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = ? AND active = 1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// SetProjectActive activates or deactivates a project owned by the user.
func (r *Repository) SetProjectActive(ctx context.Context, userID, id int64, active bool) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE projects SET active = ? WHERE id = ? AND user_id = ?`, active, id, userID))
}

// ProjectOwner returns the ID of the user owning a project.
func (r *Repository) ProjectOwner(ctx context.Context, id int64) (int64, error) {
	var owner int64
	if err := r.db.GetContext(ctx, &owner, `SELECT user_id FROM projects WHERE id = ?`, id); err != nil {
		return 0, err
	}
	return owner, nil
}
