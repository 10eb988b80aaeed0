// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// ProjectTarget is the goal share of logged time for a project in a month.
// There is at most one per (user, project, year, month).
type ProjectTarget struct { //nolint:govet // fieldalignment: readability over optimization
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	ProjectID        int64     `db:"project_id" json:"project_id"`
	Year             int       `db:"year" json:"year"`
	Month            int       `db:"month" json:"month"`
	TargetPercentage float64   `db:"target_percentage" json:"target_percentage"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
