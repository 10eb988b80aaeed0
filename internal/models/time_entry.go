// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// TimeEntry is one day's hours, either on a project or as rest time (travel).
//
// At most one project entry exists per (user, project, date) and at most one
// rest-time entry per (user, date). TravelAllowance only has meaning on
// rest-time entries and can keep a zero-hour rest-time entry alive.
type TimeEntry struct { //nolint:govet // fieldalignment: readability over optimization
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	ProjectID       *int64    `db:"project_id" json:"project_id,omitempty"`
	Date            Date      `db:"date" json:"date"`
	Hours           float64   `db:"hours" json:"hours"`
	Description     string    `db:"description" json:"description"`
	IsRestTime      bool      `db:"is_rest_time" json:"is_restid"`
	TravelAllowance bool      `db:"travel_allowance" json:"tracktamente"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
