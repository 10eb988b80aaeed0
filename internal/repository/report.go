// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/timetracker/internal/models"
)

// ProjectHours is the sum of hours logged on one project.
type ProjectHours struct {
	Project string  `db:"project"`
	Hours   float64 `db:"hours"`
}

// PeriodHours is the sum of hours in a period such as "2026-03" or "2026".
type PeriodHours struct {
	Period string  `db:"period"`
	Hours  float64 `db:"hours"`
}

// PeriodProjectHours is the sum of hours on one project in a period.
type PeriodProjectHours struct {
	Period  string  `db:"period"`
	Project string  `db:"project"`
	Hours   float64 `db:"hours"`
}

// LeaveCount is the number of leave records of one type.
type LeaveCount struct {
	LeaveType models.LeaveType `db:"leave_type" json:"leave_type"`
	Count     int              `db:"count" json:"count"`
}

// TravelSummary aggregates rest-time entries.
type TravelSummary struct {
	AllowanceDays int     `db:"allowance_days"`
	Hours         float64 `db:"hours"`
}

// ProjectHoursBetween sums hours per project name. Entries without an
// existing project are left out.
func (r *Repository) ProjectHoursBetween(ctx context.Context, userID int64, start, end models.Date) ([]ProjectHours, error) {
	rows := []ProjectHours{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.name AS project, COALESCE(SUM(e.hours), 0) AS hours
		FROM time_entries e
		JOIN projects p ON p.id = e.project_id
		WHERE e.user_id = ? AND e.date BETWEEN ? AND ?
		GROUP BY p.name
		ORDER BY p.name`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyHoursBetween sums all hours, rest time included, per "YYYY-MM".
func (r *Repository) MonthlyHoursBetween(ctx context.Context, userID int64, start, end models.Date) ([]PeriodHours, error) {
	return r.periodHours(ctx, "%Y-%m", userID, start, end)
}

// YearlyHoursBetween sums all hours, rest time included, per "YYYY".
func (r *Repository) YearlyHoursBetween(ctx context.Context, userID int64, start, end models.Date) ([]PeriodHours, error) {
	return r.periodHours(ctx, "%Y", userID, start, end)
}

func (r *Repository) periodHours(ctx context.Context, format string, userID int64, start, end models.Date) ([]PeriodHours, error) {
	rows := []PeriodHours{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT strftime(?, date) AS period, COALESCE(SUM(hours), 0) AS hours
		FROM time_entries
		WHERE user_id = ? AND date BETWEEN ? AND ?
		GROUP BY period
		ORDER BY period`,
		format, userID, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyProjectHoursBetween sums hours per "YYYY-MM" and project name.
func (r *Repository) MonthlyProjectHoursBetween(ctx context.Context, userID int64, start, end models.Date) ([]PeriodProjectHours, error) {
	rows := []PeriodProjectHours{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT strftime('%Y-%m', e.date) AS period, p.name AS project, COALESCE(SUM(e.hours), 0) AS hours
		FROM time_entries e
		JOIN projects p ON p.id = e.project_id
		WHERE e.user_id = ? AND e.date BETWEEN ? AND ?
		GROUP BY period, p.name
		ORDER BY period, p.name`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LeaveCountsBetween counts leave records per type whose start date lies in [start, end].
func (r *Repository) LeaveCountsBetween(ctx context.Context, userID int64, start, end models.Date) ([]LeaveCount, error) {
	rows := []LeaveCount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT leave_type, count(*) AS count
		FROM leave_entries
		WHERE user_id = ? AND start_date BETWEEN ? AND ?
		GROUP BY leave_type
		ORDER BY leave_type`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TravelSummaryBetween counts rest-time days with travel allowance and sums
// all rest-time hours.
func (r *Repository) TravelSummaryBetween(ctx context.Context, userID int64, start, end models.Date) (TravelSummary, error) {
	var s TravelSummary
	err := r.db.GetContext(ctx, &s, `
		SELECT COALESCE(SUM(CASE WHEN travel_allowance = 1 THEN 1 ELSE 0 END), 0) AS allowance_days,
		       COALESCE(SUM(hours), 0) AS hours
		FROM time_entries
		WHERE user_id = ? AND is_rest_time = 1 AND date BETWEEN ? AND ?`,
		userID, start, end)
	return s, err
}
