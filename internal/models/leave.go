// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// LeaveType tags a leave entry.
type LeaveType string

const (
	LeaveVacation LeaveType = "vacation"
	LeaveSickness LeaveType = "sickness"
)

// Valid reports whether t is a known leave type.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveVacation, LeaveSickness:
		return true
	}
	return false
}

// LeaveEntry covers the inclusive date range [StartDate, EndDate].
// Overlapping ranges are allowed; lookups pick the entry with the lowest ID.
type LeaveEntry struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	LeaveType   LeaveType `db:"leave_type" json:"leave_type"`
	StartDate   Date      `db:"start_date" json:"start_date"`
	EndDate     Date      `db:"end_date" json:"end_date"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Covers reports whether the leave range contains d.
func (l *LeaveEntry) Covers(d Date) bool {
	return d.Between(l.StartDate, l.EndDate)
}
