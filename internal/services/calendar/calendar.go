// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package calendar builds the day-by-day view of a month for one user.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/holiday"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
	"github.com/samber/lo"
)

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = errors.New("year must be between 1 and 9999")
)

// DefaultHoursPerDay is the required time for one working day.
const DefaultHoursPerDay = 8.0

// Day is one row of the month view.
type Day struct { //nolint:govet // fieldalignment: readability over optimization
	Date            models.Date        `json:"date"`
	Weekday         string             `json:"weekday"`
	WeekdayIndex    int                `json:"weekday_index"`
	IsHoliday       bool               `json:"is_holiday"`
	HolidayName     string             `json:"holiday_name,omitempty"`
	IsWeekend       bool               `json:"is_weekend"`
	Leave           *models.LeaveEntry `json:"leave"`
	ProjectHours    map[int64]float64  `json:"project_hours"`
	RestHours       float64            `json:"restid_hours"`
	TravelAllowance bool               `json:"restid_tracktamente"`
	Total           float64            `json:"total"`
}

// IsWorkingDay reports whether the day counts towards the required hours.
func (d *Day) IsWorkingDay() bool {
	return !d.IsHoliday && !d.IsWeekend && d.Leave == nil
}

// MonthView is the complete month for one user.
type MonthView struct { //nolint:govet // fieldalignment: readability over optimization
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	MonthName     string            `json:"month_name"`
	Days          []Day             `json:"month_data"`
	Projects      []models.Project  `json:"projects"`
	ProjectTotals map[int64]float64 `json:"project_totals"`
	RestTimeTotal float64           `json:"rest_time_total"`
	TotalHours    float64           `json:"total_hours"`
	WorkingDays   int               `json:"working_days"`
	RequiredHours float64           `json:"required_hours"`
	Difference    float64           `json:"difference"`
}

// Builder assembles month views.
type Builder struct {
	repo        *repository.Repository
	holidays    holiday.Provider
	hoursPerDay float64
}

// NewBuilder creates a Builder. A non-positive hoursPerDay falls back to DefaultHoursPerDay.
func NewBuilder(repo *repository.Repository, holidays holiday.Provider, hoursPerDay float64) *Builder {
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}
	return &Builder{repo: repo, holidays: holidays, hoursPerDay: hoursPerDay}
}

// HoursPerDay returns the required hours per working day.
func (b *Builder) HoursPerDay() float64 {
	return b.hoursPerDay
}

// BuildMonth returns the month view of a user. Weekday and month names are
// translated for the locale carried by ctx.
func (b *Builder) BuildMonth(ctx context.Context, userID int64, year, month int) (*MonthView, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if year < 1 || year > 9999 {
		return nil, ErrInvalidYear
	}

	first, last := holiday.MonthRange(year, time.Month(month))

	projects, err := b.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	entries, err := b.repo.ListEntriesBetween(ctx, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	leaves, err := b.repo.ListLeaveOverlapping(ctx, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave: %w", err)
	}

	active := lo.Filter(projects, func(p models.Project, _ int) bool { return p.Active })
	byDay := lo.GroupBy(entries, func(e models.TimeEntry) models.Date { return e.Date })
	holidays := b.holidays.Holidays(year)

	view := &MonthView{
		Year:          year,
		Month:         month,
		MonthName:     i18n.MonthName(ctx, time.Month(month)),
		ProjectTotals: make(map[int64]float64, len(active)),
	}
	for _, p := range active {
		view.ProjectTotals[p.ID] = 0
	}

	for d := first; !d.After(last.Time); d = d.AddDays(1) {
		day := Day{
			Date:         d,
			WeekdayIndex: holiday.WeekdayIndex(d),
			IsWeekend:    holiday.IsWeekend(d),
			ProjectHours: make(map[int64]float64, len(active)),
		}
		day.Weekday = i18n.Weekday(ctx, day.WeekdayIndex)
		day.HolidayName, day.IsHoliday = holidays[d]

		if leave, ok := lo.Find(leaves, func(l models.LeaveEntry) bool { return l.Covers(d) }); ok {
			day.Leave = &leave
		}

		for _, p := range active {
			day.ProjectHours[p.ID] = 0
		}
		for _, e := range byDay[d] {
			switch {
			case e.IsRestTime:
				day.RestHours = e.Hours
				day.TravelAllowance = e.TravelAllowance
			case e.ProjectID != nil:
				day.ProjectHours[*e.ProjectID] = e.Hours
				view.ProjectTotals[*e.ProjectID] += e.Hours
			}
		}

		day.Total = lo.Sum(lo.Values(day.ProjectHours)) + day.RestHours
		view.RestTimeTotal += day.RestHours
		if day.IsWorkingDay() {
			view.WorkingDays++
		}
		view.Days = append(view.Days, day)
	}

	// Inactive projects only appear when they carry hours this month.
	view.Projects = lo.Filter(projects, func(p models.Project, _ int) bool {
		_, ok := view.ProjectTotals[p.ID]
		return ok
	})

	view.TotalHours = lo.Sum(lo.Values(view.ProjectTotals)) + view.RestTimeTotal
	view.RequiredHours = float64(view.WorkingDays) * b.hoursPerDay
	view.Difference = view.TotalHours - view.RequiredHours

	return view, nil
}

// CountDays splits the weekdays of a month that are not holidays into
// working days and days covered by leave.
func CountDays(holidays holiday.Provider, year int, month time.Month, leaves []models.LeaveEntry) (working, onLeave int) {
	set := holidays.Holidays(year)
	first, last := holiday.MonthRange(year, month)

	for d := first; !d.After(last.Time); d = d.AddDays(1) {
		if holiday.IsWeekend(d) || set.Contains(d) {
			continue
		}
		if lo.ContainsBy(leaves, func(l models.LeaveEntry) bool { return l.Covers(d) }) {
			onLeave++
		} else {
			working++
		}
	}
	return working, onLeave
}
