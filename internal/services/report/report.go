// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package report aggregates a user's hours over the current year, the
// trailing twelve months and the last five years.
package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/holiday"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
	"codeberg.org/oliverandrich/timetracker/internal/services/calendar"
	"github.com/samber/lo"
)

// YearsBack is how many years before the current one the yearly totals cover.
const YearsBack = 4

// ProjectHours is the time logged on one project.
type ProjectHours struct {
	Project string  `json:"project"`
	Hours   float64 `json:"hours"`
}

// ProjectShare is a project's part of the year's project hours.
type ProjectShare struct {
	Project string  `json:"project"`
	Hours   float64 `json:"hours"`
	Percent float64 `json:"percent"`
}

// ReportView holds every figure of the reports page. Month keys are
// "YYYY-MM", year keys "YYYY".
type ReportView struct { //nolint:govet // fieldalignment: readability over optimization
	Year                int                           `json:"year"`
	ProjectSummary      []ProjectHours                `json:"project_summary"`
	LeaveSummary        []repository.LeaveCount       `json:"leave_summary"`
	Months              []string                      `json:"months"`
	MonthlyTotals       map[string]float64            `json:"monthly_totals"`
	MonthlyWorkingDays  map[string]int                `json:"monthly_working_days"`
	MonthlyVacationDays map[string]int                `json:"monthly_vacation_days"`
	MonthlyTargetHours  map[string]float64            `json:"monthly_target_hours"`
	MonthlyPercentages  map[string]float64            `json:"monthly_percentages"`
	MonthlyProjectMap   map[string]map[string]float64 `json:"monthly_project_map"`
	MonthlyTargets      map[string]map[int64]float64  `json:"monthly_targets"`
	YearlyTotals        map[string]float64            `json:"yearly_totals"`
	ProjectPercentages  []ProjectShare                `json:"project_percentages"`
	TracktamenteCount   int                           `json:"tracktamente_count"`
	TravelTime          float64                       `json:"travel_time"`
	Projects            []models.Project              `json:"projects"`
}

// Aggregator computes report views.
type Aggregator struct {
	repo           *repository.Repository
	holidays       holiday.Provider
	hoursPerDay    float64
	fallbackTarget float64
}

// NewAggregator creates an Aggregator. fallbackTarget is the denominator
// for the monthly percentage when a month has no target hours; zero
// yields 0 % for such months.
func NewAggregator(repo *repository.Repository, holidays holiday.Provider, hoursPerDay, fallbackTarget float64) *Aggregator {
	if hoursPerDay <= 0 {
		hoursPerDay = calendar.DefaultHoursPerDay
	}
	return &Aggregator{
		repo:           repo,
		holidays:       holidays,
		hoursPerDay:    hoursPerDay,
		fallbackTarget: fallbackTarget,
	}
}

// Window returns the trailing period of the monthly figures: from the first
// day of the month 365 days before the start of the current month, to today.
func Window(now time.Time) (models.Date, models.Date) {
	today := models.DateOf(now)
	monthStart := models.NewDate(today.Year(), today.Month(), 1)
	back := monthStart.AddDays(-365)
	return models.NewDate(back.Year(), back.Month(), 1), today
}

// Build computes the report of a user relative to now.
func (a *Aggregator) Build(ctx context.Context, userID int64, now time.Time) (*ReportView, error) {
	year := now.Year()
	yearStart := models.NewDate(year, time.January, 1)
	yearEnd := models.NewDate(year, time.December, 31)
	windowStart, today := Window(now)

	view := &ReportView{Year: year}

	projectRows, err := a.repo.ProjectHoursBetween(ctx, userID, yearStart, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum project hours: %w", err)
	}
	view.ProjectSummary = lo.Map(projectRows, func(r repository.ProjectHours, _ int) ProjectHours {
		return ProjectHours{Project: r.Project, Hours: r.Hours}
	})
	view.ProjectPercentages = shares(view.ProjectSummary)

	if view.LeaveSummary, err = a.repo.LeaveCountsBetween(ctx, userID, yearStart, yearEnd); err != nil {
		return nil, fmt.Errorf("failed to count leave: %w", err)
	}

	if err := a.monthly(ctx, userID, view, windowStart, today); err != nil {
		return nil, err
	}

	yearly, err := a.repo.YearlyHoursBetween(ctx, userID, models.NewDate(year-YearsBack, time.January, 1), yearEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum yearly hours: %w", err)
	}
	view.YearlyTotals = periodMap(yearly)

	travel, err := a.repo.TravelSummaryBetween(ctx, userID, yearStart, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum travel time: %w", err)
	}
	view.TracktamenteCount = travel.AllowanceDays
	view.TravelTime = travel.Hours

	if view.Projects, err = a.repo.ListActiveProjects(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return view, nil
}

// monthly fills every per-month figure for the months of the window that have entries.
func (a *Aggregator) monthly(ctx context.Context, userID int64, view *ReportView, start, end models.Date) error {
	rows, err := a.repo.MonthlyHoursBetween(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("failed to sum monthly hours: %w", err)
	}
	view.MonthlyTotals = periodMap(rows)
	view.Months = lo.Map(rows, func(r repository.PeriodHours, _ int) string { return r.Period })

	_, monthEnd := holiday.MonthRange(end.Year(), end.Month())
	leaves, err := a.repo.ListLeaveOverlapping(ctx, userID, start, monthEnd)
	if err != nil {
		return fmt.Errorf("failed to list leave: %w", err)
	}

	targets, err := a.repo.ListTargetsBetween(ctx, userID,
		start.Year(), int(start.Month()), end.Year(), int(end.Month()))
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}
	targetsByMonth := lo.GroupBy(targets, func(t models.ProjectTarget) string {
		return monthKey(t.Year, time.Month(t.Month))
	})

	view.MonthlyWorkingDays = make(map[string]int, len(rows))
	view.MonthlyVacationDays = make(map[string]int, len(rows))
	view.MonthlyTargetHours = make(map[string]float64, len(rows))
	view.MonthlyPercentages = make(map[string]float64, len(rows))
	view.MonthlyTargets = make(map[string]map[int64]float64, len(rows))

	for _, row := range rows {
		y, m, err := parseMonthKey(row.Period)
		if err != nil {
			return err
		}

		working, vacation := calendar.CountDays(a.holidays, y, m, leaves)
		target := float64(working) * a.hoursPerDay

		view.MonthlyWorkingDays[row.Period] = working
		view.MonthlyVacationDays[row.Period] = vacation
		view.MonthlyTargetHours[row.Period] = target
		view.MonthlyPercentages[row.Period] = a.percentage(row.Hours, target)

		view.MonthlyTargets[row.Period] = make(map[int64]float64)
		for _, t := range targetsByMonth[row.Period] {
			view.MonthlyTargets[row.Period][t.ProjectID] = t.TargetPercentage
		}
	}

	projectRows, err := a.repo.MonthlyProjectHoursBetween(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("failed to sum monthly project hours: %w", err)
	}
	view.MonthlyProjectMap = make(map[string]map[string]float64)
	for _, r := range projectRows {
		if view.MonthlyProjectMap[r.Period] == nil {
			view.MonthlyProjectMap[r.Period] = make(map[string]float64)
		}
		view.MonthlyProjectMap[r.Period][r.Project] = r.Hours
	}

	return nil
}

// percentage is hours of target in percent. Without target hours the
// configured fallback is used, and without a fallback the result is 0.
func (a *Aggregator) percentage(hours, target float64) float64 {
	if target <= 0 {
		target = a.fallbackTarget
	}
	if target <= 0 {
		return 0
	}
	return round1(hours / target * 100)
}

func shares(summary []ProjectHours) []ProjectShare {
	total := lo.SumBy(summary, func(p ProjectHours) float64 { return p.Hours })
	return lo.Map(summary, func(p ProjectHours, _ int) ProjectShare {
		share := ProjectShare{Project: p.Project, Hours: p.Hours}
		if total > 0 {
			share.Percent = round1(p.Hours / total * 100)
		}
		return share
	})
}

func periodMap(rows []repository.PeriodHours) map[string]float64 {
	return lo.SliceToMap(rows, func(r repository.PeriodHours) (string, float64) {
		return r.Period, r.Hours
	})
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

func parseMonthKey(key string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
