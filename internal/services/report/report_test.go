// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package report_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/holiday"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
	"codeberg.org/oliverandrich/timetracker/internal/services/report"
	"codeberg.org/oliverandrich/timetracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
)

type fixture struct {
	db    *sqlx.DB
	repo  *repository.Repository
	user  *models.User
	alpha *models.Project
	beta  *models.Project
}

func seed(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "alice")
	alpha := testutil.NewTestProject(t, repo, user.ID, "Alpha")
	beta := testutil.NewTestProject(t, repo, user.ID, "Beta")

	testutil.LogHours(t, repo, user.ID, alpha.ID, "2021-06-01", 3)
	testutil.LogHours(t, repo, user.ID, alpha.ID, "2022-06-01", 2)
	testutil.LogHours(t, repo, user.ID, alpha.ID, "2025-09-30", 8)
	testutil.LogHours(t, repo, user.ID, alpha.ID, "2025-10-01", 4)
	testutil.LogHours(t, repo, user.ID, alpha.ID, "2026-02-02", 8)
	testutil.LogHours(t, repo, user.ID, alpha.ID, "2026-02-03", 8)
	testutil.LogHours(t, repo, user.ID, alpha.ID, "2026-10-16", 5)
	testutil.LogHours(t, repo, user.ID, beta.ID, "2026-02-04", 4)

	require.NoError(t, repo.UpsertRestEntry(ctx, user.ID, testutil.Date(t, "2026-02-05"), 2, true))
	require.NoError(t, repo.UpsertRestEntry(ctx, user.ID, testutil.Date(t, "2026-03-02"), 0, true))
	require.NoError(t, repo.UpsertRestEntry(ctx, user.ID, testutil.Date(t, "2026-03-03"), 1, false))

	testutil.NewTestLeave(t, repo, user.ID, "2026-02-09", "2026-02-13")
	_, err := repo.CreateLeave(ctx, user.ID, models.LeaveSickness,
		testutil.Date(t, "2025-12-01"), testutil.Date(t, "2025-12-01"), "")
	require.NoError(t, err)

	_, err = repo.UpsertTarget(ctx, user.ID, alpha.ID, 2026, 2, 60)
	require.NoError(t, err)
	_, err = repo.UpsertTarget(ctx, user.ID, beta.ID, 2026, 2, 40)
	require.NoError(t, err)
	_, err = repo.UpsertTarget(ctx, user.ID, alpha.ID, 2025, 9, 50)
	require.NoError(t, err)

	return &fixture{db: db, repo: repo, user: user, alpha: alpha, beta: beta}
}

var now = testutil.Clock(2026, time.October, 15)

func TestBuild_CurrentYearSummaries(t *testing.T) {
	f := seed(t)
	agg := report.NewAggregator(f.repo, holiday.Sweden{}, 8, 0)

	view, err := agg.Build(context.Background(), f.user.ID, now)
	require.NoError(t, err)

	assert.Equal(t, 2026, view.Year)
	assert.Equal(t, []report.ProjectHours{
		{Project: "Alpha", Hours: 21},
		{Project: "Beta", Hours: 4},
	}, view.ProjectSummary)
	assert.Equal(t, []report.ProjectShare{
		{Project: "Alpha", Hours: 21, Percent: 84},
		{Project: "Beta", Hours: 4, Percent: 16},
	}, view.ProjectPercentages)
	assert.Equal(t, []repository.LeaveCount{{LeaveType: models.LeaveVacation, Count: 1}}, view.LeaveSummary)
	assert.Equal(t, 2, view.TracktamenteCount)
	assert.InDelta(t, 3.0, view.TravelTime, 1e-9)
	assert.Len(t, view.Projects, 2)
}

func TestBuild_MonthlyFigures(t *testing.T) {
	f := seed(t)
	agg := report.NewAggregator(f.repo, holiday.Sweden{}, 8, 0)

	view, err := agg.Build(context.Background(), f.user.ID, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-10", "2026-02", "2026-03"}, view.Months)
	assert.Equal(t, map[string]float64{"2025-10": 4, "2026-02": 22, "2026-03": 1}, view.MonthlyTotals)
	assert.Equal(t, map[string]int{"2025-10": 23, "2026-02": 15, "2026-03": 22}, view.MonthlyWorkingDays)
	assert.Equal(t, map[string]int{"2025-10": 0, "2026-02": 5, "2026-03": 0}, view.MonthlyVacationDays)
	assert.Equal(t, map[string]float64{"2025-10": 184, "2026-02": 120, "2026-03": 176}, view.MonthlyTargetHours)
	assert.Equal(t, map[string]float64{"2025-10": 2.2, "2026-02": 18.3, "2026-03": 0.6}, view.MonthlyPercentages)
	assert.Equal(t, map[string]map[string]float64{
		"2025-10": {"Alpha": 4},
		"2026-02": {"Alpha": 16, "Beta": 4},
	}, view.MonthlyProjectMap)
	assert.Equal(t, map[string]map[int64]float64{
		"2025-10": {},
		"2026-02": {f.alpha.ID: 60, f.beta.ID: 40},
		"2026-03": {},
	}, view.MonthlyTargets)
}

func TestBuild_YearlyTotals(t *testing.T) {
	f := seed(t)
	agg := report.NewAggregator(f.repo, holiday.Sweden{}, 8, 0)

	view, err := agg.Build(context.Background(), f.user.ID, now)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"2022": 2, "2025": 12, "2026": 28}, view.YearlyTotals)
}

func TestBuild_ZeroTargetGuard(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "alice")
	p := testutil.NewTestProject(t, repo, user.ID, "Alpha")
	testutil.NewTestLeave(t, repo, user.ID, "2026-07-01", "2026-07-31")
	testutil.LogHours(t, repo, user.ID, p.ID, "2026-07-04", 5)

	tests := []struct {
		name     string
		fallback float64
		want     float64
	}{
		{"no fallback", 0, 0},
		{"legacy fallback", 160, 3.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := report.NewAggregator(repo, holiday.None{}, 8, tt.fallback)

			view, err := agg.Build(context.Background(), user.ID, now)
			require.NoError(t, err)

			assert.Zero(t, view.MonthlyWorkingDays["2026-07"])
			assert.Equal(t, 23, view.MonthlyVacationDays["2026-07"])
			assert.Zero(t, view.MonthlyTargetHours["2026-07"])
			assert.InDelta(t, tt.want, view.MonthlyPercentages["2026-07"], 1e-9)
		})
	}
}

func TestBuild_Empty(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "alice")
	agg := report.NewAggregator(repo, holiday.Sweden{}, 8, 0)

	view, err := agg.Build(context.Background(), user.ID, now)
	require.NoError(t, err)

	assert.Empty(t, view.ProjectSummary)
	assert.Empty(t, view.ProjectPercentages)
	assert.Empty(t, view.MonthlyTotals)
	assert.Empty(t, view.YearlyTotals)
	assert.Zero(t, view.TracktamenteCount)
	assert.Zero(t, view.TravelTime)
}

func TestBuild_RemovedProjectDropsFromSummaries(t *testing.T) {
	f := seed(t)
	_, err := f.db.Exec("DELETE FROM projects WHERE id = ?", f.beta.ID)
	require.NoError(t, err)
	agg := report.NewAggregator(f.repo, holiday.Sweden{}, 8, 0)

	view, err := agg.Build(context.Background(), f.user.ID, now)
	require.NoError(t, err)

	assert.Equal(t, []report.ProjectHours{{Project: "Alpha", Hours: 21}}, view.ProjectSummary)
	assert.InDelta(t, 100.0, view.ProjectPercentages[0].Percent, 1e-9)
	assert.InDelta(t, 22.0, view.MonthlyTotals["2026-02"], 1e-9)
	assert.Equal(t, map[string]float64{"Alpha": 16}, view.MonthlyProjectMap["2026-02"])
}

func TestWindow(t *testing.T) {
	tests := []struct {
		now   time.Time
		start string
		end   string
	}{
		{testutil.Clock(2026, time.October, 15), "2025-10-01", "2026-10-15"},
		{testutil.Clock(2026, time.March, 31), "2025-03-01", "2026-03-31"},
		{testutil.Clock(2025, time.January, 20), "2024-01-01", "2025-01-20"},
	}

	for _, tt := range tests {
		t.Run(tt.end, func(t *testing.T) {
			start, end := report.Window(tt.now)
			assert.Equal(t, tt.start, start.String())
			assert.Equal(t, tt.end, end.String())
		})
	}
}
