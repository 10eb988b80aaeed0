// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/handlers"
	"codeberg.org/oliverandrich/timetracker/internal/holiday"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
	"codeberg.org/oliverandrich/timetracker/internal/services/calendar"
	"codeberg.org/oliverandrich/timetracker/internal/services/email"
	"codeberg.org/oliverandrich/timetracker/internal/services/report"
	"codeberg.org/oliverandrich/timetracker/internal/services/timesheet"
	"codeberg.org/oliverandrich/timetracker/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeMailer struct {
	sent []email.MonthReport
	err  error
}

func (m *fakeMailer) SendMonthReport(_ context.Context, r email.MonthReport) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, r)
	return nil
}

type env struct {
	e     *echo.Echo
	h     *handlers.Handlers
	repo  *repository.Repository
	user  *models.User
	alpha *models.Project
}

func newEnv(t *testing.T, mailer handlers.Mailer) *env {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "alice")
	alpha := testutil.NewTestProject(t, repo, user.ID, "Alpha")

	h := handlers.New(handlers.Deps{
		Timesheet: timesheet.NewService(repo, nil),
		Calendar:  calendar.NewBuilder(repo, holiday.Sweden{}, 8),
		Reports:   report.NewAggregator(repo, holiday.Sweden{}, 8, 0),
		Mailer:    mailer,
		Now:       func() time.Time { return testutil.Clock(2026, time.February, 10) },
	})
	return &env{e: echo.New(), h: h, repo: repo, user: user, alpha: alpha}
}

func errorBody(t *testing.T, body string) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	msg, _ := resp["error"].(string)
	return msg
}

func TestHealth(t *testing.T) {
	h := handlers.New(handlers.Deps{})
	c, rec := testutil.NewAppContext(echo.New(), http.MethodGet, "/health", nil, nil)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHome_RedirectsToCurrentMonth(t *testing.T) {
	env := newEnv(t, nil)
	c, rec := testutil.NewAppContext(env.e, http.MethodGet, "/", nil, env.user)

	require.NoError(t, env.h.Home(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/month/2026/2", rec.Header().Get(echo.HeaderLocation))
}

func TestLogTime_ThenMonth(t *testing.T) {
	env := newEnv(t, nil)

	body := `{"project_id": ` + jsonID(env.alpha.ID) + `, "date": "2026-02-02", "hours": 7.5, "description": "review"}`
	c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/entries", strings.NewReader(body), env.user)
	require.NoError(t, env.h.LogTime(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	body = `{"date": "2026-02-02", "hours": 1, "is_restid": true, "tracktamente": true}`
	c, rec = testutil.NewAppContext(env.e, http.MethodPost, "/entries", strings.NewReader(body), env.user)
	require.NoError(t, env.h.LogTime(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = testutil.NewAppContext(env.e, http.MethodGet, "/month/2026/2", nil, env.user)
	c.SetParamNames("year", "month")
	c.SetParamValues("2026", "2")
	require.NoError(t, env.h.Month(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view calendar.MonthView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 2026, view.Year)
	assert.Len(t, view.Days, 28)
	assert.InDelta(t, 7.5, view.Days[1].ProjectHours[env.alpha.ID], 1e-9)
	assert.InDelta(t, 1.0, view.Days[1].RestHours, 1e-9)
	assert.True(t, view.Days[1].TravelAllowance)
	assert.InDelta(t, 8.5, view.TotalHours, 1e-9)
}

func TestLogTime_Errors(t *testing.T) {
	env := newEnv(t, nil)
	bob := testutil.NewTestUser(t, env.repo, "bob")
	foreign := testutil.NewTestProject(t, env.repo, bob.ID, "Secret")

	tests := []struct {
		name    string
		body    string
		user    *models.User
		status  int
		message string
	}{
		{"anonymous", `{"project_id": 1, "date": "2026-02-02", "hours": 1}`, nil, http.StatusUnauthorized, "Please log in"},
		{"bad date", `{"project_id": 1, "date": "02/02/2026", "hours": 1}`, env.user, http.StatusBadRequest, "Invalid request"},
		{"missing project", `{"date": "2026-02-02", "hours": 1}`, env.user, http.StatusBadRequest, "Invalid request"},
		{"too many hours", `{"project_id": ` + jsonID(env.alpha.ID) + `, "date": "2026-02-02", "hours": 25}`, env.user, http.StatusBadRequest, "Hours must be between 0 and 24"},
		{"unknown project", `{"project_id": 9999, "date": "2026-02-02", "hours": 1}`, env.user, http.StatusNotFound, "Not found"},
		{"foreign project", `{"project_id": ` + jsonID(foreign.ID) + `, "date": "2026-02-02", "hours": 1}`, env.user, http.StatusForbidden, "Access denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/entries", strings.NewReader(tt.body), tt.user)

			require.NoError(t, env.h.LogTime(c))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, errorBody(t, rec.Body.String()))
		})
	}
}

func TestMonth_InvalidParams(t *testing.T) {
	env := newEnv(t, nil)

	tests := []struct {
		year, month string
		message     string
	}{
		{"2026", "13", "Month must be between 1 and 12"},
		{"0", "1", "Year must be between 1 and 9999"},
		{"abc", "1", "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.year+"-"+tt.month, func(t *testing.T) {
			c, rec := testutil.NewAppContext(env.e, http.MethodGet, "/month", nil, env.user)
			c.SetParamNames("year", "month")
			c.SetParamValues(tt.year, tt.month)

			require.NoError(t, env.h.Month(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, errorBody(t, rec.Body.String()))
		})
	}
}

func TestPrintMonth(t *testing.T) {
	env := newEnv(t, nil)
	testutil.LogHours(t, env.repo, env.user.ID, env.alpha.ID, "2026-02-02", 8)

	c, rec := testutil.NewAppContext(env.e, http.MethodGet, "/month/2026/2/print", nil, env.user)
	c.SetParamNames("year", "month")
	c.SetParamValues("2026", "2")

	require.NoError(t, env.h.PrintMonth(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Contains(t, rec.Body.String(), "Alpha")
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestSendMonth(t *testing.T) {
	t.Run("sends report to the user", func(t *testing.T) {
		mailer := &fakeMailer{}
		env := newEnv(t, mailer)
		c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/month/2026/2/send", nil, env.user)
		c.SetParamNames("year", "month")
		c.SetParamValues("2026", "2")

		require.NoError(t, env.h.SendMonth(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "alice@example.com", mailer.sent[0].To)
		assert.Equal(t, time.February, mailer.sent[0].Month)
		assert.Contains(t, string(mailer.sent[0].HTML), "<table")
	})

	t.Run("mail not configured", func(t *testing.T) {
		env := newEnv(t, nil)
		c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/month/2026/2/send", nil, env.user)
		c.SetParamNames("year", "month")
		c.SetParamValues("2026", "2")

		require.NoError(t, env.h.SendMonth(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("delivery fails", func(t *testing.T) {
		env := newEnv(t, &fakeMailer{err: errors.New("connection refused")})
		c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/month/2026/2/send", nil, env.user)
		c.SetParamNames("year", "month")
		c.SetParamValues("2026", "2")

		require.NoError(t, env.h.SendMonth(c))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "The e-mail could not be sent", errorBody(t, rec.Body.String()))
	})
}

func TestProjects(t *testing.T) {
	env := newEnv(t, nil)

	c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/projects",
		strings.NewReader(`{"name": " Beta ", "description": "second"}`), env.user)
	require.NoError(t, env.h.CreateProject(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var beta models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beta))
	assert.Equal(t, "Beta", beta.Name)
	assert.True(t, beta.Active)

	c, rec = testutil.NewAppContext(env.e, http.MethodPost, "/projects",
		strings.NewReader(`{"name": "Beta"}`), env.user)
	require.NoError(t, env.h.CreateProject(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	c, rec = testutil.NewAppContext(env.e, http.MethodPost, "/projects/x/toggle", nil, env.user)
	c.SetParamNames("id")
	c.SetParamValues(jsonID(beta.ID))
	require.NoError(t, env.h.ToggleProject(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `false`, string(field(t, rec.Body.Bytes(), "active")))

	c, rec = testutil.NewAppContext(env.e, http.MethodGet, "/projects", nil, env.user)
	require.NoError(t, env.h.ListProjects(c))
	var projects []models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	require.Len(t, projects, 2)
	assert.Equal(t, "Alpha", projects[0].Name)
	assert.False(t, projects[1].Active)
}

func TestCreateProject_EmptyName(t *testing.T) {
	env := newEnv(t, nil)
	c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/projects", strings.NewReader(`{"name": "  "}`), env.user)

	require.NoError(t, env.h.CreateProject(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Project name is required", errorBody(t, rec.Body.String()))
}

func TestLeave(t *testing.T) {
	env := newEnv(t, nil)

	body := `{"leave_type": "vacation", "start_date": "2026-02-09", "end_date": "2026-02-13", "description": "ski"}`
	c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/leave", strings.NewReader(body), env.user)
	require.NoError(t, env.h.AddLeave(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var leave models.LeaveEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leave))

	c, rec = testutil.NewAppContext(env.e, http.MethodGet, "/leave", nil, env.user)
	require.NoError(t, env.h.ListLeave(c))
	var leaves []models.LeaveEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leaves))
	require.Len(t, leaves, 1)
	assert.Equal(t, "2026-02-09", leaves[0].StartDate.String())

	c, rec = testutil.NewAppContext(env.e, http.MethodDelete, "/leave/x", nil, env.user)
	c.SetParamNames("id")
	c.SetParamValues(jsonID(leave.ID))
	require.NoError(t, env.h.DeleteLeave(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = testutil.NewAppContext(env.e, http.MethodDelete, "/leave/x", nil, env.user)
	c.SetParamNames("id")
	c.SetParamValues(jsonID(leave.ID))
	require.NoError(t, env.h.DeleteLeave(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddLeave_Errors(t *testing.T) {
	env := newEnv(t, nil)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"reversed range", `{"leave_type": "vacation", "start_date": "2026-02-13", "end_date": "2026-02-09"}`, "End date must not be before start date"},
		{"unknown type", `{"leave_type": "sabbatical", "start_date": "2026-02-09", "end_date": "2026-02-09"}`, "Unknown leave type"},
		{"missing date", `{"leave_type": "vacation", "start_date": "2026-02-09"}`, "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/leave", strings.NewReader(tt.body), env.user)

			require.NoError(t, env.h.AddLeave(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, errorBody(t, rec.Body.String()))
		})
	}
}

func TestTargets(t *testing.T) {
	env := newEnv(t, nil)

	body := `{"project_id": ` + jsonID(env.alpha.ID) + `, "target_percentage": 60}`
	c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/targets", strings.NewReader(body), env.user)
	require.NoError(t, env.h.SetTarget(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var target models.ProjectTarget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &target))
	assert.Equal(t, 2026, target.Year)
	assert.Equal(t, 2, target.Month)

	c, rec = testutil.NewAppContext(env.e, http.MethodGet, "/targets", nil, env.user)
	require.NoError(t, env.h.ListTargets(c))
	var list handlers.TargetsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2026, list.Year)
	assert.Equal(t, 2, list.Month)
	require.Len(t, list.Targets, 1)
	assert.InDelta(t, 60.0, list.Targets[0].TargetPercentage, 1e-9)

	c, rec = testutil.NewAppContext(env.e, http.MethodGet, "/targets?year=2026&month=3", nil, env.user)
	require.NoError(t, env.h.ListTargets(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Targets)

	c, rec = testutil.NewAppContext(env.e, http.MethodDelete, "/targets/x", nil, env.user)
	c.SetParamNames("id")
	c.SetParamValues(jsonID(target.ID))
	require.NoError(t, env.h.DeleteTarget(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSetTarget_OutOfRange(t *testing.T) {
	env := newEnv(t, nil)
	body := `{"project_id": ` + jsonID(env.alpha.ID) + `, "year": 2026, "month": 2, "target_percentage": 120}`
	c, rec := testutil.NewAppContext(env.e, http.MethodPost, "/targets", strings.NewReader(body), env.user)

	require.NoError(t, env.h.SetTarget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Target percentage must be between 0 and 100", errorBody(t, rec.Body.String()))
}

func TestReports(t *testing.T) {
	env := newEnv(t, nil)
	testutil.LogHours(t, env.repo, env.user.ID, env.alpha.ID, "2026-02-02", 8)

	c, rec := testutil.NewAppContext(env.e, http.MethodGet, "/reports", nil, env.user)
	require.NoError(t, env.h.Reports(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view report.ReportView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 2026, view.Year)
	assert.Equal(t, []report.ProjectHours{{Project: "Alpha", Hours: 8}}, view.ProjectSummary)
	assert.InDelta(t, 8.0, view.MonthlyTotals["2026-02"], 1e-9)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func field(t *testing.T, body []byte, name string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return m[name]
}
