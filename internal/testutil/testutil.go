// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/appcontext"
	"codeberg.org/oliverandrich/timetracker/internal/database"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
	"codeberg.org/oliverandrich/timetracker/internal/services/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/text/language"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a regular test user with a placeholder password hash.
func NewTestUser(t *testing.T, repo *repository.Repository, username string) *models.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), username, username+"@example.com", "not-a-hash", false)
	require.NoError(t, err)
	return user
}

// NewTestProject creates an active project for a user.
func NewTestProject(t *testing.T, repo *repository.Repository, userID int64, name string) *models.Project {
	t.Helper()
	project, err := repo.CreateProject(context.Background(), userID, name, "")
	require.NoError(t, err)
	return project
}

// NewTestLeave records a vacation from start to end ("YYYY-MM-DD").
func NewTestLeave(t *testing.T, repo *repository.Repository, userID int64, start, end string) *models.LeaveEntry {
	t.Helper()
	leave, err := repo.CreateLeave(context.Background(), userID, models.LeaveVacation, Date(t, start), Date(t, end), "")
	require.NoError(t, err)
	return leave
}

// LogHours stores project hours on a day ("YYYY-MM-DD").
func LogHours(t *testing.T, repo *repository.Repository, userID, projectID int64, day string, hours float64) {
	t.Helper()
	err := repo.UpsertProjectEntry(context.Background(), userID, projectID, Date(t, day), hours, "")
	require.NoError(t, err)
}

// Date parses "YYYY-MM-DD" or fails the test.
func Date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

// Clock returns a fixed point in time at noon UTC.
func Clock(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoContextWithHeaders creates an Echo context with custom headers.
func NewEchoContextWithHeaders(e *echo.Echo, method, path string, body io.Reader, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// NewAppContext creates an app context for handler tests with user as the
// authenticated user (nil for anonymous). The request carries the English locale.
func NewAppContext(e *echo.Echo, method, path string, body io.Reader, user *models.User) (*appcontext.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(i18n.WithLocale(req.Context(), language.English))
	rec := httptest.NewRecorder()
	c := &appcontext.Context{Context: e.NewContext(req, rec), User: user}
	if user != nil {
		c.Session = &session.Data{ID: "test-session", UserID: user.ID, Username: user.Username}
	}
	return c, rec
}
