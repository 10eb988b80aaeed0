// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/timetracker/internal/config"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{BaseURL: "http://localhost:8080", MaxBodySize: 1},
		Session:  config.SessionConfig{CookieName: "_timetracker", MaxAge: 3600, HashKey: testHashKey},
		Auth:     config.AuthConfig{MinPasswordLength: 10},
		Calendar: config.CalendarConfig{Holidays: "se", HoursPerDay: 8},
	}
}

// browser keeps cookies and the CSRF token between requests.
type browser struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
	csrf    string
}

func newBrowser(t *testing.T, e *echo.Echo) *browser {
	return &browser{t: t, e: e, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Accept-Language", "en")
	if b.csrf != "" {
		req.Header.Set("X-CSRF-Token", b.csrf)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

// start fetches the session endpoint, which issues the CSRF token.
func (b *browser) start() {
	b.t.Helper()
	rec := b.do(http.MethodGet, "/auth/session", "")
	require.Equal(b.t, http.StatusOK, rec.Code)

	var resp struct {
		CSRFToken string `json:"csrf_token"`
	}
	require.NoError(b.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(b.t, resp.CSRFToken)
	b.csrf = resp.CSRFToken
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	require.NoError(t, i18n.Init())
	db, _ := testutil.NewTestDB(t)
	e, err := New(testConfig(), db)
	require.NoError(t, err)
	return e
}

func TestNew_UnknownHolidayCalendar(t *testing.T) {
	db, _ := testutil.NewTestDB(t)
	cfg := testConfig()
	cfg.Calendar.Holidays = "atlantis"

	_, err := New(cfg, db)
	require.Error(t, err)
}

func TestRoutes_Public(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	rec := b.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = b.do(http.MethodGet, "/auth/setup-required", "")
	assert.JSONEq(t, `{"setup_required":true}`, rec.Body.String())

	rec = b.do(http.MethodGet, "/reports", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Please log in"}`, rec.Body.String())

	rec = b.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_CSRFRequired(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.start()
	b.csrf = "forged"

	rec := b.do(http.MethodPost, "/auth/login", `{"username":"alice","password":"whatever"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutes_FullFlow(t *testing.T) {
	e := newTestServer(t)
	b := newBrowser(t, e)
	b.start()

	rec := b.do(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Contains(t, b.cookies, "_timetracker")

	rec = b.do(http.MethodPost, "/projects", `{"name":"Alpha"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var project struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))

	rec = b.do(http.MethodPost, "/entries",
		`{"project_id":`+itoa(project.ID)+`,"date":"2026-02-02","hours":6}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = b.do(http.MethodGet, "/month/2026/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		TotalHours  float64 `json:"total_hours"`
		WorkingDays int     `json:"working_days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.InDelta(t, 6.0, view.TotalHours, 1e-9)
	assert.Equal(t, 20, view.WorkingDays)

	rec = b.do(http.MethodGet, "/month/2026/2/print", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alpha")

	rec = b.do(http.MethodPost, "/month/2026/2/send", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = b.do(http.MethodGet, "/admin/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = b.do(http.MethodPost, "/admin/users",
		`{"username":"bob","email":"bob@example.com","password":"another fine secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = b.do(http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, b.cookies, "_timetracker")

	rec = b.do(http.MethodPost, "/auth/login", `{"username":"bob","password":"another fine secret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = b.do(http.MethodGet, "/admin/users", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = b.do(http.MethodGet, "/month/2026/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Zero(t, view.TotalHours)
}

func TestRoutes_SwedishErrors(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.cookies[i18n.CookieName] = &http.Cookie{Name: i18n.CookieName, Value: "sv"}

	rec := b.do(http.MethodGet, "/reports", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Please log in")
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
