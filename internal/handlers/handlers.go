// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers of the JSON API and the
// printable pages.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/services/calendar"
	"codeberg.org/oliverandrich/timetracker/internal/services/email"
	"codeberg.org/oliverandrich/timetracker/internal/services/report"
	"codeberg.org/oliverandrich/timetracker/internal/services/timesheet"
	"github.com/labstack/echo/v4"
)

// Mailer delivers rendered month reports.
type Mailer interface {
	SendMonthReport(ctx context.Context, r email.MonthReport) error
}

// Deps are the services the handlers work on. Mailer is nil when mail
// delivery is not configured; Now defaults to time.Now.
type Deps struct {
	Timesheet *timesheet.Service
	Calendar  *calendar.Builder
	Reports   *report.Aggregator
	Mailer    Mailer
	Now       func() time.Time
}

// Handlers contains the handlers for a user's own time data.
type Handlers struct {
	timesheet *timesheet.Service
	calendar  *calendar.Builder
	reports   *report.Aggregator
	mailer    Mailer
	now       func() time.Time
}

// New creates a new Handlers instance.
func New(d Deps) *Handlers {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		timesheet: d.Timesheet,
		calendar:  d.Calendar,
		reports:   d.Reports,
		mailer:    d.Mailer,
		now:       now,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home redirects to the current month.
func (h *Handlers) Home(c echo.Context) error {
	now := h.now()
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/month/%d/%d", now.Year(), int(now.Month())))
}
