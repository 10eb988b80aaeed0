// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/services/calendar"
	"codeberg.org/oliverandrich/timetracker/internal/services/email"
	"codeberg.org/oliverandrich/timetracker/internal/templates"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// monthView builds the month addressed by the :year and :month parameters.
func (h *Handlers) monthView(c echo.Context) (*models.User, *calendar.MonthView, error) {
	user, err := requireUser(c)
	if err != nil {
		return nil, nil, err
	}
	year, err := paramInt(c, "year")
	if err != nil {
		return nil, nil, err
	}
	month, err := paramInt(c, "month")
	if err != nil {
		return nil, nil, err
	}

	view, err := h.calendar.BuildMonth(c.Request().Context(), user.ID, year, month)
	if err != nil {
		return nil, nil, err
	}
	return user, view, nil
}

// Month returns the month view as JSON.
func (h *Handlers) Month(c echo.Context) error {
	_, view, err := h.monthView(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// PrintMonth renders the printable month report.
func (h *Handlers) PrintMonth(c echo.Context) error {
	user, view, err := h.monthView(c)
	if err != nil {
		return respondError(c, err)
	}
	return Render(c, http.StatusOK, templates.MonthReport(user, view))
}

// SendMonth mails the printable month report to the user.
func (h *Handlers) SendMonth(c echo.Context) error {
	if h.mailer == nil {
		return respondError(c, email.ErrDisabled)
	}
	user, view, err := h.monthView(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)
	if err := templates.MonthReport(user, view).Render(ctx, buf); err != nil {
		return respondError(c, fmt.Errorf("failed to render month report: %w", err))
	}

	err = h.mailer.SendMonthReport(ctx, email.MonthReport{
		To:       user.Email,
		Username: user.Username,
		Year:     view.Year,
		Month:    time.Month(view.Month),
		HTML:     buf.Bytes(),
	})
	if err != nil {
		slog.Error("month_report_failed", "user_id", user.ID, "error", err)
		return respondError(c, fmt.Errorf("%w: %w", errMailFailed, err))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "sent", "to": user.Email})
}
