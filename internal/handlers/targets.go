// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/services/timesheet"
	"github.com/labstack/echo/v4"
)

// SetTargetRequest sets a project's share of a month. Year and month
// default to the current month.
type SetTargetRequest struct {
	ProjectID        int64   `json:"project_id" form:"project_id"`
	Year             int     `json:"year" form:"year"`
	Month            int     `json:"month" form:"month"`
	TargetPercentage float64 `json:"target_percentage" form:"target_percentage"`
}

// TargetsResponse lists the targets of one month.
type TargetsResponse struct {
	Year    int                    `json:"year"`
	Month   int                    `json:"month"`
	Targets []models.ProjectTarget `json:"targets"`
}

// ListTargets returns the targets of ?year=&month=, defaulting to now.
func (h *Handlers) ListTargets(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	now := h.now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return respondError(c, err)
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		return respondError(c, err)
	}

	targets, err := h.timesheet.Targets(c.Request().Context(), user.ID, year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, TargetsResponse{Year: year, Month: month, Targets: targets})
}

// SetTarget creates or replaces a monthly target.
func (h *Handlers) SetTarget(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req SetTargetRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errBadRequest)
	}
	now := h.now()
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}

	target, err := h.timesheet.SetTarget(c.Request().Context(), user.ID, timesheet.SetTargetParams{
		ProjectID:  req.ProjectID,
		Year:       req.Year,
		Month:      req.Month,
		Percentage: req.TargetPercentage,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, target)
}

// DeleteTarget removes a monthly target.
func (h *Handlers) DeleteTarget(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if _, err := h.timesheet.DeleteTarget(c.Request().Context(), user.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
