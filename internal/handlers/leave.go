// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/services/timesheet"
	"github.com/labstack/echo/v4"
)

// AddLeaveRequest is the body of a new leave period. Dates are YYYY-MM-DD.
type AddLeaveRequest struct {
	LeaveType   string `json:"leave_type" form:"leave_type"`
	StartDate   string `json:"start_date" form:"start_date"`
	EndDate     string `json:"end_date" form:"end_date"`
	Description string `json:"description" form:"description"`
}

// ListLeave returns the user's leave, latest first.
func (h *Handlers) ListLeave(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	leaves, err := h.timesheet.ListLeave(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, leaves)
}

// AddLeave records a leave period.
func (h *Handlers) AddLeave(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req AddLeaveRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errBadRequest)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return respondError(c, err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return respondError(c, err)
	}

	leave, err := h.timesheet.AddLeave(c.Request().Context(), user.ID, timesheet.AddLeaveParams{
		LeaveType:   models.LeaveType(req.LeaveType),
		StartDate:   start,
		EndDate:     end,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, leave)
}

// DeleteLeave removes a leave period.
func (h *Handlers) DeleteLeave(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.timesheet.DeleteLeave(c.Request().Context(), user.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
