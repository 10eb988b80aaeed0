// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/timetracker/internal/services/timesheet"
	"github.com/labstack/echo/v4"
)

// LogTimeRequest is one edited cell of the month sheet.
type LogTimeRequest struct {
	ProjectID       int64   `json:"project_id" form:"project_id"`
	Date            string  `json:"date" form:"date"`
	Hours           float64 `json:"hours" form:"hours"`
	Description     string  `json:"description" form:"description"`
	IsRestTime      bool    `json:"is_restid" form:"is_restid"`
	TravelAllowance bool    `json:"tracktamente" form:"tracktamente"`
}

// LogTime stores project hours or the rest time of a day.
func (h *Handlers) LogTime(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req LogTimeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errBadRequest)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return respondError(c, err)
	}
	if !req.IsRestTime && req.ProjectID <= 0 {
		return respondError(c, errBadRequest)
	}

	err = h.timesheet.LogTime(c.Request().Context(), user.ID, timesheet.LogTimeParams{
		ProjectID:       req.ProjectID,
		Date:            date,
		Hours:           req.Hours,
		Description:     req.Description,
		IsRestTime:      req.IsRestTime,
		TravelAllowance: req.TravelAllowance,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
