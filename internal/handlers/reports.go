// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Reports returns the aggregated report of the user.
func (h *Handlers) Reports(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.reports.Build(c.Request().Context(), user.ID, h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
