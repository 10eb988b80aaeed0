// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"strconv"

	"codeberg.org/oliverandrich/timetracker/internal/appcontext"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// requireUser returns the logged-in user or errUnauthorized.
func requireUser(c echo.Context) (*models.User, error) {
	if user := appcontext.User(c); user != nil {
		return user, nil
	}
	return nil, errUnauthorized
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadRequest
	}
	return id, nil
}

func paramInt(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, errBadRequest
	}
	return v, nil
}

// queryInt parses an optional query parameter, falling back to def when absent.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errBadRequest
	}
	return v, nil
}

func parseDate(s string) (models.Date, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, errBadRequest
	}
	return d, nil
}
