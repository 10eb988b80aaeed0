// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CreateProjectRequest is the body of a new project.
type CreateProjectRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// ListProjects returns all projects of the user, active or not.
func (h *Handlers) ListProjects(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	projects, err := h.timesheet.ListProjects(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, projects)
}

// CreateProject adds a project.
func (h *Handlers) CreateProject(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errBadRequest)
	}

	project, err := h.timesheet.CreateProject(c.Request().Context(), user.ID, req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, project)
}

// ToggleProject activates or deactivates a project.
func (h *Handlers) ToggleProject(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	project, err := h.timesheet.ToggleProject(c.Request().Context(), user.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}
