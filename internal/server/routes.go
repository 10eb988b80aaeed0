// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"codeberg.org/oliverandrich/timetracker/internal/handlers"
	"github.com/labstack/echo/v4"
)

type routeDeps struct {
	handlers *handlers.Handlers
	auth     *handlers.AuthHandlers
	sse      *handlers.SSEHandler
}

func setupRoutes(e *echo.Echo, d *routeDeps) {
	h, a := d.handlers, d.auth
	authed := RequireAuth()

	// Public
	e.GET("/health", h.Health)
	e.GET("/auth/setup-required", a.SetupRequired)
	e.GET("/auth/session", a.Session)
	e.POST("/auth/register", a.Register)
	e.POST("/auth/login", a.Login)
	e.POST("/auth/logout", a.Logout)
	e.GET("/language/:lang", a.SetLanguage)

	// Own time data
	e.GET("/", h.Home, authed)
	e.GET("/month/:year/:month", h.Month, authed)
	e.GET("/month/:year/:month/print", h.PrintMonth, authed)
	e.POST("/month/:year/:month/send", h.SendMonth, authed)
	e.POST("/entries", h.LogTime, authed)

	e.GET("/projects", h.ListProjects, authed)
	e.POST("/projects", h.CreateProject, authed)
	e.POST("/projects/:id/toggle", h.ToggleProject, authed)

	e.GET("/leave", h.ListLeave, authed)
	e.POST("/leave", h.AddLeave, authed)
	e.DELETE("/leave/:id", h.DeleteLeave, authed)

	e.GET("/targets", h.ListTargets, authed)
	e.POST("/targets", h.SetTarget, authed)
	e.DELETE("/targets/:id", h.DeleteTarget, authed)

	e.GET("/reports", h.Reports, authed)
	e.GET("/events", d.sse.Events, authed)

	// Administration
	admin := e.Group("/admin", RequireAdmin())
	admin.GET("/users", a.ListUsers)
	admin.POST("/users", a.CreateUser)
	admin.POST("/users/:id/toggle-admin", a.ToggleAdmin)
	admin.DELETE("/users/:id", a.DeleteUser)
}
