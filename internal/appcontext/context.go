// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext provides the custom Echo context.
package appcontext

import (
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/services/session"
	"github.com/labstack/echo/v4"
)

// Context is a custom Echo context carrying the authenticated user.
type Context struct {
	echo.Context
	User    *models.User  // nil if not authenticated
	Session *session.Data // nil if not authenticated
}

// GetUser returns the authenticated user, or nil if not authenticated.
func (c *Context) GetUser() *models.User {
	return c.User
}

// IsAuthenticated returns true if the user is authenticated.
func (c *Context) IsAuthenticated() bool {
	return c.User != nil
}

// IsAdmin returns true if the authenticated user is an administrator.
func (c *Context) IsAdmin() bool {
	return c.User != nil && c.User.IsAdmin
}

// SessionID returns the ID of the current session, or "" without one.
func (c *Context) SessionID() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.ID
}

// User returns the authenticated user of an Echo context, or nil when c is
// not an app context or nobody is logged in.
func User(c echo.Context) *models.User {
	if cc, ok := c.(*Context); ok {
		return cc.User
	}
	return nil
}
