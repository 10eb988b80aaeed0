// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/appcontext"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/services/auth"
	"codeberg.org/oliverandrich/timetracker/internal/services/session"
	"github.com/labstack/echo/v4"
)

const languageCookieMaxAge = 365 * 24 * time.Hour

// AuthHandlers contains handlers for authentication and user administration.
type AuthHandlers struct {
	auth     *auth.Service
	sessions *session.Manager
	secure   bool
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(authSvc *auth.Service, sessions *session.Manager, secure bool) *AuthHandlers {
	return &AuthHandlers{
		auth:     authSvc,
		sessions: sessions,
		secure:   secure,
	}
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	IsAdmin  bool   `json:"is_admin" form:"is_admin"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// SessionResponse describes the current visitor.
type SessionResponse struct {
	User      *models.User `json:"user"`
	CSRFToken string       `json:"csrf_token"`
}

// SetupRequired reports whether the first account still has to be created.
func (h *AuthHandlers) SetupRequired(c echo.Context) error {
	required, err := h.auth.SetupRequired(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"setup_required": required})
}

// Session returns the logged-in user, if any, and the CSRF token for
// subsequent writes.
func (h *AuthHandlers) Session(c echo.Context) error {
	token, _ := c.Get("csrf").(string)
	return c.JSON(http.StatusOK, SessionResponse{User: appcontext.User(c), CSRFToken: token})
}

// Register creates the first account and logs it in.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errBadRequest)
	}

	user, err := h.auth.Register(c.Request().Context(), auth.NewUserParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	if err := h.login(c, user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login checks the credentials and sets the session cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errBadRequest)
	}

	user, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.login(c, user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) login(c echo.Context, user *models.User) error {
	cookie, err := h.sessions.Create(user.ID, user.Username)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}

// Logout clears the session cookie.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if user := appcontext.User(c); user != nil {
		slog.Info("logout", "user_id", user.ID)
	}
	c.SetCookie(h.sessions.Clear())
	return c.NoContent(http.StatusNoContent)
}

// SetLanguage stores the UI language in a cookie and, for logged-in users,
// on the account, then sends the visitor back where they came from.
func (h *AuthHandlers) SetLanguage(c echo.Context) error {
	lang := c.Param("lang")
	if !i18n.Supported(lang) {
		return respondError(c, auth.ErrUnsupportedLanguage)
	}

	if user := appcontext.User(c); user != nil {
		if err := h.auth.SetLanguage(c.Request().Context(), user.ID, lang); err != nil {
			return respondError(c, err)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     i18n.CookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   int(languageCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, backTo(c.Request()))
}

// backTo returns the path of a same-host Referer, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || ref.Host != r.Host {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// ListUsers returns all accounts.
func (h *AuthHandlers) ListUsers(c echo.Context) error {
	users, err := h.auth.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser adds an account on behalf of an administrator.
func (h *AuthHandlers) CreateUser(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errBadRequest)
	}

	user, err := h.auth.CreateUser(c.Request().Context(), auth.NewUserParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// ToggleAdmin grants or revokes administrator rights.
func (h *AuthHandlers) ToggleAdmin(c echo.Context) error {
	actor, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.auth.ToggleAdmin(c.Request().Context(), actor.ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account and all of its data.
func (h *AuthHandlers) DeleteUser(c echo.Context) error {
	actor, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.auth.DeleteUser(c.Request().Context(), actor.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
