// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/timetracker/internal/appcontext"
	"codeberg.org/oliverandrich/timetracker/internal/config"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/services/auth"
	"codeberg.org/oliverandrich/timetracker/internal/services/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// UserLoader resolves the user of a session.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

func setupMiddleware(e *echo.Echo, cfg *config.Config, sessions *session.Manager, users UserLoader) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Secure())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Skipper: isEventStream}))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(appContext())
	e.Use(AuthMiddleware(sessions, users))
	e.Use(i18nMiddleware())
	e.Use(csrfMiddleware(cfg))
}

// isEventStream skips compression for the SSE endpoint, which must flush
// every event as written.
func isEventStream(c echo.Context) bool {
	return c.Request().URL.Path == "/events"
}

// appContext wraps every request in the app context.
func appContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&appcontext.Context{Context: c})
		}
	}
}

// AuthMiddleware loads the user of a valid session cookie into the app
// context. Requests without one continue anonymously.
func AuthMiddleware(sessions *session.Manager, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc, ok := c.(*appcontext.Context)
			if !ok {
				return next(c)
			}

			data, err := sessions.Parse(c.Request())
			if err != nil || data == nil {
				return next(c)
			}

			user, err := users.GetUser(c.Request().Context(), data.UserID)
			if err != nil {
				if !errors.Is(err, auth.ErrUserNotFound) {
					return err
				}
				slog.Debug("session_user_missing", "user_id", data.UserID)
				return next(c)
			}

			cc.User = user
			cc.Session = data
			return next(cc)
		}
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if appcontext.User(c) == nil {
				return echo.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects requests of users without administrator rights.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := appcontext.User(c)
			if user == nil {
				return echo.ErrUnauthorized
			}
			if !user.IsAdmin {
				slog.Warn("access_denied", "user_id", user.ID, "path", c.Path())
				return echo.ErrForbidden
			}
			return next(c)
		}
	}
}

// csrfMiddleware configures CSRF protection. Clients read the token from
// GET /auth/session and send it as X-CSRF-Token.
func csrfMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSecure:   cfg.SecureCookies(),
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}

			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// i18nMiddleware sets the locale from the user's saved language, the
// language cookie or the Accept-Language header, in that order.
func i18nMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.Request().Header.Get("Accept-Language")
			if cookie, err := c.Cookie(i18n.CookieName); err == nil && i18n.Supported(cookie.Value) {
				lang = cookie.Value
			}
			if user := appcontext.User(c); user != nil && strings.TrimSpace(user.Language) != "" {
				lang = user.Language
			}

			ctx := i18n.WithLocale(c.Request().Context(), i18n.MatchLanguage(lang))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
