// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/services/auth"
	"codeberg.org/oliverandrich/timetracker/internal/services/calendar"
	"codeberg.org/oliverandrich/timetracker/internal/services/email"
	"codeberg.org/oliverandrich/timetracker/internal/services/timesheet"
	"codeberg.org/oliverandrich/timetracker/internal/templates"
	"github.com/labstack/echo/v4"
)

var (
	errBadRequest   = errors.New("malformed request")
	errUnauthorized = errors.New("not logged in")
	errMailFailed   = errors.New("mail delivery failed")
)

type errorMapping struct {
	err       error
	status    int
	messageID string
}

var errorMappings = []errorMapping{
	{errBadRequest, http.StatusBadRequest, "error_bad_request"},
	{errUnauthorized, http.StatusUnauthorized, "error_unauthorized"},
	{errMailFailed, http.StatusBadGateway, "error_mail_failed"},

	{timesheet.ErrNotFound, http.StatusNotFound, "error_not_found"},
	{timesheet.ErrForbidden, http.StatusForbidden, "error_forbidden"},
	{timesheet.ErrInvalidHours, http.StatusBadRequest, "error_invalid_hours"},
	{timesheet.ErrInvalidRange, http.StatusBadRequest, "error_invalid_range"},
	{timesheet.ErrInvalidLeaveType, http.StatusBadRequest, "error_invalid_leave_type"},
	{timesheet.ErrInvalidTarget, http.StatusBadRequest, "error_invalid_percentage"},
	{timesheet.ErrInvalidMonth, http.StatusBadRequest, "error_invalid_month"},
	{timesheet.ErrEmptyName, http.StatusBadRequest, "error_project_name_required"},
	{timesheet.ErrProjectExists, http.StatusConflict, "error_project_exists"},

	{calendar.ErrInvalidMonth, http.StatusBadRequest, "error_invalid_month"},
	{calendar.ErrInvalidYear, http.StatusBadRequest, "error_invalid_year"},

	{auth.ErrUserNotFound, http.StatusNotFound, "error_not_found"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "error_invalid_credentials"},
	{auth.ErrRegistrationClosed, http.StatusForbidden, "error_registration_closed"},
	{auth.ErrUserExists, http.StatusConflict, "error_username_taken"},
	{auth.ErrEmailExists, http.StatusConflict, "error_email_taken"},
	{auth.ErrInvalidEmail, http.StatusBadRequest, "error_invalid_email"},
	{auth.ErrInvalidUsername, http.StatusBadRequest, "error_username_required"},
	{auth.ErrSelfModification, http.StatusBadRequest, "error_self_modification"},
	{auth.ErrUnsupportedLanguage, http.StatusBadRequest, "error_unsupported_language"},

	{email.ErrDisabled, http.StatusServiceUnavailable, "error_mail_disabled"},
}

// statusMessages translate statuses raised by Echo itself.
var statusMessages = map[int]string{
	http.StatusBadRequest:            "error_bad_request",
	http.StatusUnauthorized:          "error_unauthorized",
	http.StatusForbidden:             "error_forbidden",
	http.StatusNotFound:              "error_not_found",
	http.StatusMethodNotAllowed:      "error_not_found",
	http.StatusRequestEntityTooLarge: "error_payload_too_large",
}

func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.messageID
		}
	}
	return http.StatusInternalServerError, "error_internal"
}

// respondError writes err as a translated error response. Unknown errors
// become 500 and are logged.
func respondError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	var pwErr *auth.PasswordError
	if errors.As(err, &pwErr) {
		details := make([]string, 0, len(pwErr.Rules))
		for _, rule := range pwErr.Rules {
			details = append(details, i18n.TData(ctx, rule, map[string]any{"MinLength": pwErr.MinLength}))
		}
		return writeError(c, http.StatusBadRequest, details[0], details)
	}

	status, messageID := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("request_failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return writeError(c, status, i18n.T(ctx, messageID), nil)
}

// ErrorHandler is the Echo error handler. It renders errors that escape
// handlers and middleware in the same format as respondError.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		if writeErr := respondError(c, err); writeErr != nil {
			slog.Error("error_response_failed", "error", writeErr)
		}
		return
	}

	messageID, ok := statusMessages[he.Code]
	if !ok {
		messageID = "error_internal"
		slog.Error("request_failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	if writeErr := writeError(c, he.Code, i18n.T(c.Request().Context(), messageID), nil); writeErr != nil {
		slog.Error("error_response_failed", "error", writeErr)
	}
}

func writeError(c echo.Context, status int, message string, details []string) error {
	if wantsHTML(c) {
		return Render(c, status, templates.ErrorPage(status, message))
	}
	body := map[string]any{"error": message}
	if len(details) > 1 {
		body["details"] = details
	}
	return c.JSON(status, body)
}

// wantsHTML reports whether the client expects a page rather than JSON.
func wantsHTML(c echo.Context) bool {
	if strings.HasSuffix(c.Request().URL.Path, "/print") {
		return true
	}
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.HasPrefix(accept, echo.MIMETextHTML)
}
