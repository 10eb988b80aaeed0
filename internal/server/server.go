// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires services, middleware and routes into the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/config"
	"codeberg.org/oliverandrich/timetracker/internal/database"
	"codeberg.org/oliverandrich/timetracker/internal/handlers"
	"codeberg.org/oliverandrich/timetracker/internal/holiday"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
	"codeberg.org/oliverandrich/timetracker/internal/services/auth"
	"codeberg.org/oliverandrich/timetracker/internal/services/calendar"
	"codeberg.org/oliverandrich/timetracker/internal/services/email"
	"codeberg.org/oliverandrich/timetracker/internal/services/report"
	"codeberg.org/oliverandrich/timetracker/internal/services/session"
	"codeberg.org/oliverandrich/timetracker/internal/services/timesheet"
	"codeberg.org/oliverandrich/timetracker/internal/sse"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

const shutdownTimeout = 10 * time.Second

// Run starts the server with the given CLI command and blocks until it is
// interrupted.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	SetupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	if err := i18n.Init(); err != nil {
		return fmt.Errorf("failed to init i18n: %w", err)
	}

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	e, err := New(cfg, db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, e, cfg)
}

// New builds the Echo instance with all services, middleware and routes.
func New(cfg *config.Config, db *sqlx.DB) (*echo.Echo, error) {
	repo := repository.New(db)

	holidays, err := holiday.New(cfg.Calendar.Holidays)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(&cfg.Session, cfg.SecureCookies())
	if err != nil {
		return nil, err
	}

	var mailer handlers.Mailer
	mailSvc, err := email.NewService(&cfg.SMTP)
	switch {
	case err == nil:
		mailer = mailSvc
	case errors.Is(err, email.ErrDisabled):
		slog.Info("mail_disabled", "hint", "set smtp.host to enable month reports by e-mail")
	default:
		return nil, fmt.Errorf("failed to configure mail: %w", err)
	}

	hub := sse.NewHub()
	authSvc := auth.NewService(repo, &cfg.Auth)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	setupMiddleware(e, cfg, sessions, authSvc)
	setupRoutes(e, &routeDeps{
		handlers: handlers.New(handlers.Deps{
			Timesheet: timesheet.NewService(repo, hub),
			Calendar:  calendar.NewBuilder(repo, holidays, cfg.Calendar.HoursPerDay),
			Reports:   report.NewAggregator(repo, holidays, cfg.Calendar.HoursPerDay, cfg.Report.FallbackTargetHours),
			Mailer:    mailer,
		}),
		auth: handlers.NewAuth(authSvc, sessions, cfg.SecureCookies()),
		sse:  handlers.NewSSEHandler(hub, handlers.DefaultHeartbeat),
	})

	return e, nil
}

// serve runs e until ctx is done. Request contexts derive from ctx, so open
// event streams end as soon as shutdown begins.
func serve(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	e.Server.BaseContext = func(net.Listener) context.Context { return ctx }
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	errChan := make(chan error, 1)
	go func() {
		slog.Info("server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
