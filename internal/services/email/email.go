// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email delivers printable month reports over SMTP.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/config"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"github.com/wneessen/go-mail"
)

// ErrDisabled is returned when no SMTP server is configured.
var ErrDisabled = errors.New("mail delivery is not configured")

// Service sends e-mail through the configured SMTP server.
type Service struct {
	cfg *config.SMTPConfig
}

// NewService creates a mail service. It fails with ErrDisabled when no
// SMTP host is set.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Host == "" {
		return nil, ErrDisabled
	}
	if cfg.From == "" {
		return nil, errors.New("SMTP from address is required")
	}
	return &Service{cfg: cfg}, nil
}

// MonthReport is a rendered month report addressed to its owner.
type MonthReport struct {
	To       string
	Username string
	Year     int
	Month    time.Month
	HTML     []byte
}

// Filename is the attachment name of the report.
func (r MonthReport) Filename() string {
	return fmt.Sprintf("timereport-%04d-%02d.html", r.Year, int(r.Month))
}

// SendMonthReport mails the report as an HTML attachment.
func (s *Service) SendMonthReport(ctx context.Context, r MonthReport) error {
	msg, err := s.MonthReportMessage(ctx, r)
	if err != nil {
		return err
	}
	if err := s.send(ctx, msg); err != nil {
		return err
	}
	slog.Info("month_report_sent", "to", r.To, "year", r.Year, "month", int(r.Month))
	return nil
}

// MonthReportMessage builds the message for a month report in the
// language of ctx.
func (s *Service) MonthReportMessage(ctx context.Context, r MonthReport) (*mail.Msg, error) {
	data := map[string]any{
		"Username": r.Username,
		"Month":    i18n.MonthName(ctx, r.Month),
		"Year":     r.Year,
	}

	msg := mail.NewMsg()
	if err := s.setFrom(msg); err != nil {
		return nil, err
	}
	if err := msg.To(r.To); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(i18n.TData(ctx, "email_month_report_subject", data))
	msg.SetBodyString(mail.TypeTextPlain, i18n.TData(ctx, "email_month_report_body", data))
	if err := msg.AttachReader(r.Filename(), bytes.NewReader(r.HTML),
		mail.WithFileContentType(mail.TypeTextHTML)); err != nil {
		return nil, fmt.Errorf("attaching report: %w", err)
	}
	return msg, nil
}

func (s *Service) setFrom(msg *mail.Msg) error {
	var err error
	if s.cfg.FromName != "" {
		err = msg.FromFormat(s.cfg.FromName, s.cfg.From)
	} else {
		err = msg.From(s.cfg.From)
	}
	if err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	return nil
}

// clientOptions maps the SMTP settings to go-mail options. Port 465 uses
// implicit TLS, other ports STARTTLS.
func (s *Service) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithPort(s.cfg.Port)}

	switch {
	case s.cfg.TLS && s.cfg.Port == 465:
		opts = append(opts, mail.WithSSL(), mail.WithTLSPolicy(mail.TLSMandatory))
	case s.cfg.TLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

func (s *Service) send(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
