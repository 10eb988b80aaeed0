// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package config maps command line flags, environment variables and
// config.toml onto the application configuration.
package config

import (
	"fmt"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

// DefaultConfigFile is read unless --config names another file.
const DefaultConfigFile = "config.toml"

var (
	configPath = DefaultConfigFile
	configFile = altsrc.NewStringPtrSourcer(&configPath)
)

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Session  SessionConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Calendar CalendarConfig
	Report   ReportConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
}

type AuthConfig struct {
	MinPasswordLength int
}

// SMTPConfig configures outgoing mail. An empty Host disables mail.
type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

type CalendarConfig struct {
	Holidays    string  // se, none
	HoursPerDay float64 // required hours per working day
}

type ReportConfig struct {
	FallbackTargetHours float64 // denominator for months without working days, 0 disables
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.Server.BaseURL, "https://")
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     strings.TrimSuffix(cmd.String("base-url"), "/"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
		},
		Auth: AuthConfig{
			MinPasswordLength: int(cmd.Int("min-password-length")),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Calendar: CalendarConfig{
			Holidays:    cmd.String("holidays"),
			HoursPerDay: cmd.Float("hours-per-day"),
		},
		Report: ReportConfig{
			FallbackTargetHours: cmd.Float("fallback-target-hours"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg.Server.Host, cfg.Server.Port)
	}
	return cfg
}

// buildBaseURL derives the public URL when none is configured. TLS is
// terminated by a reverse proxy, which then sets base_url explicitly.
func buildBaseURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if port == 80 {
		return "http://" + host
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

func source(env, key string) cli.ValueSourceChain {
	return cli.NewValueSourceChain(cli.EnvVar(env), toml.TOML(key, configFile))
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: DefaultConfigFile, Usage: "Path to the TOML config file", Destination: &configPath, Sources: cli.EnvVars("CONFIG")},

		&cli.StringFlag{Name: "host", Value: "localhost", Usage: "Host to bind to", Sources: source("HOST", "server.host")},
		&cli.IntFlag{Name: "port", Value: 8080, Usage: "Port to listen on", Sources: source("PORT", "server.port")},
		&cli.StringFlag{Name: "base-url", Usage: "Public URL of the application", Sources: source("BASE_URL", "server.base_url")},
		&cli.IntFlag{Name: "max-body-size", Value: 1, Usage: "Maximum request body size in MB", Sources: source("MAX_BODY_SIZE", "server.max_body_size")},

		&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level (debug, info, warn, error)", Sources: source("LOG_LEVEL", "log.level")},
		&cli.StringFlag{Name: "log-format", Value: "text", Usage: "Log format (text, json)", Sources: source("LOG_FORMAT", "log.format")},

		&cli.StringFlag{Name: "database-dsn", Value: "./data/timetracker.db", Usage: "Database DSN", Sources: source("DATABASE_DSN", "database.dsn")},

		&cli.StringFlag{Name: "session-cookie-name", Value: "_timetracker", Usage: "Session cookie name", Sources: source("SESSION_COOKIE_NAME", "session.cookie_name")},
		&cli.IntFlag{Name: "session-max-age", Value: 604800, Usage: "Session max age in seconds", Sources: source("SESSION_MAX_AGE", "session.max_age")},
		&cli.StringFlag{Name: "session-hash-key", Usage: "Session hash key (32-byte hex, generated if empty)", Sources: source("SESSION_HASH_KEY", "session.hash_key")},
		&cli.StringFlag{Name: "session-block-key", Usage: "Session block key for encryption (32-byte hex, optional)", Sources: source("SESSION_BLOCK_KEY", "session.block_key")},

		&cli.IntFlag{Name: "min-password-length", Value: 10, Usage: "Minimum password length", Sources: source("MIN_PASSWORD_LENGTH", "auth.min_password_length")},

		&cli.StringFlag{Name: "smtp-host", Usage: "SMTP server (empty disables mail)", Sources: source("SMTP_HOST", "smtp.host")},
		&cli.IntFlag{Name: "smtp-port", Value: 587, Usage: "SMTP port", Sources: source("SMTP_PORT", "smtp.port")},
		&cli.StringFlag{Name: "smtp-username", Usage: "SMTP username", Sources: source("SMTP_USERNAME", "smtp.username")},
		&cli.StringFlag{Name: "smtp-password", Usage: "SMTP password", Sources: source("SMTP_PASSWORD", "smtp.password")},
		&cli.StringFlag{Name: "smtp-from", Usage: "Sender address", Sources: source("SMTP_FROM", "smtp.from")},
		&cli.StringFlag{Name: "smtp-from-name", Value: "Timetracker", Usage: "Sender name", Sources: source("SMTP_FROM_NAME", "smtp.from_name")},
		&cli.BoolFlag{Name: "smtp-tls", Value: true, Usage: "Require TLS for SMTP", Sources: source("SMTP_TLS", "smtp.tls")},

		&cli.StringFlag{Name: "holidays", Value: "se", Usage: "Public holiday calendar (se, none)", Sources: source("HOLIDAYS", "calendar.holidays")},
		&cli.FloatFlag{Name: "hours-per-day", Value: 8, Usage: "Required hours per working day", Sources: source("HOURS_PER_DAY", "calendar.hours_per_day")},

		&cli.FloatFlag{Name: "fallback-target-hours", Usage: "Target hours for months without working days (0 disables)", Sources: source("FALLBACK_TARGET_HOURS", "report.fallback_target_hours")},
	}
}
