// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates renders the server-side HTML pages.
package templates

//go:generate templ generate

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/services/calendar"
)

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	return i18n.T(ctx, messageID)
}

// TData translates a message with template data.
func TData(ctx context.Context, messageID string, data map[string]any) string {
	return i18n.TData(ctx, messageID, data)
}

// Locale returns the current locale.
func Locale(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}

// Hours formats an hour figure with at most two decimals; zero renders empty.
func Hours(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func formatSigned(v float64, sign bool) string {
	s := Hours(v)
	if s == "" {
		s = "0"
	}
	if sign && v > 0 {
		s = "+" + s
	}
	return s
}

func requiredLabel(ctx context.Context, view *calendar.MonthView) string {
	return formatSigned(view.RequiredHours, false) +
		" (" + i18n.TPlural(ctx, "summary_working_days", view.WorkingDays) + ")"
}

func errorTitle(code int) string {
	title := http.StatusText(code)
	if title == "" {
		title = "Error"
	}
	return strconv.Itoa(code) + " " + title
}

// rowClass marks holidays first, then leave, then weekends.
func rowClass(day *calendar.Day) string {
	switch {
	case day.IsHoliday:
		return "holiday"
	case day.Leave != nil:
		return "leave"
	case day.IsWeekend:
		return "weekend"
	}
	return ""
}

func weekdayLabel(ctx context.Context, day *calendar.Day) string {
	switch {
	case day.IsHoliday:
		return day.Weekday + " (" + day.HolidayName + ")"
	case day.Leave != nil:
		return day.Weekday + " (" + T(ctx, "leave_"+string(day.Leave.LeaveType)) + ")"
	}
	return day.Weekday
}
