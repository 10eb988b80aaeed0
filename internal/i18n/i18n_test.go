// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	err := i18n.Init()
	require.NoError(t, err)
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Time Tracker", i18n.T(ctx, "app_name"))
}

func TestT_Swedish(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), i18n.Swedish)

	assert.Equal(t, "Projektet finns redan", i18n.T(ctx, "error_project_exists"))
	assert.Equal(t, "sv", i18n.GetLocale(ctx))
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := context.Background()

	assert.Equal(t, "Time Tracker", i18n.T(ctx, "app_name"))
	assert.Equal(t, "en", i18n.GetLocale(ctx))
}

func TestTData(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), i18n.Swedish)

	result := i18n.TData(ctx, "month_report_title", map[string]any{"Month": "Mars", "Year": 2026})
	assert.Equal(t, "Tidrapport Mars 2026", result)
}

func TestTPlural(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "1 working day", i18n.TPlural(ctx, "summary_working_days", 1))
	assert.Equal(t, "20 working days", i18n.TPlural(ctx, "summary_working_days", 20))
}

func TestWeekdayAndMonthName(t *testing.T) {
	require.NoError(t, i18n.Init())

	en := i18n.WithLocale(context.Background(), language.English)
	sv := i18n.WithLocale(context.Background(), i18n.Swedish)

	assert.Equal(t, "Monday", i18n.Weekday(en, 0))
	assert.Equal(t, "Söndag", i18n.Weekday(sv, 6))
	assert.Equal(t, "March", i18n.MonthName(en, time.March))
	assert.Equal(t, "Maj", i18n.MonthName(sv, time.May))
}

func TestMonthName_AllMonths(t *testing.T) {
	require.NoError(t, i18n.Init())
	en := i18n.WithLocale(context.Background(), language.English)

	for m := time.January; m <= time.December; m++ {
		t.Run(m.String(), func(t *testing.T) {
			assert.Equal(t, m.String(), i18n.MonthName(en, m))
		})
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, i18n.Supported("en"))
	assert.True(t, i18n.Supported("sv"))
	assert.False(t, i18n.Supported("de"))
	assert.False(t, i18n.Supported(""))
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"sv-SE,sv;q=0.9,en;q=0.8", "sv"},
		{"en-US,en;q=0.9", "en"},
		{"de-DE", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.MatchLanguage(tt.header).String())
		})
	}
}
