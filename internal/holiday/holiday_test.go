// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package holiday_test

import (
	"testing"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/holiday"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaster(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2024, "2024-03-31"},
		{2025, "2025-04-20"},
		{2026, "2026-04-05"},
		{2027, "2027-03-28"},
		{2038, "2038-04-25"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, holiday.Easter(tt.year).String())
		})
	}
}

func TestSweden_2026(t *testing.T) {
	set := holiday.Sweden{}.Holidays(2026)

	expected := []string{
		"2026-01-01", "2026-01-06", "2026-04-03", "2026-04-05", "2026-04-06",
		"2026-05-01", "2026-05-14", "2026-05-24", "2026-06-06", "2026-06-19",
		"2026-06-20", "2026-10-31", "2026-12-24", "2026-12-25", "2026-12-26",
		"2026-12-31",
	}

	assert.Len(t, set, len(expected))
	for _, s := range expected {
		d, err := models.ParseDate(s)
		require.NoError(t, err)
		assert.True(t, set.Contains(d), s)
	}
}

func TestSweden_MidsummerMoves(t *testing.T) {
	set := holiday.Sweden{}.Holidays(2027)

	assert.Equal(t, "Midsommarafton", set[models.NewDate(2027, time.June, 25)])
	assert.Equal(t, "Midsommardagen", set[models.NewDate(2027, time.June, 26)])
	assert.Equal(t, "Alla helgons dag", set[models.NewDate(2027, time.November, 6)])
}

func TestNew(t *testing.T) {
	p, err := holiday.New("se")
	require.NoError(t, err)
	assert.True(t, p.Holidays(2030).Contains(models.NewDate(2030, time.December, 25)))

	p, err = holiday.New("none")
	require.NoError(t, err)
	assert.Empty(t, p.Holidays(2030))

	_, err = holiday.New("xx")
	assert.ErrorIs(t, err, holiday.ErrUnknownCalendar)
}

func TestStatic(t *testing.T) {
	christmas := models.NewDate(2026, time.December, 25)
	p := holiday.Static{2026: holiday.Set{christmas: "Christmas"}}

	assert.True(t, p.Holidays(2026).Contains(christmas))
	assert.Empty(t, p.Holidays(2027))
}

type countingProvider struct{ calls int }

func (c *countingProvider) Holidays(int) holiday.Set {
	c.calls++
	return holiday.Set{}
}

func TestCached(t *testing.T) {
	inner := &countingProvider{}
	cached := holiday.NewCached(inner)

	cached.Holidays(2026)
	cached.Holidays(2026)
	cached.Holidays(2027)

	assert.Equal(t, 2, inner.calls)
}

func TestIsWeekend(t *testing.T) {
	// 2026-03-02 is a Monday
	monday := models.NewDate(2026, time.March, 2)

	for i := range 7 {
		d := monday.AddDays(i)
		assert.Equal(t, i >= 5, holiday.IsWeekend(d), d.String())
		assert.Equal(t, i, holiday.WeekdayIndex(d), d.String())
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 28, holiday.DaysIn(2026, time.February))
	assert.Equal(t, 29, holiday.DaysIn(2028, time.February))
	assert.Equal(t, 31, holiday.DaysIn(2026, time.December))
	assert.Equal(t, 30, holiday.DaysIn(2026, time.June))

	first, last := holiday.MonthRange(2026, time.December)
	assert.Equal(t, "2026-12-01", first.String())
	assert.Equal(t, "2026-12-31", last.String())
}
