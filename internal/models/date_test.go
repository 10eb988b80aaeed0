// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := models.ParseDate("2026-06-15")

	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 15, d.Day())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := models.ParseDate("15/06/2026")

	assert.Error(t, err)
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
	}{
		{"string", "2026-03-09"},
		{"bytes", []byte("2026-03-09")},
		{"time", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"datetime string", "2026-03-09T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d models.Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, "2026-03-09", d.String())
		})
	}
}

func TestDate_Scan_UnsupportedType(t *testing.T) {
	var d models.Date

	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := models.NewDate(2026, time.January, 6).Value()

	require.NoError(t, err)
	assert.Equal(t, "2026-01-06", v)
}

func TestDate_JSON(t *testing.T) {
	data, err := json.Marshal(models.NewDate(2026, time.December, 24))
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-12-24"`, string(data))

	var d models.Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-12-31"`), &d))
	assert.Equal(t, models.NewDate(2026, time.December, 31), d)
}

func TestDate_Between(t *testing.T) {
	start := models.NewDate(2026, time.June, 15)
	end := models.NewDate(2026, time.June, 19)

	assert.True(t, start.Between(start, end))
	assert.True(t, end.Between(start, end))
	assert.True(t, models.NewDate(2026, time.June, 17).Between(start, end))
	assert.False(t, models.NewDate(2026, time.June, 14).Between(start, end))
	assert.False(t, models.NewDate(2026, time.June, 20).Between(start, end))
}

func TestLeaveType_Valid(t *testing.T) {
	assert.True(t, models.LeaveVacation.Valid())
	assert.True(t, models.LeaveSickness.Valid())
	assert.False(t, models.LeaveType("parental").Valid())
}

func TestLeaveEntry_Covers(t *testing.T) {
	leave := &models.LeaveEntry{
		StartDate: models.NewDate(2026, time.June, 15),
		EndDate:   models.NewDate(2026, time.June, 19),
	}

	assert.True(t, leave.Covers(models.NewDate(2026, time.June, 15)))
	assert.False(t, leave.Covers(models.NewDate(2026, time.June, 22)))
}
