// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package holiday decides which days count as working days.
package holiday

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/models"
)

// ErrUnknownCalendar is returned by New for an unsupported calendar name.
var ErrUnknownCalendar = errors.New("unknown holiday calendar")

// Set maps the holidays of a year to their names.
type Set map[models.Date]string

// Contains reports whether d is a holiday.
func (s Set) Contains(d models.Date) bool {
	_, ok := s[d]
	return ok
}

// Provider returns the public holidays of a year.
type Provider interface {
	Holidays(year int) Set
}

// New returns the provider registered under name: "se" or "none".
func New(name string) (Provider, error) {
	switch name {
	case "se", "":
		return NewCached(Sweden{}), nil
	case "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCalendar, name)
	}
}

// None has no holidays.
type None struct{}

// Holidays implements Provider.
func (None) Holidays(int) Set { return Set{} }

// Static serves fixed holiday lists per year. Years without a list have no holidays.
type Static map[int]Set

// Holidays implements Provider.
func (s Static) Holidays(year int) Set {
	if set, ok := s[year]; ok {
		return set
	}
	return Set{}
}

// Cached memoizes the sets of another provider per year.
type Cached struct {
	next  Provider
	mu    sync.RWMutex
	years map[int]Set
}

// NewCached wraps next with a per-year cache.
func NewCached(next Provider) *Cached {
	return &Cached{next: next, years: make(map[int]Set)}
}

// Holidays implements Provider.
func (c *Cached) Holidays(year int) Set {
	c.mu.RLock()
	set, ok := c.years[year]
	c.mu.RUnlock()
	if ok {
		return set
	}

	set = c.next.Holidays(year)

	c.mu.Lock()
	c.years[year] = set
	c.mu.Unlock()
	return set
}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d models.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekdayIndex numbers the days of the week from Monday=0 to Sunday=6.
func WeekdayIndex(d models.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// DaysIn returns the number of days in a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the first and last day of a month.
func MonthRange(year int, month time.Month) (models.Date, models.Date) {
	first := models.NewDate(year, month, 1)
	return first, models.NewDate(year, month, DaysIn(year, month))
}
