// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package holiday

import (
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/models"
)

// Sweden computes Swedish public holidays plus the eves that are
// customarily work-free (Midsummer, Christmas and New Year's Eve).
type Sweden struct{}

// Holidays implements Provider.
func (Sweden) Holidays(year int) Set {
	easter := Easter(year)
	d := func(month time.Month, day int) models.Date { return models.NewDate(year, month, day) }

	set := Set{}
	set[d(time.January, 1)] = "Nyårsdagen"
	set[d(time.January, 6)] = "Trettondedag jul"
	set[easter.AddDays(-2)] = "Långfredagen"
	set[easter] = "Påskdagen"
	set[easter.AddDays(1)] = "Annandag påsk"
	set[d(time.May, 1)] = "Första maj"
	set[easter.AddDays(39)] = "Kristi himmelsfärdsdag"
	set[easter.AddDays(49)] = "Pingstdagen"
	set[d(time.June, 6)] = "Nationaldagen"
	set[firstWeekday(year, time.June, 19, time.Friday)] = "Midsommarafton"
	set[firstWeekday(year, time.June, 20, time.Saturday)] = "Midsommardagen"
	set[firstWeekday(year, time.October, 31, time.Saturday)] = "Alla helgons dag"
	set[d(time.December, 24)] = "Julafton"
	set[d(time.December, 25)] = "Juldagen"
	set[d(time.December, 26)] = "Annandag jul"
	set[d(time.December, 31)] = "Nyårsafton"
	return set
}

// firstWeekday returns the first wd on or after the given day.
func firstWeekday(year int, month time.Month, day int, wd time.Weekday) models.Date {
	start := models.NewDate(year, month, day)
	offset := (int(wd) - int(start.Weekday()) + 7) % 7
	return start.AddDays(offset)
}

// Easter returns Easter Sunday of the Gregorian calendar (Meeus/Jones/Butcher).
func Easter(year int) models.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return models.NewDate(year, time.Month(month), day)
}
