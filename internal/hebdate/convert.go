// Package hebdate converts between Hebrew and Gregorian dates and renders
// Hebrew dates with gematria numerals. Calendar arithmetic is delegated to
// github.com/hebcal/hdate; this package only validates, adapts and formats.
package hebdate

import (
	"fmt"
	"strings"
	"time"

	"github.com/hebcal/hdate"
	"github.com/tartampluch/go-gabbai/internal/config"
)

// Hebrew months numbered from Nisan, matching the calendar engine.
const (
	Nisan    = 1
	Iyyar    = 2
	Sivan    = 3
	Tamuz    = 4
	Av       = 5
	Elul     = 6
	Tishrei  = 7
	Cheshvan = 8
	Kislev   = 9
	Tevet    = 10
	Shvat    = 11
	Adar     = 12 // Adar I in leap years
	AdarII   = 13
)

const (
	MinYear = 1
	MaxYear = 9999
)

// Date is a Hebrew calendar date. Month 13 (Adar II) exists only in leap years.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Validate checks the date against the real month lengths of its year.
func (d Date) Validate() error {
	n, err := DaysInMonth(d.Month, d.Year)
	if err != nil {
		return err
	}
	if d.Day < 1 || d.Day > n {
		return fmt.Errorf("%w: %d (month %d has %d days)", ErrInvalidDay, d.Day, d.Month, n)
	}
	return nil
}

// Gregorian returns the civil date at midnight UTC.
func (d Date) Gregorian() (time.Time, error) {
	return ToGregorian(d.Day, d.Month, d.Year)
}

// AddDays moves the date by n days, crossing months and years as needed.
func (d Date) AddDays(n int) (Date, error) {
	if err := d.Validate(); err != nil {
		return Date{}, convErr("add", d.key(), err)
	}
	return safely("add", d.key(), func() Date {
		hd := d.hdate()
		return fromHDate(hdate.FromRD(hd.Abs() + int64(n)))
	})
}

// Weekday returns the day of the week the date falls on.
func (d Date) Weekday() (time.Weekday, error) {
	t, err := d.Gregorian()
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

func (d Date) key() string {
	return fmt.Sprintf("%d/%d/%d", d.Day, d.Month, d.Year)
}

func (d Date) hdate() hdate.HDate {
	return hdate.New(d.Year, hdate.HMonth(d.Month), d.Day)
}

func fromHDate(hd hdate.HDate) Date {
	return Date{Day: hd.Day(), Month: int(hd.Month()), Year: hd.Year()}
}

// ToGregorian converts a Hebrew date to the civil date at midnight UTC.
// Invalid combinations return a *ConversionError matching ErrConversionFailed.
func ToGregorian(day, month, year int) (time.Time, error) {
	d := Date{Day: day, Month: month, Year: year}
	if err := d.Validate(); err != nil {
		return time.Time{}, convErr("to-gregorian", d.key(), err)
	}
	g, err := safely("to-gregorian", d.key(), func() time.Time {
		return d.hdate().Gregorian()
	})
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(g.Year(), g.Month(), g.Day(), 0, 0, 0, 0, time.UTC), nil
}

// HebrewToGregorian converts a Hebrew date to an ISO "YYYY-MM-DD" string.
func HebrewToGregorian(day, month, year int) (string, error) {
	t, err := ToGregorian(day, month, year)
	if err != nil {
		return "", err
	}
	return t.Format(config.DateFormatISO), nil
}

// FromGregorian converts the civil date of t (in t's location) to a Hebrew date.
func FromGregorian(t time.Time) (Date, error) {
	if t.IsZero() {
		return Date{}, convErr("to-hebrew", "", ErrInvalidDate)
	}
	key := t.Format(config.DateFormatISO)
	return safely("to-hebrew", key, func() Date {
		return fromHDate(hdate.FromGregorian(t.Year(), t.Month(), t.Day()))
	})
}

// ParseGregorian parses an ISO "YYYY-MM-DD" date and converts it.
func ParseGregorian(s string) (Date, error) {
	t, err := time.Parse(config.DateFormatISO, strings.TrimSpace(s))
	if err != nil {
		return Date{}, convErr("to-hebrew", s, fmt.Errorf("%w: %v", ErrInvalidDate, err))
	}
	return FromGregorian(t)
}

// DaysInMonth reports whether a month has 29 or 30 days by probing the
// engine: the 30th day either stays in the month or spills into the next one.
func DaysInMonth(month, year int) (int, error) {
	if err := checkMonth(month, year); err != nil {
		return 0, err
	}
	key := fmt.Sprintf("%d/%d", month, year)
	return safely("days-in-month", key, func() int {
		first := hdate.New(year, hdate.HMonth(month), 1)
		if int(hdate.FromRD(first.Abs()+29).Month()) == month {
			return 30
		}
		return 29
	})
}

// IsLeapYear reports whether the year has an Adar II, probing whether the
// 31st day after 1 Adar still lands in month 13.
func IsLeapYear(year int) bool {
	if year < MinYear || year > MaxYear {
		return false
	}
	leap, err := safely("leap-year", fmt.Sprint(year), func() bool {
		first := hdate.New(year, hdate.HMonth(Adar), 1)
		return int(hdate.FromRD(first.Abs()+30).Month()) == AdarII
	})
	return err == nil && leap
}

// MonthsInYear returns 13 for leap years and 12 otherwise.
func MonthsInYear(year int) int {
	if IsLeapYear(year) {
		return 13
	}
	return 12
}

// Today returns the Hebrew date of the clock's current civil day.
func Today(c Clock) (Date, error) {
	return FromGregorian(c.Now())
}

func checkMonth(month, year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	if month < Nisan || month > AdarII {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if month == AdarII && !IsLeapYear(year) {
		return fmt.Errorf("%w: Adar II in non-leap year %d", ErrInvalidMonth, year)
	}
	return nil
}

// safely runs fn and turns an engine panic into a ConversionError.
func safely[T any](op, key string, fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = convErr(op, key, fmt.Errorf("%w: %v", ErrConversionFailed, r))
		}
	}()
	return fn(), nil
}
