package hebdate

import (
	"fmt"
	"time"
)

// String renders the date as "ז׳ תשרי תשפ״ו".
func (d Date) String() string {
	return Format(d.Day, d.Month, d.Year)
}

// Short renders the date without its year, as "ז׳ תשרי".
func (d Date) Short() string {
	return FormatShort(d.Day, d.Month, d.Year)
}

// Format renders a Hebrew date with gematria day and year.
func Format(day, month, year int) string {
	return fmt.Sprintf("%s %s %s", DayToGematria(day), MonthName(month, year), YearToGematria(year))
}

// FormatShort renders the day and month only. The year is used for Adar naming.
func FormatShort(day, month, year int) string {
	return fmt.Sprintf("%s %s", DayToGematria(day), MonthName(month, year))
}

// FormatGregorian renders the Hebrew date of a civil date.
func FormatGregorian(t time.Time) (string, error) {
	d, err := FromGregorian(t)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}
