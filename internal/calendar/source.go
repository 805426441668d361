// Package calendar builds month grids, Hebrew year books and event listings
// on top of an EventSource backed by the hebcal engine.
package calendar

import (
	"context"
	"time"

	"github.com/tartampluch/go-gabbai/internal/config"
)

// Kind classifies calendar events.
type Kind string

const (
	KindParasha Kind = "SHABBAT_PARASHA"
	KindHoliday Kind = "HOLIDAY"
	KindFast    Kind = "FAST"
	KindOther   Kind = "OTHER"
)

// Query selects events between Start and End, both inclusive civil days.
type Query struct {
	Start      time.Time
	End        time.Time
	IL         bool // Israel schedule
	Sedrot     bool // include weekly portions
	NoHolidays bool // drop holidays and fasts
}

// Event is a single calendar occurrence on a civil day (midnight UTC).
type Event struct {
	Date        time.Time
	Title       string // English title; for portions, the bare portion name
	HebrewTitle string
	Kind        Kind
}

// EventSource enumerates holidays, fasts and weekly portions.
type EventSource interface {
	Events(ctx context.Context, q Query) ([]Event, error)
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.Format(config.DateFormatISO)
}
