package parasha

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-gabbai/internal/config"
)

var (
	// ErrNoEvent means no portion is read on the requested day.
	ErrNoEvent = errors.New("no weekly portion on this date")

	// ErrLookupFailed means the calendar engine could not be queried.
	ErrLookupFailed = errors.New("weekly portion lookup failed")
)

// Reading is a portion read on a given Shabbat. Name uses the English table spelling.
type Reading struct {
	Date time.Time
	Name string
}

// Hebrew returns the Hebrew name of the reading.
func (r Reading) Hebrew() string {
	return ToHebrew(r.Name)
}

// Source lists the weekly readings between start and end, both inclusive.
type Source interface {
	Readings(ctx context.Context, start, end time.Time, il bool) ([]Reading, error)
}

// Resolver finds the portion read on a Shabbat.
type Resolver struct {
	Source Source
	IL     bool // Israel reading schedule; false selects the diaspora schedule
}

// NewResolver returns a resolver on the Israel schedule unless diaspora is set.
func NewResolver(src Source, diaspora bool) *Resolver {
	return &Resolver{Source: src, IL: !diaspora}
}

// ForDate returns the reading of the Shabbat on or after t.
func (r *Resolver) ForDate(ctx context.Context, t time.Time) (Reading, error) {
	return r.ForShabbat(ctx, NextShabbat(t))
}

// ForShabbat returns the reading of the given Saturday. Other weekdays yield ErrNoEvent.
func (r *Resolver) ForShabbat(ctx context.Context, t time.Time) (Reading, error) {
	if t.Weekday() != time.Saturday {
		return Reading{}, fmt.Errorf("%w: %s is a %s", ErrNoEvent, t.Format(config.DateFormatISO), t.Weekday())
	}
	if r.Source == nil {
		return Reading{}, ErrLookupFailed
	}

	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	readings, err := r.Source.Readings(ctx, day, day, r.IL)
	if err != nil {
		slog.DebugContext(ctx, config.MsgLookupDegrade,
			config.LogKeyComponent, config.CompParasha,
			config.LogKeyDate, day.Format(config.DateFormatISO),
			config.LogKeyError, err)
		return Reading{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	for _, rd := range readings {
		if sameDay(rd.Date, day) && rd.Name != "" {
			return rd, nil
		}
	}
	return Reading{}, fmt.Errorf("%w: %s", ErrNoEvent, day.Format(config.DateFormatISO))
}

// NextShabbat returns the Saturday on or after t, keeping t's civil date.
func NextShabbat(t time.Time) time.Time {
	offset := (int(time.Saturday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
