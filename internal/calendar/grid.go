package calendar

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/hebdate"
	"github.com/tartampluch/go-gabbai/internal/parasha"
)

// ErrLookupFailed matches failures to query the event source.
var ErrLookupFailed = parasha.ErrLookupFailed

// Day is one cell of a month grid.
type Day struct {
	Hebrew         hebdate.Date
	Gregorian      time.Time
	IsShabbat      bool
	IsHoliday      bool
	IsToday        bool
	IsCurrentMonth bool
	Holiday        string // English names joined with ", "
	HolidayHebrew  string
	Parasha        string // English portion name, Shabbat only
}

// ParashaLabel returns the Hebrew display label of the day's portion, or "".
func (d Day) ParashaLabel(withEnglish bool) string {
	if d.Parasha == "" {
		return ""
	}
	return parasha.Display(d.Parasha, withEnglish)
}

// Builder renders month grids.
type Builder struct {
	Source EventSource
	Clock  hebdate.Clock
	IL     bool
}

// NewBuilder returns a builder on the Israel schedule unless diaspora is set.
func NewBuilder(src EventSource, clock hebdate.Clock, diaspora bool) *Builder {
	return &Builder{Source: src, Clock: clockOr(clock), IL: !diaspora}
}

// Month returns the grid for a Hebrew month: leading days of the previous
// month so the first row starts on Sunday, then every day of the month.
// Event lookup failures are logged and leave the cells without events.
func (b *Builder) Month(ctx context.Context, month, year int) ([]Day, error) {
	n, err := hebdate.DaysInMonth(month, year)
	if err != nil {
		return nil, err
	}
	firstDay := hebdate.Date{Day: 1, Month: month, Year: year}
	first, err := firstDay.Gregorian()
	if err != nil {
		return nil, err
	}
	wd, err := firstDay.Weekday()
	if err != nil {
		return nil, err
	}
	lead := int(wd)
	start := first.AddDate(0, 0, -lead)
	end := first.AddDate(0, 0, n-1)

	byDay := b.lookup(ctx, start, end)
	today := civil(clockOr(b.Clock).Now())

	hd, err := firstDay.AddDays(-lead)
	if err != nil {
		return nil, err
	}
	days := make([]Day, 0, lead+n)
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		if !t.Equal(start) {
			if hd, err = hd.AddDays(1); err != nil {
				return nil, err
			}
		}
		d := Day{
			Hebrew:         hd,
			Gregorian:      t,
			IsShabbat:      t.Weekday() == time.Saturday,
			IsToday:        t.Equal(today),
			IsCurrentMonth: hd.Month == month && hd.Year == year,
		}
		fill(&d, byDay[dayKey(t)])
		days = append(days, d)
	}
	return days, nil
}

func fill(d *Day, evs []Event) {
	var en, he []string
	for _, e := range evs {
		switch e.Kind {
		case KindParasha:
			if d.IsShabbat {
				d.Parasha = e.Title
			}
		case KindHoliday, KindFast, KindOther:
			en = append(en, e.Title)
			if e.HebrewTitle != "" {
				he = append(he, e.HebrewTitle)
			}
		}
	}
	if len(en) > 0 {
		d.IsHoliday = true
		d.Holiday = strings.Join(en, config.HolidaySeparator)
		d.HolidayHebrew = strings.Join(he, config.HolidaySeparator)
	}
}

func (b *Builder) lookup(ctx context.Context, start, end time.Time) map[string][]Event {
	out := make(map[string][]Event)
	if b.Source == nil {
		return out
	}
	evs, err := b.Source.Events(ctx, Query{Start: start, End: end, IL: b.IL, Sedrot: true})
	if err != nil {
		slog.WarnContext(ctx, config.MsgLookupDegrade,
			config.LogKeyComponent, config.CompCalendar,
			config.LogKeyDate, start.Format(config.DateFormatISO),
			config.LogKeyError, err)
		return out
	}
	for _, e := range evs {
		k := dayKey(e.Date)
		out[k] = append(out[k], e)
	}
	return out
}

func clockOr(c hebdate.Clock) hebdate.Clock {
	if c == nil {
		return hebdate.RealClock{}
	}
	return c
}
