package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/hebcal/hebcal-go/hdate"
	"github.com/hebcal/hebcal-go/hebcal"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/parasha"
)

// Descriptions of events that are times, not days.
var skippedEvents = []string{"Candle lighting", "Havdalah"}

// HebcalSource is the EventSource backed by github.com/hebcal/hebcal-go.
// It also satisfies parasha.Source.
type HebcalSource struct{}

// Events queries the engine. Engine panics are reported as errors.
func (HebcalSource) Events(ctx context.Context, q Query) (out []Event, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.End.Before(q.Start) {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%s: %v", config.ErrCalendarLookup, r)
		}
	}()

	evs, err := hebcal.HebrewCalendar(&hebcal.CalOptions{
		Start:      toHDate(q.Start),
		End:        toHDate(q.End),
		Sedrot:     q.Sedrot,
		IL:         q.IL,
		NoHolidays: q.NoHolidays,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCalendarLookup, err)
	}

	out = make([]Event, 0, len(evs))
	for _, ev := range evs {
		if e, ok := convert(ev); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Readings lists the weekly portions read between start and end.
func (s HebcalSource) Readings(ctx context.Context, start, end time.Time, il bool) ([]parasha.Reading, error) {
	evs, err := s.Events(ctx, Query{Start: start, End: end, IL: il, Sedrot: true, NoHolidays: true})
	if err != nil {
		return nil, err
	}
	var out []parasha.Reading
	for _, e := range evs {
		if e.Kind == KindParasha {
			out = append(out, parasha.Reading{Date: e.Date, Name: e.Title})
		}
	}
	return out, nil
}

// Flags of days marked in the calendar without being holidays.
const otherFlags = hebcal.ROSH_CHODESH | hebcal.SPECIAL_SHABBAT | hebcal.SHABBAT_MEVARCHIM

func convert(ev hebcal.CalEvent) (Event, bool) {
	en := ev.Render("en")
	for _, s := range skippedEvents {
		if strings.Contains(en, s) {
			return Event{}, false
		}
	}

	e := Event{
		Date:  civil(ev.GetDate().Gregorian()),
		Title: en,
	}
	flags := ev.GetFlags()
	switch {
	case flags&hebcal.PARSHA_HASHAVUA != 0:
		e.Kind = KindParasha
		e.Title = parasha.Strip(en)
		e.HebrewTitle = parasha.ToHebrew(e.Title)
	case flags&(hebcal.MAJOR_FAST|hebcal.MINOR_FAST) != 0:
		e.Kind = KindFast
		e.HebrewTitle = stripNiqqud(ev.Render("he"))
	case flags&otherFlags != 0:
		e.Kind = KindOther
		e.HebrewTitle = stripNiqqud(ev.Render("he"))
	default:
		e.Kind = KindHoliday
		e.HebrewTitle = stripNiqqud(ev.Render("he"))
	}
	return e, true
}

func toHDate(t time.Time) hdate.HDate {
	return hdate.FromGregorian(t.Year(), t.Month(), t.Day())
}

// stripNiqqud drops Hebrew vowel points and cantillation marks, keeping letters and punctuation.
func stripNiqqud(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x0591 && r <= 0x05C7 && unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
}
