// Package feed renders a synagogue's calendar (weekly portions, holidays and
// fasts) as an iCalendar document for subscription by calendar apps.
package feed

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-gabbai/internal/calendar"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/hebdate"
	"github.com/tartampluch/go-gabbai/internal/parasha"
)

// Request describes one feed.
type Request struct {
	Slug     string // stable part of every UID
	Name     string // X-WR-CALNAME
	Language string // "he" or "en"
	IL       bool
	Start    time.Time
	End      time.Time
	Reminder time.Duration // VALARM trigger relative to the event; zero disables alarms
}

// Stats summarizes a build.
type Stats struct {
	Events   int
	Parashot int
	Holidays int
}

// Generator turns calendar events into iCalendar documents.
type Generator struct {
	Clock  hebdate.Clock
	Source calendar.EventSource

	// FormatSummary lets the localisation layer word event titles.
	FormatSummary func(ev calendar.Event, lang string) string

	// FormatCalName lets the localisation layer word the calendar name.
	FormatCalName func(name, lang string) string
}

// Range returns the civil span of the feed around now: from Rosh Hashanah
// config.FeedYearsBack years ago to the end of the year config.FeedYearsAhead ahead.
func Range(now time.Time) (time.Time, time.Time, error) {
	today, err := hebdate.FromGregorian(now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	first, err := calendar.NewHebrewYear(today.Year - config.FeedYearsBack)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := calendar.NewHebrewYear(today.Year + config.FeedYearsAhead)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return first.Start, last.End, nil
}

// Build renders the feed. An empty range yields a valid empty VCALENDAR.
func (g *Generator) Build(ctx context.Context, req Request) ([]byte, Stats, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompFeed, config.LogKeySlug, req.Slug)

	if g.Source == nil {
		return nil, Stats{}, fmt.Errorf("%s: %s", config.ErrFeedBuild, "no event source")
	}
	evs, err := g.Source.Events(ctx, calendar.Query{Start: req.Start, End: req.End, IL: req.IL, Sedrot: true})
	if err != nil {
		if ctx.Err() != nil {
			return nil, Stats{}, ctx.Err()
		}
		return nil, Stats{}, fmt.Errorf("%s: %w", config.ErrFeedBuild, err)
	}

	var stats Stats
	if len(evs) == 0 {
		log.Info(config.MsgGenSuccess, config.LogKeyEvents, 0)
		return []byte(config.StubVCalendar), stats, nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, g.calName(req))
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(g.now().UTC())

	for _, ev := range evs {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		e := g.event(ev, req)
		e.Props.Set(stamp)
		cal.Children = append(cal.Children, e.Component)

		stats.Events++
		if ev.Kind == calendar.KindParasha {
			stats.Parashot++
		} else {
			stats.Holidays++
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, Stats{}, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Info(config.MsgGenSuccess,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyEvents, stats.Events),
			slog.Int(config.LogKeyCount, stats.Parashot),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return buf.Bytes(), stats, nil
}

func (g *Generator) event(ev calendar.Event, req Request) *ical.Event {
	e := ical.NewEvent()
	e.Props.SetText(config.PropUID, UID(req.Slug, ev))

	summary := g.summary(ev, req.Language)
	e.Props.SetText(config.PropSummary, summary)
	e.Props.SetText(config.PropCategories, string(ev.Kind))

	if heb, err := hebdate.FormatGregorian(ev.Date); err == nil {
		e.Props.SetText(config.PropDescription, heb)
	}

	dt := ical.NewProp(config.PropDTStart)
	dt.SetDate(ev.Date)
	e.Props.Set(dt)

	if req.Reminder != 0 {
		addAlarm(e, req.Reminder, summary)
	}
	return e
}

// UID is stable across rebuilds for the same synagogue, day and title.
func UID(slug string, ev calendar.Event) string {
	input := fmt.Sprintf(config.FormatHashInput, slug, ev.Date.Format(config.DateFormatISO)+"/"+ev.Title, config.UIDSalt)
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", sum[:config.UIDHashLength]), config.ICalDomain)
}

func (g *Generator) summary(ev calendar.Event, lang string) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(ev, lang)
	}
	return DefaultSummary(ev, lang)
}

// DefaultSummary words an event without a localizer.
func DefaultSummary(ev calendar.Event, lang string) string {
	if ev.Kind == calendar.KindParasha {
		if lang == "en" {
			return fmt.Sprintf(config.FallbackParasha, ev.Title)
		}
		return parasha.Display(ev.Title, false)
	}
	if lang != "en" && ev.HebrewTitle != "" {
		return ev.HebrewTitle
	}
	return fmt.Sprintf(config.FallbackHoliday, ev.Title)
}

func (g *Generator) calName(req Request) string {
	if g.FormatCalName != nil {
		return g.FormatCalName(req.Name, req.Language)
	}
	return fmt.Sprintf(config.FallbackCalName, req.Name)
}

func (g *Generator) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock.Now()
}

// addAlarm appends a DISPLAY alarm firing d relative to the start of the event.
func addAlarm(e *ical.Event, d time.Duration, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the raw value so the property carries no VALUE=TEXT parameter.
	trigger := ical.NewProp(config.PropTrigger)
	trigger.Value = isoDuration(d)
	alarm.Props.Set(trigger)

	e.Children = append(e.Children, alarm)
}

// isoDuration formats d as an RFC 5545 duration such as "-P1D" or "-PT1H30M".
func isoDuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')
	if days := d / (24 * time.Hour); days > 0 {
		fmt.Fprintf(&b, "%dD", days)
		d -= days * 24 * time.Hour
	}
	if d == 0 {
		if b.Len() <= 2 {
			b.WriteString("T0S")
		}
		return b.String()
	}
	b.WriteByte('T')
	if h := d / time.Hour; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
		d -= h * time.Hour
	}
	if m := d / time.Minute; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
		d -= m * time.Minute
	}
	if s := d / time.Second; s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
