package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/hebdate"
	"github.com/tartampluch/go-gabbai/internal/parasha"
)

var (
	ErrUnknownYear = errors.New("hebrew year not in book")
	ErrYearExists  = errors.New("hebrew year already in book")
)

// HebrewYear spans 1 Tishrei to 29 Elul of the same year number.
type HebrewYear struct {
	ID    string    `json:"id"`
	Year  int       `json:"year"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewHebrewYear computes the civil bounds of a Hebrew year.
func NewHebrewYear(year int) (HebrewYear, error) {
	start, err := hebdate.ToGregorian(1, hebdate.Tishrei, year)
	if err != nil {
		return HebrewYear{}, err
	}
	end, err := hebdate.ToGregorian(29, hebdate.Elul, year)
	if err != nil {
		return HebrewYear{}, err
	}
	return HebrewYear{
		ID:    strconv.Itoa(year),
		Year:  year,
		Label: hebdate.YearToGematria(year),
		Start: start,
		End:   end,
	}, nil
}

// HebrewEvent is a listing entry derived from a calendar event.
type HebrewEvent struct {
	ID            string    `json:"id"`
	Type          Kind      `json:"eventType"`
	ParashaName   string    `json:"parashaName,omitempty"`
	HebrewDate    string    `json:"hebrewDateStr"`
	GregorianDate time.Time `json:"gregorianDate"`
	Title         string    `json:"title"`
}

// YearBook holds the Hebrew years a session works with and the selected one.
type YearBook struct {
	Source EventSource
	Clock  hebdate.Clock
	IL     bool

	mu       sync.RWMutex
	years    []HebrewYear
	selected int
}

// NewYearBook starts a book containing the current Hebrew year, selected.
func NewYearBook(src EventSource, clock hebdate.Clock, diaspora bool) (*YearBook, error) {
	clock = clockOr(clock)
	today, err := hebdate.Today(clock)
	if err != nil {
		return nil, err
	}
	y, err := NewHebrewYear(today.Year)
	if err != nil {
		return nil, err
	}
	return &YearBook{
		Source: src,
		Clock:  clock,
		IL:     !diaspora,
		years:  []HebrewYear{y},
	}, nil
}

// Years returns the book's years in creation order.
func (b *YearBook) Years() []HebrewYear {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]HebrewYear, len(b.years))
	copy(out, b.years)
	return out
}

// Current returns the selected year.
func (b *YearBook) Current() HebrewYear {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.years[b.selected]
}

// Select makes the year with the given ID current.
func (b *YearBook) Select(id string) (HebrewYear, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, y := range b.years {
		if y.ID == id {
			b.selected = i
			return y, nil
		}
	}
	return HebrewYear{}, fmt.Errorf("%w: %s", ErrUnknownYear, id)
}

// Create appends the year following the latest one in the book. An empty
// label defaults to the gematria of the year.
func (b *YearBook) Create(label string) (HebrewYear, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	latest := 0
	for _, y := range b.years {
		latest = max(latest, y.Year)
	}
	y, err := NewHebrewYear(latest + 1)
	if err != nil {
		return HebrewYear{}, err
	}
	if label = strings.TrimSpace(label); label != "" {
		y.Label = label
	}
	b.years = append(b.years, y)
	return y, nil
}

// Add inserts a specific year.
func (b *YearBook) Add(year int) (HebrewYear, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, y := range b.years {
		if y.Year == year {
			return HebrewYear{}, fmt.Errorf("%w: %d", ErrYearExists, year)
		}
	}
	y, err := NewHebrewYear(year)
	if err != nil {
		return HebrewYear{}, err
	}
	b.years = append(b.years, y)
	return y, nil
}

// EventsForYear lists the year's portions, holidays and fasts by date.
func (b *YearBook) EventsForYear(ctx context.Context, y HebrewYear) ([]HebrewEvent, error) {
	return b.listing(ctx, y.Start, y.End)
}

// CurrentPeriod lists events from a week ago to eight weeks ahead.
func (b *YearBook) CurrentPeriod(ctx context.Context) ([]HebrewEvent, error) {
	now := civil(clockOr(b.Clock).Now())
	return b.listing(ctx, now.Add(-config.CurrentPeriodBefore), now.Add(config.CurrentPeriodAfter))
}

func (b *YearBook) listing(ctx context.Context, start, end time.Time) ([]HebrewEvent, error) {
	if b.Source == nil {
		return nil, ErrLookupFailed
	}
	evs, err := b.Source.Events(ctx, Query{Start: start, End: end, IL: b.IL, Sedrot: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	return ToHebrewEvents(ctx, evs), nil
}

// ToHebrewEvents converts source events into sorted listing entries.
// Events whose date cannot be rendered are skipped.
func ToHebrewEvents(ctx context.Context, evs []Event) []HebrewEvent {
	out := make([]HebrewEvent, 0, len(evs))
	for i, e := range evs {
		hd, err := hebdate.FromGregorian(e.Date)
		if err != nil {
			slog.DebugContext(ctx, config.MsgEventSkipped,
				config.LogKeyComponent, config.CompCalendar,
				config.LogKeyName, e.Title,
				config.LogKeyError, err)
			continue
		}
		he := HebrewEvent{
			ID:            fmt.Sprintf("%s-%s-%d", strings.ToLower(string(e.Kind)), dayKey(e.Date), i),
			Type:          e.Kind,
			HebrewDate:    hd.String(),
			GregorianDate: civil(e.Date),
			Title:         e.Title,
		}
		if e.HebrewTitle != "" {
			he.Title = e.HebrewTitle
		}
		if e.Kind == KindParasha {
			he.ParashaName = e.Title
			he.Title = parasha.Display(e.Title, false)
		}
		out = append(out, he)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GregorianDate.Before(out[j].GregorianDate)
	})
	return out
}
