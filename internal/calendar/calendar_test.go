package calendar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-gabbai/internal/calendar"
	"github.com/tartampluch/go-gabbai/internal/hebdate"
	"github.com/tartampluch/go-gabbai/internal/parasha"
)

// FakeSource returns canned events filtered by the query range.
type FakeSource struct {
	Canned  []calendar.Event
	Err     error
	Queries []calendar.Query
}

func (f *FakeSource) Events(_ context.Context, q calendar.Query) ([]calendar.Event, error) {
	f.Queries = append(f.Queries, q)
	if f.Err != nil {
		return nil, f.Err
	}
	var out []calendar.Event
	for _, e := range f.Canned {
		if e.Date.Before(q.Start) || e.Date.After(q.End) {
			continue
		}
		if q.NoHolidays && e.Kind != calendar.KindParasha {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tishrei5786() *FakeSource {
	return &FakeSource{Canned: []calendar.Event{
		{Date: day(2025, time.September, 23), Title: "Rosh Hashana 5786", HebrewTitle: "ראש השנה 5786", Kind: calendar.KindHoliday},
		{Date: day(2025, time.September, 25), Title: "Tzom Gedaliah", HebrewTitle: "צום גדליה", Kind: calendar.KindFast},
		{Date: day(2025, time.September, 27), Title: "Vayeilech", HebrewTitle: "וילך", Kind: calendar.KindParasha},
		{Date: day(2025, time.September, 27), Title: "Shabbat Shuva", HebrewTitle: "שבת שובה", Kind: calendar.KindOther},
		{Date: day(2025, time.October, 2), Title: "Yom Kippur", HebrewTitle: "יום כיפור", Kind: calendar.KindHoliday},
		{Date: day(2025, time.October, 4), Title: "Ha'azinu", HebrewTitle: "האזינו", Kind: calendar.KindParasha},
	}}
}

func TestBuilder_Month(t *testing.T) {
	src := tishrei5786()
	clock := hebdate.FixedClock(time.Date(2025, 9, 29, 10, 0, 0, 0, time.UTC))
	b := calendar.NewBuilder(src, clock, false)

	days, err := b.Month(context.Background(), hebdate.Tishrei, 5786)
	require.NoError(t, err)

	// 1 Tishrei 5786 is a Tuesday: two leading days (Sunday, Monday).
	require.Len(t, days, 2+30)
	assert.Equal(t, time.Sunday, days[0].Gregorian.Weekday())
	assert.False(t, days[0].IsCurrentMonth)
	assert.Equal(t, hebdate.Date{Day: 29, Month: hebdate.Elul, Year: 5785}, days[1].Hebrew)

	first := days[2]
	assert.True(t, first.IsCurrentMonth)
	assert.True(t, first.IsHoliday)
	assert.Equal(t, "Rosh Hashana 5786", first.Holiday)

	shabbat := days[6]
	assert.True(t, shabbat.IsShabbat)
	assert.Equal(t, "Vayeilech", shabbat.Parasha)
	assert.Equal(t, "פרשת וילך", shabbat.ParashaLabel(false))
	assert.Equal(t, "Shabbat Shuva", shabbat.Holiday)

	today := days[8]
	assert.True(t, today.IsToday)
	assert.Equal(t, 7, today.Hebrew.Day)

	for _, d := range days[2:] {
		assert.Equal(t, hebdate.Tishrei, d.Hebrew.Month)
	}
	for _, d := range days {
		want, err := hebdate.FromGregorian(d.Gregorian)
		require.NoError(t, err)
		assert.Equal(t, want, d.Hebrew, "cell %s", d.Gregorian.Format(time.DateOnly))
	}

	require.Len(t, src.Queries, 1)
	assert.True(t, src.Queries[0].IL)
	assert.True(t, src.Queries[0].Sedrot)
	assert.Equal(t, day(2025, time.September, 21), src.Queries[0].Start)
	assert.Equal(t, day(2025, time.October, 22), src.Queries[0].End)
}

func TestBuilder_Month_DegradesOnLookupFailure(t *testing.T) {
	src := &FakeSource{Err: errors.New("engine down")}
	b := calendar.NewBuilder(src, nil, true)

	days, err := b.Month(context.Background(), hebdate.Tishrei, 5786)
	require.NoError(t, err)
	for _, d := range days {
		assert.Empty(t, d.Parasha)
		assert.False(t, d.IsHoliday)
	}
	assert.False(t, src.Queries[0].IL, "diaspora schedule requested")
}

func TestBuilder_Month_InvalidMonth(t *testing.T) {
	b := calendar.NewBuilder(&FakeSource{}, nil, false)
	_, err := b.Month(context.Background(), hebdate.AdarII, 5786)
	assert.ErrorIs(t, err, hebdate.ErrInvalidMonth)
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name                string
		month, year         int
		nextMonth, nextYear int
		prevMonth, prevYear int
	}{
		{"ElulToTishrei", hebdate.Elul, 5785, hebdate.Tishrei, 5786, hebdate.Av, 5785},
		{"TishreiBack", hebdate.Tishrei, 5786, hebdate.Cheshvan, 5786, hebdate.Elul, 5785},
		{"AdarCommon", hebdate.Adar, 5786, hebdate.Nisan, 5786, hebdate.Shvat, 5786},
		{"AdarLeap", hebdate.Adar, 5784, hebdate.AdarII, 5784, hebdate.Shvat, 5784},
		{"AdarII", hebdate.AdarII, 5784, hebdate.Nisan, 5784, hebdate.Adar, 5784},
		{"NisanCommon", hebdate.Nisan, 5786, hebdate.Iyyar, 5786, hebdate.Adar, 5786},
		{"NisanLeap", hebdate.Nisan, 5784, hebdate.Iyyar, 5784, hebdate.AdarII, 5784},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, y := calendar.NextMonth(tt.month, tt.year)
			assert.Equal(t, []int{tt.nextMonth, tt.nextYear}, []int{m, y})
			m, y = calendar.PrevMonth(tt.month, tt.year)
			assert.Equal(t, []int{tt.prevMonth, tt.prevYear}, []int{m, y})
		})
	}
}

func TestNavigation_FullYearCycle(t *testing.T) {
	for _, year := range []int{5784, 5786} {
		m, y := hebdate.Tishrei, year
		steps := 0
		for {
			m, y = calendar.NextMonth(m, y)
			steps++
			if m == hebdate.Tishrei {
				break
			}
		}
		assert.Equal(t, hebdate.MonthsInYear(year), steps)
		assert.Equal(t, year+1, y)
	}
}

func TestNewHebrewYear(t *testing.T) {
	y, err := calendar.NewHebrewYear(5786)
	require.NoError(t, err)
	assert.Equal(t, "5786", y.ID)
	assert.Equal(t, "תשפ״ו", y.Label)
	assert.Equal(t, day(2025, time.September, 23), y.Start)
	assert.Equal(t, day(2026, time.September, 11), y.End)
}

func TestYearBook(t *testing.T) {
	clock := hebdate.FixedClock(time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC))
	book, err := calendar.NewYearBook(tishrei5786(), clock, false)
	require.NoError(t, err)

	assert.Equal(t, 5786, book.Current().Year)

	next, err := book.Create("")
	require.NoError(t, err)
	assert.Equal(t, 5787, next.Year)
	assert.Equal(t, "תשפ״ז", next.Label)

	named, err := book.Create("שנה הבאה")
	require.NoError(t, err)
	assert.Equal(t, 5788, named.Year)
	assert.Equal(t, "שנה הבאה", named.Label)

	_, err = book.Add(5786)
	assert.ErrorIs(t, err, calendar.ErrYearExists)

	sel, err := book.Select("5787")
	require.NoError(t, err)
	assert.Equal(t, sel, book.Current())

	_, err = book.Select("1")
	assert.ErrorIs(t, err, calendar.ErrUnknownYear)
	assert.Len(t, book.Years(), 3)
}

func TestYearBook_Events(t *testing.T) {
	ctx := context.Background()
	clock := hebdate.FixedClock(time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC))
	book, err := calendar.NewYearBook(tishrei5786(), clock, false)
	require.NoError(t, err)

	evs, err := book.EventsForYear(ctx, book.Current())
	require.NoError(t, err)
	require.Len(t, evs, 6)
	for i := 1; i < len(evs); i++ {
		assert.False(t, evs[i].GregorianDate.Before(evs[i-1].GregorianDate))
	}

	var portion calendar.HebrewEvent
	for _, e := range evs {
		if e.Type == calendar.KindParasha && e.ParashaName == "Ha'azinu" {
			portion = e
		}
	}
	assert.Equal(t, "פרשת האזינו", portion.Title)
	assert.Equal(t, "י״ב תשרי תשפ״ו", portion.HebrewDate)

	period, err := book.CurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Len(t, period, 6, "all fixture events fall inside the -7/+56 day window")
}

func TestYearBook_LookupFailure(t *testing.T) {
	clock := hebdate.FixedClock(time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC))
	book, err := calendar.NewYearBook(&FakeSource{Err: errors.New("boom")}, clock, false)
	require.NoError(t, err)

	_, err = book.CurrentPeriod(context.Background())
	assert.ErrorIs(t, err, calendar.ErrLookupFailed)
	assert.ErrorIs(t, err, parasha.ErrLookupFailed)
}

// TestHebcalSource_Shabbat exercises the real engine on a known Shabbat.
func TestHebcalSource_Shabbat(t *testing.T) {
	ctx := context.Background()
	r := parasha.NewResolver(calendar.HebcalSource{}, false)

	got, err := r.ForShabbat(ctx, day(2025, time.October, 4))
	require.NoError(t, err)
	assert.NotEmpty(t, got.Name)
	assert.True(t, parasha.IsKnown(got.Name), "engine name %q must be in the table", got.Name)
	assert.Equal(t, day(2025, time.October, 4), got.Date)
	assert.NotEqual(t, got.Name, got.Hebrew())
}

func TestHebcalSource_Holidays(t *testing.T) {
	evs, err := calendar.HebcalSource{}.Events(context.Background(), calendar.Query{
		Start: day(2025, time.September, 22),
		End:   day(2025, time.October, 3),
		IL:    true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, evs)

	kinds := map[calendar.Kind]bool{}
	for _, e := range evs {
		kinds[e.Kind] = true
		assert.NotContains(t, e.Title, "Candle lighting")
		assert.NotContains(t, e.HebrewTitle, "ָ", "niqqud is stripped")
	}
	assert.True(t, kinds[calendar.KindHoliday])
	assert.True(t, kinds[calendar.KindFast], "Tzom Gedaliah falls in range")
	assert.True(t, kinds[calendar.KindOther], "Shabbat Shuva is a special Shabbat")
}

func TestHebcalSource_RoshChodeshIsOther(t *testing.T) {
	evs, err := calendar.HebcalSource{}.Events(context.Background(), calendar.Query{
		Start: day(2025, time.October, 22),
		End:   day(2025, time.October, 23),
		IL:    true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, evs)

	for _, e := range evs {
		assert.Contains(t, e.Title, "Rosh Chodesh")
		assert.Equal(t, calendar.KindOther, e.Kind)
		assert.NotEmpty(t, e.HebrewTitle)
	}
}
