package hebdate

import "github.com/tartampluch/go-gabbai/internal/config"

// Option is a value with its gematria label, used by pickers.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// YearsList returns count consecutive years starting at start.
// Non-positive arguments fall back to the default picker range.
func YearsList(start, count int) []Option {
	if start <= 0 {
		start = config.DefaultYearsListStart
	}
	if count <= 0 {
		count = config.DefaultYearsListCount
	}
	out := make([]Option, count)
	for i := range out {
		y := start + i
		out[i] = Option{Value: y, Label: YearToGematria(y)}
	}
	return out
}

// DaysList returns the days of a month with their gematria labels.
func DaysList(month, year int) ([]Option, error) {
	n, err := DaysInMonth(month, year)
	if err != nil {
		return nil, err
	}
	out := make([]Option, n)
	for i := range out {
		out[i] = Option{Value: i + 1, Label: DayToGematria(i + 1)}
	}
	return out, nil
}
