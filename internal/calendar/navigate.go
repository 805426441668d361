package calendar

import "github.com/tartampluch/go-gabbai/internal/hebdate"

// NextMonth returns the month after (month, year). The year number changes
// when Elul rolls into Tishrei; Adar II is visited only in leap years.
func NextMonth(month, year int) (int, int) {
	switch month {
	case hebdate.Elul:
		return hebdate.Tishrei, year + 1
	case hebdate.Adar:
		if hebdate.IsLeapYear(year) {
			return hebdate.AdarII, year
		}
		return hebdate.Nisan, year
	case hebdate.AdarII:
		return hebdate.Nisan, year
	default:
		return month + 1, year
	}
}

// PrevMonth returns the month before (month, year).
func PrevMonth(month, year int) (int, int) {
	switch month {
	case hebdate.Tishrei:
		return hebdate.Elul, year - 1
	case hebdate.Nisan:
		if hebdate.IsLeapYear(year) {
			return hebdate.AdarII, year
		}
		return hebdate.Adar, year
	default:
		return month - 1, year
	}
}
