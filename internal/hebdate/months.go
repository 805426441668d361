package hebdate

// MonthInfo describes a month for pickers and listings.
type MonthInfo struct {
	Value   int    `json:"value"`
	Label   string `json:"label"`
	English string `json:"english"`
}

var monthNames = map[int][2]string{
	Nisan:    {"ניסן", "Nisan"},
	Iyyar:    {"אייר", "Iyyar"},
	Sivan:    {"סיון", "Sivan"},
	Tamuz:    {"תמוז", "Tamuz"},
	Av:       {"אב", "Av"},
	Elul:     {"אלול", "Elul"},
	Tishrei:  {"תשרי", "Tishrei"},
	Cheshvan: {"חשוון", "Cheshvan"},
	Kislev:   {"כסלו", "Kislev"},
	Tevet:    {"טבת", "Tevet"},
	Shvat:    {"שבט", "Shvat"},
	Adar:     {"אדר", "Adar"},
	AdarII:   {"אדר ב׳", "Adar II"},
}

const (
	adarIHebrew  = "אדר א׳"
	adarIEnglish = "Adar I"
)

// MonthName returns the Hebrew month name. In leap years month 12 is Adar I.
// Unknown months yield "".
func MonthName(month, year int) string {
	if month == Adar && IsLeapYear(year) {
		return adarIHebrew
	}
	return monthNames[month][0]
}

// EnglishMonthName returns the transliterated month name.
func EnglishMonthName(month, year int) string {
	if month == Adar && IsLeapYear(year) {
		return adarIEnglish
	}
	return monthNames[month][1]
}

// Months lists the months of a year in civil order, Tishrei through Elul.
func Months(year int) []MonthInfo {
	order := []int{Tishrei, Cheshvan, Kislev, Tevet, Shvat, Adar}
	if IsLeapYear(year) {
		order = append(order, AdarII)
	}
	order = append(order, Nisan, Iyyar, Sivan, Tamuz, Av, Elul)

	out := make([]MonthInfo, 0, len(order))
	for _, m := range order {
		out = append(out, MonthInfo{
			Value:   m,
			Label:   MonthName(m, year),
			English: EnglishMonthName(m, year),
		})
	}
	return out
}
