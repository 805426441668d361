package hebdate

import (
	"strconv"
	"strings"
)

const (
	Geresh    = "׳" // U+05F3, follows a single letter
	Gershayim = "״" // U+05F4, precedes the last letter
)

var (
	onesLetters     = []string{"", "א", "ב", "ג", "ד", "ה", "ו", "ז", "ח", "ט"}
	tensLetters     = []string{"", "י", "כ", "ל", "מ", "נ", "ס", "ע", "פ", "צ"}
	hundredsLetters = []string{"", "ק", "ר", "ש", "ת", "תק", "תר", "תש", "תת", "תתק"}
)

// ToGematria renders n in Hebrew numerals with geresh/gershayim punctuation.
// 15 and 16 are written ט״ו and ט״ז. Values outside 1..999 are returned as
// decimal digits.
func ToGematria(n int) string {
	if n <= 0 || n > 999 {
		return strconv.Itoa(n)
	}

	var b strings.Builder
	b.WriteString(hundredsLetters[n/100])

	switch rest := n % 100; rest {
	case 15:
		b.WriteString("טו")
	case 16:
		b.WriteString("טז")
	default:
		b.WriteString(tensLetters[rest/10])
		b.WriteString(onesLetters[rest%10])
	}

	return punctuate(b.String())
}

// YearToGematria drops the thousands before rendering (5786 -> תשפ״ו).
func YearToGematria(year int) string {
	if year <= 0 {
		return strconv.Itoa(year)
	}
	return ToGematria(year % 1000)
}

// DayToGematria renders a day of the month.
func DayToGematria(day int) string {
	return ToGematria(day)
}

// FromGematria sums the letter values of s, ignoring punctuation and
// anything that is not a Hebrew numeral letter.
func FromGematria(s string) int {
	total := 0
	for _, r := range s {
		total += letterValue[r]
	}
	return total
}

var letterValue = func() map[rune]int {
	m := make(map[rune]int, 27)
	for i, l := range onesLetters[1:] {
		m[[]rune(l)[0]] = i + 1
	}
	for i, l := range tensLetters[1:] {
		m[[]rune(l)[0]] = (i + 1) * 10
	}
	for i, l := range hundredsLetters[1:5] {
		m[[]rune(l)[0]] = (i + 1) * 100
	}
	return m
}()

func punctuate(letters string) string {
	runes := []rune(letters)
	switch len(runes) {
	case 0:
		return ""
	case 1:
		return letters + Geresh
	default:
		last := len(runes) - 1
		return string(runes[:last]) + Gershayim + string(runes[last])
	}
}
