package parasha

// ToHebrew translates an English portion name. Unknown names pass through.
func ToHebrew(english string) string {
	if he, ok := toHebrew[english]; ok {
		return he
	}
	return english
}

// ToEnglish translates a Hebrew portion name. Unknown names pass through.
func ToEnglish(hebrew string) string {
	if en, ok := toEnglish[hebrew]; ok {
		return en
	}
	return hebrew
}

// IsKnown reports whether name is a portion in either language.
func IsKnown(name string) bool {
	_, en := toHebrew[name]
	_, he := toEnglish[name]
	return en || he
}

// All returns the 54 portions followed by the combined pairs.
func All() []Portion {
	out := make([]Portion, len(all))
	copy(out, all)
	return out
}

// Option pairs an English value with its Hebrew label for pickers.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options returns every portion as a picker option.
func Options() []Option {
	out := make([]Option, len(all))
	for i, p := range all {
		out[i] = Option{Value: p.English, Label: p.Hebrew}
	}
	return out
}
