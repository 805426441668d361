package parasha

import (
	"strings"

	"github.com/tartampluch/go-gabbai/internal/config"
)

// Labels containing one of these are shown exactly as given.
var passthroughMarkers = []string{"שבת", "חול המועד", "End-of-Year", "Simchat-Torah"}

// Display renders a portion name for people: any "Parashat "/"פרשת " prefix
// is stripped, the name (or each half of a pair) is translated to Hebrew and
// the Hebrew prefix is added back. With withEnglish the English name follows
// in parentheses when it differs.
func Display(name string, withEnglish bool) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	for _, m := range passthroughMarkers {
		if strings.Contains(name, m) {
			return name
		}
	}

	clean := Strip(name)
	hebrew := translateClean(clean)
	out := config.ParashaPrefixHe + hebrew

	if withEnglish {
		english := clean
		if _, isHebrew := toEnglish[clean]; isHebrew {
			english = toEnglish[clean]
		}
		if english != hebrew {
			out += " (" + english + ")"
		}
	}
	return out
}

// Strip removes a leading English or Hebrew "portion of" prefix.
func Strip(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, config.ParashaPrefixEn)
	name = strings.TrimPrefix(name, config.ParashaPrefixHe)
	return strings.TrimSpace(name)
}

// translateClean prefers an exact match so hyphenated single portions like
// "Lech-Lecha" are not split.
func translateClean(clean string) string {
	if he, ok := toHebrew[clean]; ok {
		return he
	}
	if _, ok := toEnglish[clean]; ok {
		return clean
	}
	if !strings.Contains(clean, pairSeparator) {
		return clean
	}
	parts := strings.Split(clean, pairSeparator)
	for i, p := range parts {
		parts[i] = ToHebrew(strings.TrimSpace(p))
	}
	return strings.Join(parts, pairSeparator)
}
