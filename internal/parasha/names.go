// Package parasha holds the weekly Torah portion names, translates them
// between English and Hebrew, and resolves which portion is read on a date.
package parasha

// Portion is a weekly reading or a combined pair of readings.
type Portion struct {
	English  string `json:"english"`
	Hebrew   string `json:"hebrew"`
	Combined bool   `json:"combined"`
}

// English names follow the calendar engine's spelling.
var portions = []Portion{
	{English: "Bereshit", Hebrew: "בראשית"},
	{English: "Noach", Hebrew: "נח"},
	{English: "Lech-Lecha", Hebrew: "לך לך"},
	{English: "Vayera", Hebrew: "וירא"},
	{English: "Chayei Sara", Hebrew: "חיי שרה"},
	{English: "Toldot", Hebrew: "תולדות"},
	{English: "Vayetzei", Hebrew: "ויצא"},
	{English: "Vayishlach", Hebrew: "וישלח"},
	{English: "Vayeshev", Hebrew: "וישב"},
	{English: "Miketz", Hebrew: "מקץ"},
	{English: "Vayigash", Hebrew: "ויגש"},
	{English: "Vayechi", Hebrew: "ויחי"},
	{English: "Shemot", Hebrew: "שמות"},
	{English: "Vaera", Hebrew: "וארא"},
	{English: "Bo", Hebrew: "בא"},
	{English: "Beshalach", Hebrew: "בשלח"},
	{English: "Yitro", Hebrew: "יתרו"},
	{English: "Mishpatim", Hebrew: "משפטים"},
	{English: "Terumah", Hebrew: "תרומה"},
	{English: "Tetzaveh", Hebrew: "תצוה"},
	{English: "Ki Tisa", Hebrew: "כי תשא"},
	{English: "Vayakhel", Hebrew: "ויקהל"},
	{English: "Pekudei", Hebrew: "פקודי"},
	{English: "Vayikra", Hebrew: "ויקרא"},
	{English: "Tzav", Hebrew: "צו"},
	{English: "Shmini", Hebrew: "שמיני"},
	{English: "Tazria", Hebrew: "תזריע"},
	{English: "Metzora", Hebrew: "מצורע"},
	{English: "Achrei Mot", Hebrew: "אחרי מות"},
	{English: "Kedoshim", Hebrew: "קדושים"},
	{English: "Emor", Hebrew: "אמור"},
	{English: "Behar", Hebrew: "בהר"},
	{English: "Bechukotai", Hebrew: "בחקתי"},
	{English: "Bamidbar", Hebrew: "במדבר"},
	{English: "Nasso", Hebrew: "נשא"},
	{English: "Beha'alotcha", Hebrew: "בהעלתך"},
	{English: "Sh'lach", Hebrew: "שלח לך"},
	{English: "Korach", Hebrew: "קרח"},
	{English: "Chukat", Hebrew: "חקת"},
	{English: "Balak", Hebrew: "בלק"},
	{English: "Pinchas", Hebrew: "פינחס"},
	{English: "Matot", Hebrew: "מטות"},
	{English: "Masei", Hebrew: "מסעי"},
	{English: "Devarim", Hebrew: "דברים"},
	{English: "Vaetchanan", Hebrew: "ואתחנן"},
	{English: "Eikev", Hebrew: "עקב"},
	{English: "Re'eh", Hebrew: "ראה"},
	{English: "Shoftim", Hebrew: "שפטים"},
	{English: "Ki Teitzei", Hebrew: "כי תצא"},
	{English: "Ki Tavo", Hebrew: "כי תבוא"},
	{English: "Nitzavim", Hebrew: "נצבים"},
	{English: "Vayeilech", Hebrew: "וילך"},
	{English: "Ha'azinu", Hebrew: "האזינו"},
	{English: "Vezot Haberakhah", Hebrew: "וזאת הברכה"},
}

// pairs lists the portions that some years read together.
var pairs = [][2]string{
	{"Vayakhel", "Pekudei"},
	{"Tazria", "Metzora"},
	{"Achrei Mot", "Kedoshim"},
	{"Behar", "Bechukotai"},
	{"Chukat", "Balak"},
	{"Matot", "Masei"},
	{"Nitzavim", "Vayeilech"},
}

// aliases are alternate English spellings accepted on input only.
var aliases = map[string]string{
	"Bereishit":        "בראשית",
	"Lech Lecha":       "לך לך",
	"Chayei Sarah":     "חיי שרה",
	"Shemini":          "שמיני",
	"Acharei Mot":      "אחרי מות",
	"Haazinu":          "האזינו",
	"Ha'Azinu":         "האזינו",
	"Vezot Habracha":   "וזאת הברכה",
	"V'Zot HaBerachah": "וזאת הברכה",
}

var (
	all       []Portion
	toHebrew  map[string]string
	toEnglish map[string]string
)

func init() {
	toHebrew = make(map[string]string, len(portions)+len(pairs)+len(aliases))
	toEnglish = make(map[string]string, len(portions)+len(pairs))

	all = make([]Portion, 0, len(portions)+len(pairs))
	all = append(all, portions...)
	for _, p := range portions {
		toHebrew[p.English] = p.Hebrew
		toEnglish[p.Hebrew] = p.English
	}

	for _, pr := range pairs {
		p := Portion{
			English:  pr[0] + pairSeparator + pr[1],
			Hebrew:   toHebrew[pr[0]] + pairSeparator + toHebrew[pr[1]],
			Combined: true,
		}
		all = append(all, p)
		toHebrew[p.English] = p.Hebrew
		toEnglish[p.Hebrew] = p.English
	}

	for en, he := range aliases {
		toHebrew[en] = he
	}
	aliasPairs()
}

// aliasPairs accepts combined names spelled with aliases, e.g. "Acharei Mot-Kedoshim".
func aliasPairs() {
	for _, pr := range pairs {
		for alias, he := range aliases {
			if toHebrew[pr[0]] == he {
				toHebrew[alias+pairSeparator+pr[1]] = toHebrew[pr[0]+pairSeparator+pr[1]]
			}
		}
	}
}

const pairSeparator = "-"
