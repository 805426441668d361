// Package i18n translates user-facing strings from the embedded locale files
// and words calendar events for the feeds.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-gabbai/internal/calendar"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/congregation"
	"github.com/tartampluch/go-gabbai/internal/parasha"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// Translator holds the loaded bundle.
type Translator struct {
	bundle    *goi18n.Bundle
	languages []string
}

// New loads every embedded locale file. Malformed file names are skipped.
func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.Hebrew)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	t := &Translator{bundle: bundle}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip, config.LogKeyComponent, config.CompI18n, config.LogKeyFile, name)
			continue
		}
		lang := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if lang == "" {
			slog.Warn(config.MsgLocaleBadName, config.LogKeyComponent, config.CompI18n, config.LogKeyFile, name)
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		t.languages = append(t.languages, lang)
		slog.Debug(config.MsgLocaleLoaded, config.LogKeyComponent, config.CompI18n, config.LogKeyLang, lang)
	}
	slices.Sort(t.languages)
	return t, nil
}

// Languages lists the loaded language codes.
func (t *Translator) Languages() []string {
	return slices.Clone(t.languages)
}

// Localizer returns a translator for lang, falling back to the default language.
func (t *Translator) Localizer(lang string) *Localizer {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	return &Localizer{
		lang: lang,
		loc:  goi18n.NewLocalizer(t.bundle, lang, config.DefaultLanguage),
	}
}

// FormatSummary words a feed event in lang.
func (t *Translator) FormatSummary(ev calendar.Event, lang string) string {
	return t.Localizer(lang).Summary(ev)
}

// FormatCalName words a feed's calendar name in lang.
func (t *Translator) FormatCalName(name, lang string) string {
	return t.Localizer(lang).Tmpl(config.TKeyCalName, map[string]any{"Synagogue": name})
}

// Localizer translates into one language. A nil Localizer returns keys.
type Localizer struct {
	lang string
	loc  *goi18n.Localizer
}

// Lang is the requested language code.
func (l *Localizer) Lang() string {
	if l == nil {
		return config.DefaultLanguage
	}
	return l.lang
}

// Msg translates key, or returns key when it is missing.
func (l *Localizer) Msg(key string) string {
	return l.localize(&goi18n.LocalizeConfig{MessageID: key})
}

// Tmpl translates key with template data.
func (l *Localizer) Tmpl(key string, data map[string]any) string {
	return l.localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Plural translates key for count, exposed to the template as .Count.
func (l *Localizer) Plural(key string, count int) string {
	return l.localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
}

func (l *Localizer) localize(cfg *goi18n.LocalizeConfig) string {
	if l == nil || l.loc == nil {
		return cfg.MessageID
	}
	msg, err := l.loc.Localize(cfg)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, cfg.MessageID,
			config.LogKeyError, err,
		)
		return cfg.MessageID
	}
	return msg
}

// Summary words a calendar event. Hebrew uses the Hebrew portion and holiday names.
func (l *Localizer) Summary(ev calendar.Event) string {
	hebrew := l.Lang() != "en"
	name := ev.Title
	key := config.TKeyEvtHoliday
	switch ev.Kind {
	case calendar.KindParasha:
		key = config.TKeyEvtParasha
		if hebrew {
			name = strings.TrimPrefix(parasha.Display(ev.Title, false), config.ParashaPrefixHe)
		}
	case calendar.KindFast:
		key = config.TKeyEvtFast
		fallthrough
	default:
		if hebrew && ev.HebrewTitle != "" {
			name = ev.HebrewTitle
		}
	}
	return l.Tmpl(key, map[string]any{"Name": name})
}

// ChargeKind names a charge kind.
func (l *Localizer) ChargeKind(k congregation.ChargeKind) string {
	switch k {
	case congregation.KindAliyah:
		return l.Msg(config.TKeyChargeAliyah)
	case congregation.KindPledge:
		return l.Msg(config.TKeyChargePledge)
	case congregation.KindPurchase:
		return l.Msg(config.TKeyChargePurchase)
	default:
		return string(k)
	}
}

// Method names a payment method.
func (l *Localizer) Method(m congregation.Method) string {
	switch m {
	case congregation.MethodCash:
		return l.Msg(config.TKeyMethodCash)
	case congregation.MethodCheck:
		return l.Msg(config.TKeyMethodCheck)
	case congregation.MethodTransfer:
		return l.Msg(config.TKeyMethodTransfer)
	case congregation.MethodCard:
		return l.Msg(config.TKeyMethodCard)
	case congregation.MethodStandingOrder:
		return l.Msg(config.TKeyMethodStanding)
	default:
		return string(m)
	}
}

// Imported words the result of a directory import.
func (l *Localizer) Imported(count int) string {
	if count == 0 {
		return l.Msg(config.TKeyDirectoryNoCards)
	}
	return l.Plural(config.TKeyDirectorySynced, count)
}
