package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

// loadBundle parses every embedded locale file once. English is the fallback.
func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			bundleErr = fmt.Errorf("read locales dir: %w", err)
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile("locales/" + e.Name())
			if err != nil {
				bundleErr = fmt.Errorf("read locale file %s: %w", e.Name(), err)
				return
			}
			if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
				bundleErr = fmt.Errorf("parse locale file %s: %w", e.Name(), err)
				return
			}
			slog.Debug("loaded locale file", "file", e.Name())
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Localizer renders messages in one language, falling back to English.
type Localizer struct {
	lang string
	loc  *i18n.Localizer
}

// New creates a Localizer for the given language tag.
func New(lang string) (*Localizer, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}
	supported := false
	for _, t := range b.LanguageTags() {
		base, _ := t.Base()
		want, _ := tag.Base()
		if base == want {
			supported = true
			break
		}
	}
	if !supported {
		slog.Warn("unsupported language, using English", "lang", lang)
	}
	return &Localizer{lang: tag.String(), loc: i18n.NewLocalizer(b, tag.String(), "en")}, nil
}

// Lang returns the requested language tag.
func (l *Localizer) Lang() string { return l.lang }

// T translates a message by ID.
func (l *Localizer) T(msgID string) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func (l *Localizer) Td(msgID string, data map[string]any) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID.
func (l *Localizer) Tp(msgID string, count int) string {
	return l.localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

func (l *Localizer) localize(cfg *i18n.LocalizeConfig) string {
	s, err := l.loc.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "lang", l.lang, "error", err)
		return cfg.MessageID
	}
	return s
}
