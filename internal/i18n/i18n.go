// Package i18n selects a report language from layered request signals
// and serves the localized labels used by the document renderer and
// notification mails.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message IDs against the loaded locale bundles.
type Translator struct {
	bundle *goi18n.Bundle
}

// NewTranslator loads the embedded locale bundles and, when localeDir
// is set, overlays message files found there so deployments can adjust
// wording without a rebuild.
func NewTranslator(localeDir string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded locales: %w", err)
	}
	for _, entry := range entries {
		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded locale %s: %w", entry.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, entry.Name()); err != nil {
			return nil, fmt.Errorf("failed to parse embedded locale %s: %w", entry.Name(), err)
		}
	}

	if localeDir != "" {
		files, err := filepath.Glob(filepath.Join(localeDir, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to scan locale dir: %w", err)
		}
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read locale file %s: %w", file, err)
			}
			if _, err := bundle.ParseMessageFileBytes(data, filepath.Base(file)); err != nil {
				return nil, fmt.Errorf("failed to parse locale file %s: %w", file, err)
			}
		}
	}

	return &Translator{bundle: bundle}, nil
}

// T returns the message for id in the given language, falling back to
// English when the language has no translation.
func (t *Translator) T(lang, id string) string {
	return t.TData(lang, id, nil)
}

// TData is T with template data.
func (t *Translator) TData(lang, id string, data map[string]interface{}) string {
	loc := goi18n.NewLocalizer(t.bundle, lang, Fallback)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil && msg == "" {
		return id
	}
	return msg
}
