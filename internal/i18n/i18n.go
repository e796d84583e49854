// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides localization for Quill's user-facing strings. It
// uses the go-i18n library with YAML message files embedded into the
// binary, so the CLI speaks the language configured in quill.yaml.
package i18n // import "github.com/scriptorium/quill/internal/i18n"

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
)

// Init loads all embedded locale files and activates the given language.
func Init(code string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		_, _ = bundle.ParseMessageFileBytes(data, f.Name())
	}

	lang = code
	localizer = i18n.NewLocalizer(bundle, code)
}

// SetLang changes the active language of the localizer.
func SetLang(code string) {
	Init(code)
}

// GetLang returns the currently active language code.
func GetLang() string {
	return lang
}

// GetAvailableLocales returns the language codes of all embedded locales.
func GetAvailableLocales() []string {
	files, _ := fs.ReadDir(localeFS, "locales")
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		out = append(out, strings.TrimSuffix(f.Name(), ".yaml"))
	}
	return out
}

// T translates a message by its ID. Extra arguments are applied fmt-style
// to the localized template. Unknown IDs fall back to the ID itself, which
// keeps missing translations visible instead of fatal.
func T(messageID string, args ...interface{}) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		msg = messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
