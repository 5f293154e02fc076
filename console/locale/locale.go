// Package locale localizes shell-facing messages.
package locale

import (
	"embed"
	"io/fs"
	"os"
	"strings"

	"github.com/relayforge/gateway-console/logger"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

var (
	i18nBundle *i18n.Bundle
	localizer  *i18n.Localizer
)

// InitLocalizer loads the embedded translation files and selects the
// language from GWC_LANG, defaulting to en-US.
func InitLocalizer(i18nFS embed.FS) error {
	i18nBundle = i18n.NewBundle(language.MustParse("en-US"))
	i18nBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(i18nFS); err != nil {
		return err
	}

	lang := os.Getenv("GWC_LANG")
	if lang == "" {
		lang = "en-US"
	}
	localizer = i18n.NewLocalizer(i18nBundle, lang)
	return nil
}

func parseTranslationFiles(i18nFS embed.FS) error {
	return fs.WalkDir(i18nFS, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := i18nFS.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = i18nBundle.ParseMessageFileBytes(data, path)
		return err
	})
}

func createTemplateData(params []string) map[string]any {
	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, "==", 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

// I18n localizes the message identified by key. Params are "name==value"
// pairs substituted into the message template.
func I18n(key string, params ...string) string {
	if localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Debugf("failed to localize %s: %v", key, err)
		return key
	}
	return msg
}
