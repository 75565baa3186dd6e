package translator

import (
	"fmt"
	"os"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

var matcher = language.NewMatcher([]language.Tag{language.English})

var supported = []string{LanguageEn}

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string // first entry is the fallback
}

const (
	LanguageEn = "en"
	LanguageFr = "fr"
	LanguageTr = "tr"
)

func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	setSupported(cfg.SupportedLanguages)

	var err error

	// List files in the translation folder
	lstFiles, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, f := range lstFiles {
		if f.IsDir() {
			continue
		}
		filepath := fmt.Sprintf("%s/%s", cfg.TranslationFolder, f.Name())

		_, err := Translator.LoadMessageFile(filepath)
		if err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}

func setSupported(languages []string) {
	tags := make([]language.Tag, 0, len(languages))
	names := make([]string, 0, len(languages))
	for _, lang := range languages {
		tag, err := language.Parse(lang)
		if err != nil {
			zap.L().Warn("ignoring unsupported language", zap.String("lang", lang), zap.Error(err))
			continue
		}
		tags = append(tags, tag)
		names = append(names, lang)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
		names = []string{LanguageEn}
	}
	matcher = language.NewMatcher(tags)
	supported = names
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

// Localize resolves messageID in lang, falling back to English and then to
// the id itself.
func Localize(lang, messageID string, data map[string]interface{}) string {
	if Translator == nil {
		return messageID
	}
	l := i18n.NewLocalizer(Translator, lang, LanguageEn)
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: messageID, TemplateData: data})
	// A message found only in the fallback language comes back with a
	// MessageNotFoundErr for lang.
	if msg != "" {
		return msg
	}
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", messageID), zap.Error(err))
		return messageID
	}
	return msg
}
