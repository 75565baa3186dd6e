package tests

import (
	"os"
	"testing"

	"taskflow/pkg/translator"

	"github.com/gin-gonic/gin"
)

const translationFolder = "../../../../../pkg/translator/translation"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  translationFolder,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr, translator.LanguageTr},
	})
	os.Exit(m.Run())
}
