package apierrors_test

import (
	"os"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"taskflow/pkg/apierrors"
	"taskflow/pkg/translator"
)

func TestMain(m *testing.M) {
	// Initialize minimal translator for tests
	translator.Translator = i18n.NewBundle(language.English)
	err := translator.Translator.AddMessages(language.English,
		&i18n.Message{ID: "test_key", Other: "Test message"},
		&i18n.Message{ID: "too_soon", Other: "At least {{.MinLead}} ahead"},
	)
	if err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestCreateError_ReturnsJsonErr(t *testing.T) {
	err := apierrors.CreateError(400, "test_key", "en")
	assert.Equal(t, 400, err.ErrDetails.Code)
	assert.Equal(t, "Test message", err.ErrDetails.Message)
	assert.Empty(t, err.ErrDetails.Field)
}

func TestCreateFieldError_RendersTemplate(t *testing.T) {
	err := apierrors.CreateFieldError(400, "sla_deadline", "too_soon", "en", map[string]interface{}{"MinLead": "24h"})
	assert.Equal(t, "sla_deadline", err.ErrDetails.Field)
	assert.Equal(t, "At least 24h ahead", err.ErrDetails.Message)
	assert.Equal(t, "Code: 400, Message: At least 24h ahead, Field: sla_deadline", err.Error())
}

func TestGetTransErrorMsg_ReturnsTranslation(t *testing.T) {
	msg := apierrors.GetTransErrorMsg("test_key", "en")
	assert.Equal(t, "Test message", msg)
}

func TestGetTransErrorMsg_FallsBackToEnglish(t *testing.T) {
	msg := apierrors.GetTransErrorMsg("test_key", "tr")
	assert.Equal(t, "Test message", msg)
}

func TestGetTransErrorMsg_FallbackToKey(t *testing.T) {
	msg := apierrors.GetTransErrorMsg("unknown_key", "en")
	assert.Equal(t, "unknown_key", msg)
}

func TestJsonErr_ErrorMethod(t *testing.T) {
	err := apierrors.CreateError(500, "test_key", "en")
	assert.Equal(t, "Code: 500, Message: Test message", err.Error())
}
