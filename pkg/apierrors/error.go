package apierrors

import (
	"fmt"

	"taskflow/pkg/translator"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code and message. Field names the offending
// input when the error comes from validation.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	if e.ErrDetails.Field != "" {
		return fmt.Sprintf("Code: %d, Message: %s, Field: %s", e.ErrDetails.Code, e.ErrDetails.Message, e.ErrDetails.Field)
	}
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{Code: code, Message: message}}
}

// CreateFieldError is CreateError for a single rejected field. data feeds
// the message template.
func CreateFieldError(code int, field string, msgKey string, lang string, data map[string]interface{}) JsonErr {
	message := translator.Localize(lang, msgKey, data)
	return JsonErr{ErrDetails: Err{Code: code, Message: message, Field: field}}
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string) string {
	return translator.Localize(lang, msgKey, nil)
}
