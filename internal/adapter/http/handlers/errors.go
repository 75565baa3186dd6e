package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/domain"
	"taskflow/pkg/apierrors"
)

// respondError maps a domain error to its status code and translated body.
// data feeds message templates of validation reasons.
func respondError(c *gin.Context, err error, op string, data map[string]interface{}) {
	lang := middleware.GetLang(c)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, apierrors.CreateFieldError(http.StatusBadRequest, verr.Field, verr.Reason, lang, data))
		return
	}

	code, msgKey := classify(err)
	switch {
	case code >= http.StatusInternalServerError:
		zap.L().Error(op, zap.Error(err))
	case code == http.StatusConflict:
		zap.L().Info(op, zap.Error(err))
	}
	c.JSON(code, apierrors.CreateError(code, msgKey, lang))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, apierrors.MsgValidationFailed
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, apierrors.MsgInvalidCredentials
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, apierrors.MsgForbidden
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, apierrors.MsgTaskNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, apierrors.MsgUserNotFound
	case errors.Is(err, domain.ErrReportNotFound):
		return http.StatusNotFound, apierrors.MsgReportNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, apierrors.MsgInvalidTransition
	case errors.Is(err, domain.ErrTaskNotCompleted):
		return http.StatusConflict, apierrors.MsgTaskNotCompleted
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, apierrors.MsgEmailTaken
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, apierrors.MsgStoreUnavailable
	default:
		return http.StatusInternalServerError, apierrors.MsgInternalError
	}
}

func badRequest(c *gin.Context, msgKey string) {
	c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, msgKey, middleware.GetLang(c)))
}
