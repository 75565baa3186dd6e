package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskflow/internal/core/domain"
	"taskflow/pkg/apierrors"
)

const principalKey = "principal"

type TokenParser interface {
	ParseToken(token string) (domain.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token. GET requests may
// pass the token as ?access_token= since EventSource cannot set headers.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, apierrors.MsgMissingToken)
			return
		}

		principal, err := parser.ParseToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, apierrors.MsgInvalidCredentials)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}

// MustPrincipal is for handlers mounted behind RequireAuth.
func MustPrincipal(c *gin.Context) domain.Principal {
	principal, _ := GetPrincipal(c)
	return principal
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if c.Request.Method == http.MethodGet {
		return c.Query("access_token")
	}
	return ""
}

func abort(c *gin.Context, code int, msgKey string) {
	c.AbortWithStatusJSON(code, apierrors.CreateError(code, msgKey, GetLang(c)))
}
