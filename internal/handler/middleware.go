package handler

import (
	"net/http"
	"strings"

	"github.com/Objecteee/ticket-on-line/internal/auth"
	"github.com/Objecteee/ticket-on-line/internal/model"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenParser 驗證 bearer token 並取出使用者身分
type TokenParser interface {
	Parse(raw string) (model.Principal, error)
}

var _ TokenParser = (*auth.TokenManager)(nil)

func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			respondMessage(c, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		principal, err := tokens.Parse(raw)
		if err != nil {
			respondError(c, err, "Authenticate")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := currentPrincipal(c)
		if !ok {
			respondMessage(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if principal.Role != role {
			respondMessage(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (model.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := v.(model.Principal)
	return principal, ok
}
