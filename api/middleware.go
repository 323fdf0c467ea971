package api

import (
	"net/http"
	"strings"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticate resolves the bearer token into a principal. Requests
// without a token proceed anonymously; a bad token is rejected here.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		claims, err := tokens.ParseAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}
		c.Set(principalKey, auth.Principal{
			UserID:        claims.UserID,
			Username:      claims.Username,
			UserType:      claims.UserType,
			Authenticated: true,
		})
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) auth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Principal{}
}

// RequireAuth guards endpoints that need an authenticated caller
// regardless of role.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentPrincipal(c).Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// Authorize gates a route on the role policy. Anonymous callers get
// 401 so clients know to authenticate, authenticated ones get 403.
func Authorize(action auth.Action, resource auth.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPrincipal(c)
		if auth.CanPerform(p, action, resource) {
			c.Next()
			return
		}
		if !p.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	}
}
