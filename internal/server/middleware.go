package server

import (
	"strings"

	"github.com/edupay/feereport/internal/guard"
	"github.com/gin-gonic/gin"
)

const contextClaimsKey = "claims"

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

// RequirePermission rejects before any handler work runs.
func (s *Server) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := guard.Authorize(claims, permission); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) (guard.Claims, bool) {
	value, ok := c.Get(contextClaimsKey)
	if !ok {
		return guard.Claims{}, false
	}
	claims, ok := value.(guard.Claims)
	return claims, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
