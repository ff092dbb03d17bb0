package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

// TokenHeader is the request header carrying the session token.
const TokenHeader = "token"

// ContextIdentityKey is the gin context key storing verified token claims.
const ContextIdentityKey = "currentIdentity"

// RequireRole gates a route on a valid token for the given role. A missing
// header is 401; a present but invalid or wrong-role token is 403.
func RequireRole(tokens *service.TokenService, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(TokenHeader)
		if raw == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(raw, role)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, claims)
		c.Next()
	}
}

// Claims returns the verified token claims attached by RequireRole.
func Claims(c *gin.Context) (*models.TokenClaims, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.TokenClaims)
	return claims, ok
}
