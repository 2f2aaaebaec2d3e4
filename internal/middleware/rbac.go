package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cms-api/internal/models"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
	"github.com/noah-isme/cms-api/pkg/response"
)

// RequireRoles lets the request through only when the JWT role is one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// WriteGuard returns the chain guarding mutating routes: nothing when auth is
// disabled, otherwise a valid token carrying one of roles.
func WriteGuard(enabled bool, validator TokenValidator, roles ...models.UserRole) []gin.HandlerFunc {
	if !enabled || validator == nil {
		return nil
	}
	return []gin.HandlerFunc{JWT(validator), RequireRoles(roles...)}
}
