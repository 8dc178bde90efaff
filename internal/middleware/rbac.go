package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wrd-mh/pah-award-api/internal/models"
	appErrors "github.com/wrd-mh/pah-award-api/pkg/errors"
	"github.com/wrd-mh/pah-award-api/pkg/response"
)

// RequireRoles allows the request through when the authenticated role
// is one of the given roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return requireRoles(false, roles)
}

// RequireRolesOrSelf additionally admits a user operating on their own
// record, matched against the :id route parameter.
func RequireRolesOrSelf(roles ...models.UserRole) gin.HandlerFunc {
	return requireRoles(true, roles)
}

func requireRoles(allowSelf bool, roles []models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowed[claims.Role]; ok {
			c.Next()
			return
		}
		if allowSelf && c.Param("id") == claims.UserID && claims.UserID != "" {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
