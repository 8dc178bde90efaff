package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wrd-mh/pah-award-api/internal/middleware"
	"github.com/wrd-mh/pah-award-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// clientMeta captures the caller's IP and user agent for audit rows.
func clientMeta(c *gin.Context) models.LoginRequest {
	return models.LoginRequest{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}
