package middleware

import (
	"net/http"
	"strings"

	"chime/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token and puts the owner id on the
// context for handlers downstream.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		ownerID, err := utils.ExtractIDFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("ownerID", ownerID)
		c.Next()
	}
}
