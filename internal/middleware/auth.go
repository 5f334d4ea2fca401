package middleware

import (
	"net/http"
	"strings"

	"vendora/config"
	"vendora/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the dashboard JWT and sets the store scope in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("store_id", claims.StoreID)
		c.Set("slug", claims.Slug)
		c.Next()
	}
}

// GetStoreID returns the authenticated store ID from context (must be used after AuthRequired).
func GetStoreID(c *gin.Context) uint {
	v, _ := c.Get("store_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}
