package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole creates a Gin middleware that only lets sessions with one of
// roles through. It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"}})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			gin.H{"error": gin.H{"code": "FORBIDDEN", "message": "This action requires the " + roles[0] + " role"}})
	}
}
