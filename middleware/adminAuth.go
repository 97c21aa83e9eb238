package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware gates the group administration surface behind a single
// operator identity: the authenticated email must exactly match the
// configured admin email. Anything else fails closed; no privileged data is
// ever partially served. Runs after JWTAuthMiddleware.
func AdminAuthMiddleware(adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, exists := c.Get("userEmail")
		if !exists || adminEmail == "" || email != adminEmail {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized admin access"})
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}
