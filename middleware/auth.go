package middleware

import (
	"net/http"
	"strings"

	"tripay/models"
	"tripay/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole authenticates the bearer token and checks that the role claim
// matches. The role is resolved once at login and carried in the token, so
// no user lookup happens per request. On success the user id and role are
// set in the Gin context.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized token not found"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, tokenRole, err := utils.ExtractClaimsFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized token invalid"})
			return
		}
		if tokenRole != string(role) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized not " + string(role)})
			return
		}

		c.Set("userID", userID)
		c.Set("role", tokenRole)
		c.Next()
	}
}
