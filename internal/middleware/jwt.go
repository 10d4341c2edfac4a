package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"task_rewards/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// JWTAuthMiddleware validates bearer tokens for the given audience and
// stores the account id and username in the request context
func JWTAuthMiddleware(secret, audience string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Missing or invalid Authorization header",
			})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(tokenStr, secret)
		if err != nil || claims.Audience != audience {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Invalid or expired token",
			})
			return
		}
		c.Set("accountID", claims.UserID)   // Store account id in context
		c.Set("username", claims.Username)  // Store account name in context
		c.Next()
	}
}
