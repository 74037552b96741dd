package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"spotly/utils"
)

// JWTAuth validates the bearer token issued by the identity service and puts
// the subject into the context under contextKey ("userID" for renters,
// "ownerID" for space owners). Token issuance happens outside this service.
func JWTAuth(contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		subject, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(contextKey, subject)
		c.Next()
	}
}

// JWTAuthUser guards the reservation flow.
func JWTAuthUser() gin.HandlerFunc {
	return JWTAuth("userID")
}

// JWTAuthOwner guards the space-management flow.
func JWTAuthOwner() gin.HandlerFunc {
	return JWTAuth("ownerID")
}
