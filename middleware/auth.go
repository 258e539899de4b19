package middleware

import (
	"net/http"
	"strings"

	"beautybook/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	SubjectKey = "subject"
	RoleKey    = "role"
)

// JWTAuthMiddleware validates the bearer token and stores its subject and
// role in the context. With optional set, a missing token passes through
// anonymously but a present, invalid one is still rejected.
func JWTAuthMiddleware(optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" && optional {
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(SubjectKey, subject)
		c.Set(RoleKey, role)
		c.Next()
	}
}

// Subject returns the authenticated subject, or "" for anonymous requests.
func Subject(c *gin.Context) string {
	return c.GetString(SubjectKey)
}
