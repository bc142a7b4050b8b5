package middleware

import (
	"net/http"
	"strings"

	"github.com/JException/mentee-hotline/internal/models"
	"github.com/JException/mentee-hotline/internal/services"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionAuth validates the Bearer token issued at access-code
// verification and attaches the session context to the request.
func SessionAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		session, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// MentorOnly gates administrative routes. Must run after SessionAuth.
func MentorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil || session.Role != models.RoleMentor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "mentor access required"})
			return
		}
		c.Next()
	}
}

// GetSession returns the request's session context, or nil outside an
// authenticated route.
func GetSession(c *gin.Context) *services.SessionContext {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*services.SessionContext)
	return session
}
