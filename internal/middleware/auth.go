package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/requestdata"
	"github.com/yungbote/homeslice-backend/internal/services"
)

// Auth parses the bearer token (or the `token` query parameter, which the
// EventSource API needs since it cannot set headers) and stashes the caller's
// identity in the request context.
func Auth(log *logger.Logger, auth services.AuthService) gin.HandlerFunc {
	log = log.With("middleware", "Auth")
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "missing bearer token"},
			})
			return
		}
		userID, err := auth.ParseAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "invalid access token"},
			})
			return
		}
		rd := &requestdata.RequestData{
			TokenString: tokenString,
			UserID:      userID,
		}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(c.Query("token"))
}
