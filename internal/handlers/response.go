package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
)

// Respond writes the uniform success envelope.
func Respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// RespondList adds pagination metadata alongside the data envelope.
func RespondList(c *gin.Context, data any, total int64, limit, offset int) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// Fail translates any error into the error envelope. Internal causes are
// logged but never leak to the client.
func Fail(c *gin.Context, log *logger.Logger, err error) {
	e := apierr.From(err)
	message := "internal error"
	if e.Status < http.StatusInternalServerError && e.Err != nil {
		message = e.Err.Error()
	}
	if e.Status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(e.Status, gin.H{
		"error": gin.H{
			"code":    e.Code,
			"message": message,
		},
	})
}
