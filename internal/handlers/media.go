package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/filestore"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
)

// MediaHandler serves stored blobs (avatars, attachments) off the file store.
type MediaHandler struct {
	log   *logger.Logger
	files filestore.Store
}

func NewMediaHandler(log *logger.Logger, files filestore.Store) *MediaHandler {
	return &MediaHandler{log: log.With("handler", "MediaHandler"), files: files}
}

func (h *MediaHandler) Get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		Fail(c, h.log, apierr.BadRequest("missing key"))
		return
	}
	data, err := h.files.Get(c.Request.Context(), key)
	if err != nil {
		Fail(c, h.log, apierr.NotFound("file not found"))
		return
	}
	contentType := "application/octet-stream"
	if strings.HasSuffix(key, ".png") {
		contentType = "image/png"
	}
	c.Data(http.StatusOK, contentType, data)
}
