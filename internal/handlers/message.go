package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

const maxAttachmentBytes = 25 << 20

type MessageHandler struct {
	log      *logger.Logger
	messages services.MessageService
}

func NewMessageHandler(log *logger.Logger, messages services.MessageService) *MessageHandler {
	return &MessageHandler{log: log.With("handler", "MessageHandler"), messages: messages}
}

func (h *MessageHandler) threadScope(c *gin.Context) (userID, householdID, threadID uuid.UUID, err error) {
	userID, householdID, err = householdScope(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	threadID, err = uuidParam(c, "threadId")
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	return userID, householdID, threadID, nil
}

func (h *MessageHandler) Create(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	message, err := h.messages.Create(c.Request.Context(), userID, householdID, threadID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, message)
}

func (h *MessageHandler) Get(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	messageID, err := uuidParam(c, "messageId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	message, err := h.messages.Get(c.Request.Context(), userID, householdID, threadID, messageID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, message)
}

func (h *MessageHandler) List(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	limit, offset := pagination(c)
	messages, total, err := h.messages.List(c.Request.Context(), userID, householdID, threadID, limit, offset)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	RespondList(c, messages, total, limit, offset)
}

func (h *MessageHandler) Update(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	messageID, err := uuidParam(c, "messageId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.UpdateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	message, err := h.messages.Update(c.Request.Context(), userID, householdID, threadID, messageID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, message)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	messageID, err := uuidParam(c, "messageId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.messages.Delete(c.Request.Context(), userID, householdID, threadID, messageID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) AddAttachment(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	messageID, err := uuidParam(c, "messageId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		Fail(c, h.log, apierr.BadRequest("file is required"))
		return
	}
	if fileHeader.Size > maxAttachmentBytes {
		Fail(c, h.log, apierr.BadRequest("file too large"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		Fail(c, h.log, apierr.Internal(err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes+1))
	if err != nil {
		Fail(c, h.log, apierr.Internal(err))
		return
	}
	attachment, err := h.messages.AddAttachment(c.Request.Context(), userID, householdID, threadID, messageID, services.AttachmentInput{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, attachment)
}

func (h *MessageHandler) RemoveAttachment(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	messageID, err := uuidParam(c, "messageId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	attachmentID, err := uuidParam(c, "attachmentId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.messages.RemoveAttachment(c.Request.Context(), userID, householdID, threadID, messageID, attachmentID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) AddReaction(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	messageID, err := uuidParam(c, "messageId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var body struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	reaction, err := h.messages.AddReaction(c.Request.Context(), userID, householdID, threadID, messageID, body.Type)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, reaction)
}

func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	messageID, err := uuidParam(c, "messageId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	reactionType := c.Query("type")
	if err := h.messages.RemoveReaction(c.Request.Context(), userID, householdID, threadID, messageID, reactionType); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, householdID, threadID, err := h.threadScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	messageID, err := uuidParam(c, "messageId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.messages.MarkRead(c.Request.Context(), userID, householdID, threadID, messageID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
