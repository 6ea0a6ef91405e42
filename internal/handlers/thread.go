package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type ThreadHandler struct {
	log     *logger.Logger
	threads services.ThreadService
}

func NewThreadHandler(log *logger.Logger, threads services.ThreadService) *ThreadHandler {
	return &ThreadHandler{log: log.With("handler", "ThreadHandler"), threads: threads}
}

func (h *ThreadHandler) Create(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateThreadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	thread, err := h.threads.Create(c.Request.Context(), userID, householdID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, thread)
}

func (h *ThreadHandler) Get(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	threadID, err := uuidParam(c, "threadId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	thread, err := h.threads.Get(c.Request.Context(), userID, householdID, threadID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, thread)
}

func (h *ThreadHandler) List(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	limit, offset := pagination(c)
	threads, total, err := h.threads.List(c.Request.Context(), userID, householdID, limit, offset)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	RespondList(c, threads, total, limit, offset)
}

func (h *ThreadHandler) Update(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	threadID, err := uuidParam(c, "threadId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.UpdateThreadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	thread, err := h.threads.Update(c.Request.Context(), userID, householdID, threadID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, thread)
}

func (h *ThreadHandler) Delete(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	threadID, err := uuidParam(c, "threadId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.threads.Delete(c.Request.Context(), userID, householdID, threadID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ThreadHandler) ReplaceParticipants(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	threadID, err := uuidParam(c, "threadId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var body struct {
		MemberIDs []uuid.UUID `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	thread, err := h.threads.ReplaceParticipants(c.Request.Context(), userID, householdID, threadID, body.MemberIDs)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, thread)
}
