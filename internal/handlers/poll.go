package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type PollHandler struct {
	log   *logger.Logger
	polls services.PollService
}

func NewPollHandler(log *logger.Logger, polls services.PollService) *PollHandler {
	return &PollHandler{log: log.With("handler", "PollHandler"), polls: polls}
}

func (h *PollHandler) scope(c *gin.Context) (userID, householdID, threadID, messageID uuid.UUID, err error) {
	userID, householdID, err = householdScope(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	threadID, err = uuidParam(c, "threadId")
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	messageID, err = uuidParam(c, "messageId")
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	return userID, householdID, threadID, messageID, nil
}

func (h *PollHandler) Create(c *gin.Context) {
	userID, householdID, threadID, messageID, err := h.scope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	poll, err := h.polls.Create(c.Request.Context(), userID, householdID, threadID, messageID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, poll)
}

func (h *PollHandler) Get(c *gin.Context) {
	userID, householdID, threadID, messageID, err := h.scope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	poll, err := h.polls.Get(c.Request.Context(), userID, householdID, threadID, messageID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, poll)
}

func (h *PollHandler) Vote(c *gin.Context) {
	userID, householdID, threadID, messageID, err := h.scope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var body struct {
		Votes []services.VoteInput `json:"votes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	poll, err := h.polls.Vote(c.Request.Context(), userID, householdID, threadID, messageID, body.Votes)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, poll)
}

func (h *PollHandler) RemoveVote(c *gin.Context) {
	userID, householdID, threadID, messageID, err := h.scope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.polls.RemoveVote(c.Request.Context(), userID, householdID, threadID, messageID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PollHandler) Close(c *gin.Context) {
	userID, householdID, threadID, messageID, err := h.scope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var body struct {
		SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	poll, err := h.polls.Close(c.Request.Context(), userID, householdID, threadID, messageID, body.SelectedOptionID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, poll)
}

func (h *PollHandler) Analytics(c *gin.Context) {
	userID, householdID, threadID, messageID, err := h.scope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	counts, err := h.polls.Analytics(c.Request.Context(), userID, householdID, threadID, messageID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, counts)
}

func (h *PollHandler) Delete(c *gin.Context) {
	userID, householdID, threadID, messageID, err := h.scope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.polls.Delete(c.Request.Context(), userID, householdID, threadID, messageID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
