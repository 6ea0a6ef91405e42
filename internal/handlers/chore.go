package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type ChoreHandler struct {
	log    *logger.Logger
	chores services.ChoreService
}

func NewChoreHandler(log *logger.Logger, chores services.ChoreService) *ChoreHandler {
	return &ChoreHandler{log: log.With("handler", "ChoreHandler"), chores: chores}
}

func (h *ChoreHandler) Create(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateChoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	chore, err := h.chores.Create(c.Request.Context(), userID, householdID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, chore)
}

func (h *ChoreHandler) Get(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	choreID, err := uuidParam(c, "choreId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	chore, err := h.chores.Get(c.Request.Context(), userID, householdID, choreID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, chore)
}

func (h *ChoreHandler) List(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	limit, offset := pagination(c)
	chores, total, err := h.chores.List(c.Request.Context(), userID, householdID, limit, offset)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	RespondList(c, chores, total, limit, offset)
}

func (h *ChoreHandler) Update(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	choreID, err := uuidParam(c, "choreId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.UpdateChoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	chore, err := h.chores.Update(c.Request.Context(), userID, householdID, choreID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	choreID, err := uuidParam(c, "choreId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.chores.Delete(c.Request.Context(), userID, householdID, choreID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChoreHandler) ReplaceAssignees(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	choreID, err := uuidParam(c, "choreId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var body struct {
		AssigneeIDs []uuid.UUID `json:"assignee_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	chore, err := h.chores.ReplaceAssignees(c.Request.Context(), userID, householdID, choreID, body.AssigneeIDs)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, chore)
}

func (h *ChoreHandler) CreateSubtask(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	choreID, err := uuidParam(c, "choreId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateSubtaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	subtask, err := h.chores.CreateSubtask(c.Request.Context(), userID, householdID, choreID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, subtask)
}

func (h *ChoreHandler) UpdateSubtask(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	choreID, err := uuidParam(c, "choreId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	subtaskID, err := uuidParam(c, "subtaskId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.UpdateSubtaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	subtask, err := h.chores.UpdateSubtask(c.Request.Context(), userID, householdID, choreID, subtaskID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, subtask)
}

func (h *ChoreHandler) DeleteSubtask(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	choreID, err := uuidParam(c, "choreId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	subtaskID, err := uuidParam(c, "subtaskId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.chores.DeleteSubtask(c.Request.Context(), userID, householdID, choreID, subtaskID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChoreHandler) ListHistory(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	choreID, err := uuidParam(c, "choreId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	history, err := h.chores.ListHistory(c.Request.Context(), userID, householdID, choreID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, history)
}
