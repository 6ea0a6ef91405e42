package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type RecurrenceHandler struct {
	log   *logger.Logger
	rules services.RecurrenceService
}

func NewRecurrenceHandler(log *logger.Logger, rules services.RecurrenceService) *RecurrenceHandler {
	return &RecurrenceHandler{log: log.With("handler", "RecurrenceHandler"), rules: rules}
}

func (h *RecurrenceHandler) Create(c *gin.Context) {
	var input services.RecurrenceRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	rule, err := h.rules.Create(c.Request.Context(), input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, rule)
}

func (h *RecurrenceHandler) Get(c *gin.Context) {
	ruleID, err := uuidParam(c, "ruleId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	rule, err := h.rules.Get(c.Request.Context(), ruleID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, rule)
}

func (h *RecurrenceHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	rules, total, err := h.rules.List(c.Request.Context(), limit, offset)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	RespondList(c, rules, total, limit, offset)
}

func (h *RecurrenceHandler) Update(c *gin.Context) {
	ruleID, err := uuidParam(c, "ruleId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.RecurrenceRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	rule, err := h.rules.Update(c.Request.Context(), ruleID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, rule)
}

func (h *RecurrenceHandler) Delete(c *gin.Context) {
	ruleID, err := uuidParam(c, "ruleId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.rules.Delete(c.Request.Context(), ruleID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
