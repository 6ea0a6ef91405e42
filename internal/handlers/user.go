package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type UserHandler struct {
	log   *logger.Logger
	users services.UserService
}

func NewUserHandler(log *logger.Logger, users services.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), users: users}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	user, err := h.users.Update(c.Request.Context(), userID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, user)
}

func (h *UserHandler) SetActiveHousehold(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	householdID, err := uuidParam(c, "householdId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	user, err := h.users.SetActiveHousehold(c.Request.Context(), userID, householdID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, user)
}
