package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type HouseholdHandler struct {
	log        *logger.Logger
	households services.HouseholdService
}

func NewHouseholdHandler(log *logger.Logger, households services.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{log: log.With("handler", "HouseholdHandler"), households: households}
}

func (h *HouseholdHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateHouseholdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	household, err := h.households.Create(c.Request.Context(), userID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, household)
}

func (h *HouseholdHandler) Get(c *gin.Context) {
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
	household, err := h.households.Get(c.Request.Context(), userID, householdID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, household)
}

func (h *HouseholdHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	households, err := h.households.ListForUser(c.Request.Context(), userID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, households)
}

func (h *HouseholdHandler) Update(c *gin.Context) {
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
	var input services.UpdateHouseholdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	household, err := h.households.Update(c.Request.Context(), userID, householdID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, household)
}

func (h *HouseholdHandler) Delete(c *gin.Context) {
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
	if err := h.households.Delete(c.Request.Context(), userID, householdID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HouseholdHandler) AddMember(c *gin.Context) {
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
	var input services.AddMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	member, err := h.households.AddMember(c.Request.Context(), userID, householdID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, member)
}

func (h *HouseholdHandler) ListMembers(c *gin.Context) {
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
	members, err := h.households.ListMembers(c.Request.Context(), userID, householdID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, members)
}

func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
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
	memberID, err := uuidParam(c, "memberId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.households.RemoveMember(c.Request.Context(), userID, householdID, memberID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HouseholdHandler) UpdateMemberRole(c *gin.Context) {
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
	memberID, err := uuidParam(c, "memberId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var body struct {
		Role types.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	member, err := h.households.UpdateMemberRole(c.Request.Context(), userID, householdID, memberID, body.Role)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, member)
}
