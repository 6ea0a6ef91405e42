package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type NotificationHandler struct {
	log           *logger.Logger
	notifications services.NotificationService
	push          services.PushService
}

func NewNotificationHandler(log *logger.Logger, notifications services.NotificationService, push services.PushService) *NotificationHandler {
	return &NotificationHandler{
		log:           log.With("handler", "NotificationHandler"),
		notifications: notifications,
		push:          push,
	}
}

func (h *NotificationHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateNotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	// omitting user_id targets the caller
	if input.UserID == uuid.Nil {
		input.UserID = userID
	}
	notification, err := h.notifications.Create(c.Request.Context(), input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, notification)
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	limit, offset := pagination(c)
	notifications, total, err := h.notifications.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	RespondList(c, notifications, total, limit, offset)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	notificationID, err := uuidParam(c, "notificationId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	notification, err := h.notifications.MarkRead(c.Request.Context(), userID, notificationID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, notification)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	notificationID, err := uuidParam(c, "notificationId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), userID, notificationID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) GetSettings(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var householdID *uuid.UUID
	if raw := c.Query("household_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			Fail(c, h.log, apierr.BadRequest("invalid household_id"))
			return
		}
		householdID = &id
	}
	settings, err := h.notifications.GetSettings(c.Request.Context(), userID, householdID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, settings)
}

func (h *NotificationHandler) SaveSettings(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.NotificationSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	settings, err := h.notifications.SaveSettings(c.Request.Context(), userID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, settings)
}

func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.PushSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	sub, err := h.notifications.Subscribe(c.Request.Context(), userID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, sub)
}

func (h *NotificationHandler) ListSubscriptions(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	subs, err := h.notifications.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, subs)
}

func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	subscriptionID, err := uuidParam(c, "subscriptionId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.notifications.Unsubscribe(c.Request.Context(), userID, subscriptionID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) VAPIDKey(c *gin.Context) {
	Respond(c, http.StatusOK, gin.H{"public_key": h.push.VAPIDPublicKey()})
}
