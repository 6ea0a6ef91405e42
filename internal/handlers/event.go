package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type EventHandler struct {
	log    *logger.Logger
	events services.EventService
}

func NewEventHandler(log *logger.Logger, events services.EventService) *EventHandler {
	return &EventHandler{log: log.With("handler", "EventHandler"), events: events}
}

func (h *EventHandler) Create(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	event, err := h.events.Create(c.Request.Context(), userID, householdID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, event)
}

func (h *EventHandler) Get(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	eventID, err := uuidParam(c, "eventId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	event, err := h.events.Get(c.Request.Context(), userID, householdID, eventID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, event)
}

func (h *EventHandler) List(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	// A from/to window switches to recurrence-expanded occurrences.
	if c.Query("from") != "" || c.Query("to") != "" {
		from, err := time.Parse(time.RFC3339, c.Query("from"))
		if err != nil {
			Fail(c, h.log, apierr.BadRequest("invalid from"))
			return
		}
		to, err := time.Parse(time.RFC3339, c.Query("to"))
		if err != nil {
			Fail(c, h.log, apierr.BadRequest("invalid to"))
			return
		}
		occurrences, err := h.events.ListOccurrences(c.Request.Context(), userID, householdID, from, to)
		if err != nil {
			Fail(c, h.log, err)
			return
		}
		Respond(c, http.StatusOK, occurrences)
		return
	}
	limit, offset := pagination(c)
	events, total, err := h.events.List(c.Request.Context(), userID, householdID, limit, offset)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	RespondList(c, events, total, limit, offset)
}

func (h *EventHandler) ListByChore(c *gin.Context) {
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
	events, err := h.events.ListByChore(c.Request.Context(), userID, householdID, choreID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, events)
}

func (h *EventHandler) Update(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	eventID, err := uuidParam(c, "eventId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	event, err := h.events.Update(c.Request.Context(), userID, householdID, eventID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	eventID, err := uuidParam(c, "eventId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.events.Delete(c.Request.Context(), userID, householdID, eventID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) ListHistory(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	eventID, err := uuidParam(c, "eventId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	history, err := h.events.ListHistory(c.Request.Context(), userID, householdID, eventID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, history)
}

func (h *EventHandler) CreateReminder(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	eventID, err := uuidParam(c, "eventId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var body struct {
		RemindAt time.Time `json:"remind_at"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	reminder, err := h.events.CreateReminder(c.Request.Context(), userID, householdID, eventID, body.RemindAt)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, reminder)
}

func (h *EventHandler) DeleteReminder(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	eventID, err := uuidParam(c, "eventId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	reminderID, err := uuidParam(c, "reminderId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.events.DeleteReminder(c.Request.Context(), userID, householdID, eventID, reminderID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
