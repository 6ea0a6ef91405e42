package realtime

import (
	"fmt"

	"github.com/google/uuid"
)

// Event names mirror the REST resources they describe.
type Event string

const (
	EventHouseholdUpdate    Event = "household_update"
	EventChoreUpdate        Event = "chore_update"
	EventExpenseUpdate      Event = "expense_update"
	EventCalendarUpdate     Event = "event_update"
	EventThreadUpdate       Event = "thread_update"
	EventMessageUpdate      Event = "message_update"
	EventPollUpdate         Event = "poll_update"
	EventNotificationUpdate Event = "notification_update"
	EventUserUpdate         Event = "user_update"
)

// Action is the payload discriminator naming what happened to the entity.
type Action string

const (
	ActionCreated       Action = "CREATED"
	ActionUpdated       Action = "UPDATED"
	ActionDeleted       Action = "DELETED"
	ActionStatusChanged Action = "STATUS_CHANGED"
)

type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

func HouseholdChannel(householdID uuid.UUID) string {
	return fmt.Sprintf("household_%s", householdID)
}

func UserChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user_%s", userID)
}
