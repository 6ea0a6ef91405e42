package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/realtime"
)

// Notifier broadcasts committed domain changes. Every payload carries an
// "action" discriminator plus the affected entity. Callers invoke it only
// after their transaction has committed.
type Notifier interface {
	HouseholdChanged(householdID uuid.UUID, action realtime.Action, household any)
	ChoreChanged(householdID uuid.UUID, action realtime.Action, chore any)
	ExpenseChanged(householdID uuid.UUID, action realtime.Action, expense any)
	EventChanged(householdID uuid.UUID, action realtime.Action, event any)
	ThreadChanged(householdID uuid.UUID, action realtime.Action, thread any)
	MessageChanged(householdID uuid.UUID, action realtime.Action, message any)
	PollChanged(householdID uuid.UUID, action realtime.Action, poll any)
	NotificationChanged(userID uuid.UUID, action realtime.Action, notification any)
	UserChanged(userID uuid.UUID, action realtime.Action, user any)
}

type notifier struct {
	emit Emitter
}

func NewNotifier(emit Emitter) Notifier {
	return &notifier{emit: emit}
}

func (n *notifier) send(channel string, event realtime.Event, action realtime.Action, key string, entity any) {
	if n == nil || n.emit == nil || channel == "" {
		return
	}
	n.emit.Emit(context.Background(), realtime.Message{
		Channel: channel,
		Event:   event,
		Data: map[string]any{
			"action": action,
			key:      entity,
		},
	})
}

func (n *notifier) HouseholdChanged(householdID uuid.UUID, action realtime.Action, household any) {
	n.send(realtime.HouseholdChannel(householdID), realtime.EventHouseholdUpdate, action, "household", household)
}

func (n *notifier) ChoreChanged(householdID uuid.UUID, action realtime.Action, chore any) {
	n.send(realtime.HouseholdChannel(householdID), realtime.EventChoreUpdate, action, "chore", chore)
}

func (n *notifier) ExpenseChanged(householdID uuid.UUID, action realtime.Action, expense any) {
	n.send(realtime.HouseholdChannel(householdID), realtime.EventExpenseUpdate, action, "expense", expense)
}

func (n *notifier) EventChanged(householdID uuid.UUID, action realtime.Action, event any) {
	n.send(realtime.HouseholdChannel(householdID), realtime.EventCalendarUpdate, action, "event", event)
}

func (n *notifier) ThreadChanged(householdID uuid.UUID, action realtime.Action, thread any) {
	n.send(realtime.HouseholdChannel(householdID), realtime.EventThreadUpdate, action, "thread", thread)
}

func (n *notifier) MessageChanged(householdID uuid.UUID, action realtime.Action, message any) {
	n.send(realtime.HouseholdChannel(householdID), realtime.EventMessageUpdate, action, "message", message)
}

func (n *notifier) PollChanged(householdID uuid.UUID, action realtime.Action, poll any) {
	n.send(realtime.HouseholdChannel(householdID), realtime.EventPollUpdate, action, "poll", poll)
}

func (n *notifier) NotificationChanged(userID uuid.UUID, action realtime.Action, notification any) {
	n.send(realtime.UserChannel(userID), realtime.EventNotificationUpdate, action, "notification", notification)
}

func (n *notifier) UserChanged(userID uuid.UUID, action realtime.Action, user any) {
	n.send(realtime.UserChannel(userID), realtime.EventUserUpdate, action, "user", user)
}
