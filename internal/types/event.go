package types

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"household_id"`
	Household        *Household      `gorm:"constraint:OnDelete:CASCADE;foreignKey:HouseholdID;references:ID" json:"-"`
	ChoreID          *uuid.UUID      `gorm:"type:uuid;index" json:"chore_id,omitempty"`
	Chore            *Chore          `gorm:"constraint:OnDelete:SET NULL;foreignKey:ChoreID;references:ID" json:"chore,omitempty"`
	Category         EventCategory   `gorm:"not null;default:GENERAL;column:category" json:"category"`
	Title            string          `gorm:"not null;column:title" json:"title"`
	Description      string          `gorm:"column:description" json:"description"`
	StartsAt         time.Time       `gorm:"not null;column:starts_at;index" json:"starts_at"`
	EndsAt           time.Time       `gorm:"not null;column:ends_at" json:"ends_at"`
	Status           EventStatus     `gorm:"not null;default:SCHEDULED;column:status" json:"status"`
	RecurrenceRuleID *uuid.UUID      `gorm:"type:uuid;column:recurrence_rule_id" json:"recurrence_rule_id,omitempty"`
	RecurrenceRule   *RecurrenceRule `gorm:"foreignKey:RecurrenceRuleID;references:ID" json:"recurrence_rule,omitempty"`
	Reminders        []*EventReminder `gorm:"foreignKey:EventID" json:"reminders,omitempty"`
	History          []*EventHistory  `gorm:"foreignKey:EventID" json:"history,omitempty"`
	DeletedAt        *time.Time      `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`
}

func (Event) TableName() string { return "event" }

type EventReminder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Event     *Event    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EventID;references:ID" json:"-"`
	RemindAt  time.Time `gorm:"not null;column:remind_at" json:"remind_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (EventReminder) TableName() string { return "event_reminder" }

// EventHistory is the append-only audit log for calendar events.
type EventHistory struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"event_id"`
	Event     *Event        `gorm:"constraint:OnDelete:CASCADE;foreignKey:EventID;references:ID" json:"-"`
	Action    HistoryAction `gorm:"not null;column:action" json:"action"`
	ActorID   uuid.UUID     `gorm:"type:uuid;not null;column:actor_id" json:"actor_id"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
}

func (EventHistory) TableName() string { return "event_history" }
