package types

import (
	"time"

	"github.com/google/uuid"
)

type Chore struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"household_id"`
	Household        *Household      `gorm:"constraint:OnDelete:CASCADE;foreignKey:HouseholdID;references:ID" json:"-"`
	Title            string          `gorm:"not null;column:title" json:"title"`
	Description      string          `gorm:"column:description" json:"description"`
	DueDate          *time.Time      `gorm:"column:due_date" json:"due_date,omitempty"`
	Priority         int             `gorm:"not null;default:0;column:priority" json:"priority"`
	Status           ChoreStatus     `gorm:"not null;default:PENDING;column:status" json:"status"`
	RecurrenceRuleID *uuid.UUID      `gorm:"type:uuid;column:recurrence_rule_id" json:"recurrence_rule_id,omitempty"`
	RecurrenceRule   *RecurrenceRule `gorm:"foreignKey:RecurrenceRuleID;references:ID" json:"recurrence_rule,omitempty"`
	Assignees        []*User         `gorm:"many2many:chore_assignment" json:"assignees,omitempty"`
	Subtasks         []*Subtask      `gorm:"foreignKey:ChoreID" json:"subtasks,omitempty"`
	History          []*ChoreHistory `gorm:"foreignKey:ChoreID" json:"history,omitempty"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`
}

func (Chore) TableName() string { return "chore" }

type Subtask struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ChoreID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"chore_id"`
	Chore     *Chore        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChoreID;references:ID" json:"-"`
	Title     string        `gorm:"not null;column:title" json:"title"`
	Status    SubtaskStatus `gorm:"not null;default:PENDING;column:status" json:"status"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

func (Subtask) TableName() string { return "subtask" }

// ChoreHistory is append-only; rows are never updated or deleted outside a
// household cascade.
type ChoreHistory struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ChoreID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"chore_id"`
	Chore     *Chore        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChoreID;references:ID" json:"-"`
	Action    HistoryAction `gorm:"not null;column:action" json:"action"`
	ActorID   uuid.UUID     `gorm:"type:uuid;not null;column:actor_id" json:"actor_id"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
}

func (ChoreHistory) TableName() string { return "chore_history" }
