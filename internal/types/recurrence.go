package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecurrenceRule is standalone and shareable between chores and events; its
// lifecycle is independent of any single referent.
type RecurrenceRule struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Frequency   string         `gorm:"not null;column:frequency" json:"frequency"`
	Interval    int            `gorm:"not null;default:1;column:interval" json:"interval"`
	ByWeekdays  datatypes.JSON `gorm:"column:by_weekdays" json:"by_weekdays,omitempty"`
	ByMonthDays datatypes.JSON `gorm:"column:by_month_days" json:"by_month_days,omitempty"`
	Count       int            `gorm:"not null;default:0;column:count" json:"count"`
	Until       *time.Time     `gorm:"column:until" json:"until,omitempty"`
	CustomRule  string         `gorm:"column:custom_rule" json:"custom_rule,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (RecurrenceRule) TableName() string { return "recurrence_rule" }
