package types

import (
	"time"

	"github.com/google/uuid"
)

type Thread struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"household_id"`
	Household    *Household         `gorm:"constraint:OnDelete:CASCADE;foreignKey:HouseholdID;references:ID" json:"-"`
	AuthorID     uuid.UUID          `gorm:"type:uuid;not null;column:author_id" json:"author_id"`
	Title        string             `gorm:"not null;column:title" json:"title"`
	Participants []*HouseholdMember `gorm:"many2many:thread_participant" json:"participants,omitempty"`
	Messages     []*Message         `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
	CreatedAt    time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"not null" json:"updated_at"`
}

func (Thread) TableName() string { return "thread" }
