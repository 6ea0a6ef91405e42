package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Type      string    `gorm:"not null;column:type" json:"type"`
	Message   string    `gorm:"not null;column:message" json:"message"`
	IsRead    bool      `gorm:"not null;default:false;column:is_read" json:"is_read"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

// NotificationSettings is scoped to a user, a household, or both; unused
// scope stays null.
type NotificationSettings struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	HouseholdID *uuid.UUID     `gorm:"type:uuid;index" json:"household_id,omitempty"`
	Preferences datatypes.JSON `gorm:"column:preferences" json:"preferences,omitempty"`
	PushEnabled bool           `gorm:"not null;column:push_enabled" json:"push_enabled"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (NotificationSettings) TableName() string { return "notification_settings" }

type PushSubscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Endpoint   string    `gorm:"not null;uniqueIndex;column:endpoint" json:"endpoint"`
	P256dhKey  string    `gorm:"not null;column:p256dh_key" json:"-"`
	AuthKey    string    `gorm:"not null;column:auth_key" json:"-"`
	DeviceName string    `gorm:"column:device_name" json:"device_name"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (PushSubscription) TableName() string { return "push_subscription" }
