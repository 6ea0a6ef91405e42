package types

import (
	"time"

	"github.com/google/uuid"
)

type Household struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string             `gorm:"not null;column:name" json:"name"`
	Members   []*HouseholdMember `gorm:"foreignKey:HouseholdID" json:"members,omitempty"`
	CreatedAt time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time          `gorm:"not null" json:"updated_at"`
}

func (Household) TableName() string { return "household" }

// HouseholdMember binds a user to a household with a role. One row per
// (user, household) pair; a household always keeps at least one ADMIN.
type HouseholdMember struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_member_user_household" json:"household_id"`
	Household   *Household `gorm:"constraint:OnDelete:CASCADE;foreignKey:HouseholdID;references:ID" json:"-"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_member_user_household" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Role        Role       `gorm:"not null;column:role" json:"role"`
	IsSelected  bool       `gorm:"not null;default:false;column:is_selected" json:"is_selected"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (HouseholdMember) TableName() string { return "household_member" }
