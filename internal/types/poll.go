package types

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"message_id"`
	Message          *Message      `gorm:"constraint:OnDelete:CASCADE;foreignKey:MessageID;references:ID" json:"-"`
	AuthorID         uuid.UUID     `gorm:"type:uuid;not null;column:author_id" json:"author_id"`
	Question         string        `gorm:"not null;column:question" json:"question"`
	Type             PollType      `gorm:"not null;default:SINGLE_CHOICE;column:type" json:"type"`
	Status           PollStatus    `gorm:"not null;default:OPEN;column:status" json:"status"`
	SelectedOptionID *uuid.UUID    `gorm:"type:uuid;column:selected_option_id" json:"selected_option_id,omitempty"`
	Options          []*PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
	Votes            []*PollVote   `gorm:"foreignKey:PollID" json:"votes,omitempty"`
	CreatedAt        time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null" json:"updated_at"`
}

func (Poll) TableName() string { return "poll" }

type PollOption struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PollID    uuid.UUID `gorm:"type:uuid;not null;index" json:"poll_id"`
	Poll      *Poll     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PollID;references:ID" json:"-"`
	Text      string    `gorm:"not null;column:text" json:"text"`
	Position  int       `gorm:"not null;column:position" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PollOption) TableName() string { return "poll_option" }

type PollVote struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	PollID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"poll_id"`
	Poll      *Poll       `gorm:"constraint:OnDelete:CASCADE;foreignKey:PollID;references:ID" json:"-"`
	OptionID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"option_id"`
	Option    *PollOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:OptionID;references:ID" json:"-"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Rank      int         `gorm:"not null;default:0;column:rank" json:"rank"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
}

func (PollVote) TableName() string { return "poll_vote" }
