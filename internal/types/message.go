package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"thread_id"`
	Thread      *Thread        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ThreadID;references:ID" json:"-"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;column:author_id" json:"author_id"`
	Author      *User          `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Body        string         `gorm:"not null;column:body" json:"body"`
	Attachments []*Attachment  `gorm:"foreignKey:MessageID" json:"attachments,omitempty"`
	Reactions   []*Reaction    `gorm:"foreignKey:MessageID" json:"reactions,omitempty"`
	Mentions    []*Mention     `gorm:"foreignKey:MessageID" json:"mentions,omitempty"`
	Reads       []*MessageRead `gorm:"foreignKey:MessageID" json:"reads,omitempty"`
	Poll        *Poll          `gorm:"foreignKey:MessageID" json:"poll,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Message) TableName() string { return "message" }

type Attachment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID  uuid.UUID `gorm:"type:uuid;not null;index" json:"message_id"`
	Message    *Message  `gorm:"constraint:OnDelete:CASCADE;foreignKey:MessageID;references:ID" json:"-"`
	UploaderID uuid.UUID `gorm:"type:uuid;not null;column:uploader_id" json:"uploader_id"`
	FileName   string    `gorm:"not null;column:file_name" json:"file_name"`
	FileKey    string    `gorm:"not null;column:file_key" json:"file_key"`
	MimeType   string    `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes  int64     `gorm:"column:size_bytes" json:"size_bytes"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (Attachment) TableName() string { return "attachment" }

// Reaction is unique per (message, user, type).
type Reaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_message_user_type" json:"message_id"`
	Message   *Message  `gorm:"constraint:OnDelete:CASCADE;foreignKey:MessageID;references:ID" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_message_user_type" json:"user_id"`
	Type      string    `gorm:"not null;uniqueIndex:idx_reaction_message_user_type;column:type" json:"type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Reaction) TableName() string { return "reaction" }

type Mention struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID       uuid.UUID `gorm:"type:uuid;not null;index" json:"message_id"`
	Message         *Message  `gorm:"constraint:OnDelete:CASCADE;foreignKey:MessageID;references:ID" json:"-"`
	MentionedUserID uuid.UUID `gorm:"type:uuid;not null;column:mentioned_user_id" json:"mentioned_user_id"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (Mention) TableName() string { return "mention" }

type MessageRead struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_read_message_user" json:"message_id"`
	Message   *Message  `gorm:"constraint:OnDelete:CASCADE;foreignKey:MessageID;references:ID" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_read_message_user" json:"user_id"`
	ReadAt    time.Time `gorm:"not null;column:read_at" json:"read_at"`
}

func (MessageRead) TableName() string { return "message_read" }
