package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type MessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, message *types.Message) (*types.Message, error)
	GetForThread(ctx context.Context, tx *gorm.DB, threadID, messageID uuid.UUID) (*types.Message, error)
	ListByThread(ctx context.Context, tx *gorm.DB, threadID uuid.UUID, limit, offset int) ([]*types.Message, int64, error)
	Update(ctx context.Context, tx *gorm.DB, message *types.Message) error
	SoftDelete(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) error

	CreateAttachment(ctx context.Context, tx *gorm.DB, attachment *types.Attachment) (*types.Attachment, error)
	GetAttachmentForMessage(ctx context.Context, tx *gorm.DB, messageID, attachmentID uuid.UUID) (*types.Attachment, error)
	DeleteAttachment(ctx context.Context, tx *gorm.DB, attachmentID uuid.UUID) error

	CreateReaction(ctx context.Context, tx *gorm.DB, reaction *types.Reaction) (*types.Reaction, error)
	GetReaction(ctx context.Context, tx *gorm.DB, messageID, userID uuid.UUID, reactionType string) (*types.Reaction, error)
	DeleteReaction(ctx context.Context, tx *gorm.DB, reactionID uuid.UUID) error

	CreateMentions(ctx context.Context, tx *gorm.DB, mentions []*types.Mention) error
	GetMentionForMessage(ctx context.Context, tx *gorm.DB, messageID, mentionID uuid.UUID) (*types.Mention, error)
	DeleteMention(ctx context.Context, tx *gorm.DB, mentionID uuid.UUID) error

	UpsertRead(ctx context.Context, tx *gorm.DB, read *types.MessageRead) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (r *messageRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *messageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.Message) (*types.Message, error) {
	if err := r.handle(tx).WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (r *messageRepo) GetForThread(ctx context.Context, tx *gorm.DB, threadID, messageID uuid.UUID) (*types.Message, error) {
	var message types.Message
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND thread_id = ?", messageID, threadID).
		Preload("Attachments").
		Preload("Reactions").
		Preload("Mentions").
		Preload("Poll").
		Preload("Poll.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepo) ListByThread(ctx context.Context, tx *gorm.DB, threadID uuid.UUID, limit, offset int) ([]*types.Message, int64, error) {
	h := r.handle(tx).WithContext(ctx)

	var total int64
	if err := h.Model(&types.Message{}).
		Where("thread_id = ?", threadID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := h.Where("thread_id = ?", threadID).
		Preload("Attachments").
		Preload("Reactions").
		Preload("Poll").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var messages []*types.Message
	if err := q.Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *messageRepo) Update(ctx context.Context, tx *gorm.DB, message *types.Message) error {
	return r.handle(tx).WithContext(ctx).
		Omit("Attachments", "Reactions", "Mentions", "Reads", "Poll").
		Save(message).Error
}

func (r *messageRepo) SoftDelete(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", messageID).
		Delete(&types.Message{}).Error
}

func (r *messageRepo) CreateAttachment(ctx context.Context, tx *gorm.DB, attachment *types.Attachment) (*types.Attachment, error) {
	if err := r.handle(tx).WithContext(ctx).Create(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

func (r *messageRepo) GetAttachmentForMessage(ctx context.Context, tx *gorm.DB, messageID, attachmentID uuid.UUID) (*types.Attachment, error) {
	var attachment types.Attachment
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND message_id = ?", attachmentID, messageID).
		First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *messageRepo) DeleteAttachment(ctx context.Context, tx *gorm.DB, attachmentID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", attachmentID).
		Delete(&types.Attachment{}).Error
}

func (r *messageRepo) CreateReaction(ctx context.Context, tx *gorm.DB, reaction *types.Reaction) (*types.Reaction, error) {
	if err := r.handle(tx).WithContext(ctx).Create(reaction).Error; err != nil {
		return nil, err
	}
	return reaction, nil
}

func (r *messageRepo) GetReaction(ctx context.Context, tx *gorm.DB, messageID, userID uuid.UUID, reactionType string) (*types.Reaction, error) {
	var reaction types.Reaction
	if err := r.handle(tx).WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND type = ?", messageID, userID, reactionType).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *messageRepo) DeleteReaction(ctx context.Context, tx *gorm.DB, reactionID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", reactionID).
		Delete(&types.Reaction{}).Error
}

func (r *messageRepo) CreateMentions(ctx context.Context, tx *gorm.DB, mentions []*types.Mention) error {
	if len(mentions) == 0 {
		return nil
	}
	return r.handle(tx).WithContext(ctx).Create(&mentions).Error
}

func (r *messageRepo) GetMentionForMessage(ctx context.Context, tx *gorm.DB, messageID, mentionID uuid.UUID) (*types.Mention, error) {
	var mention types.Mention
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND message_id = ?", mentionID, messageID).
		First(&mention).Error; err != nil {
		return nil, err
	}
	return &mention, nil
}

func (r *messageRepo) DeleteMention(ctx context.Context, tx *gorm.DB, mentionID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", mentionID).
		Delete(&types.Mention{}).Error
}

func (r *messageRepo) UpsertRead(ctx context.Context, tx *gorm.DB, read *types.MessageRead) error {
	return r.handle(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"read_at"}),
		}).
		Create(read).Error
}
