package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/filestore"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type CreateMessageInput struct {
	Body         string      `json:"body"`
	MentionedIDs []uuid.UUID `json:"mentioned_ids"`
}

type UpdateMessageInput struct {
	Body string `json:"body"`
}

type AttachmentInput struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

type MessageService interface {
	Create(ctx context.Context, userID, householdID, threadID uuid.UUID, input CreateMessageInput) (*types.Message, error)
	Get(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) (*types.Message, error)
	List(ctx context.Context, userID, householdID, threadID uuid.UUID, limit, offset int) ([]*types.Message, int64, error)
	// Update and Delete are author-or-admin operations.
	Update(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, input UpdateMessageInput) (*types.Message, error)
	Delete(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) error

	AddAttachment(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, input AttachmentInput) (*types.Attachment, error)
	RemoveAttachment(ctx context.Context, userID, householdID, threadID, messageID, attachmentID uuid.UUID) error

	AddReaction(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, reactionType string) (*types.Reaction, error)
	// RemoveReaction is strictly author-only; admins get no override here.
	RemoveReaction(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, reactionType string) error

	MarkRead(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) error
}

type messageService struct {
	db               *gorm.DB
	log              *logger.Logger
	guard            Guard
	threadRepo       repos.ThreadRepo
	messageRepo      repos.MessageRepo
	membershipRepo   repos.MembershipRepo
	notificationRepo repos.NotificationRepo
	files            filestore.Store
	notifier         Notifier
}

func NewMessageService(db *gorm.DB, log *logger.Logger, guard Guard, threadRepo repos.ThreadRepo, messageRepo repos.MessageRepo, membershipRepo repos.MembershipRepo, notificationRepo repos.NotificationRepo, files filestore.Store, notifier Notifier) MessageService {
	return &messageService{
		db:               db,
		log:              log.With("service", "MessageService"),
		guard:            guard,
		threadRepo:       threadRepo,
		messageRepo:      messageRepo,
		membershipRepo:   membershipRepo,
		notificationRepo: notificationRepo,
		files:            files,
		notifier:         notifier,
	}
}

func (s *messageService) Create(ctx context.Context, userID, householdID, threadID uuid.UUID, input CreateMessageInput) (*types.Message, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apierr.BadRequest("body is required")
	}
	var created *types.Message
	var mentionNotifications []*types.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		thread, err := s.threadRepo.GetForHousehold(ctx, tx, householdID, threadID)
		if err != nil {
			return maskNotFound(err, "thread not found")
		}
		message := &types.Message{
			ID:       uuid.New(),
			ThreadID: thread.ID,
			AuthorID: userID,
			Body:     body,
		}
		if _, err := s.messageRepo.Create(ctx, tx, message); err != nil {
			return apierr.Internal(err)
		}
		if len(input.MentionedIDs) > 0 {
			mentions := make([]*types.Mention, 0, len(input.MentionedIDs))
			for _, mentionedID := range input.MentionedIDs {
				if _, err := s.membershipRepo.Get(ctx, tx, householdID, mentionedID); err != nil {
					return apierr.BadRequest("mentioned user is not a household member")
				}
				mentions = append(mentions, &types.Mention{
					ID:              uuid.New(),
					MessageID:       message.ID,
					MentionedUserID: mentionedID,
				})
				notification := &types.Notification{
					ID:      uuid.New(),
					UserID:  mentionedID,
					Type:    "MENTION",
					Message: fmt.Sprintf("You were mentioned in %q", thread.Title),
				}
				if _, err := s.notificationRepo.Create(ctx, tx, notification); err != nil {
					return apierr.Internal(err)
				}
				mentionNotifications = append(mentionNotifications, notification)
			}
			if err := s.messageRepo.CreateMentions(ctx, tx, mentions); err != nil {
				return apierr.Internal(err)
			}
			message.Mentions = mentions
		}
		created = message
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.MessageChanged(householdID, realtime.ActionCreated, created)
	for _, notification := range mentionNotifications {
		s.notifier.NotificationChanged(notification.UserID, realtime.ActionCreated, notification)
	}
	return created, nil
}

func (s *messageService) Get(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) (*types.Message, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	message, err := s.resolveMessage(ctx, nil, householdID, threadID, messageID)
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) List(ctx context.Context, userID, householdID, threadID uuid.UUID, limit, offset int) ([]*types.Message, int64, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, 0, err
	}
	if _, err := s.threadRepo.GetForHousehold(ctx, nil, householdID, threadID); err != nil {
		return nil, 0, maskNotFound(err, "thread not found")
	}
	messages, total, err := s.messageRepo.ListByThread(ctx, nil, threadID, limit, offset)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return messages, total, nil
}

func (s *messageService) Update(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, input UpdateMessageInput) (*types.Message, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apierr.BadRequest("body is required")
	}
	var updated *types.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if _, err := s.guard.VerifyAuthorOrAdmin(ctx, tx, householdID, userID, message.AuthorID); err != nil {
			return err
		}
		message.Body = body
		if err := s.messageRepo.Update(ctx, tx, message); err != nil {
			return apierr.Internal(err)
		}
		updated = message
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.MessageChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *messageService) Delete(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if _, err := s.guard.VerifyAuthorOrAdmin(ctx, tx, householdID, userID, message.AuthorID); err != nil {
			return err
		}
		if err := s.messageRepo.SoftDelete(ctx, tx, message.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.MessageChanged(householdID, realtime.ActionDeleted, map[string]any{"id": messageID})
	return nil
}

func (s *messageService) AddAttachment(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, input AttachmentInput) (*types.Attachment, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" || len(input.Data) == 0 {
		return nil, apierr.BadRequest("file_name and file content are required")
	}
	attachmentID := uuid.New()
	key := fmt.Sprintf("attachments/%s/%s", messageID, attachmentID)
	var created *types.Attachment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if err := s.files.Put(ctx, key, input.Data); err != nil {
			return apierr.Internal(err)
		}
		attachment := &types.Attachment{
			ID:         attachmentID,
			MessageID:  message.ID,
			UploaderID: userID,
			FileName:   fileName,
			FileKey:    key,
			MimeType:   input.MimeType,
			SizeBytes:  int64(len(input.Data)),
		}
		if _, err := s.messageRepo.CreateAttachment(ctx, tx, attachment); err != nil {
			return apierr.Internal(err)
		}
		created = attachment
		return nil
	})
	if err != nil {
		// The row rolled back with the transaction; the blob has to be
		// cleaned up by hand.
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned attachment blob", "key", key, "error", delErr)
		}
		return nil, err
	}
	s.notifier.MessageChanged(householdID, realtime.ActionUpdated, created)
	return created, nil
}

func (s *messageService) RemoveAttachment(ctx context.Context, userID, householdID, threadID, messageID, attachmentID uuid.UUID) error {
	var fileKey string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		attachment, err := s.messageRepo.GetAttachmentForMessage(ctx, tx, message.ID, attachmentID)
		if err != nil {
			return maskNotFound(err, "attachment not found")
		}
		if _, err := s.guard.VerifyAuthorOrAdmin(ctx, tx, householdID, userID, attachment.UploaderID); err != nil {
			return err
		}
		if err := s.messageRepo.DeleteAttachment(ctx, tx, attachment.ID); err != nil {
			return apierr.Internal(err)
		}
		fileKey = attachment.FileKey
		return nil
	})
	if err != nil {
		return err
	}
	if delErr := s.files.Delete(ctx, fileKey); delErr != nil {
		s.log.Warn("attachment blob delete failed", "key", fileKey, "error", delErr)
	}
	s.notifier.MessageChanged(householdID, realtime.ActionUpdated, map[string]any{"deleted_attachment_id": attachmentID})
	return nil
}

func (s *messageService) AddReaction(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, reactionType string) (*types.Reaction, error) {
	reactionType = strings.TrimSpace(reactionType)
	if reactionType == "" {
		return nil, apierr.BadRequest("reaction type is required")
	}
	var created *types.Reaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if existing, err := s.messageRepo.GetReaction(ctx, tx, message.ID, userID, reactionType); err == nil {
			created = existing
			return nil
		}
		reaction := &types.Reaction{
			ID:        uuid.New(),
			MessageID: message.ID,
			UserID:    userID,
			Type:      reactionType,
		}
		if _, err := s.messageRepo.CreateReaction(ctx, tx, reaction); err != nil {
			return apierr.Internal(err)
		}
		created = reaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.MessageChanged(householdID, realtime.ActionUpdated, created)
	return created, nil
}

func (s *messageService) RemoveReaction(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, reactionType string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		// Lookup is scoped to the caller, so only their own reaction is
		// ever visible for removal.
		reaction, err := s.messageRepo.GetReaction(ctx, tx, message.ID, userID, reactionType)
		if err != nil {
			return maskNotFound(err, "reaction not found")
		}
		if err := s.messageRepo.DeleteReaction(ctx, tx, reaction.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.MessageChanged(householdID, realtime.ActionUpdated, map[string]any{"removed_reaction_type": reactionType, "message_id": messageID})
	return nil
}

func (s *messageService) MarkRead(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		read := &types.MessageRead{
			ID:        uuid.New(),
			MessageID: message.ID,
			UserID:    userID,
			ReadAt:    time.Now(),
		}
		if err := s.messageRepo.UpsertRead(ctx, tx, read); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}

// resolveMessage walks household → thread → message so a message reached
// through the wrong household or thread reads as missing.
func (s *messageService) resolveMessage(ctx context.Context, tx *gorm.DB, householdID, threadID, messageID uuid.UUID) (*types.Message, error) {
	thread, err := s.threadRepo.GetForHousehold(ctx, tx, householdID, threadID)
	if err != nil {
		return nil, maskNotFound(err, "thread not found")
	}
	message, err := s.messageRepo.GetForThread(ctx, tx, thread.ID, messageID)
	if err != nil {
		return nil, maskNotFound(err, "message not found")
	}
	return message, nil
}
