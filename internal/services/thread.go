package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type CreateThreadInput struct {
	Title          string      `json:"title"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

type UpdateThreadInput struct {
	Title *string `json:"title"`
}

type ThreadService interface {
	Create(ctx context.Context, userID, householdID uuid.UUID, input CreateThreadInput) (*types.Thread, error)
	Get(ctx context.Context, userID, householdID, threadID uuid.UUID) (*types.Thread, error)
	List(ctx context.Context, userID, householdID uuid.UUID, limit, offset int) ([]*types.Thread, int64, error)
	Update(ctx context.Context, userID, householdID, threadID uuid.UUID, input UpdateThreadInput) (*types.Thread, error)
	// Delete removes the thread and everything beneath it (messages and
	// their polls, votes, attachments, reactions, mentions, reads) in one
	// transaction.
	Delete(ctx context.Context, userID, householdID, threadID uuid.UUID) error
	ReplaceParticipants(ctx context.Context, userID, householdID, threadID uuid.UUID, memberIDs []uuid.UUID) (*types.Thread, error)
}

type threadService struct {
	db             *gorm.DB
	log            *logger.Logger
	guard          Guard
	threadRepo     repos.ThreadRepo
	membershipRepo repos.MembershipRepo
	notifier       Notifier
}

func NewThreadService(db *gorm.DB, log *logger.Logger, guard Guard, threadRepo repos.ThreadRepo, membershipRepo repos.MembershipRepo, notifier Notifier) ThreadService {
	return &threadService{
		db:             db,
		log:            log.With("service", "ThreadService"),
		guard:          guard,
		threadRepo:     threadRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
	}
}

func (s *threadService) Create(ctx context.Context, userID, householdID uuid.UUID, input CreateThreadInput) (*types.Thread, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.BadRequest("title is required")
	}
	var created *types.Thread
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		thread := &types.Thread{
			ID:          uuid.New(),
			HouseholdID: householdID,
			AuthorID:    userID,
			Title:       title,
		}
		if _, err := s.threadRepo.Create(ctx, tx, thread); err != nil {
			return apierr.Internal(err)
		}
		if len(input.ParticipantIDs) > 0 {
			participants, err := s.resolveParticipants(ctx, tx, householdID, input.ParticipantIDs)
			if err != nil {
				return err
			}
			if err := s.threadRepo.ReplaceParticipants(ctx, tx, thread, participants); err != nil {
				return apierr.Internal(err)
			}
			thread.Participants = participants
		}
		created = thread
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ThreadChanged(householdID, realtime.ActionCreated, created)
	return created, nil
}

func (s *threadService) Get(ctx context.Context, userID, householdID, threadID uuid.UUID) (*types.Thread, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	thread, err := s.threadRepo.GetForHousehold(ctx, nil, householdID, threadID)
	if err != nil {
		return nil, maskNotFound(err, "thread not found")
	}
	return thread, nil
}

func (s *threadService) List(ctx context.Context, userID, householdID uuid.UUID, limit, offset int) ([]*types.Thread, int64, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, 0, err
	}
	threads, total, err := s.threadRepo.ListByHousehold(ctx, nil, householdID, limit, offset)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return threads, total, nil
}

func (s *threadService) Update(ctx context.Context, userID, householdID, threadID uuid.UUID, input UpdateThreadInput) (*types.Thread, error) {
	var updated *types.Thread
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		thread, err := s.threadRepo.GetForHousehold(ctx, tx, householdID, threadID)
		if err != nil {
			return maskNotFound(err, "thread not found")
		}
		if _, err := s.guard.VerifyAuthorOrAdmin(ctx, tx, householdID, userID, thread.AuthorID); err != nil {
			return err
		}
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apierr.BadRequest("title cannot be empty")
			}
			thread.Title = title
		}
		if err := s.threadRepo.Update(ctx, tx, thread); err != nil {
			return apierr.Internal(err)
		}
		updated = thread
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ThreadChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *threadService) Delete(ctx context.Context, userID, householdID, threadID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		thread, err := s.threadRepo.GetForHousehold(ctx, tx, householdID, threadID)
		if err != nil {
			return maskNotFound(err, "thread not found")
		}
		if _, err := s.guard.VerifyAuthorOrAdmin(ctx, tx, householdID, userID, thread.AuthorID); err != nil {
			return err
		}
		if err := s.threadRepo.Delete(ctx, tx, thread.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.ThreadChanged(householdID, realtime.ActionDeleted, map[string]any{"id": threadID})
	return nil
}

func (s *threadService) ReplaceParticipants(ctx context.Context, userID, householdID, threadID uuid.UUID, memberIDs []uuid.UUID) (*types.Thread, error) {
	var updated *types.Thread
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		thread, err := s.threadRepo.GetForHousehold(ctx, tx, householdID, threadID)
		if err != nil {
			return maskNotFound(err, "thread not found")
		}
		participants, err := s.resolveParticipants(ctx, tx, householdID, memberIDs)
		if err != nil {
			return err
		}
		if err := s.threadRepo.ReplaceParticipants(ctx, tx, thread, participants); err != nil {
			return apierr.Internal(err)
		}
		thread.Participants = participants
		updated = thread
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ThreadChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *threadService) resolveParticipants(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, memberIDs []uuid.UUID) ([]*types.HouseholdMember, error) {
	participants := make([]*types.HouseholdMember, 0, len(memberIDs))
	for _, id := range memberIDs {
		member, err := s.membershipRepo.GetByID(ctx, tx, householdID, id)
		if err != nil {
			return nil, apierr.BadRequest("participant is not a household member")
		}
		participants = append(participants, member)
	}
	return participants, nil
}
