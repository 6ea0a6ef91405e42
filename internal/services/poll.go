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

type CreatePollInput struct {
	Question string         `json:"question"`
	Type     types.PollType `json:"type"`
	Options  []string       `json:"options"`
}

type VoteInput struct {
	OptionID uuid.UUID `json:"option_id"`
	Rank     int       `json:"rank"`
}

// PollOptionCount pairs an option with its vote tally.
type PollOptionCount struct {
	Option *types.PollOption `json:"option"`
	Votes  int64             `json:"votes"`
}

type PollService interface {
	// Create attaches a poll to an existing message; one poll per message.
	Create(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, input CreatePollInput) (*types.Poll, error)
	Get(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) (*types.Poll, error)
	// Vote rejects closed polls. Unless the poll is MULTIPLE_CHOICE the
	// caller's previous votes are replaced.
	Vote(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, votes []VoteInput) (*types.Poll, error)
	RemoveVote(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) error
	// Close is author-or-admin; an optional winning option may be recorded.
	Close(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, selectedOptionID *uuid.UUID) (*types.Poll, error)
	Analytics(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) ([]PollOptionCount, error)
	Delete(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) error
}

type pollService struct {
	db          *gorm.DB
	log         *logger.Logger
	guard       Guard
	threadRepo  repos.ThreadRepo
	messageRepo repos.MessageRepo
	pollRepo    repos.PollRepo
	notifier    Notifier
}

func NewPollService(db *gorm.DB, log *logger.Logger, guard Guard, threadRepo repos.ThreadRepo, messageRepo repos.MessageRepo, pollRepo repos.PollRepo, notifier Notifier) PollService {
	return &pollService{
		db:          db,
		log:         log.With("service", "PollService"),
		guard:       guard,
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		pollRepo:    pollRepo,
		notifier:    notifier,
	}
}

func (s *pollService) Create(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, input CreatePollInput) (*types.Poll, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, apierr.BadRequest("question is required")
	}
	if len(input.Options) < 2 {
		return nil, apierr.BadRequest("a poll needs at least two options")
	}
	pollType := input.Type
	if pollType == "" {
		pollType = types.PollTypeSingleChoice
	}
	switch pollType {
	case types.PollTypeSingleChoice, types.PollTypeMultipleChoice, types.PollTypeRankedChoice:
	default:
		return nil, apierr.BadRequest("invalid poll type")
	}
	var created *types.Poll
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if _, err := s.pollRepo.GetByMessage(ctx, tx, message.ID); err == nil {
			return apierr.BadRequest("message already has a poll")
		}
		poll := &types.Poll{
			ID:        uuid.New(),
			MessageID: message.ID,
			AuthorID:  userID,
			Question:  question,
			Type:      pollType,
			Status:    types.PollStatusOpen,
		}
		options := make([]*types.PollOption, 0, len(input.Options))
		for i, text := range input.Options {
			text = strings.TrimSpace(text)
			if text == "" {
				return apierr.BadRequest("option text cannot be empty")
			}
			options = append(options, &types.PollOption{
				ID:       uuid.New(),
				PollID:   poll.ID,
				Text:     text,
				Position: i,
			})
		}
		poll.Options = options
		if _, err := s.pollRepo.Create(ctx, tx, poll); err != nil {
			return apierr.Internal(err)
		}
		created = poll
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.PollChanged(householdID, realtime.ActionCreated, created)
	return created, nil
}

func (s *pollService) Get(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) (*types.Poll, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	poll, err := s.resolvePoll(ctx, nil, householdID, threadID, messageID)
	if err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) Vote(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, votes []VoteInput) (*types.Poll, error) {
	if len(votes) == 0 {
		return nil, apierr.BadRequest("at least one vote is required")
	}
	var updated *types.Poll
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		poll, err := s.resolvePoll(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if poll.Status != types.PollStatusOpen {
			return apierr.BadRequest("poll is closed")
		}
		if poll.Type != types.PollTypeMultipleChoice && len(votes) > 1 {
			return apierr.BadRequest("poll accepts a single choice")
		}
		// Replacement semantics: previous votes go first, so a re-vote is
		// atomic with the new ballot.
		if poll.Type != types.PollTypeMultipleChoice {
			if err := s.pollRepo.DeleteVotesForUser(ctx, tx, poll.ID, userID); err != nil {
				return apierr.Internal(err)
			}
		}
		for _, v := range votes {
			option, err := s.pollRepo.GetOptionForPoll(ctx, tx, poll.ID, v.OptionID)
			if err != nil {
				return maskNotFound(err, "poll option not found")
			}
			vote := &types.PollVote{
				ID:       uuid.New(),
				PollID:   poll.ID,
				OptionID: option.ID,
				UserID:   userID,
				Rank:     v.Rank,
			}
			if _, err := s.pollRepo.CreateVote(ctx, tx, vote); err != nil {
				return apierr.Internal(err)
			}
		}
		refreshed, err := s.pollRepo.GetByID(ctx, tx, poll.ID)
		if err != nil {
			return apierr.Internal(err)
		}
		updated = refreshed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.PollChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *pollService) RemoveVote(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		poll, err := s.resolvePoll(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if poll.Status != types.PollStatusOpen {
			return apierr.BadRequest("poll is closed")
		}
		if _, err := s.pollRepo.GetVoteForUser(ctx, tx, poll.ID, userID); err != nil {
			return maskNotFound(err, "vote not found")
		}
		if err := s.pollRepo.DeleteVotesForUser(ctx, tx, poll.ID, userID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.PollChanged(householdID, realtime.ActionUpdated, map[string]any{"removed_vote_user_id": userID, "message_id": messageID})
	return nil
}

func (s *pollService) Close(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID, selectedOptionID *uuid.UUID) (*types.Poll, error) {
	var updated *types.Poll
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		poll, err := s.resolvePoll(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if _, err := s.guard.VerifyAuthorOrAdmin(ctx, tx, householdID, userID, poll.AuthorID); err != nil {
			return err
		}
		if poll.Status == types.PollStatusClosed {
			return apierr.BadRequest("poll already closed")
		}
		if selectedOptionID != nil {
			option, err := s.pollRepo.GetOptionForPoll(ctx, tx, poll.ID, *selectedOptionID)
			if err != nil {
				return maskNotFound(err, "poll option not found")
			}
			poll.SelectedOptionID = &option.ID
		}
		poll.Status = types.PollStatusClosed
		if err := s.pollRepo.Update(ctx, tx, poll); err != nil {
			return apierr.Internal(err)
		}
		updated = poll
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.PollChanged(householdID, realtime.ActionStatusChanged, updated)
	return updated, nil
}

func (s *pollService) Analytics(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) ([]PollOptionCount, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	poll, err := s.resolvePoll(ctx, nil, householdID, threadID, messageID)
	if err != nil {
		return nil, err
	}
	counts, err := s.pollRepo.CountVotesByOption(ctx, nil, poll.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	result := make([]PollOptionCount, 0, len(poll.Options))
	for _, option := range poll.Options {
		result = append(result, PollOptionCount{Option: option, Votes: counts[option.ID]})
	}
	return result, nil
}

func (s *pollService) Delete(ctx context.Context, userID, householdID, threadID, messageID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		poll, err := s.resolvePoll(ctx, tx, householdID, threadID, messageID)
		if err != nil {
			return err
		}
		if _, err := s.guard.VerifyAuthorOrAdmin(ctx, tx, householdID, userID, poll.AuthorID); err != nil {
			return err
		}
		if err := s.pollRepo.DeleteCascade(ctx, tx, poll.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.PollChanged(householdID, realtime.ActionDeleted, map[string]any{"message_id": messageID})
	return nil
}

func (s *pollService) resolveMessage(ctx context.Context, tx *gorm.DB, householdID, threadID, messageID uuid.UUID) (*types.Message, error) {
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

func (s *pollService) resolvePoll(ctx context.Context, tx *gorm.DB, householdID, threadID, messageID uuid.UUID) (*types.Poll, error) {
	message, err := s.resolveMessage(ctx, tx, householdID, threadID, messageID)
	if err != nil {
		return nil, err
	}
	poll, err := s.pollRepo.GetByMessage(ctx, tx, message.ID)
	if err != nil {
		return nil, maskNotFound(err, "poll not found")
	}
	return poll, nil
}
