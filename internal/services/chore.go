package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type CreateChoreInput struct {
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	DueDate          *time.Time  `json:"due_date"`
	Priority         int         `json:"priority"`
	RecurrenceRuleID *uuid.UUID  `json:"recurrence_rule_id"`
	AssigneeIDs      []uuid.UUID `json:"assignee_ids"`
}

type UpdateChoreInput struct {
	Title            *string            `json:"title"`
	Description      *string            `json:"description"`
	DueDate          *time.Time         `json:"due_date"`
	Priority         *int               `json:"priority"`
	Status           *types.ChoreStatus `json:"status"`
	RecurrenceRuleID *uuid.UUID         `json:"recurrence_rule_id"`
	ClearRecurrence  bool               `json:"clear_recurrence"`
}

type CreateSubtaskInput struct {
	Title string `json:"title"`
}

type UpdateSubtaskInput struct {
	Title  *string              `json:"title"`
	Status *types.SubtaskStatus `json:"status"`
}

type ChoreService interface {
	Create(ctx context.Context, userID, householdID uuid.UUID, input CreateChoreInput) (*types.Chore, error)
	Get(ctx context.Context, userID, householdID, choreID uuid.UUID) (*types.Chore, error)
	List(ctx context.Context, userID, householdID uuid.UUID, limit, offset int) ([]*types.Chore, int64, error)
	Update(ctx context.Context, userID, householdID, choreID uuid.UUID, input UpdateChoreInput) (*types.Chore, error)
	Delete(ctx context.Context, userID, householdID, choreID uuid.UUID) error
	ReplaceAssignees(ctx context.Context, userID, householdID, choreID uuid.UUID, assigneeIDs []uuid.UUID) (*types.Chore, error)

	CreateSubtask(ctx context.Context, userID, householdID, choreID uuid.UUID, input CreateSubtaskInput) (*types.Subtask, error)
	UpdateSubtask(ctx context.Context, userID, householdID, choreID, subtaskID uuid.UUID, input UpdateSubtaskInput) (*types.Subtask, error)
	DeleteSubtask(ctx context.Context, userID, householdID, choreID, subtaskID uuid.UUID) error

	ListHistory(ctx context.Context, userID, householdID, choreID uuid.UUID) ([]*types.ChoreHistory, error)
}

type choreService struct {
	db             *gorm.DB
	log            *logger.Logger
	guard          Guard
	choreRepo      repos.ChoreRepo
	recurrenceRepo repos.RecurrenceRepo
	userRepo       repos.UserRepo
	membershipRepo repos.MembershipRepo
	notifier       Notifier
}

func NewChoreService(db *gorm.DB, log *logger.Logger, guard Guard, choreRepo repos.ChoreRepo, recurrenceRepo repos.RecurrenceRepo, userRepo repos.UserRepo, membershipRepo repos.MembershipRepo, notifier Notifier) ChoreService {
	return &choreService{
		db:             db,
		log:            log.With("service", "ChoreService"),
		guard:          guard,
		choreRepo:      choreRepo,
		recurrenceRepo: recurrenceRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
	}
}

func (s *choreService) Create(ctx context.Context, userID, householdID uuid.UUID, input CreateChoreInput) (*types.Chore, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.BadRequest("title is required")
	}
	var created *types.Chore
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin); err != nil {
			return err
		}
		if input.RecurrenceRuleID != nil {
			if _, err := s.recurrenceRepo.GetByID(ctx, tx, *input.RecurrenceRuleID); err != nil {
				return maskNotFound(err, "recurrence rule not found")
			}
		}
		chore := &types.Chore{
			ID:               uuid.New(),
			HouseholdID:      householdID,
			Title:            title,
			Description:      strings.TrimSpace(input.Description),
			DueDate:          input.DueDate,
			Priority:         input.Priority,
			Status:           types.ChoreStatusPending,
			RecurrenceRuleID: input.RecurrenceRuleID,
		}
		if _, err := s.choreRepo.Create(ctx, tx, chore); err != nil {
			return apierr.Internal(err)
		}
		if len(input.AssigneeIDs) > 0 {
			assignees, err := s.resolveAssignees(ctx, tx, householdID, input.AssigneeIDs)
			if err != nil {
				return err
			}
			if err := s.choreRepo.ReplaceAssignees(ctx, tx, chore, assignees); err != nil {
				return apierr.Internal(err)
			}
			chore.Assignees = assignees
		}
		if err := s.appendHistory(ctx, tx, chore.ID, userID, types.HistoryCreated); err != nil {
			return err
		}
		created = chore
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ChoreChanged(householdID, realtime.ActionCreated, created)
	return created, nil
}

func (s *choreService) Get(ctx context.Context, userID, householdID, choreID uuid.UUID) (*types.Chore, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	chore, err := s.choreRepo.GetForHousehold(ctx, nil, householdID, choreID)
	if err != nil {
		return nil, maskNotFound(err, "chore not found")
	}
	return chore, nil
}

func (s *choreService) List(ctx context.Context, userID, householdID uuid.UUID, limit, offset int) ([]*types.Chore, int64, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, 0, err
	}
	chores, total, err := s.choreRepo.ListByHousehold(ctx, nil, householdID, limit, offset)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return chores, total, nil
}

func (s *choreService) Update(ctx context.Context, userID, householdID, choreID uuid.UUID, input UpdateChoreInput) (*types.Chore, error) {
	var updated *types.Chore
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember)
		if err != nil {
			return err
		}
		chore, err := s.choreRepo.GetForHousehold(ctx, tx, householdID, choreID)
		if err != nil {
			return maskNotFound(err, "chore not found")
		}
		if err := verifyChoreMutator(member, chore, userID); err != nil {
			return err
		}
		action := types.HistoryUpdated
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apierr.BadRequest("title cannot be empty")
			}
			chore.Title = title
		}
		if input.Description != nil {
			chore.Description = strings.TrimSpace(*input.Description)
		}
		if input.DueDate != nil {
			chore.DueDate = input.DueDate
		}
		if input.Priority != nil {
			chore.Priority = *input.Priority
		}
		if input.Status != nil && *input.Status != chore.Status {
			switch *input.Status {
			case types.ChoreStatusPending, types.ChoreStatusInProgress, types.ChoreStatusCompleted:
			default:
				return apierr.BadRequest("invalid status")
			}
			chore.Status = *input.Status
			action = types.HistoryStatusChanged
			if chore.Status == types.ChoreStatusCompleted {
				action = types.HistoryCompleted
			}
		}
		if input.ClearRecurrence {
			chore.RecurrenceRuleID = nil
			action = types.HistoryRecurrenceChanged
		} else if input.RecurrenceRuleID != nil {
			if _, err := s.recurrenceRepo.GetByID(ctx, tx, *input.RecurrenceRuleID); err != nil {
				return maskNotFound(err, "recurrence rule not found")
			}
			chore.RecurrenceRuleID = input.RecurrenceRuleID
			action = types.HistoryRecurrenceChanged
		}
		if err := s.choreRepo.Update(ctx, tx, chore); err != nil {
			return apierr.Internal(err)
		}
		if err := s.appendHistory(ctx, tx, chore.ID, userID, action); err != nil {
			return err
		}
		updated = chore
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ChoreChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *choreService) Delete(ctx context.Context, userID, householdID, choreID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin); err != nil {
			return err
		}
		if _, err := s.choreRepo.GetForHousehold(ctx, tx, householdID, choreID); err != nil {
			return maskNotFound(err, "chore not found")
		}
		if err := s.choreRepo.Delete(ctx, tx, choreID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.ChoreChanged(householdID, realtime.ActionDeleted, map[string]any{"id": choreID})
	return nil
}

func (s *choreService) ReplaceAssignees(ctx context.Context, userID, householdID, choreID uuid.UUID, assigneeIDs []uuid.UUID) (*types.Chore, error) {
	var updated *types.Chore
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember)
		if err != nil {
			return err
		}
		chore, err := s.choreRepo.GetForHousehold(ctx, tx, householdID, choreID)
		if err != nil {
			return maskNotFound(err, "chore not found")
		}
		if err := verifyChoreMutator(member, chore, userID); err != nil {
			return err
		}
		assignees, err := s.resolveAssignees(ctx, tx, householdID, assigneeIDs)
		if err != nil {
			return err
		}
		if err := s.choreRepo.ReplaceAssignees(ctx, tx, chore, assignees); err != nil {
			return apierr.Internal(err)
		}
		if err := s.appendHistory(ctx, tx, chore.ID, userID, types.HistoryUpdated); err != nil {
			return err
		}
		chore.Assignees = assignees
		updated = chore
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ChoreChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *choreService) CreateSubtask(ctx context.Context, userID, householdID, choreID uuid.UUID, input CreateSubtaskInput) (*types.Subtask, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.BadRequest("title is required")
	}
	var created *types.Subtask
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember)
		if err != nil {
			return err
		}
		chore, err := s.choreRepo.GetForHousehold(ctx, tx, householdID, choreID)
		if err != nil {
			return maskNotFound(err, "chore not found")
		}
		if err := verifyChoreMutator(member, chore, userID); err != nil {
			return err
		}
		subtask := &types.Subtask{
			ID:      uuid.New(),
			ChoreID: chore.ID,
			Title:   title,
			Status:  types.SubtaskStatusPending,
		}
		if _, err := s.choreRepo.CreateSubtask(ctx, tx, subtask); err != nil {
			return apierr.Internal(err)
		}
		// A new pending subtask reopens a completed chore.
		if chore.Status == types.ChoreStatusCompleted {
			chore.Status = types.ChoreStatusInProgress
			if err := s.choreRepo.Update(ctx, tx, chore); err != nil {
				return apierr.Internal(err)
			}
			if err := s.appendHistory(ctx, tx, chore.ID, userID, types.HistoryStatusChanged); err != nil {
				return err
			}
		}
		created = subtask
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ChoreChanged(householdID, realtime.ActionUpdated, created)
	return created, nil
}

func (s *choreService) UpdateSubtask(ctx context.Context, userID, householdID, choreID, subtaskID uuid.UUID, input UpdateSubtaskInput) (*types.Subtask, error) {
	var updated *types.Subtask
	var cascaded *types.Chore
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember)
		if err != nil {
			return err
		}
		chore, err := s.choreRepo.GetForHousehold(ctx, tx, householdID, choreID)
		if err != nil {
			return maskNotFound(err, "chore not found")
		}
		if err := verifyChoreMutator(member, chore, userID); err != nil {
			return err
		}
		subtask, err := s.choreRepo.GetSubtaskForChore(ctx, tx, chore.ID, subtaskID)
		if err != nil {
			return maskNotFound(err, "subtask not found")
		}
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apierr.BadRequest("title cannot be empty")
			}
			subtask.Title = title
		}
		statusChanged := false
		if input.Status != nil && *input.Status != subtask.Status {
			switch *input.Status {
			case types.SubtaskStatusPending, types.SubtaskStatusInProgress, types.SubtaskStatusCompleted:
			default:
				return apierr.BadRequest("invalid status")
			}
			subtask.Status = *input.Status
			statusChanged = true
		}
		if err := s.choreRepo.UpdateSubtask(ctx, tx, subtask); err != nil {
			return apierr.Internal(err)
		}
		if statusChanged {
			// Siblings are re-read inside this transaction so a concurrent
			// writer cannot produce a half-complete cascade.
			siblings, err := s.choreRepo.ListSubtasks(ctx, tx, chore.ID)
			if err != nil {
				return apierr.Internal(err)
			}
			if allSubtasksCompleted(siblings) && chore.Status != types.ChoreStatusCompleted {
				chore.Status = types.ChoreStatusCompleted
				if err := s.choreRepo.Update(ctx, tx, chore); err != nil {
					return apierr.Internal(err)
				}
				if err := s.appendHistory(ctx, tx, chore.ID, userID, types.HistoryCompleted); err != nil {
					return err
				}
				cascaded = chore
			}
		}
		updated = subtask
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ChoreChanged(householdID, realtime.ActionUpdated, updated)
	if cascaded != nil {
		s.notifier.ChoreChanged(householdID, realtime.ActionStatusChanged, cascaded)
	}
	return updated, nil
}

func (s *choreService) DeleteSubtask(ctx context.Context, userID, householdID, choreID, subtaskID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember)
		if err != nil {
			return err
		}
		chore, err := s.choreRepo.GetForHousehold(ctx, tx, householdID, choreID)
		if err != nil {
			return maskNotFound(err, "chore not found")
		}
		if err := verifyChoreMutator(member, chore, userID); err != nil {
			return err
		}
		subtask, err := s.choreRepo.GetSubtaskForChore(ctx, tx, chore.ID, subtaskID)
		if err != nil {
			return maskNotFound(err, "subtask not found")
		}
		if err := s.choreRepo.DeleteSubtask(ctx, tx, subtask.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.ChoreChanged(householdID, realtime.ActionUpdated, map[string]any{"deleted_subtask_id": subtaskID})
	return nil
}

func (s *choreService) ListHistory(ctx context.Context, userID, householdID, choreID uuid.UUID) ([]*types.ChoreHistory, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	if _, err := s.choreRepo.GetForHousehold(ctx, nil, householdID, choreID); err != nil {
		return nil, maskNotFound(err, "chore not found")
	}
	history, err := s.choreRepo.ListHistory(ctx, nil, choreID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return history, nil
}

func (s *choreService) resolveAssignees(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, ids []uuid.UUID) ([]*types.User, error) {
	assignees := make([]*types.User, 0, len(ids))
	for _, id := range ids {
		if _, err := s.membershipRepo.Get(ctx, tx, householdID, id); err != nil {
			return nil, apierr.BadRequest("assignee is not a household member")
		}
		user, err := s.userRepo.GetByID(ctx, tx, id)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		assignees = append(assignees, user)
	}
	return assignees, nil
}

func (s *choreService) appendHistory(ctx context.Context, tx *gorm.DB, choreID, actorID uuid.UUID, action types.HistoryAction) error {
	entry := &types.ChoreHistory{
		ID:      uuid.New(),
		ChoreID: choreID,
		Action:  action,
		ActorID: actorID,
	}
	if err := s.choreRepo.AppendHistory(ctx, tx, entry); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// verifyChoreMutator lets admins and current assignees mutate a chore;
// everyone else is rejected.
func verifyChoreMutator(member *types.HouseholdMember, chore *types.Chore, userID uuid.UUID) error {
	if member.Role == types.RoleAdmin {
		return nil
	}
	for _, assignee := range chore.Assignees {
		if assignee.ID == userID {
			return nil
		}
	}
	return apierr.Unauthorized("only an admin or assignee can modify this chore")
}

func allSubtasksCompleted(subtasks []*types.Subtask) bool {
	if len(subtasks) == 0 {
		return false
	}
	for _, st := range subtasks {
		if st.Status != types.SubtaskStatusCompleted {
			return false
		}
	}
	return true
}
