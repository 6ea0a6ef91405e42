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

type CreateHouseholdInput struct {
	Name string `json:"name"`
}

type UpdateHouseholdInput struct {
	Name *string `json:"name"`
}

type AddMemberInput struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   types.Role `json:"role"`
}

type HouseholdService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateHouseholdInput) (*types.Household, error)
	Get(ctx context.Context, userID, householdID uuid.UUID) (*types.Household, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Household, error)
	Update(ctx context.Context, userID, householdID uuid.UUID, input UpdateHouseholdInput) (*types.Household, error)
	// Delete removes the household and everything under it in one
	// transaction: threads (messages, polls, votes, attachments, reactions,
	// mentions, reads), chores (subtasks, history, assignments), expenses
	// (splits, transactions), events (reminders, history), memberships and
	// notification settings, then the household row.
	Delete(ctx context.Context, userID, householdID uuid.UUID) error

	AddMember(ctx context.Context, userID, householdID uuid.UUID, input AddMemberInput) (*types.HouseholdMember, error)
	RemoveMember(ctx context.Context, userID, householdID, memberID uuid.UUID) error
	ListMembers(ctx context.Context, userID, householdID uuid.UUID) ([]*types.HouseholdMember, error)
	UpdateMemberRole(ctx context.Context, userID, householdID, memberID uuid.UUID, role types.Role) (*types.HouseholdMember, error)
}

type householdService struct {
	db               *gorm.DB
	log              *logger.Logger
	guard            Guard
	householdRepo    repos.HouseholdRepo
	membershipRepo   repos.MembershipRepo
	userRepo         repos.UserRepo
	choreRepo        repos.ChoreRepo
	expenseRepo      repos.ExpenseRepo
	eventRepo        repos.EventRepo
	threadRepo       repos.ThreadRepo
	notificationRepo repos.NotificationRepo
	notifier         Notifier
}

func NewHouseholdService(
	db *gorm.DB,
	log *logger.Logger,
	guard Guard,
	householdRepo repos.HouseholdRepo,
	membershipRepo repos.MembershipRepo,
	userRepo repos.UserRepo,
	choreRepo repos.ChoreRepo,
	expenseRepo repos.ExpenseRepo,
	eventRepo repos.EventRepo,
	threadRepo repos.ThreadRepo,
	notificationRepo repos.NotificationRepo,
	notifier Notifier,
) HouseholdService {
	return &householdService{
		db:               db,
		log:              log.With("service", "HouseholdService"),
		guard:            guard,
		householdRepo:    householdRepo,
		membershipRepo:   membershipRepo,
		userRepo:         userRepo,
		choreRepo:        choreRepo,
		expenseRepo:      expenseRepo,
		eventRepo:        eventRepo,
		threadRepo:       threadRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
	}
}

func (s *householdService) Create(ctx context.Context, userID uuid.UUID, input CreateHouseholdInput) (*types.Household, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.BadRequest("name is required")
	}
	var created *types.Household
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		household := &types.Household{ID: uuid.New(), Name: name}
		if _, err := s.householdRepo.Create(ctx, tx, household); err != nil {
			return apierr.Internal(err)
		}
		member := &types.HouseholdMember{
			ID:          uuid.New(),
			HouseholdID: household.ID,
			UserID:      userID,
			Role:        types.RoleAdmin,
		}
		if _, err := s.membershipRepo.Create(ctx, tx, member); err != nil {
			return apierr.Internal(err)
		}
		created = household
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.HouseholdChanged(created.ID, realtime.ActionCreated, created)
	return created, nil
}

func (s *householdService) Get(ctx context.Context, userID, householdID uuid.UUID) (*types.Household, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	household, err := s.householdRepo.GetByIDWithMembers(ctx, nil, householdID)
	if err != nil {
		return nil, maskNotFound(err, "household not found")
	}
	return household, nil
}

func (s *householdService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Household, error) {
	households, err := s.householdRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return households, nil
}

func (s *householdService) Update(ctx context.Context, userID, householdID uuid.UUID, input UpdateHouseholdInput) (*types.Household, error) {
	var updated *types.Household
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin); err != nil {
			return err
		}
		household, err := s.householdRepo.GetByID(ctx, tx, householdID)
		if err != nil {
			return maskNotFound(err, "household not found")
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apierr.BadRequest("name cannot be empty")
			}
			household.Name = name
		}
		if err := s.householdRepo.Update(ctx, tx, household); err != nil {
			return apierr.Internal(err)
		}
		updated = household
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.HouseholdChanged(updated.ID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *householdService) Delete(ctx context.Context, userID, householdID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin); err != nil {
			return err
		}
		if _, err := s.householdRepo.GetByID(ctx, tx, householdID); err != nil {
			return maskNotFound(err, "household not found")
		}
		// Leaf-first cascade; FK constraints never do this work for us.
		if err := s.threadRepo.DeleteByHousehold(ctx, tx, householdID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.choreRepo.DeleteByHousehold(ctx, tx, householdID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.expenseRepo.DeleteByHousehold(ctx, tx, householdID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.eventRepo.DeleteByHousehold(ctx, tx, householdID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.notificationRepo.DeleteSettingsByHousehold(ctx, tx, householdID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.membershipRepo.DeleteByHousehold(ctx, tx, householdID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.householdRepo.Delete(ctx, tx, householdID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.HouseholdChanged(householdID, realtime.ActionDeleted, map[string]any{"id": householdID})
	return nil
}

func (s *householdService) AddMember(ctx context.Context, userID, householdID uuid.UUID, input AddMemberInput) (*types.HouseholdMember, error) {
	role := input.Role
	if role == "" {
		role = types.RoleMember
	}
	if role != types.RoleAdmin && role != types.RoleMember {
		return nil, apierr.BadRequest("invalid role")
	}
	var created *types.HouseholdMember
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin); err != nil {
			return err
		}
		if _, err := s.userRepo.GetByID(ctx, tx, input.UserID); err != nil {
			return maskNotFound(err, "user not found")
		}
		if _, err := s.membershipRepo.Get(ctx, tx, householdID, input.UserID); err == nil {
			return apierr.BadRequest("user is already a member")
		}
		member := &types.HouseholdMember{
			ID:          uuid.New(),
			HouseholdID: householdID,
			UserID:      input.UserID,
			Role:        role,
		}
		if _, err := s.membershipRepo.Create(ctx, tx, member); err != nil {
			return apierr.Internal(err)
		}
		created = member
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.HouseholdChanged(householdID, realtime.ActionUpdated, created)
	return created, nil
}

func (s *householdService) RemoveMember(ctx context.Context, userID, householdID, memberID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember)
		if err != nil {
			return err
		}
		member, err := s.membershipRepo.GetByID(ctx, tx, householdID, memberID)
		if err != nil {
			return maskNotFound(err, "member not found")
		}
		// Non-admins may only remove themselves (leave).
		if actor.Role != types.RoleAdmin && actor.ID != member.ID {
			return apierr.Unauthorized("only admins may remove other members")
		}
		if member.Role == types.RoleAdmin {
			admins, err := s.membershipRepo.CountAdmins(ctx, tx, householdID)
			if err != nil {
				return apierr.Internal(err)
			}
			if admins <= 1 {
				return apierr.BadRequest("cannot remove the last admin")
			}
		}
		if err := s.membershipRepo.Delete(ctx, tx, member.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.HouseholdChanged(householdID, realtime.ActionUpdated, map[string]any{"removed_member_id": memberID})
	return nil
}

func (s *householdService) ListMembers(ctx context.Context, userID, householdID uuid.UUID) ([]*types.HouseholdMember, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	members, err := s.membershipRepo.ListByHousehold(ctx, nil, householdID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return members, nil
}

func (s *householdService) UpdateMemberRole(ctx context.Context, userID, householdID, memberID uuid.UUID, role types.Role) (*types.HouseholdMember, error) {
	if role != types.RoleAdmin && role != types.RoleMember {
		return nil, apierr.BadRequest("invalid role")
	}
	var updated *types.HouseholdMember
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin); err != nil {
			return err
		}
		member, err := s.membershipRepo.GetByID(ctx, tx, householdID, memberID)
		if err != nil {
			return maskNotFound(err, "member not found")
		}
		if member.Role == types.RoleAdmin && role == types.RoleMember {
			admins, err := s.membershipRepo.CountAdmins(ctx, tx, householdID)
			if err != nil {
				return apierr.Internal(err)
			}
			if admins <= 1 {
				return apierr.BadRequest("cannot demote the last admin")
			}
		}
		member.Role = role
		if err := s.membershipRepo.Update(ctx, tx, member); err != nil {
			return apierr.Internal(err)
		}
		updated = member
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.HouseholdChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}
