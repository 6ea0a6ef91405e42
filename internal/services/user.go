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

type UpdateUserInput struct {
	Name *string `json:"name"`
}

type UserService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*types.User, error)
	// SetActiveHousehold marks one membership as the user's selected
	// household; the user must actually belong to it.
	SetActiveHousehold(ctx context.Context, userID, householdID uuid.UUID) (*types.User, error)
}

type userService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	membershipRepo repos.MembershipRepo
	notifier       Notifier
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, membershipRepo repos.MembershipRepo, notifier Notifier) UserService {
	return &userService{
		db:             db,
		log:            log.With("service", "UserService"),
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
	}
}

func (s *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, maskNotFound(err, "user not found")
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*types.User, error) {
	var updated *types.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return maskNotFound(err, "user not found")
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apierr.BadRequest("name cannot be empty")
			}
			user.Name = name
		}
		if err := s.userRepo.Update(ctx, tx, user); err != nil {
			return apierr.Internal(err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.UserChanged(updated.ID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *userService) SetActiveHousehold(ctx context.Context, userID, householdID uuid.UUID) (*types.User, error) {
	var updated *types.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := s.membershipRepo.Get(ctx, tx, householdID, userID)
		if err != nil {
			return maskNotFound(err, "household not found")
		}
		user, err := s.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return apierr.Internal(err)
		}
		if err := tx.Model(&types.HouseholdMember{}).
			Where("user_id = ?", userID).
			Update("is_selected", false).Error; err != nil {
			return apierr.Internal(err)
		}
		member.IsSelected = true
		if err := s.membershipRepo.Update(ctx, tx, member); err != nil {
			return apierr.Internal(err)
		}
		user.ActiveHouseholdID = &householdID
		if err := s.userRepo.Update(ctx, tx, user); err != nil {
			return apierr.Internal(err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.UserChanged(updated.ID, realtime.ActionUpdated, updated)
	return updated, nil
}
