package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

// Guard is the single authorization chokepoint: every household-scoped read
// or write verifies membership through it before touching anything else.
type Guard interface {
	// VerifyMembership confirms the user belongs to the household with one of
	// the allowed roles and returns the membership row. It fails closed: no
	// row, or a role outside the set, is Unauthorized either way.
	VerifyMembership(ctx context.Context, tx *gorm.DB, householdID, userID uuid.UUID, allowed ...types.Role) (*types.HouseholdMember, error)
	// VerifyAuthorOrAdmin permits the entity's original author regardless of
	// role, or any household ADMIN.
	VerifyAuthorOrAdmin(ctx context.Context, tx *gorm.DB, householdID, userID, authorID uuid.UUID) (*types.HouseholdMember, error)
}

type guard struct {
	log            *logger.Logger
	membershipRepo repos.MembershipRepo
}

func NewGuard(log *logger.Logger, membershipRepo repos.MembershipRepo) Guard {
	return &guard{
		log:            log.With("service", "Guard"),
		membershipRepo: membershipRepo,
	}
}

func (g *guard) VerifyMembership(ctx context.Context, tx *gorm.DB, householdID, userID uuid.UUID, allowed ...types.Role) (*types.HouseholdMember, error) {
	if len(allowed) == 0 {
		return nil, apierr.Internal(errors.New("empty allowed role set"))
	}
	member, err := g.membershipRepo.Get(ctx, tx, householdID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("not a member of this household")
		}
		return nil, apierr.Internal(err)
	}
	for _, role := range allowed {
		if member.Role == role {
			return member, nil
		}
	}
	return nil, apierr.Unauthorized("insufficient role for this operation")
}

func (g *guard) VerifyAuthorOrAdmin(ctx context.Context, tx *gorm.DB, householdID, userID, authorID uuid.UUID) (*types.HouseholdMember, error) {
	member, err := g.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember)
	if err != nil {
		return nil, err
	}
	if userID == authorID || member.Role == types.RoleAdmin {
		return member, nil
	}
	return nil, apierr.Unauthorized("only the author or an admin may do this")
}
