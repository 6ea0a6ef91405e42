package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type MembershipRepo interface {
	Create(ctx context.Context, tx *gorm.DB, member *types.HouseholdMember) (*types.HouseholdMember, error)
	// Get returns the unique (user, household) membership row.
	Get(ctx context.Context, tx *gorm.DB, householdID, userID uuid.UUID) (*types.HouseholdMember, error)
	GetByID(ctx context.Context, tx *gorm.DB, householdID, memberID uuid.UUID) (*types.HouseholdMember, error)
	ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) ([]*types.HouseholdMember, error)
	CountAdmins(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, member *types.HouseholdMember) error
	Delete(ctx context.Context, tx *gorm.DB, memberID uuid.UUID) error
	DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error
}

type membershipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return &membershipRepo{db: db, log: baseLog.With("repo", "MembershipRepo")}
}

func (r *membershipRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *membershipRepo) Create(ctx context.Context, tx *gorm.DB, member *types.HouseholdMember) (*types.HouseholdMember, error) {
	if err := r.handle(tx).WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func (r *membershipRepo) Get(ctx context.Context, tx *gorm.DB, householdID, userID uuid.UUID) (*types.HouseholdMember, error) {
	var member types.HouseholdMember
	if err := r.handle(tx).WithContext(ctx).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *membershipRepo) GetByID(ctx context.Context, tx *gorm.DB, householdID, memberID uuid.UUID) (*types.HouseholdMember, error) {
	var member types.HouseholdMember
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND household_id = ?", memberID, householdID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *membershipRepo) ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) ([]*types.HouseholdMember, error) {
	var members []*types.HouseholdMember
	if err := r.handle(tx).WithContext(ctx).
		Where("household_id = ?", householdID).
		Preload("User").
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *membershipRepo) CountAdmins(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (int64, error) {
	var count int64
	if err := r.handle(tx).WithContext(ctx).
		Model(&types.HouseholdMember{}).
		Where("household_id = ? AND role = ?", householdID, types.RoleAdmin).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *membershipRepo) Update(ctx context.Context, tx *gorm.DB, member *types.HouseholdMember) error {
	return r.handle(tx).WithContext(ctx).Save(member).Error
}

func (r *membershipRepo) Delete(ctx context.Context, tx *gorm.DB, memberID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", memberID).
		Delete(&types.HouseholdMember{}).Error
}

func (r *membershipRepo) DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("household_id = ?", householdID).
		Delete(&types.HouseholdMember{}).Error
}
