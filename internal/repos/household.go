package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type HouseholdRepo interface {
	Create(ctx context.Context, tx *gorm.DB, household *types.Household) (*types.Household, error)
	GetByID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (*types.Household, error)
	GetByIDWithMembers(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (*types.Household, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Household, error)
	Update(ctx context.Context, tx *gorm.DB, household *types.Household) error
	Delete(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error
}

type householdRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHouseholdRepo(db *gorm.DB, baseLog *logger.Logger) HouseholdRepo {
	return &householdRepo{db: db, log: baseLog.With("repo", "HouseholdRepo")}
}

func (r *householdRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *householdRepo) Create(ctx context.Context, tx *gorm.DB, household *types.Household) (*types.Household, error) {
	if err := r.handle(tx).WithContext(ctx).Create(household).Error; err != nil {
		return nil, err
	}
	return household, nil
}

func (r *householdRepo) GetByID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (*types.Household, error) {
	var household types.Household
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ?", householdID).
		First(&household).Error; err != nil {
		return nil, err
	}
	return &household, nil
}

func (r *householdRepo) GetByIDWithMembers(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (*types.Household, error) {
	var household types.Household
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ?", householdID).
		Preload("Members").
		Preload("Members.User").
		First(&household).Error; err != nil {
		return nil, err
	}
	return &household, nil
}

func (r *householdRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Household, error) {
	var households []*types.Household
	if err := r.handle(tx).WithContext(ctx).
		Joins(`JOIN household_member ON household_member.household_id = household.id`).
		Where("household_member.user_id = ?", userID).
		Order("household.created_at ASC").
		Find(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

func (r *householdRepo) Update(ctx context.Context, tx *gorm.DB, household *types.Household) error {
	return r.handle(tx).WithContext(ctx).Save(household).Error
}

func (r *householdRepo) Delete(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", householdID).
		Delete(&types.Household{}).Error
}
