package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type RecurrenceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule) (*types.RecurrenceRule, error)
	GetByID(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) (*types.RecurrenceRule, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.RecurrenceRule, int64, error)
	Update(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule) error
	Delete(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) error
	ReferenceCount(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) (int64, error)
}

type recurrenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecurrenceRepo(db *gorm.DB, baseLog *logger.Logger) RecurrenceRepo {
	return &recurrenceRepo{db: db, log: baseLog.With("repo", "RecurrenceRepo")}
}

func (r *recurrenceRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *recurrenceRepo) Create(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule) (*types.RecurrenceRule, error) {
	if err := r.handle(tx).WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *recurrenceRepo) GetByID(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) (*types.RecurrenceRule, error) {
	var rule types.RecurrenceRule
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ?", ruleID).
		First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *recurrenceRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.RecurrenceRule, int64, error) {
	h := r.handle(tx).WithContext(ctx)

	var total int64
	if err := h.Model(&types.RecurrenceRule{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := h.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var rules []*types.RecurrenceRule
	if err := q.Find(&rules).Error; err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

func (r *recurrenceRepo) Update(ctx context.Context, tx *gorm.DB, rule *types.RecurrenceRule) error {
	return r.handle(tx).WithContext(ctx).Save(rule).Error
}

func (r *recurrenceRepo) Delete(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", ruleID).
		Delete(&types.RecurrenceRule{}).Error
}

// ReferenceCount reports how many chores and events still point at the rule;
// rules are shared, so deletion is refused while referenced.
func (r *recurrenceRepo) ReferenceCount(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) (int64, error) {
	h := r.handle(tx).WithContext(ctx)

	var chores int64
	if err := h.Model(&types.Chore{}).
		Where("recurrence_rule_id = ?", ruleID).
		Count(&chores).Error; err != nil {
		return 0, err
	}
	var events int64
	if err := h.Model(&types.Event{}).
		Where("recurrence_rule_id = ?", ruleID).
		Count(&events).Error; err != nil {
		return 0, err
	}
	return chores + events, nil
}
