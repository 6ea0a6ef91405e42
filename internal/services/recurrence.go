package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/recurrence"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type RecurrenceRuleInput struct {
	Frequency   string         `json:"frequency"`
	Interval    int            `json:"interval"`
	ByWeekdays  datatypes.JSON `json:"by_weekdays"`
	ByMonthDays datatypes.JSON `json:"by_month_days"`
	Count       int            `json:"count"`
	Until       *time.Time     `json:"until"`
	CustomRule  string         `json:"custom_rule"`
}

// RecurrenceService manages standalone rules shared by chores and events.
// Rules have their own lifecycle; deleting one is refused while anything
// still references it.
type RecurrenceService interface {
	Create(ctx context.Context, input RecurrenceRuleInput) (*types.RecurrenceRule, error)
	Get(ctx context.Context, ruleID uuid.UUID) (*types.RecurrenceRule, error)
	List(ctx context.Context, limit, offset int) ([]*types.RecurrenceRule, int64, error)
	Update(ctx context.Context, ruleID uuid.UUID, input RecurrenceRuleInput) (*types.RecurrenceRule, error)
	Delete(ctx context.Context, ruleID uuid.UUID) error
}

type recurrenceService struct {
	db             *gorm.DB
	log            *logger.Logger
	recurrenceRepo repos.RecurrenceRepo
}

func NewRecurrenceService(db *gorm.DB, log *logger.Logger, recurrenceRepo repos.RecurrenceRepo) RecurrenceService {
	return &recurrenceService{
		db:             db,
		log:            log.With("service", "RecurrenceService"),
		recurrenceRepo: recurrenceRepo,
	}
}

func (s *recurrenceService) Create(ctx context.Context, input RecurrenceRuleInput) (*types.RecurrenceRule, error) {
	rule := &types.RecurrenceRule{
		ID:          uuid.New(),
		Frequency:   input.Frequency,
		Interval:    input.Interval,
		ByWeekdays:  input.ByWeekdays,
		ByMonthDays: input.ByMonthDays,
		Count:       input.Count,
		Until:       input.Until,
		CustomRule:  input.CustomRule,
	}
	if rule.Interval <= 0 {
		rule.Interval = 1
	}
	if _, err := recurrence.FromModel(rule); err != nil {
		return nil, apierr.BadRequest("invalid recurrence rule: " + err.Error())
	}
	created, err := s.recurrenceRepo.Create(ctx, nil, rule)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return created, nil
}

func (s *recurrenceService) Get(ctx context.Context, ruleID uuid.UUID) (*types.RecurrenceRule, error) {
	rule, err := s.recurrenceRepo.GetByID(ctx, nil, ruleID)
	if err != nil {
		return nil, maskNotFound(err, "recurrence rule not found")
	}
	return rule, nil
}

func (s *recurrenceService) List(ctx context.Context, limit, offset int) ([]*types.RecurrenceRule, int64, error) {
	rules, total, err := s.recurrenceRepo.List(ctx, nil, limit, offset)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return rules, total, nil
}

func (s *recurrenceService) Update(ctx context.Context, ruleID uuid.UUID, input RecurrenceRuleInput) (*types.RecurrenceRule, error) {
	var updated *types.RecurrenceRule
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rule, err := s.recurrenceRepo.GetByID(ctx, tx, ruleID)
		if err != nil {
			return maskNotFound(err, "recurrence rule not found")
		}
		rule.Frequency = input.Frequency
		rule.Interval = input.Interval
		if rule.Interval <= 0 {
			rule.Interval = 1
		}
		rule.ByWeekdays = input.ByWeekdays
		rule.ByMonthDays = input.ByMonthDays
		rule.Count = input.Count
		rule.Until = input.Until
		rule.CustomRule = input.CustomRule
		if _, err := recurrence.FromModel(rule); err != nil {
			return apierr.BadRequest("invalid recurrence rule: " + err.Error())
		}
		if err := s.recurrenceRepo.Update(ctx, tx, rule); err != nil {
			return apierr.Internal(err)
		}
		updated = rule
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *recurrenceService) Delete(ctx context.Context, ruleID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.recurrenceRepo.GetByID(ctx, tx, ruleID); err != nil {
			return maskNotFound(err, "recurrence rule not found")
		}
		refs, err := s.recurrenceRepo.ReferenceCount(ctx, tx, ruleID)
		if err != nil {
			return apierr.Internal(err)
		}
		if refs > 0 {
			return apierr.BadRequest("recurrence rule is still in use")
		}
		if err := s.recurrenceRepo.Delete(ctx, tx, ruleID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}
