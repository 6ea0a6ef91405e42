package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error)
	GetForHousehold(ctx context.Context, tx *gorm.DB, householdID, eventID uuid.UUID) (*types.Event, error)
	ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, limit, offset int) ([]*types.Event, int64, error)
	ListByChore(ctx context.Context, tx *gorm.DB, householdID, choreID uuid.UUID) ([]*types.Event, error)
	ListBetween(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, from, to time.Time) ([]*types.Event, error)
	Update(ctx context.Context, tx *gorm.DB, event *types.Event) error
	SoftDelete(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, at time.Time) error

	AppendHistory(ctx context.Context, tx *gorm.DB, entry *types.EventHistory) error
	ListHistory(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.EventHistory, error)

	CreateReminder(ctx context.Context, tx *gorm.DB, reminder *types.EventReminder) (*types.EventReminder, error)
	GetReminderForEvent(ctx context.Context, tx *gorm.DB, eventID, reminderID uuid.UUID) (*types.EventReminder, error)
	DeleteReminder(ctx context.Context, tx *gorm.DB, reminderID uuid.UUID) error

	DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *eventRepo) live(h *gorm.DB) *gorm.DB {
	return h.Where("deleted_at IS NULL")
}

func (r *eventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error) {
	if err := r.handle(tx).WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepo) GetForHousehold(ctx context.Context, tx *gorm.DB, householdID, eventID uuid.UUID) (*types.Event, error) {
	var event types.Event
	if err := r.live(r.handle(tx).WithContext(ctx)).
		Where("id = ? AND household_id = ?", eventID, householdID).
		Preload("Reminders").
		Preload("RecurrenceRule").
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, limit, offset int) ([]*types.Event, int64, error) {
	h := r.handle(tx).WithContext(ctx)

	var total int64
	if err := r.live(h.Model(&types.Event{})).
		Where("household_id = ?", householdID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.live(h).
		Where("household_id = ?", householdID).
		Preload("Reminders").
		Order("starts_at ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var events []*types.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepo) ListByChore(ctx context.Context, tx *gorm.DB, householdID, choreID uuid.UUID) ([]*types.Event, error) {
	var events []*types.Event
	if err := r.live(r.handle(tx).WithContext(ctx)).
		Where("household_id = ? AND chore_id = ?", householdID, choreID).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) ListBetween(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, from, to time.Time) ([]*types.Event, error) {
	var events []*types.Event
	if err := r.live(r.handle(tx).WithContext(ctx)).
		Where("household_id = ? AND starts_at < ? AND ends_at >= ?", householdID, to, from).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) Update(ctx context.Context, tx *gorm.DB, event *types.Event) error {
	return r.handle(tx).WithContext(ctx).
		Omit("Reminders", "History").
		Save(event).Error
}

func (r *eventRepo) SoftDelete(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, at time.Time) error {
	return r.handle(tx).WithContext(ctx).
		Model(&types.Event{}).
		Where("id = ?", eventID).
		Update("deleted_at", at).Error
}

func (r *eventRepo) AppendHistory(ctx context.Context, tx *gorm.DB, entry *types.EventHistory) error {
	return r.handle(tx).WithContext(ctx).Create(entry).Error
}

func (r *eventRepo) ListHistory(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.EventHistory, error) {
	var entries []*types.EventHistory
	if err := r.handle(tx).WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *eventRepo) CreateReminder(ctx context.Context, tx *gorm.DB, reminder *types.EventReminder) (*types.EventReminder, error) {
	if err := r.handle(tx).WithContext(ctx).Create(reminder).Error; err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *eventRepo) GetReminderForEvent(ctx context.Context, tx *gorm.DB, eventID, reminderID uuid.UUID) (*types.EventReminder, error) {
	var reminder types.EventReminder
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND event_id = ?", reminderID, eventID).
		First(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *eventRepo) DeleteReminder(ctx context.Context, tx *gorm.DB, reminderID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", reminderID).
		Delete(&types.EventReminder{}).Error
}

func (r *eventRepo) DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	h := r.handle(tx).WithContext(ctx)
	for _, stmt := range []string{
		`DELETE FROM event_reminder WHERE event_id IN (SELECT id FROM event WHERE household_id = ?)`,
		`DELETE FROM event_history WHERE event_id IN (SELECT id FROM event WHERE household_id = ?)`,
		`DELETE FROM event WHERE household_id = ?`,
	} {
		if err := h.Exec(stmt, householdID).Error; err != nil {
			return err
		}
	}
	return nil
}
