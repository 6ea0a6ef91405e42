package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) (*types.Notification, error)
	GetForUser(ctx context.Context, tx *gorm.DB, userID, notificationID uuid.UUID) (*types.Notification, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Notification, int64, error)
	Update(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
	Delete(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) error

	GetSettings(ctx context.Context, tx *gorm.DB, userID, householdID *uuid.UUID) (*types.NotificationSettings, error)
	SaveSettings(ctx context.Context, tx *gorm.DB, settings *types.NotificationSettings) error
	DeleteSettingsByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error

	CreatePushSubscription(ctx context.Context, tx *gorm.DB, sub *types.PushSubscription) (*types.PushSubscription, error)
	ListPushSubscriptions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PushSubscription, error)
	GetPushSubscriptionForUser(ctx context.Context, tx *gorm.DB, userID, subID uuid.UUID) (*types.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, tx *gorm.DB, subID uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) (*types.Notification, error) {
	if err := r.handle(tx).WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (r *notificationRepo) GetForUser(ctx context.Context, tx *gorm.DB, userID, notificationID uuid.UUID) (*types.Notification, error) {
	var notification types.Notification
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Notification, int64, error) {
	h := r.handle(tx).WithContext(ctx)

	var total int64
	if err := h.Model(&types.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := h.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var notifications []*types.Notification
	if err := q.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepo) Update(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	return r.handle(tx).WithContext(ctx).Save(notification).Error
}

func (r *notificationRepo) Delete(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", notificationID).
		Delete(&types.Notification{}).Error
}

func (r *notificationRepo) GetSettings(ctx context.Context, tx *gorm.DB, userID, householdID *uuid.UUID) (*types.NotificationSettings, error) {
	q := r.handle(tx).WithContext(ctx).Model(&types.NotificationSettings{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("user_id IS NULL")
	}
	if householdID != nil {
		q = q.Where("household_id = ?", *householdID)
	} else {
		q = q.Where("household_id IS NULL")
	}
	var settings types.NotificationSettings
	if err := q.First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *notificationRepo) SaveSettings(ctx context.Context, tx *gorm.DB, settings *types.NotificationSettings) error {
	return r.handle(tx).WithContext(ctx).Save(settings).Error
}

func (r *notificationRepo) DeleteSettingsByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("household_id = ?", householdID).
		Delete(&types.NotificationSettings{}).Error
}

func (r *notificationRepo) CreatePushSubscription(ctx context.Context, tx *gorm.DB, sub *types.PushSubscription) (*types.PushSubscription, error) {
	if err := r.handle(tx).WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *notificationRepo) ListPushSubscriptions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PushSubscription, error) {
	var subs []*types.PushSubscription
	if err := r.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *notificationRepo) GetPushSubscriptionForUser(ctx context.Context, tx *gorm.DB, userID, subID uuid.UUID) (*types.PushSubscription, error) {
	var sub types.PushSubscription
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", subID, userID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *notificationRepo) DeletePushSubscription(ctx context.Context, tx *gorm.DB, subID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", subID).
		Delete(&types.PushSubscription{}).Error
}
