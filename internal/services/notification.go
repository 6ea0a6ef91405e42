package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type CreateNotificationInput struct {
	UserID  uuid.UUID `json:"user_id"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
}

type NotificationSettingsInput struct {
	HouseholdID *uuid.UUID     `json:"household_id"`
	Preferences datatypes.JSON `json:"preferences"`
	PushEnabled *bool          `json:"push_enabled"`
}

type PushSubscriptionInput struct {
	Endpoint   string `json:"endpoint"`
	P256dhKey  string `json:"p256dh_key"`
	AuthKey    string `json:"auth_key"`
	DeviceName string `json:"device_name"`
}

type NotificationService interface {
	Create(ctx context.Context, input CreateNotificationInput) (*types.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Notification, int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*types.Notification, error)
	Delete(ctx context.Context, userID, notificationID uuid.UUID) error

	GetSettings(ctx context.Context, userID uuid.UUID, householdID *uuid.UUID) (*types.NotificationSettings, error)
	SaveSettings(ctx context.Context, userID uuid.UUID, input NotificationSettingsInput) (*types.NotificationSettings, error)

	Subscribe(ctx context.Context, userID uuid.UUID, input PushSubscriptionInput) (*types.PushSubscription, error)
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*types.PushSubscription, error)
	Unsubscribe(ctx context.Context, userID, subscriptionID uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	notifier         Notifier
	push             PushService
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, notificationRepo repos.NotificationRepo, notifier Notifier, push PushService) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		notifier:         notifier,
		push:             push,
	}
}

func (s *notificationService) Create(ctx context.Context, input CreateNotificationInput) (*types.Notification, error) {
	if input.UserID == uuid.Nil {
		return nil, apierr.BadRequest("user_id is required")
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, apierr.BadRequest("message is required")
	}
	notification := &types.Notification{
		ID:      uuid.New(),
		UserID:  input.UserID,
		Type:    strings.TrimSpace(input.Type),
		Message: message,
	}
	created, err := s.notificationRepo.Create(ctx, nil, notification)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	s.notifier.NotificationChanged(created.UserID, realtime.ActionCreated, created)
	if s.push != nil {
		s.push.Deliver(ctx, created)
	}
	return created, nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Notification, int64, error) {
	notifications, total, err := s.notificationRepo.ListByUser(ctx, nil, userID, limit, offset)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return notifications, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*types.Notification, error) {
	var updated *types.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notification, err := s.notificationRepo.GetForUser(ctx, tx, userID, notificationID)
		if err != nil {
			return maskNotFound(err, "notification not found")
		}
		if notification.IsRead {
			updated = notification
			return nil
		}
		notification.IsRead = true
		if err := s.notificationRepo.Update(ctx, tx, notification); err != nil {
			return apierr.Internal(err)
		}
		updated = notification
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.NotificationChanged(userID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notification, err := s.notificationRepo.GetForUser(ctx, tx, userID, notificationID)
		if err != nil {
			return maskNotFound(err, "notification not found")
		}
		if err := s.notificationRepo.Delete(ctx, tx, notification.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.NotificationChanged(userID, realtime.ActionDeleted, map[string]any{"id": notificationID})
	return nil
}

func (s *notificationService) GetSettings(ctx context.Context, userID uuid.UUID, householdID *uuid.UUID) (*types.NotificationSettings, error) {
	settings, err := s.notificationRepo.GetSettings(ctx, nil, &userID, householdID)
	if err != nil {
		return s.defaults(userID, householdID), nil
	}
	return settings, nil
}

func (s *notificationService) SaveSettings(ctx context.Context, userID uuid.UUID, input NotificationSettingsInput) (*types.NotificationSettings, error) {
	var saved *types.NotificationSettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		settings, err := s.notificationRepo.GetSettings(ctx, tx, &userID, input.HouseholdID)
		if err != nil {
			settings = s.defaults(userID, input.HouseholdID)
		}
		if input.Preferences != nil {
			settings.Preferences = input.Preferences
		}
		if input.PushEnabled != nil {
			settings.PushEnabled = *input.PushEnabled
		}
		if err := s.notificationRepo.SaveSettings(ctx, tx, settings); err != nil {
			return apierr.Internal(err)
		}
		saved = settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.NotificationChanged(userID, realtime.ActionUpdated, saved)
	return saved, nil
}

func (s *notificationService) Subscribe(ctx context.Context, userID uuid.UUID, input PushSubscriptionInput) (*types.PushSubscription, error) {
	if input.Endpoint == "" || input.P256dhKey == "" || input.AuthKey == "" {
		return nil, apierr.BadRequest("endpoint, p256dh_key and auth_key are required")
	}
	sub := &types.PushSubscription{
		ID:         uuid.New(),
		UserID:     userID,
		Endpoint:   input.Endpoint,
		P256dhKey:  input.P256dhKey,
		AuthKey:    input.AuthKey,
		DeviceName: strings.TrimSpace(input.DeviceName),
	}
	created, err := s.notificationRepo.CreatePushSubscription(ctx, nil, sub)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return created, nil
}

func (s *notificationService) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*types.PushSubscription, error) {
	subs, err := s.notificationRepo.ListPushSubscriptions(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return subs, nil
}

func (s *notificationService) Unsubscribe(ctx context.Context, userID, subscriptionID uuid.UUID) error {
	sub, err := s.notificationRepo.GetPushSubscriptionForUser(ctx, nil, userID, subscriptionID)
	if err != nil {
		return maskNotFound(err, "push subscription not found")
	}
	if err := s.notificationRepo.DeletePushSubscription(ctx, nil, sub.ID); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (s *notificationService) defaults(userID uuid.UUID, householdID *uuid.UUID) *types.NotificationSettings {
	return &types.NotificationSettings{
		ID:          uuid.New(),
		UserID:      &userID,
		HouseholdID: householdID,
		PushEnabled: true,
	}
}
