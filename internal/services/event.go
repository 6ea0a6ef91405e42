package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/recurrence"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type CreateEventInput struct {
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Category         types.EventCategory `json:"category"`
	ChoreID          *uuid.UUID          `json:"chore_id"`
	StartsAt         time.Time           `json:"starts_at"`
	EndsAt           time.Time           `json:"ends_at"`
	RecurrenceRuleID *uuid.UUID          `json:"recurrence_rule_id"`
}

type UpdateEventInput struct {
	Title            *string            `json:"title"`
	Description      *string            `json:"description"`
	StartsAt         *time.Time         `json:"starts_at"`
	EndsAt           *time.Time         `json:"ends_at"`
	Status           *types.EventStatus `json:"status"`
	RecurrenceRuleID *uuid.UUID         `json:"recurrence_rule_id"`
	ClearRecurrence  bool               `json:"clear_recurrence"`
}

// EventOccurrence is one expanded instance of a possibly recurring event.
type EventOccurrence struct {
	Event    *types.Event `json:"event"`
	StartsAt time.Time    `json:"starts_at"`
	EndsAt   time.Time    `json:"ends_at"`
}

type EventService interface {
	Create(ctx context.Context, userID, householdID uuid.UUID, input CreateEventInput) (*types.Event, error)
	Get(ctx context.Context, userID, householdID, eventID uuid.UUID) (*types.Event, error)
	List(ctx context.Context, userID, householdID uuid.UUID, limit, offset int) ([]*types.Event, int64, error)
	ListByChore(ctx context.Context, userID, householdID, choreID uuid.UUID) ([]*types.Event, error)
	// ListOccurrences expands recurrence rules over [from, to) so a single
	// recurring event yields every instance in the window.
	ListOccurrences(ctx context.Context, userID, householdID uuid.UUID, from, to time.Time) ([]EventOccurrence, error)
	Update(ctx context.Context, userID, householdID, eventID uuid.UUID, input UpdateEventInput) (*types.Event, error)
	Delete(ctx context.Context, userID, householdID, eventID uuid.UUID) error
	ListHistory(ctx context.Context, userID, householdID, eventID uuid.UUID) ([]*types.EventHistory, error)

	CreateReminder(ctx context.Context, userID, householdID, eventID uuid.UUID, remindAt time.Time) (*types.EventReminder, error)
	DeleteReminder(ctx context.Context, userID, householdID, eventID, reminderID uuid.UUID) error
}

type eventService struct {
	db             *gorm.DB
	log            *logger.Logger
	guard          Guard
	eventRepo      repos.EventRepo
	choreRepo      repos.ChoreRepo
	recurrenceRepo repos.RecurrenceRepo
	notifier       Notifier
}

func NewEventService(db *gorm.DB, log *logger.Logger, guard Guard, eventRepo repos.EventRepo, choreRepo repos.ChoreRepo, recurrenceRepo repos.RecurrenceRepo, notifier Notifier) EventService {
	return &eventService{
		db:             db,
		log:            log.With("service", "EventService"),
		guard:          guard,
		eventRepo:      eventRepo,
		choreRepo:      choreRepo,
		recurrenceRepo: recurrenceRepo,
		notifier:       notifier,
	}
}

func (s *eventService) Create(ctx context.Context, userID, householdID uuid.UUID, input CreateEventInput) (*types.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.BadRequest("title is required")
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() {
		return nil, apierr.BadRequest("starts_at and ends_at are required")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, apierr.BadRequest("ends_at must be after starts_at")
	}
	category := input.Category
	if category == "" {
		category = types.EventCategoryGeneral
	}
	var created *types.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		if input.ChoreID != nil {
			if _, err := s.choreRepo.GetForHousehold(ctx, tx, householdID, *input.ChoreID); err != nil {
				return maskNotFound(err, "chore not found")
			}
			category = types.EventCategoryChore
		}
		if input.RecurrenceRuleID != nil {
			if _, err := s.recurrenceRepo.GetByID(ctx, tx, *input.RecurrenceRuleID); err != nil {
				return maskNotFound(err, "recurrence rule not found")
			}
		}
		event := &types.Event{
			ID:               uuid.New(),
			HouseholdID:      householdID,
			ChoreID:          input.ChoreID,
			Category:         category,
			Title:            title,
			Description:      strings.TrimSpace(input.Description),
			StartsAt:         input.StartsAt,
			EndsAt:           input.EndsAt,
			Status:           types.EventStatusScheduled,
			RecurrenceRuleID: input.RecurrenceRuleID,
		}
		if _, err := s.eventRepo.Create(ctx, tx, event); err != nil {
			return apierr.Internal(err)
		}
		if err := s.appendHistory(ctx, tx, event.ID, userID, types.HistoryCreated); err != nil {
			return err
		}
		created = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.EventChanged(householdID, realtime.ActionCreated, created)
	return created, nil
}

func (s *eventService) Get(ctx context.Context, userID, householdID, eventID uuid.UUID) (*types.Event, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetForHousehold(ctx, nil, householdID, eventID)
	if err != nil {
		return nil, maskNotFound(err, "event not found")
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, userID, householdID uuid.UUID, limit, offset int) ([]*types.Event, int64, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, 0, err
	}
	events, total, err := s.eventRepo.ListByHousehold(ctx, nil, householdID, limit, offset)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return events, total, nil
}

func (s *eventService) ListByChore(ctx context.Context, userID, householdID, choreID uuid.UUID) ([]*types.Event, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	if _, err := s.choreRepo.GetForHousehold(ctx, nil, householdID, choreID); err != nil {
		return nil, maskNotFound(err, "chore not found")
	}
	events, err := s.eventRepo.ListByChore(ctx, nil, householdID, choreID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return events, nil
}

func (s *eventService) ListOccurrences(ctx context.Context, userID, householdID uuid.UUID, from, to time.Time) ([]EventOccurrence, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, apierr.BadRequest("to must be after from")
	}
	// Recurring events whose first instance predates the window still
	// project into it, so the query cannot be bounded below by `from`.
	events, err := s.eventRepo.ListBetween(ctx, nil, householdID, time.Time{}, to)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	occurrences := make([]EventOccurrence, 0, len(events))
	for _, event := range events {
		if event.RecurrenceRuleID == nil {
			if event.StartsAt.Before(to) && event.EndsAt.After(from) {
				occurrences = append(occurrences, EventOccurrence{Event: event, StartsAt: event.StartsAt, EndsAt: event.EndsAt})
			}
			continue
		}
		model, err := s.recurrenceRepo.GetByID(ctx, nil, *event.RecurrenceRuleID)
		if err != nil {
			s.log.Warn("recurrence rule missing for event", "event_id", event.ID, "error", err)
			continue
		}
		rule, err := recurrence.FromModel(model)
		if err != nil {
			s.log.Warn("unparseable recurrence rule", "rule_id", model.ID, "error", err)
			continue
		}
		for _, occ := range recurrence.Expand(rule, event.StartsAt, event.EndsAt, from, to) {
			occurrences = append(occurrences, EventOccurrence{Event: event, StartsAt: occ.Start, EndsAt: occ.End})
		}
	}
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].StartsAt.Before(occurrences[j].StartsAt)
	})
	return occurrences, nil
}

func (s *eventService) Update(ctx context.Context, userID, householdID, eventID uuid.UUID, input UpdateEventInput) (*types.Event, error) {
	var updated *types.Event
	var action realtime.Action = realtime.ActionUpdated
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		event, err := s.eventRepo.GetForHousehold(ctx, tx, householdID, eventID)
		if err != nil {
			return maskNotFound(err, "event not found")
		}
		historyAction := types.HistoryUpdated
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apierr.BadRequest("title cannot be empty")
			}
			event.Title = title
		}
		if input.Description != nil {
			event.Description = strings.TrimSpace(*input.Description)
		}
		if input.StartsAt != nil {
			event.StartsAt = *input.StartsAt
		}
		if input.EndsAt != nil {
			event.EndsAt = *input.EndsAt
		}
		if !event.EndsAt.After(event.StartsAt) {
			return apierr.BadRequest("ends_at must be after starts_at")
		}
		if input.Status != nil && *input.Status != event.Status {
			switch *input.Status {
			case types.EventStatusScheduled, types.EventStatusCompleted, types.EventStatusCancelled:
			default:
				return apierr.BadRequest("invalid status")
			}
			event.Status = *input.Status
			historyAction = types.HistoryStatusChanged
			action = realtime.ActionStatusChanged
		}
		if input.ClearRecurrence {
			event.RecurrenceRuleID = nil
			historyAction = types.HistoryRecurrenceChanged
		} else if input.RecurrenceRuleID != nil {
			if _, err := s.recurrenceRepo.GetByID(ctx, tx, *input.RecurrenceRuleID); err != nil {
				return maskNotFound(err, "recurrence rule not found")
			}
			event.RecurrenceRuleID = input.RecurrenceRuleID
			historyAction = types.HistoryRecurrenceChanged
		}
		if err := s.eventRepo.Update(ctx, tx, event); err != nil {
			return apierr.Internal(err)
		}
		if err := s.appendHistory(ctx, tx, event.ID, userID, historyAction); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.EventChanged(householdID, action, updated)
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, userID, householdID, eventID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		event, err := s.eventRepo.GetForHousehold(ctx, tx, householdID, eventID)
		if err != nil {
			return maskNotFound(err, "event not found")
		}
		if err := s.eventRepo.SoftDelete(ctx, tx, event.ID, time.Now()); err != nil {
			return apierr.Internal(err)
		}
		return s.appendHistory(ctx, tx, event.ID, userID, types.HistoryDeleted)
	})
	if err != nil {
		return err
	}
	s.notifier.EventChanged(householdID, realtime.ActionDeleted, map[string]any{"id": eventID})
	return nil
}

func (s *eventService) ListHistory(ctx context.Context, userID, householdID, eventID uuid.UUID) ([]*types.EventHistory, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetForHousehold(ctx, nil, householdID, eventID); err != nil {
		return nil, maskNotFound(err, "event not found")
	}
	history, err := s.eventRepo.ListHistory(ctx, nil, eventID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return history, nil
}

func (s *eventService) CreateReminder(ctx context.Context, userID, householdID, eventID uuid.UUID, remindAt time.Time) (*types.EventReminder, error) {
	if remindAt.IsZero() {
		return nil, apierr.BadRequest("remind_at is required")
	}
	var created *types.EventReminder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		event, err := s.eventRepo.GetForHousehold(ctx, tx, householdID, eventID)
		if err != nil {
			return maskNotFound(err, "event not found")
		}
		reminder := &types.EventReminder{
			ID:       uuid.New(),
			EventID:  event.ID,
			RemindAt: remindAt,
		}
		if _, err := s.eventRepo.CreateReminder(ctx, tx, reminder); err != nil {
			return apierr.Internal(err)
		}
		created = reminder
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.EventChanged(householdID, realtime.ActionUpdated, created)
	return created, nil
}

func (s *eventService) DeleteReminder(ctx context.Context, userID, householdID, eventID, reminderID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		event, err := s.eventRepo.GetForHousehold(ctx, tx, householdID, eventID)
		if err != nil {
			return maskNotFound(err, "event not found")
		}
		reminder, err := s.eventRepo.GetReminderForEvent(ctx, tx, event.ID, reminderID)
		if err != nil {
			return maskNotFound(err, "reminder not found")
		}
		if err := s.eventRepo.DeleteReminder(ctx, tx, reminder.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.EventChanged(householdID, realtime.ActionUpdated, map[string]any{"deleted_reminder_id": reminderID})
	return nil
}

func (s *eventService) appendHistory(ctx context.Context, tx *gorm.DB, eventID, actorID uuid.UUID, action types.HistoryAction) error {
	entry := &types.EventHistory{
		ID:      uuid.New(),
		EventID: eventID,
		Action:  action,
		ActorID: actorID,
	}
	if err := s.eventRepo.AppendHistory(ctx, tx, entry); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
