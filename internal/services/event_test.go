package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/types"
)

func TestEventCreateValidatesWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	starts := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

	_, err := env.events.Create(ctx, admin.ID, h.ID, CreateEventInput{
		Title:    "Backwards",
		StartsAt: starts,
		EndsAt:   starts.Add(-time.Hour),
	})
	wantStatus(t, err, http.StatusBadRequest)

	event, err := env.events.Create(ctx, admin.ID, h.ID, CreateEventInput{
		Title:    "House meeting",
		StartsAt: starts,
		EndsAt:   starts.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.Category != types.EventCategoryGeneral {
		t.Fatalf("category = %s, want GENERAL", event.Category)
	}
	if event.Status != types.EventStatusScheduled {
		t.Fatalf("status = %s, want SCHEDULED", event.Status)
	}

	msgs := env.rec.onChannel(realtime.HouseholdChannel(h.ID))
	if len(msgs) != 1 || msgs[0].Event != realtime.EventCalendarUpdate {
		t.Fatalf("expected one event_update, got %+v", msgs)
	}
}

func TestEventChoreLinkForcesCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	chore, err := env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{Title: "Mow lawn"})
	if err != nil {
		t.Fatalf("chore: %v", err)
	}
	starts := time.Date(2026, 4, 4, 10, 0, 0, 0, time.UTC)
	event, err := env.events.Create(ctx, admin.ID, h.ID, CreateEventInput{
		Title:    "Mow lawn",
		Category: types.EventCategoryGeneral,
		ChoreID:  &chore.ID,
		StartsAt: starts,
		EndsAt:   starts.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.Category != types.EventCategoryChore {
		t.Fatalf("category = %s, want CHORE when linked to a chore", event.Category)
	}

	linked, err := env.events.ListByChore(ctx, admin.ID, h.ID, chore.ID)
	if err != nil {
		t.Fatalf("ListByChore: %v", err)
	}
	if len(linked) != 1 || linked[0].ID != event.ID {
		t.Fatalf("unexpected linked events: %+v", linked)
	}
}

func TestEventOccurrencesExpandRecurrence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	rule, err := env.rules.Create(ctx, RecurrenceRuleInput{Frequency: "WEEKLY", Interval: 1})
	if err != nil {
		t.Fatalf("rule: %v", err)
	}

	starts := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC) // a Monday
	recurring, err := env.events.Create(ctx, admin.ID, h.ID, CreateEventInput{
		Title:            "Trash night",
		StartsAt:         starts,
		EndsAt:           starts.Add(30 * time.Minute),
		RecurrenceRuleID: &rule.ID,
	})
	if err != nil {
		t.Fatalf("recurring event: %v", err)
	}

	// a one-off before the window must not appear
	old := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	if _, err := env.events.Create(ctx, admin.ID, h.ID, CreateEventInput{
		Title:    "Old one-off",
		StartsAt: old,
		EndsAt:   old.Add(time.Hour),
	}); err != nil {
		t.Fatalf("one-off event: %v", err)
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)
	occurrences, err := env.events.ListOccurrences(ctx, admin.ID, h.ID, from, to)
	if err != nil {
		t.Fatalf("ListOccurrences: %v", err)
	}
	if len(occurrences) != 3 {
		t.Fatalf("expected 3 weekly occurrences, got %d", len(occurrences))
	}
	for i, occ := range occurrences {
		if occ.Event.ID != recurring.ID {
			t.Fatalf("occurrence %d belongs to the wrong event", i)
		}
		want := starts.AddDate(0, 0, 7*i)
		if !occ.StartsAt.Equal(want) {
			t.Fatalf("occurrence %d starts at %s, want %s", i, occ.StartsAt, want)
		}
	}
}

func TestEventStatusChangeRecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	starts := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	event, err := env.events.Create(ctx, admin.ID, h.ID, CreateEventInput{
		Title:    "BBQ",
		StartsAt: starts,
		EndsAt:   starts.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	env.rec.reset()

	cancelled := types.EventStatusCancelled
	if _, err := env.events.Update(ctx, admin.ID, h.ID, event.ID, UpdateEventInput{Status: &cancelled}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	history, err := env.events.ListHistory(ctx, admin.ID, h.ID, event.ID)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	var sawStatusChange bool
	for _, entry := range history {
		if entry.Action == types.HistoryStatusChanged {
			sawStatusChange = true
		}
	}
	if !sawStatusChange {
		t.Fatalf("expected STATUS_CHANGED history entry, got %+v", history)
	}

	var sawEvent bool
	for _, m := range env.rec.onChannel(realtime.HouseholdChannel(h.ID)) {
		if m.Event == realtime.EventCalendarUpdate && msgAction(t, m) == realtime.ActionStatusChanged {
			sawEvent = true
		}
	}
	if !sawEvent {
		t.Fatalf("expected STATUS_CHANGED event on the household channel")
	}
}

func TestRecurrenceRuleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	_, err := env.rules.Create(ctx, RecurrenceRuleInput{Frequency: "SOMETIMES"})
	wantStatus(t, err, http.StatusBadRequest)

	rule, err := env.rules.Create(ctx, RecurrenceRuleInput{Frequency: "DAILY", Interval: 0})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rule.Interval != 1 {
		t.Fatalf("interval = %d, want 1 as the floor", rule.Interval)
	}

	starts := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	if _, err := env.events.Create(ctx, admin.ID, h.ID, CreateEventInput{
		Title:            "Water plants",
		StartsAt:         starts,
		EndsAt:           starts.Add(15 * time.Minute),
		RecurrenceRuleID: &rule.ID,
	}); err != nil {
		t.Fatalf("event: %v", err)
	}

	// still referenced
	wantStatus(t, env.rules.Delete(ctx, rule.ID), http.StatusBadRequest)
}
