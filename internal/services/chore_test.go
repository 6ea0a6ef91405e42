package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/types"
)

func TestChoreCreateEmitsAfterCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	chore, err := env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{Title: "Take out trash", Priority: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if chore.Status != types.ChoreStatusPending {
		t.Fatalf("status = %s, want PENDING", chore.Status)
	}

	var stored types.Chore
	if err := env.db.First(&stored, "id = ?", chore.ID).Error; err != nil {
		t.Fatalf("chore not persisted: %v", err)
	}

	msgs := env.rec.onChannel(realtime.HouseholdChannel(h.ID))
	if len(msgs) != 1 || msgs[0].Event != realtime.EventChoreUpdate {
		t.Fatalf("expected one chore_update event, got %+v", msgs)
	}
	if msgAction(t, msgs[0]) != realtime.ActionCreated {
		t.Fatalf("action = %s, want CREATED", msgAction(t, msgs[0]))
	}

	history, err := env.chores.ListHistory(ctx, admin.ID, h.ID, chore.ID)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(history) != 1 || history[0].Action != types.HistoryCreated {
		t.Fatalf("expected a single CREATED history entry, got %+v", history)
	}
}

func TestChoreCreateRejectedLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	outsider := env.seedUser(t, "outsider@example.com")
	h := env.seedHousehold(t, admin)

	// non-member caller
	_, err := env.chores.Create(ctx, outsider.ID, h.ID, CreateChoreInput{Title: "Nope"})
	wantStatus(t, err, http.StatusUnauthorized)

	// member caller, but an assignee outside the household
	_, err = env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{Title: "Nope", AssigneeIDs: []uuid.UUID{outsider.ID}})
	wantStatus(t, err, http.StatusBadRequest)

	var count int64
	env.db.Model(&types.Chore{}).Where("household_id = ?", h.ID).Count(&count)
	if count != 0 {
		t.Fatalf("rejected creates left %d chore rows", count)
	}
	if len(env.rec.messages()) != 0 {
		t.Fatalf("rejected creates must not emit events, got %+v", env.rec.messages())
	}
}

func TestChoreStatusChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	chore, err := env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{Title: "Vacuum"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	env.rec.reset()

	bogus := types.ChoreStatus("WONTFIX")
	_, err = env.chores.Update(ctx, admin.ID, h.ID, chore.ID, UpdateChoreInput{Status: &bogus})
	wantStatus(t, err, http.StatusBadRequest)

	done := types.ChoreStatusCompleted
	updated, err := env.chores.Update(ctx, admin.ID, h.ID, chore.ID, UpdateChoreInput{Status: &done})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != types.ChoreStatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", updated.Status)
	}

	history, err := env.chores.ListHistory(ctx, admin.ID, h.ID, chore.ID)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	var sawCompleted bool
	for _, entry := range history {
		if entry.Action == types.HistoryCompleted {
			sawCompleted = true
		}
	}
	if !sawCompleted {
		t.Fatalf("expected COMPLETED history entry, got %+v", history)
	}
}

func TestSubtaskCompletionCascadesToChore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	chore, err := env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{Title: "Spring clean"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	first, err := env.chores.CreateSubtask(ctx, admin.ID, h.ID, chore.ID, CreateSubtaskInput{Title: "Windows"})
	if err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}
	second, err := env.chores.CreateSubtask(ctx, admin.ID, h.ID, chore.ID, CreateSubtaskInput{Title: "Floors"})
	if err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}
	env.rec.reset()

	done := types.SubtaskStatusCompleted
	if _, err := env.chores.UpdateSubtask(ctx, admin.ID, h.ID, chore.ID, first.ID, UpdateSubtaskInput{Status: &done}); err != nil {
		t.Fatalf("UpdateSubtask (first): %v", err)
	}
	var mid types.Chore
	if err := env.db.First(&mid, "id = ?", chore.ID).Error; err != nil {
		t.Fatalf("reload chore: %v", err)
	}
	if mid.Status == types.ChoreStatusCompleted {
		t.Fatalf("chore completed with one subtask still open")
	}

	env.rec.reset()
	if _, err := env.chores.UpdateSubtask(ctx, admin.ID, h.ID, chore.ID, second.ID, UpdateSubtaskInput{Status: &done}); err != nil {
		t.Fatalf("UpdateSubtask (second): %v", err)
	}
	var final types.Chore
	if err := env.db.First(&final, "id = ?", chore.ID).Error; err != nil {
		t.Fatalf("reload chore: %v", err)
	}
	if final.Status != types.ChoreStatusCompleted {
		t.Fatalf("chore status = %s, want COMPLETED after last subtask", final.Status)
	}

	var sawStatusChange bool
	for _, m := range env.rec.onChannel(realtime.HouseholdChannel(h.ID)) {
		if m.Event == realtime.EventChoreUpdate && msgAction(t, m) == realtime.ActionStatusChanged {
			sawStatusChange = true
		}
	}
	if !sawStatusChange {
		t.Fatalf("expected STATUS_CHANGED chore event after cascade")
	}
}

func TestSubtaskCreationReopensCompletedChore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	chore, err := env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{Title: "Laundry"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	done := types.ChoreStatusCompleted
	if _, err := env.chores.Update(ctx, admin.ID, h.ID, chore.ID, UpdateChoreInput{Status: &done}); err != nil {
		t.Fatalf("complete chore: %v", err)
	}

	if _, err := env.chores.CreateSubtask(ctx, admin.ID, h.ID, chore.ID, CreateSubtaskInput{Title: "Fold"}); err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}
	var reloaded types.Chore
	if err := env.db.First(&reloaded, "id = ?", chore.ID).Error; err != nil {
		t.Fatalf("reload chore: %v", err)
	}
	if reloaded.Status != types.ChoreStatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS after new subtask", reloaded.Status)
	}
}

func TestChoreCrossHouseholdLookupMasked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h1 := env.seedHousehold(t, admin)
	h2, err := env.households.Create(ctx, admin.ID, CreateHouseholdInput{Name: "Second"})
	if err != nil {
		t.Fatalf("second household: %v", err)
	}
	env.rec.reset()

	chore, err := env.chores.Create(ctx, admin.ID, h1.ID, CreateChoreInput{Title: "Mop"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// the chore exists, but not under the claimed household
	_, err = env.chores.Get(ctx, admin.ID, h2.ID, chore.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestChoreCreateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	roommate := env.seedUser(t, "roommate@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, roommate, types.RoleMember)

	_, err := env.chores.Create(ctx, roommate.ID, h.ID, CreateChoreInput{Title: "Dishes"})
	wantStatus(t, err, http.StatusUnauthorized)

	var count int64
	env.db.Model(&types.Chore{}).Where("household_id = ?", h.ID).Count(&count)
	if count != 0 {
		t.Fatalf("member create left %d chore rows", count)
	}
}

func TestChoreUpdateAdminOrAssignee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	assignee := env.seedUser(t, "assignee@example.com")
	bystander := env.seedUser(t, "bystander@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, assignee, types.RoleMember)
	env.seedMember(t, h.ID, bystander, types.RoleMember)

	chore, err := env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{
		Title:       "Trash",
		AssigneeIDs: []uuid.UUID{assignee.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	env.rec.reset()

	title := "Trash and recycling"
	_, err = env.chores.Update(ctx, bystander.ID, h.ID, chore.ID, UpdateChoreInput{Title: &title})
	wantStatus(t, err, http.StatusUnauthorized)

	updated, err := env.chores.Update(ctx, assignee.ID, h.ID, chore.ID, UpdateChoreInput{Title: &title})
	if err != nil {
		t.Fatalf("assignee Update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title = %q, want %q", updated.Title, title)
	}

	subtask, err := env.chores.CreateSubtask(ctx, assignee.ID, h.ID, chore.ID, CreateSubtaskInput{Title: "Bins out"})
	if err != nil {
		t.Fatalf("assignee CreateSubtask: %v", err)
	}
	done := types.SubtaskStatusCompleted
	_, err = env.chores.UpdateSubtask(ctx, bystander.ID, h.ID, chore.ID, subtask.ID, UpdateSubtaskInput{Status: &done})
	wantStatus(t, err, http.StatusUnauthorized)

	if _, err := env.chores.UpdateSubtask(ctx, assignee.ID, h.ID, chore.ID, subtask.ID, UpdateSubtaskInput{Status: &done}); err != nil {
		t.Fatalf("assignee UpdateSubtask: %v", err)
	}
}

func TestChoreDeleteRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	assignee := env.seedUser(t, "assignee@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, assignee, types.RoleMember)

	chore, err := env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{
		Title:       "Mop",
		AssigneeIDs: []uuid.UUID{assignee.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// even the assignee cannot delete
	err = env.chores.Delete(ctx, assignee.ID, h.ID, chore.ID)
	wantStatus(t, err, http.StatusUnauthorized)

	var count int64
	env.db.Model(&types.Chore{}).Where("id = ?", chore.ID).Count(&count)
	if count != 1 {
		t.Fatalf("chore should survive a rejected delete, count = %d", count)
	}

	if err := env.chores.Delete(ctx, admin.ID, h.ID, chore.ID); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}
}
