package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/types"
)

func msgAction(t *testing.T, m realtime.Message) realtime.Action {
	t.Helper()
	data, ok := m.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload type %T", m.Data)
	}
	action, ok := data["action"].(realtime.Action)
	if !ok {
		t.Fatalf("payload missing action: %+v", data)
	}
	return action
}

func TestHouseholdCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com")

	h, err := env.households.Create(ctx, owner.ID, CreateHouseholdInput{Name: "Shared Flat"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.Name != "Shared Flat" {
		t.Fatalf("unexpected name %q", h.Name)
	}

	var member types.HouseholdMember
	if err := env.db.Where("household_id = ? AND user_id = ?", h.ID, owner.ID).First(&member).Error; err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	if member.Role != types.RoleAdmin {
		t.Fatalf("creator role = %s, want ADMIN", member.Role)
	}

	msgs := env.rec.onChannel(realtime.HouseholdChannel(h.ID))
	if len(msgs) != 1 {
		t.Fatalf("expected 1 household event, got %d", len(msgs))
	}
	if msgs[0].Event != realtime.EventHouseholdUpdate || msgAction(t, msgs[0]) != realtime.ActionCreated {
		t.Fatalf("unexpected event %s/%s", msgs[0].Event, msgAction(t, msgs[0]))
	}
}

func TestHouseholdCreateEmptyName(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com")

	_, err := env.households.Create(context.Background(), owner.ID, CreateHouseholdInput{Name: "  "})
	wantStatus(t, err, http.StatusBadRequest)
	if len(env.rec.messages()) != 0 {
		t.Fatalf("rejected create must not emit events")
	}
}

func TestHouseholdAddMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	other := env.seedUser(t, "other@example.com")
	h := env.seedHousehold(t, admin)

	member, err := env.households.AddMember(ctx, admin.ID, h.ID, AddMemberInput{UserID: other.ID, Role: types.RoleMember})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if member.Role != types.RoleMember {
		t.Fatalf("role = %s, want MEMBER", member.Role)
	}

	// same user twice
	_, err = env.households.AddMember(ctx, admin.ID, h.ID, AddMemberInput{UserID: other.ID, Role: types.RoleMember})
	wantStatus(t, err, http.StatusBadRequest)

	// a plain member cannot add anyone
	third := env.seedUser(t, "third@example.com")
	_, err = env.households.AddMember(ctx, other.ID, h.ID, AddMemberInput{UserID: third.ID, Role: types.RoleMember})
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestHouseholdRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	other := env.seedUser(t, "other@example.com")
	h := env.seedHousehold(t, admin)
	membership := env.seedMember(t, h.ID, other, types.RoleMember)

	var adminMembership types.HouseholdMember
	if err := env.db.Where("household_id = ? AND user_id = ?", h.ID, admin.ID).First(&adminMembership).Error; err != nil {
		t.Fatalf("admin membership: %v", err)
	}

	// a member cannot remove someone else
	err := env.households.RemoveMember(ctx, other.ID, h.ID, adminMembership.ID)
	wantStatus(t, err, http.StatusUnauthorized)

	// the sole admin cannot leave
	err = env.households.RemoveMember(ctx, admin.ID, h.ID, adminMembership.ID)
	wantStatus(t, err, http.StatusBadRequest)

	// a member may remove themselves
	if err := env.households.RemoveMember(ctx, other.ID, h.ID, membership.ID); err != nil {
		t.Fatalf("RemoveMember (self): %v", err)
	}
	var count int64
	env.db.Model(&types.HouseholdMember{}).Where("household_id = ?", h.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 remaining member, got %d", count)
	}
}

func TestHouseholdLastAdminDemotion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	other := env.seedUser(t, "other@example.com")
	h := env.seedHousehold(t, admin)
	otherMembership := env.seedMember(t, h.ID, other, types.RoleMember)

	var adminMembership types.HouseholdMember
	if err := env.db.Where("household_id = ? AND user_id = ?", h.ID, admin.ID).First(&adminMembership).Error; err != nil {
		t.Fatalf("admin membership: %v", err)
	}

	_, err := env.households.UpdateMemberRole(ctx, admin.ID, h.ID, adminMembership.ID, types.RoleMember)
	wantStatus(t, err, http.StatusBadRequest)

	// promote the other member, then the original admin can step down
	if _, err := env.households.UpdateMemberRole(ctx, admin.ID, h.ID, otherMembership.ID, types.RoleAdmin); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if _, err := env.households.UpdateMemberRole(ctx, admin.ID, h.ID, adminMembership.ID, types.RoleMember); err != nil {
		t.Fatalf("demote after promote: %v", err)
	}
}

func TestHouseholdDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)

	chore, err := env.chores.Create(ctx, admin.ID, h.ID, CreateChoreInput{Title: "Dishes"})
	if err != nil {
		t.Fatalf("chore: %v", err)
	}
	thread := env.seedThread(t, admin, h.ID)
	env.seedMessage(t, admin, h.ID, thread.ID, "hello")
	if _, err := env.expenses.Create(ctx, admin.ID, h.ID, CreateExpenseInput{Amount: 12, Description: "Pizza"}); err != nil {
		t.Fatalf("expense: %v", err)
	}
	env.rec.reset()

	// only an admin may delete; the membership row for a stranger is absent
	stranger := env.seedUser(t, "stranger@example.com")
	wantStatus(t, env.households.Delete(ctx, stranger.ID, h.ID), http.StatusUnauthorized)

	if err := env.households.Delete(ctx, admin.ID, h.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, probe := range []struct {
		name  string
		model any
		where string
		arg   any
	}{
		{"household", &types.Household{}, "id = ?", h.ID},
		{"members", &types.HouseholdMember{}, "household_id = ?", h.ID},
		{"chores", &types.Chore{}, "household_id = ?", h.ID},
		{"subtasks", &types.Subtask{}, "chore_id = ?", chore.ID},
		{"threads", &types.Thread{}, "household_id = ?", h.ID},
		{"messages", &types.Message{}, "thread_id = ?", thread.ID},
		{"expenses", &types.Expense{}, "household_id = ?", h.ID},
	} {
		var count int64
		if err := env.db.Model(probe.model).Where(probe.where, probe.arg).Count(&count).Error; err != nil {
			t.Fatalf("%s count: %v", probe.name, err)
		}
		if count != 0 {
			t.Fatalf("%s rows survived household delete: %d", probe.name, count)
		}
	}
}
