package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/types"
)

func TestThreadAuthorOrAdminRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	author := env.seedUser(t, "author@example.com")
	other := env.seedUser(t, "other@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, author, types.RoleMember)
	env.seedMember(t, h.ID, other, types.RoleMember)

	thread := env.seedThread(t, author, h.ID)

	title := "Renamed"
	_, err := env.threads.Update(ctx, other.ID, h.ID, thread.ID, UpdateThreadInput{Title: &title})
	wantStatus(t, err, http.StatusUnauthorized)

	if _, err := env.threads.Update(ctx, author.ID, h.ID, thread.ID, UpdateThreadInput{Title: &title}); err != nil {
		t.Fatalf("author update: %v", err)
	}

	err = env.threads.Delete(ctx, other.ID, h.ID, thread.ID)
	wantStatus(t, err, http.StatusUnauthorized)

	if err := env.threads.Delete(ctx, admin.ID, h.ID, thread.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestThreadParticipantsMustBeMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	friend := env.seedUser(t, "friend@example.com")
	h := env.seedHousehold(t, admin)
	friendMembership := env.seedMember(t, h.ID, friend, types.RoleMember)

	_, err := env.threads.Create(ctx, admin.ID, h.ID, CreateThreadInput{
		Title:          "Private",
		ParticipantIDs: []uuid.UUID{uuid.New()},
	})
	wantStatus(t, err, http.StatusBadRequest)

	thread, err := env.threads.Create(ctx, admin.ID, h.ID, CreateThreadInput{
		Title:          "Planning",
		ParticipantIDs: []uuid.UUID{friendMembership.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(thread.Participants) != 1 {
		t.Fatalf("expected 1 participant, got %d", len(thread.Participants))
	}
}

func TestThreadDeleteRemovesMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "soon gone")

	if err := env.threads.Delete(ctx, admin.ID, h.ID, thread.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var count int64
	env.db.Unscoped().Model(&types.Message{}).Where("id = ?", msg.ID).Count(&count)
	if count != 0 {
		t.Fatalf("message row survived thread delete")
	}
}
