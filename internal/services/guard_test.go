package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/yungbote/homeslice-backend/internal/types"
)

func TestGuardFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	member := env.seedUser(t, "member@example.com")
	stranger := env.seedUser(t, "stranger@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, member, types.RoleMember)

	// a missing membership row and an insufficient role look the same
	_, _, err := env.chores.List(ctx, stranger.ID, h.ID, 10, 0)
	wantStatus(t, err, http.StatusUnauthorized)

	_, err = env.households.AddMember(ctx, member.ID, h.ID, AddMemberInput{UserID: stranger.ID, Role: types.RoleMember})
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestNotificationSettingsDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "prefs@example.com")

	settings, err := env.notifications.GetSettings(ctx, user.ID, nil)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !settings.PushEnabled {
		t.Fatalf("push should default to enabled")
	}

	off := false
	saved, err := env.notifications.SaveSettings(ctx, user.ID, NotificationSettingsInput{PushEnabled: &off})
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if saved.PushEnabled {
		t.Fatalf("push still enabled after save")
	}

	reloaded, err := env.notifications.GetSettings(ctx, user.ID, nil)
	if err != nil {
		t.Fatalf("GetSettings (reload): %v", err)
	}
	if reloaded.PushEnabled {
		t.Fatalf("saved settings not persisted")
	}
}

func TestNotificationMarkReadIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "inbox@example.com")

	created, err := env.notifications.Create(ctx, CreateNotificationInput{
		UserID:  user.ID,
		Type:    "REMINDER",
		Message: "Trash night tonight",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := env.notifications.MarkRead(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !first.IsRead {
		t.Fatalf("notification still unread")
	}
	if _, err := env.notifications.MarkRead(ctx, user.ID, created.ID); err != nil {
		t.Fatalf("MarkRead (repeat): %v", err)
	}

	// someone else's notification reads as missing
	other := env.seedUser(t, "other@example.com")
	_, err = env.notifications.MarkRead(ctx, other.ID, created.ID)
	wantStatus(t, err, http.StatusNotFound)
}
