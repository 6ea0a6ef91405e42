package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/yungbote/homeslice-backend/internal/realtime"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, RegisterInput{
		Email:    "new@example.com",
		Password: "hunter2!",
		Name:     "New Person",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", result)
	}
	if result.User.AvatarURL == "" {
		t.Fatalf("expected a generated avatar url")
	}

	// the same email twice
	_, err = env.auth.Register(ctx, RegisterInput{Email: "new@example.com", Password: "x!", Name: "Dup"})
	wantStatus(t, err, http.StatusBadRequest)

	_, err = env.auth.Login(ctx, LoginInput{Email: "new@example.com", Password: "wrong"})
	wantStatus(t, err, http.StatusUnauthorized)

	login, err := env.auth.Login(ctx, LoginInput{Email: "new@example.com", Password: "hunter2!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	userID, err := env.auth.ParseAccessToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if userID != result.User.ID {
		t.Fatalf("token subject = %s, want %s", userID, result.User.ID)
	}
}

func TestRefreshRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, RegisterInput{
		Email:    "rotate@example.com",
		Password: "pw123456",
		Name:     "Rotator",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	refreshed, err := env.auth.Refresh(ctx, registered.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Fatalf("refresh must rotate the token")
	}

	// the consumed token is dead
	_, err = env.auth.Refresh(ctx, registered.RefreshToken)
	wantStatus(t, err, http.StatusUnauthorized)

	// logout kills the remaining one too
	if err := env.auth.Logout(ctx, registered.User.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = env.auth.Refresh(ctx, refreshed.RefreshToken)
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.auth.ParseAccessToken("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestSetActiveHousehold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "user@example.com")
	h := env.seedHousehold(t, user)
	other, err := env.households.Create(ctx, env.seedUser(t, "someone@example.com").ID, CreateHouseholdInput{Name: "Not mine"})
	if err != nil {
		t.Fatalf("other household: %v", err)
	}
	env.rec.reset()

	// not a member of that one
	_, err = env.users.SetActiveHousehold(ctx, user.ID, other.ID)
	wantStatus(t, err, http.StatusNotFound)

	updated, err := env.users.SetActiveHousehold(ctx, user.ID, h.ID)
	if err != nil {
		t.Fatalf("SetActiveHousehold: %v", err)
	}
	if updated.ActiveHouseholdID == nil || *updated.ActiveHouseholdID != h.ID {
		t.Fatalf("active household not set: %+v", updated)
	}

	msgs := env.rec.onChannel(realtime.UserChannel(user.ID))
	if len(msgs) != 1 || msgs[0].Event != realtime.EventUserUpdate {
		t.Fatalf("expected one user_update on the user channel, got %+v", msgs)
	}
}

func TestUserUpdateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "rename@example.com")

	empty := "   "
	_, err := env.users.Update(ctx, user.ID, UpdateUserInput{Name: &empty})
	wantStatus(t, err, http.StatusBadRequest)

	name := "Renamed"
	updated, err := env.users.Update(ctx, user.ID, UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name = %q", updated.Name)
	}
}
