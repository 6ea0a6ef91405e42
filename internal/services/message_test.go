package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/types"
)

func TestMessageMentionCreatesNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	friend := env.seedUser(t, "friend@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, friend, types.RoleMember)
	thread := env.seedThread(t, admin, h.ID)

	msg, err := env.messages.Create(ctx, admin.ID, h.ID, thread.ID, CreateMessageInput{
		Body:         "dinner at 7 @friend",
		MentionedIDs: []uuid.UUID{friend.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var mentions []types.Mention
	if err := env.db.Where("message_id = ?", msg.ID).Find(&mentions).Error; err != nil {
		t.Fatalf("mentions: %v", err)
	}
	if len(mentions) != 1 || mentions[0].MentionedUserID != friend.ID {
		t.Fatalf("expected one mention for friend, got %+v", mentions)
	}

	var notifications []types.Notification
	if err := env.db.Where("user_id = ?", friend.ID).Find(&notifications).Error; err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != "MENTION" {
		t.Fatalf("expected one MENTION notification, got %+v", notifications)
	}

	if msgs := env.rec.onChannel(realtime.HouseholdChannel(h.ID)); len(msgs) != 1 || msgs[0].Event != realtime.EventMessageUpdate {
		t.Fatalf("expected one message_update on the household channel, got %+v", msgs)
	}
	if msgs := env.rec.onChannel(realtime.UserChannel(friend.ID)); len(msgs) != 1 || msgs[0].Event != realtime.EventNotificationUpdate {
		t.Fatalf("expected one notification_update on the mentioned user channel, got %+v", msgs)
	}
}

func TestMessageMentionOutsiderRejectsWholeCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	outsider := env.seedUser(t, "outsider@example.com")
	h := env.seedHousehold(t, admin)
	thread := env.seedThread(t, admin, h.ID)

	_, err := env.messages.Create(ctx, admin.ID, h.ID, thread.ID, CreateMessageInput{
		Body:         "hi",
		MentionedIDs: []uuid.UUID{outsider.ID},
	})
	wantStatus(t, err, http.StatusBadRequest)

	var count int64
	env.db.Model(&types.Message{}).Where("thread_id = ?", thread.ID).Count(&count)
	if count != 0 {
		t.Fatalf("rejected message persisted")
	}
	if len(env.rec.messages()) != 0 {
		t.Fatalf("rejected create must not emit events")
	}
}

func TestMessageWrongParentReadsAsMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h1 := env.seedHousehold(t, admin)
	h2, err := env.households.Create(ctx, admin.ID, CreateHouseholdInput{Name: "Second"})
	if err != nil {
		t.Fatalf("second household: %v", err)
	}
	env.rec.reset()

	threadA := env.seedThread(t, admin, h1.ID)
	threadB := env.seedThread(t, admin, h2.ID)
	msg := env.seedMessage(t, admin, h1.ID, threadA.ID, "only in A")

	// right thread, wrong household
	_, err = env.messages.Get(ctx, admin.ID, h2.ID, threadA.ID, msg.ID)
	wantStatus(t, err, http.StatusNotFound)

	// right household-of-threadB, wrong thread
	_, err = env.messages.Get(ctx, admin.ID, h2.ID, threadB.ID, msg.ID)
	wantStatus(t, err, http.StatusNotFound)

	// correct path still works
	if _, err := env.messages.Get(ctx, admin.ID, h1.ID, threadA.ID, msg.ID); err != nil {
		t.Fatalf("Get through correct parents: %v", err)
	}
}

func TestMessageUpdateAuthorOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	author := env.seedUser(t, "author@example.com")
	other := env.seedUser(t, "other@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, author, types.RoleMember)
	env.seedMember(t, h.ID, other, types.RoleMember)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, author, h.ID, thread.ID, "original")

	_, err := env.messages.Update(ctx, other.ID, h.ID, thread.ID, msg.ID, UpdateMessageInput{Body: "edited"})
	wantStatus(t, err, http.StatusUnauthorized)

	if _, err := env.messages.Update(ctx, author.ID, h.ID, thread.ID, msg.ID, UpdateMessageInput{Body: "edited by author"}); err != nil {
		t.Fatalf("author update: %v", err)
	}
	if _, err := env.messages.Update(ctx, admin.ID, h.ID, thread.ID, msg.ID, UpdateMessageInput{Body: "edited by admin"}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestReactionIdempotentAndAuthorOnlyRemoval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	other := env.seedUser(t, "other@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, other, types.RoleMember)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "react to me")

	first, err := env.messages.AddReaction(ctx, other.ID, h.ID, thread.ID, msg.ID, "👍")
	if err != nil {
		t.Fatalf("AddReaction: %v", err)
	}
	second, err := env.messages.AddReaction(ctx, other.ID, h.ID, thread.ID, msg.ID, "👍")
	if err != nil {
		t.Fatalf("AddReaction (repeat): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("repeated reaction created a new row")
	}

	// even the admin cannot remove someone else's reaction
	err = env.messages.RemoveReaction(ctx, admin.ID, h.ID, thread.ID, msg.ID, "👍")
	wantStatus(t, err, http.StatusNotFound)

	if err := env.messages.RemoveReaction(ctx, other.ID, h.ID, thread.ID, msg.ID, "👍"); err != nil {
		t.Fatalf("RemoveReaction (own): %v", err)
	}
	var count int64
	env.db.Model(&types.Reaction{}).Where("message_id = ?", msg.ID).Count(&count)
	if count != 0 {
		t.Fatalf("reaction row survived removal")
	}
}

func TestMessageAttachmentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "with file")

	att, err := env.messages.AddAttachment(ctx, admin.ID, h.ID, thread.ID, msg.ID, AttachmentInput{
		FileName: "list.txt",
		MimeType: "text/plain",
		Data:     []byte("milk\neggs\n"),
	})
	if err != nil {
		t.Fatalf("AddAttachment: %v", err)
	}
	if att.SizeBytes != int64(len("milk\neggs\n")) {
		t.Fatalf("size = %d", att.SizeBytes)
	}

	if err := env.messages.RemoveAttachment(ctx, admin.ID, h.ID, thread.ID, msg.ID, att.ID); err != nil {
		t.Fatalf("RemoveAttachment: %v", err)
	}
	var count int64
	env.db.Model(&types.Attachment{}).Where("message_id = ?", msg.ID).Count(&count)
	if count != 0 {
		t.Fatalf("attachment row survived removal")
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	h := env.seedHousehold(t, admin)
	thread := env.seedThread(t, admin, h.ID)
	msg := env.seedMessage(t, admin, h.ID, thread.ID, "read me")

	if err := env.messages.MarkRead(ctx, admin.ID, h.ID, thread.ID, msg.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := env.messages.MarkRead(ctx, admin.ID, h.ID, thread.ID, msg.ID); err != nil {
		t.Fatalf("MarkRead (repeat): %v", err)
	}
	var count int64
	env.db.Model(&types.MessageRead{}).Where("message_id = ?", msg.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single read row, got %d", count)
	}
}
