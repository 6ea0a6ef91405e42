package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/homeslice-backend/internal/db"
	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/filestore"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

// recorderEmitter captures every realtime message a service emits so tests
// can assert that events fire only after a successful commit.
type recorderEmitter struct {
	mu   sync.Mutex
	msgs []realtime.Message
}

func (r *recorderEmitter) Emit(_ context.Context, m realtime.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func (r *recorderEmitter) messages() []realtime.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]realtime.Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

func (r *recorderEmitter) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}

func (r *recorderEmitter) onChannel(channel string) []realtime.Message {
	var out []realtime.Message
	for _, m := range r.messages() {
		if m.Channel == channel {
			out = append(out, m)
		}
	}
	return out
}

type testEnv struct {
	db  *gorm.DB
	rec *recorderEmitter

	auth          AuthService
	users         UserService
	households    HouseholdService
	chores        ChoreService
	expenses      ExpenseService
	events        EventService
	rules         RecurrenceService
	threads       ThreadService
	messages      MessageService
	polls         PollService
	notifications NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.NewNop()
	files, err := filestore.NewDiskStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	rec := &recorderEmitter{}
	notifier := NewNotifier(rec)

	userRepo := repos.NewUserRepo(gdb, log)
	tokenRepo := repos.NewUserTokenRepo(gdb, log)
	membershipRepo := repos.NewMembershipRepo(gdb, log)
	householdRepo := repos.NewHouseholdRepo(gdb, log)
	choreRepo := repos.NewChoreRepo(gdb, log)
	expenseRepo := repos.NewExpenseRepo(gdb, log)
	eventRepo := repos.NewEventRepo(gdb, log)
	recurrenceRepo := repos.NewRecurrenceRepo(gdb, log)
	threadRepo := repos.NewThreadRepo(gdb, log)
	messageRepo := repos.NewMessageRepo(gdb, log)
	pollRepo := repos.NewPollRepo(gdb, log)
	notificationRepo := repos.NewNotificationRepo(gdb, log)

	guard := NewGuard(log, membershipRepo)
	avatars, err := NewAvatarService(log, files)
	if err != nil {
		t.Fatalf("avatar service: %v", err)
	}
	cfg := AuthConfig{JWTSecret: "test-secret", AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour}

	return &testEnv{
		db:            gdb,
		rec:           rec,
		auth:          NewAuthService(gdb, log, cfg, userRepo, tokenRepo, avatars),
		users:         NewUserService(gdb, log, userRepo, membershipRepo, notifier),
		households:    NewHouseholdService(gdb, log, guard, householdRepo, membershipRepo, userRepo, choreRepo, expenseRepo, eventRepo, threadRepo, notificationRepo, notifier),
		chores:        NewChoreService(gdb, log, guard, choreRepo, recurrenceRepo, userRepo, membershipRepo, notifier),
		expenses:      NewExpenseService(gdb, log, guard, expenseRepo, membershipRepo, notifier),
		events:        NewEventService(gdb, log, guard, eventRepo, choreRepo, recurrenceRepo, notifier),
		rules:         NewRecurrenceService(gdb, log, recurrenceRepo),
		threads:       NewThreadService(gdb, log, guard, threadRepo, membershipRepo, notifier),
		messages:      NewMessageService(gdb, log, guard, threadRepo, messageRepo, membershipRepo, notificationRepo, files, notifier),
		polls:         NewPollService(gdb, log, guard, threadRepo, messageRepo, pollRepo, notifier),
		notifications: NewNotificationService(gdb, log, notificationRepo, notifier, nil),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string) *types.User {
	t.Helper()
	u := &types.User{ID: uuid.New(), Email: email, Password: "pw", Name: "Test User"}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedHousehold creates a household through the service (so the creator gets
// an admin membership) and clears the recorded events afterwards.
func (e *testEnv) seedHousehold(t *testing.T, admin *types.User) *types.Household {
	t.Helper()
	h, err := e.households.Create(context.Background(), admin.ID, CreateHouseholdInput{Name: "Home"})
	if err != nil {
		t.Fatalf("seed household: %v", err)
	}
	e.rec.reset()
	return h
}

func (e *testEnv) seedMember(t *testing.T, householdID uuid.UUID, user *types.User, role types.Role) *types.HouseholdMember {
	t.Helper()
	m := &types.HouseholdMember{ID: uuid.New(), HouseholdID: householdID, UserID: user.ID, Role: role}
	if err := e.db.Create(m).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func (e *testEnv) seedThread(t *testing.T, author *types.User, householdID uuid.UUID) *types.Thread {
	t.Helper()
	th, err := e.threads.Create(context.Background(), author.ID, householdID, CreateThreadInput{Title: "General"})
	if err != nil {
		t.Fatalf("seed thread: %v", err)
	}
	e.rec.reset()
	return th
}

func (e *testEnv) seedMessage(t *testing.T, author *types.User, householdID, threadID uuid.UUID, body string) *types.Message {
	t.Helper()
	msg, err := e.messages.Create(context.Background(), author.ID, householdID, threadID, CreateMessageInput{Body: body})
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}
	e.rec.reset()
	return msg
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	if !apierr.IsStatus(err, status) {
		t.Fatalf("expected status %d, got %v", status, err)
	}
}
