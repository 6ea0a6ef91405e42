package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/envutil"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
	port := envutil.GetEnv("POSTGRES_PORT", "5432", log)
	user := envutil.GetEnv("POSTGRES_USER", "postgres", log)
	password := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
	name := envutil.GetEnv("POSTGRES_NAME", "homeslice", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(Models()...); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	// Service-layer cascades are authoritative; these FKs are a backstop for
	// out-of-band deletes.
	for _, ddl := range []string{
		`ALTER TABLE "user_token" DROP CONSTRAINT IF EXISTS "fk_user_token_user_id";
		 ALTER TABLE "user_token" ADD CONSTRAINT "fk_user_token_user_id"
		 FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		`ALTER TABLE "household_member" DROP CONSTRAINT IF EXISTS "fk_household_member_household_id";
		 ALTER TABLE "household_member" ADD CONSTRAINT "fk_household_member_household_id"
		 FOREIGN KEY ("household_id") REFERENCES "household"("id") ON DELETE CASCADE`,
	} {
		if err := s.db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("apply fk ddl: %w", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// Models lists every persisted type in migration order (referenced tables
// first). Shared with the sqlite-backed test harness.
func Models() []any {
	return []any{
		&types.User{},
		&types.UserToken{},
		&types.Household{},
		&types.HouseholdMember{},
		&types.RecurrenceRule{},
		&types.Chore{},
		&types.Subtask{},
		&types.ChoreHistory{},
		&types.Expense{},
		&types.ExpenseSplit{},
		&types.Transaction{},
		&types.Event{},
		&types.EventReminder{},
		&types.EventHistory{},
		&types.Thread{},
		&types.Message{},
		&types.Attachment{},
		&types.Reaction{},
		&types.Mention{},
		&types.MessageRead{},
		&types.Poll{},
		&types.PollOption{},
		&types.PollVote{},
		&types.Notification{},
		&types.NotificationSettings{},
		&types.PushSubscription{},
	}
}
