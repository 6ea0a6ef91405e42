package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type ThreadRepo interface {
	Create(ctx context.Context, tx *gorm.DB, thread *types.Thread) (*types.Thread, error)
	GetForHousehold(ctx context.Context, tx *gorm.DB, householdID, threadID uuid.UUID) (*types.Thread, error)
	ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, limit, offset int) ([]*types.Thread, int64, error)
	Update(ctx context.Context, tx *gorm.DB, thread *types.Thread) error
	Delete(ctx context.Context, tx *gorm.DB, threadID uuid.UUID) error
	ReplaceParticipants(ctx context.Context, tx *gorm.DB, thread *types.Thread, participants []*types.HouseholdMember) error
	DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error
}

type threadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewThreadRepo(db *gorm.DB, baseLog *logger.Logger) ThreadRepo {
	return &threadRepo{db: db, log: baseLog.With("repo", "ThreadRepo")}
}

func (r *threadRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *threadRepo) Create(ctx context.Context, tx *gorm.DB, thread *types.Thread) (*types.Thread, error) {
	if err := r.handle(tx).WithContext(ctx).Create(thread).Error; err != nil {
		return nil, err
	}
	return thread, nil
}

func (r *threadRepo) GetForHousehold(ctx context.Context, tx *gorm.DB, householdID, threadID uuid.UUID) (*types.Thread, error) {
	var thread types.Thread
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND household_id = ?", threadID, householdID).
		Preload("Participants").
		Preload("Participants.User").
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepo) ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, limit, offset int) ([]*types.Thread, int64, error) {
	h := r.handle(tx).WithContext(ctx)

	var total int64
	if err := h.Model(&types.Thread{}).
		Where("household_id = ?", householdID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := h.Where("household_id = ?", householdID).
		Preload("Participants").
		Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var threads []*types.Thread
	if err := q.Find(&threads).Error; err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

func (r *threadRepo) Update(ctx context.Context, tx *gorm.DB, thread *types.Thread) error {
	return r.handle(tx).WithContext(ctx).
		Omit("Participants", "Messages").
		Save(thread).Error
}

func (r *threadRepo) Delete(ctx context.Context, tx *gorm.DB, threadID uuid.UUID) error {
	h := r.handle(tx).WithContext(ctx)
	for _, stmt := range []string{
		`DELETE FROM poll_vote WHERE poll_id IN (SELECT poll.id FROM poll JOIN message ON message.id = poll.message_id WHERE message.thread_id = ?)`,
		`DELETE FROM poll_option WHERE poll_id IN (SELECT poll.id FROM poll JOIN message ON message.id = poll.message_id WHERE message.thread_id = ?)`,
		`DELETE FROM poll WHERE message_id IN (SELECT id FROM message WHERE thread_id = ?)`,
		`DELETE FROM attachment WHERE message_id IN (SELECT id FROM message WHERE thread_id = ?)`,
		`DELETE FROM reaction WHERE message_id IN (SELECT id FROM message WHERE thread_id = ?)`,
		`DELETE FROM mention WHERE message_id IN (SELECT id FROM message WHERE thread_id = ?)`,
		`DELETE FROM message_read WHERE message_id IN (SELECT id FROM message WHERE thread_id = ?)`,
		`DELETE FROM message WHERE thread_id = ?`,
		`DELETE FROM thread_participant WHERE thread_id = ?`,
		`DELETE FROM thread WHERE id = ?`,
	} {
		if err := h.Exec(stmt, threadID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *threadRepo) ReplaceParticipants(ctx context.Context, tx *gorm.DB, thread *types.Thread, participants []*types.HouseholdMember) error {
	return r.handle(tx).WithContext(ctx).
		Model(thread).
		Association("Participants").
		Replace(participants)
}

func (r *threadRepo) DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	h := r.handle(tx).WithContext(ctx)
	for _, stmt := range []string{
		`DELETE FROM poll_vote WHERE poll_id IN (SELECT poll.id FROM poll JOIN message ON message.id = poll.message_id JOIN thread ON thread.id = message.thread_id WHERE thread.household_id = ?)`,
		`DELETE FROM poll_option WHERE poll_id IN (SELECT poll.id FROM poll JOIN message ON message.id = poll.message_id JOIN thread ON thread.id = message.thread_id WHERE thread.household_id = ?)`,
		`DELETE FROM poll WHERE message_id IN (SELECT message.id FROM message JOIN thread ON thread.id = message.thread_id WHERE thread.household_id = ?)`,
		`DELETE FROM attachment WHERE message_id IN (SELECT message.id FROM message JOIN thread ON thread.id = message.thread_id WHERE thread.household_id = ?)`,
		`DELETE FROM reaction WHERE message_id IN (SELECT message.id FROM message JOIN thread ON thread.id = message.thread_id WHERE thread.household_id = ?)`,
		`DELETE FROM mention WHERE message_id IN (SELECT message.id FROM message JOIN thread ON thread.id = message.thread_id WHERE thread.household_id = ?)`,
		`DELETE FROM message_read WHERE message_id IN (SELECT message.id FROM message JOIN thread ON thread.id = message.thread_id WHERE thread.household_id = ?)`,
		`DELETE FROM message WHERE thread_id IN (SELECT id FROM thread WHERE household_id = ?)`,
		`DELETE FROM thread_participant WHERE thread_id IN (SELECT id FROM thread WHERE household_id = ?)`,
		`DELETE FROM thread WHERE household_id = ?`,
	} {
		if err := h.Exec(stmt, householdID).Error; err != nil {
			return err
		}
	}
	return nil
}
