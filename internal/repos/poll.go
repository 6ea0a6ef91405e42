package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type PollRepo interface {
	Create(ctx context.Context, tx *gorm.DB, poll *types.Poll) (*types.Poll, error)
	GetByMessage(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) (*types.Poll, error)
	GetByID(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (*types.Poll, error)
	Update(ctx context.Context, tx *gorm.DB, poll *types.Poll) error
	// DeleteCascade removes votes, then options, then the poll row, in that
	// order. Callers wrap it in a transaction.
	DeleteCascade(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) error

	GetOptionForPoll(ctx context.Context, tx *gorm.DB, pollID, optionID uuid.UUID) (*types.PollOption, error)

	CreateVote(ctx context.Context, tx *gorm.DB, vote *types.PollVote) (*types.PollVote, error)
	DeleteVotesForUser(ctx context.Context, tx *gorm.DB, pollID, userID uuid.UUID) error
	GetVoteForUser(ctx context.Context, tx *gorm.DB, pollID, userID uuid.UUID) (*types.PollVote, error)
	ListVotes(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) ([]*types.PollVote, error)
	CountVotesByOption(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (map[uuid.UUID]int64, error)
}

type pollRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPollRepo(db *gorm.DB, baseLog *logger.Logger) PollRepo {
	return &pollRepo{db: db, log: baseLog.With("repo", "PollRepo")}
}

func (r *pollRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *pollRepo) Create(ctx context.Context, tx *gorm.DB, poll *types.Poll) (*types.Poll, error) {
	if err := r.handle(tx).WithContext(ctx).Create(poll).Error; err != nil {
		return nil, err
	}
	return poll, nil
}

func (r *pollRepo) GetByMessage(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) (*types.Poll, error) {
	var poll types.Poll
	if err := r.handle(tx).WithContext(ctx).
		Where("message_id = ?", messageID).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&poll).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepo) GetByID(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (*types.Poll, error) {
	var poll types.Poll
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ?", pollID).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&poll).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepo) Update(ctx context.Context, tx *gorm.DB, poll *types.Poll) error {
	return r.handle(tx).WithContext(ctx).
		Omit("Options", "Votes").
		Save(poll).Error
}

func (r *pollRepo) DeleteCascade(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) error {
	h := r.handle(tx).WithContext(ctx)
	if err := h.Where("poll_id = ?", pollID).Delete(&types.PollVote{}).Error; err != nil {
		return err
	}
	if err := h.Where("poll_id = ?", pollID).Delete(&types.PollOption{}).Error; err != nil {
		return err
	}
	return h.Where("id = ?", pollID).Delete(&types.Poll{}).Error
}

func (r *pollRepo) GetOptionForPoll(ctx context.Context, tx *gorm.DB, pollID, optionID uuid.UUID) (*types.PollOption, error) {
	var option types.PollOption
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND poll_id = ?", optionID, pollID).
		First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *pollRepo) CreateVote(ctx context.Context, tx *gorm.DB, vote *types.PollVote) (*types.PollVote, error) {
	if err := r.handle(tx).WithContext(ctx).Create(vote).Error; err != nil {
		return nil, err
	}
	return vote, nil
}

func (r *pollRepo) DeleteVotesForUser(ctx context.Context, tx *gorm.DB, pollID, userID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Delete(&types.PollVote{}).Error
}

func (r *pollRepo) GetVoteForUser(ctx context.Context, tx *gorm.DB, pollID, userID uuid.UUID) (*types.PollVote, error) {
	var vote types.PollVote
	if err := r.handle(tx).WithContext(ctx).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *pollRepo) ListVotes(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) ([]*types.PollVote, error) {
	var votes []*types.PollVote
	if err := r.handle(tx).WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("created_at ASC").
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *pollRepo) CountVotesByOption(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		OptionID uuid.UUID
		Total    int64
	}
	var rows []row
	if err := r.handle(tx).WithContext(ctx).
		Model(&types.PollVote{}).
		Select("option_id, COUNT(*) AS total").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.OptionID] = r.Total
	}
	return counts, nil
}
