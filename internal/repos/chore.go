package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type ChoreRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chore *types.Chore) (*types.Chore, error)
	// GetForHousehold scopes the lookup by household so a foreign chore is
	// indistinguishable from a missing one.
	GetForHousehold(ctx context.Context, tx *gorm.DB, householdID, choreID uuid.UUID) (*types.Chore, error)
	ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, limit, offset int) ([]*types.Chore, int64, error)
	Update(ctx context.Context, tx *gorm.DB, chore *types.Chore) error
	Delete(ctx context.Context, tx *gorm.DB, choreID uuid.UUID) error
	ReplaceAssignees(ctx context.Context, tx *gorm.DB, chore *types.Chore, assignees []*types.User) error

	CreateSubtask(ctx context.Context, tx *gorm.DB, subtask *types.Subtask) (*types.Subtask, error)
	GetSubtaskForChore(ctx context.Context, tx *gorm.DB, choreID, subtaskID uuid.UUID) (*types.Subtask, error)
	ListSubtasks(ctx context.Context, tx *gorm.DB, choreID uuid.UUID) ([]*types.Subtask, error)
	UpdateSubtask(ctx context.Context, tx *gorm.DB, subtask *types.Subtask) error
	DeleteSubtask(ctx context.Context, tx *gorm.DB, subtaskID uuid.UUID) error

	AppendHistory(ctx context.Context, tx *gorm.DB, entry *types.ChoreHistory) error
	ListHistory(ctx context.Context, tx *gorm.DB, choreID uuid.UUID) ([]*types.ChoreHistory, error)

	DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error
}

type choreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChoreRepo(db *gorm.DB, baseLog *logger.Logger) ChoreRepo {
	return &choreRepo{db: db, log: baseLog.With("repo", "ChoreRepo")}
}

func (r *choreRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *choreRepo) Create(ctx context.Context, tx *gorm.DB, chore *types.Chore) (*types.Chore, error) {
	if err := r.handle(tx).WithContext(ctx).Create(chore).Error; err != nil {
		return nil, err
	}
	return chore, nil
}

func (r *choreRepo) GetForHousehold(ctx context.Context, tx *gorm.DB, householdID, choreID uuid.UUID) (*types.Chore, error) {
	var chore types.Chore
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND household_id = ?", choreID, householdID).
		Preload("Assignees").
		Preload("Subtasks").
		Preload("RecurrenceRule").
		First(&chore).Error; err != nil {
		return nil, err
	}
	return &chore, nil
}

func (r *choreRepo) ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, limit, offset int) ([]*types.Chore, int64, error) {
	h := r.handle(tx).WithContext(ctx)

	var total int64
	if err := h.Model(&types.Chore{}).
		Where("household_id = ?", householdID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := h.Where("household_id = ?", householdID).
		Preload("Assignees").
		Preload("Subtasks").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var chores []*types.Chore
	if err := q.Find(&chores).Error; err != nil {
		return nil, 0, err
	}
	return chores, total, nil
}

func (r *choreRepo) Update(ctx context.Context, tx *gorm.DB, chore *types.Chore) error {
	return r.handle(tx).WithContext(ctx).
		Omit("Assignees", "Subtasks", "History").
		Save(chore).Error
}

func (r *choreRepo) Delete(ctx context.Context, tx *gorm.DB, choreID uuid.UUID) error {
	h := r.handle(tx).WithContext(ctx)
	if err := h.Exec(`DELETE FROM chore_assignment WHERE chore_id = ?`, choreID).Error; err != nil {
		return err
	}
	if err := h.Where("chore_id = ?", choreID).Delete(&types.Subtask{}).Error; err != nil {
		return err
	}
	if err := h.Where("chore_id = ?", choreID).Delete(&types.ChoreHistory{}).Error; err != nil {
		return err
	}
	return h.Where("id = ?", choreID).Delete(&types.Chore{}).Error
}

func (r *choreRepo) ReplaceAssignees(ctx context.Context, tx *gorm.DB, chore *types.Chore, assignees []*types.User) error {
	return r.handle(tx).WithContext(ctx).
		Model(chore).
		Association("Assignees").
		Replace(assignees)
}

func (r *choreRepo) CreateSubtask(ctx context.Context, tx *gorm.DB, subtask *types.Subtask) (*types.Subtask, error) {
	if err := r.handle(tx).WithContext(ctx).Create(subtask).Error; err != nil {
		return nil, err
	}
	return subtask, nil
}

func (r *choreRepo) GetSubtaskForChore(ctx context.Context, tx *gorm.DB, choreID, subtaskID uuid.UUID) (*types.Subtask, error) {
	var subtask types.Subtask
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND chore_id = ?", subtaskID, choreID).
		First(&subtask).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *choreRepo) ListSubtasks(ctx context.Context, tx *gorm.DB, choreID uuid.UUID) ([]*types.Subtask, error) {
	var subtasks []*types.Subtask
	if err := r.handle(tx).WithContext(ctx).
		Where("chore_id = ?", choreID).
		Order("created_at ASC").
		Find(&subtasks).Error; err != nil {
		return nil, err
	}
	return subtasks, nil
}

func (r *choreRepo) UpdateSubtask(ctx context.Context, tx *gorm.DB, subtask *types.Subtask) error {
	return r.handle(tx).WithContext(ctx).Save(subtask).Error
}

func (r *choreRepo) DeleteSubtask(ctx context.Context, tx *gorm.DB, subtaskID uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", subtaskID).
		Delete(&types.Subtask{}).Error
}

func (r *choreRepo) AppendHistory(ctx context.Context, tx *gorm.DB, entry *types.ChoreHistory) error {
	return r.handle(tx).WithContext(ctx).Create(entry).Error
}

func (r *choreRepo) ListHistory(ctx context.Context, tx *gorm.DB, choreID uuid.UUID) ([]*types.ChoreHistory, error) {
	var entries []*types.ChoreHistory
	if err := r.handle(tx).WithContext(ctx).
		Where("chore_id = ?", choreID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *choreRepo) DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	h := r.handle(tx).WithContext(ctx)
	for _, stmt := range []string{
		`DELETE FROM chore_assignment WHERE chore_id IN (SELECT id FROM chore WHERE household_id = ?)`,
		`DELETE FROM subtask WHERE chore_id IN (SELECT id FROM chore WHERE household_id = ?)`,
		`DELETE FROM chore_history WHERE chore_id IN (SELECT id FROM chore WHERE household_id = ?)`,
		`DELETE FROM chore WHERE household_id = ?`,
	} {
		if err := h.Exec(stmt, householdID).Error; err != nil {
			return err
		}
	}
	return nil
}
