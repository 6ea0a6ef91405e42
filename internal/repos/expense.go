package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type ExpenseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, expense *types.Expense) (*types.Expense, error)
	GetForHousehold(ctx context.Context, tx *gorm.DB, householdID, expenseID uuid.UUID) (*types.Expense, error)
	ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, limit, offset int) ([]*types.Expense, int64, error)
	Update(ctx context.Context, tx *gorm.DB, expense *types.Expense) error
	Delete(ctx context.Context, tx *gorm.DB, expenseID uuid.UUID) error
	// ReplaceSplits deletes all existing split rows and writes the new set;
	// callers run it inside a transaction so the swap is all-or-nothing.
	ReplaceSplits(ctx context.Context, tx *gorm.DB, expenseID uuid.UUID, splits []*types.ExpenseSplit) error

	CreateTransaction(ctx context.Context, tx *gorm.DB, txn *types.Transaction) (*types.Transaction, error)
	GetTransactionForExpense(ctx context.Context, tx *gorm.DB, expenseID, txnID uuid.UUID) (*types.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *gorm.DB, txn *types.Transaction) error

	DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error
}

type expenseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExpenseRepo(db *gorm.DB, baseLog *logger.Logger) ExpenseRepo {
	return &expenseRepo{db: db, log: baseLog.With("repo", "ExpenseRepo")}
}

func (r *expenseRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *expenseRepo) Create(ctx context.Context, tx *gorm.DB, expense *types.Expense) (*types.Expense, error) {
	if err := r.handle(tx).WithContext(ctx).Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *expenseRepo) GetForHousehold(ctx context.Context, tx *gorm.DB, householdID, expenseID uuid.UUID) (*types.Expense, error) {
	var expense types.Expense
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND household_id = ?", expenseID, householdID).
		Preload("Splits").
		Preload("Txns").
		First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepo) ListByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, limit, offset int) ([]*types.Expense, int64, error) {
	h := r.handle(tx).WithContext(ctx)

	var total int64
	if err := h.Model(&types.Expense{}).
		Where("household_id = ?", householdID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := h.Where("household_id = ?", householdID).
		Preload("Splits").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var expenses []*types.Expense
	if err := q.Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepo) Update(ctx context.Context, tx *gorm.DB, expense *types.Expense) error {
	return r.handle(tx).WithContext(ctx).
		Omit("Splits", "Txns").
		Save(expense).Error
}

func (r *expenseRepo) Delete(ctx context.Context, tx *gorm.DB, expenseID uuid.UUID) error {
	h := r.handle(tx).WithContext(ctx)
	if err := h.Where("expense_id = ?", expenseID).Delete(&types.ExpenseSplit{}).Error; err != nil {
		return err
	}
	if err := h.Where("expense_id = ?", expenseID).Delete(&types.Transaction{}).Error; err != nil {
		return err
	}
	return h.Where("id = ?", expenseID).Delete(&types.Expense{}).Error
}

func (r *expenseRepo) ReplaceSplits(ctx context.Context, tx *gorm.DB, expenseID uuid.UUID, splits []*types.ExpenseSplit) error {
	h := r.handle(tx).WithContext(ctx)
	if err := h.Where("expense_id = ?", expenseID).Delete(&types.ExpenseSplit{}).Error; err != nil {
		return err
	}
	if len(splits) == 0 {
		return nil
	}
	return h.Create(&splits).Error
}

func (r *expenseRepo) CreateTransaction(ctx context.Context, tx *gorm.DB, txn *types.Transaction) (*types.Transaction, error) {
	if err := r.handle(tx).WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *expenseRepo) GetTransactionForExpense(ctx context.Context, tx *gorm.DB, expenseID, txnID uuid.UUID) (*types.Transaction, error) {
	var txn types.Transaction
	if err := r.handle(tx).WithContext(ctx).
		Where("id = ? AND expense_id = ?", txnID, expenseID).
		First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *expenseRepo) UpdateTransaction(ctx context.Context, tx *gorm.DB, txn *types.Transaction) error {
	return r.handle(tx).WithContext(ctx).Save(txn).Error
}

func (r *expenseRepo) DeleteByHousehold(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) error {
	h := r.handle(tx).WithContext(ctx)
	for _, stmt := range []string{
		`DELETE FROM expense_split WHERE expense_id IN (SELECT id FROM expense WHERE household_id = ?)`,
		`DELETE FROM "transaction" WHERE expense_id IN (SELECT id FROM expense WHERE household_id = ?)`,
		`DELETE FROM expense WHERE household_id = ?`,
	} {
		if err := h.Exec(stmt, householdID).Error; err != nil {
			return err
		}
	}
	return nil
}
