package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type SplitInput struct {
	UserID uuid.UUID `json:"user_id"`
	Amount float64   `json:"amount"`
}

type CreateExpenseInput struct {
	Amount      float64      `json:"amount"`
	Description string       `json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	Category    string       `json:"category"`
	PaidByID    *uuid.UUID   `json:"paid_by_id"`
	Splits      []SplitInput `json:"splits"`
}

type UpdateExpenseInput struct {
	Amount      *float64   `json:"amount"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Category    *string    `json:"category"`
}

type CreateTransactionInput struct {
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Amount     float64   `json:"amount"`
}

type ExpenseService interface {
	Create(ctx context.Context, userID, householdID uuid.UUID, input CreateExpenseInput) (*types.Expense, error)
	Get(ctx context.Context, userID, householdID, expenseID uuid.UUID) (*types.Expense, error)
	List(ctx context.Context, userID, householdID uuid.UUID, limit, offset int) ([]*types.Expense, int64, error)
	Update(ctx context.Context, userID, householdID, expenseID uuid.UUID, input UpdateExpenseInput) (*types.Expense, error)
	Delete(ctx context.Context, userID, householdID, expenseID uuid.UUID) error
	// ReplaceSplits swaps the full split set in one transaction; any invalid
	// entry rejects the whole batch.
	ReplaceSplits(ctx context.Context, userID, householdID, expenseID uuid.UUID, splits []SplitInput) (*types.Expense, error)

	CreateTransaction(ctx context.Context, userID, householdID, expenseID uuid.UUID, input CreateTransactionInput) (*types.Transaction, error)
	SettleTransaction(ctx context.Context, userID, householdID, expenseID, txnID uuid.UUID) (*types.Transaction, error)
}

type expenseService struct {
	db             *gorm.DB
	log            *logger.Logger
	guard          Guard
	expenseRepo    repos.ExpenseRepo
	membershipRepo repos.MembershipRepo
	notifier       Notifier
}

func NewExpenseService(db *gorm.DB, log *logger.Logger, guard Guard, expenseRepo repos.ExpenseRepo, membershipRepo repos.MembershipRepo, notifier Notifier) ExpenseService {
	return &expenseService{
		db:             db,
		log:            log.With("service", "ExpenseService"),
		guard:          guard,
		expenseRepo:    expenseRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
	}
}

func (s *expenseService) Create(ctx context.Context, userID, householdID uuid.UUID, input CreateExpenseInput) (*types.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apierr.BadRequest("description is required")
	}
	if input.Amount <= 0 {
		return nil, apierr.BadRequest("amount must be positive")
	}
	var created *types.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		paidBy := userID
		if input.PaidByID != nil {
			paidBy = *input.PaidByID
		}
		if _, err := s.membershipRepo.Get(ctx, tx, householdID, paidBy); err != nil {
			return apierr.BadRequest("payer is not a household member")
		}
		expense := &types.Expense{
			ID:          uuid.New(),
			HouseholdID: householdID,
			PaidByID:    paidBy,
			Amount:      input.Amount,
			Description: description,
			DueDate:     input.DueDate,
			Category:    strings.TrimSpace(input.Category),
		}
		if _, err := s.expenseRepo.Create(ctx, tx, expense); err != nil {
			return apierr.Internal(err)
		}
		if len(input.Splits) > 0 {
			splits, err := s.buildSplits(ctx, tx, householdID, expense.ID, input.Splits)
			if err != nil {
				return err
			}
			if err := s.expenseRepo.ReplaceSplits(ctx, tx, expense.ID, splits); err != nil {
				return apierr.Internal(err)
			}
			expense.Splits = splits
		}
		created = expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ExpenseChanged(householdID, realtime.ActionCreated, created)
	return created, nil
}

func (s *expenseService) Get(ctx context.Context, userID, householdID, expenseID uuid.UUID) (*types.Expense, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, err
	}
	expense, err := s.expenseRepo.GetForHousehold(ctx, nil, householdID, expenseID)
	if err != nil {
		return nil, maskNotFound(err, "expense not found")
	}
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, userID, householdID uuid.UUID, limit, offset int) ([]*types.Expense, int64, error) {
	if _, err := s.guard.VerifyMembership(ctx, nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
		return nil, 0, err
	}
	expenses, total, err := s.expenseRepo.ListByHousehold(ctx, nil, householdID, limit, offset)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return expenses, total, nil
}

func (s *expenseService) Update(ctx context.Context, userID, householdID, expenseID uuid.UUID, input UpdateExpenseInput) (*types.Expense, error) {
	var updated *types.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		expense, err := s.expenseRepo.GetForHousehold(ctx, tx, householdID, expenseID)
		if err != nil {
			return maskNotFound(err, "expense not found")
		}
		if input.Amount != nil {
			if *input.Amount <= 0 {
				return apierr.BadRequest("amount must be positive")
			}
			expense.Amount = *input.Amount
		}
		if input.Description != nil {
			description := strings.TrimSpace(*input.Description)
			if description == "" {
				return apierr.BadRequest("description cannot be empty")
			}
			expense.Description = description
		}
		if input.DueDate != nil {
			expense.DueDate = input.DueDate
		}
		if input.Category != nil {
			expense.Category = strings.TrimSpace(*input.Category)
		}
		if err := s.expenseRepo.Update(ctx, tx, expense); err != nil {
			return apierr.Internal(err)
		}
		updated = expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ExpenseChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *expenseService) Delete(ctx context.Context, userID, householdID, expenseID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin); err != nil {
			return err
		}
		if _, err := s.expenseRepo.GetForHousehold(ctx, tx, householdID, expenseID); err != nil {
			return maskNotFound(err, "expense not found")
		}
		if err := s.expenseRepo.Delete(ctx, tx, expenseID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notifier.ExpenseChanged(householdID, realtime.ActionDeleted, map[string]any{"id": expenseID})
	return nil
}

func (s *expenseService) ReplaceSplits(ctx context.Context, userID, householdID, expenseID uuid.UUID, splits []SplitInput) (*types.Expense, error) {
	var updated *types.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		expense, err := s.expenseRepo.GetForHousehold(ctx, tx, householdID, expenseID)
		if err != nil {
			return maskNotFound(err, "expense not found")
		}
		rows, err := s.buildSplits(ctx, tx, householdID, expense.ID, splits)
		if err != nil {
			return err
		}
		if err := s.expenseRepo.ReplaceSplits(ctx, tx, expense.ID, rows); err != nil {
			return apierr.Internal(err)
		}
		expense.Splits = rows
		updated = expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ExpenseChanged(householdID, realtime.ActionUpdated, updated)
	return updated, nil
}

func (s *expenseService) CreateTransaction(ctx context.Context, userID, householdID, expenseID uuid.UUID, input CreateTransactionInput) (*types.Transaction, error) {
	if input.Amount <= 0 {
		return nil, apierr.BadRequest("amount must be positive")
	}
	var created *types.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		expense, err := s.expenseRepo.GetForHousehold(ctx, tx, householdID, expenseID)
		if err != nil {
			return maskNotFound(err, "expense not found")
		}
		for _, id := range []uuid.UUID{input.FromUserID, input.ToUserID} {
			if _, err := s.membershipRepo.Get(ctx, tx, householdID, id); err != nil {
				return apierr.BadRequest("transaction party is not a household member")
			}
		}
		txn := &types.Transaction{
			ID:         uuid.New(),
			ExpenseID:  expense.ID,
			FromUserID: input.FromUserID,
			ToUserID:   input.ToUserID,
			Amount:     input.Amount,
			Status:     types.TransactionStatusPending,
		}
		if _, err := s.expenseRepo.CreateTransaction(ctx, tx, txn); err != nil {
			return apierr.Internal(err)
		}
		created = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ExpenseChanged(householdID, realtime.ActionUpdated, created)
	return created, nil
}

func (s *expenseService) SettleTransaction(ctx context.Context, userID, householdID, expenseID, txnID uuid.UUID) (*types.Transaction, error) {
	var updated *types.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.guard.VerifyMembership(ctx, tx, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		expense, err := s.expenseRepo.GetForHousehold(ctx, tx, householdID, expenseID)
		if err != nil {
			return maskNotFound(err, "expense not found")
		}
		txn, err := s.expenseRepo.GetTransactionForExpense(ctx, tx, expense.ID, txnID)
		if err != nil {
			return maskNotFound(err, "transaction not found")
		}
		if txn.Status == types.TransactionStatusSettled {
			return apierr.BadRequest("transaction already settled")
		}
		txn.Status = types.TransactionStatusSettled
		if err := s.expenseRepo.UpdateTransaction(ctx, tx, txn); err != nil {
			return apierr.Internal(err)
		}
		updated = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ExpenseChanged(householdID, realtime.ActionStatusChanged, updated)
	return updated, nil
}

func (s *expenseService) buildSplits(ctx context.Context, tx *gorm.DB, householdID, expenseID uuid.UUID, inputs []SplitInput) ([]*types.ExpenseSplit, error) {
	rows := make([]*types.ExpenseSplit, 0, len(inputs))
	for _, in := range inputs {
		if in.UserID == uuid.Nil {
			return nil, apierr.BadRequest("split user_id is required")
		}
		if in.Amount <= 0 {
			return nil, apierr.BadRequest("split amount must be positive")
		}
		if _, err := s.membershipRepo.Get(ctx, tx, householdID, in.UserID); err != nil {
			return nil, apierr.BadRequest("split user is not a household member")
		}
		rows = append(rows, &types.ExpenseSplit{
			ID:        uuid.New(),
			ExpenseID: expenseID,
			UserID:    in.UserID,
			Amount:    in.Amount,
		})
	}
	return rows, nil
}
