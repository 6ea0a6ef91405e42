package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/types"
)

func TestExpenseCreateWithSplits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	roommate := env.seedUser(t, "roommate@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, roommate, types.RoleMember)

	expense, err := env.expenses.Create(ctx, admin.ID, h.ID, CreateExpenseInput{
		Amount:      60,
		Description: "Groceries",
		Category:    "food",
		Splits: []SplitInput{
			{UserID: admin.ID, Amount: 30},
			{UserID: roommate.ID, Amount: 30},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if expense.PaidByID != admin.ID {
		t.Fatalf("payer defaults to caller; got %s", expense.PaidByID)
	}
	if len(expense.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(expense.Splits))
	}

	msgs := env.rec.onChannel(realtime.HouseholdChannel(h.ID))
	if len(msgs) != 1 || msgs[0].Event != realtime.EventExpenseUpdate {
		t.Fatalf("expected one expense_update event, got %+v", msgs)
	}
}

func TestExpenseSplitValidationRejectsBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	outsider := env.seedUser(t, "outsider@example.com")
	h := env.seedHousehold(t, admin)

	// one bad entry sinks the whole expense
	_, err := env.expenses.Create(ctx, admin.ID, h.ID, CreateExpenseInput{
		Amount:      40,
		Description: "Utilities",
		Splits: []SplitInput{
			{UserID: admin.ID, Amount: 20},
			{UserID: outsider.ID, Amount: 20},
		},
	})
	wantStatus(t, err, http.StatusBadRequest)

	_, err = env.expenses.Create(ctx, admin.ID, h.ID, CreateExpenseInput{
		Amount:      40,
		Description: "Utilities",
		Splits:      []SplitInput{{UserID: admin.ID, Amount: -5}},
	})
	wantStatus(t, err, http.StatusBadRequest)

	var count int64
	env.db.Model(&types.Expense{}).Where("household_id = ?", h.ID).Count(&count)
	if count != 0 {
		t.Fatalf("rejected expenses persisted: %d", count)
	}
	if len(env.rec.messages()) != 0 {
		t.Fatalf("rejected creates must not emit events")
	}
}

func TestExpenseReplaceSplits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	roommate := env.seedUser(t, "roommate@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, roommate, types.RoleMember)

	expense, err := env.expenses.Create(ctx, admin.ID, h.ID, CreateExpenseInput{
		Amount:      90,
		Description: "Internet",
		Splits:      []SplitInput{{UserID: admin.ID, Amount: 90}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := env.expenses.ReplaceSplits(ctx, admin.ID, h.ID, expense.ID, []SplitInput{
		{UserID: admin.ID, Amount: 45},
		{UserID: roommate.ID, Amount: 45},
	})
	if err != nil {
		t.Fatalf("ReplaceSplits: %v", err)
	}
	if len(updated.Splits) != 2 {
		t.Fatalf("expected 2 splits after replace, got %d", len(updated.Splits))
	}
	var count int64
	env.db.Model(&types.ExpenseSplit{}).Where("expense_id = ?", expense.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 split rows, got %d", count)
	}
}

func TestTransactionSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	roommate := env.seedUser(t, "roommate@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, roommate, types.RoleMember)

	expense, err := env.expenses.Create(ctx, admin.ID, h.ID, CreateExpenseInput{Amount: 50, Description: "Cleaning supplies"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// a party outside the household is rejected
	_, err = env.expenses.CreateTransaction(ctx, admin.ID, h.ID, expense.ID, CreateTransactionInput{
		FromUserID: uuid.New(), ToUserID: admin.ID, Amount: 25,
	})
	wantStatus(t, err, http.StatusBadRequest)

	txn, err := env.expenses.CreateTransaction(ctx, roommate.ID, h.ID, expense.ID, CreateTransactionInput{
		FromUserID: roommate.ID, ToUserID: admin.ID, Amount: 25,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if txn.Status != types.TransactionStatusPending {
		t.Fatalf("status = %s, want PENDING", txn.Status)
	}
	env.rec.reset()

	settled, err := env.expenses.SettleTransaction(ctx, admin.ID, h.ID, expense.ID, txn.ID)
	if err != nil {
		t.Fatalf("SettleTransaction: %v", err)
	}
	if settled.Status != types.TransactionStatusSettled {
		t.Fatalf("status = %s, want SETTLED", settled.Status)
	}
	msgs := env.rec.onChannel(realtime.HouseholdChannel(h.ID))
	if len(msgs) != 1 || msgAction(t, msgs[0]) != realtime.ActionStatusChanged {
		t.Fatalf("expected STATUS_CHANGED expense event, got %+v", msgs)
	}

	// settling twice is an error
	_, err = env.expenses.SettleTransaction(ctx, admin.ID, h.ID, expense.ID, txn.ID)
	wantStatus(t, err, http.StatusBadRequest)
}

func TestExpenseDeleteRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com")
	roommate := env.seedUser(t, "roommate@example.com")
	h := env.seedHousehold(t, admin)
	env.seedMember(t, h.ID, roommate, types.RoleMember)

	expense, err := env.expenses.Create(ctx, admin.ID, h.ID, CreateExpenseInput{
		Amount:      25,
		Description: "Cleaning supplies",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	env.rec.reset()

	err = env.expenses.Delete(ctx, roommate.ID, h.ID, expense.ID)
	wantStatus(t, err, http.StatusUnauthorized)

	var count int64
	env.db.Model(&types.Expense{}).Where("id = ?", expense.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expense should survive a rejected delete, count = %d", count)
	}
	if len(env.rec.messages()) != 0 {
		t.Fatalf("rejected delete must not emit events, got %+v", env.rec.messages())
	}

	if err := env.expenses.Delete(ctx, admin.ID, h.ID, expense.ID); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}
	env.db.Model(&types.Expense{}).Where("id = ?", expense.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expense still present after admin delete")
	}
}
