package types

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID uuid.UUID       `gorm:"type:uuid;not null;index" json:"household_id"`
	Household   *Household      `gorm:"constraint:OnDelete:CASCADE;foreignKey:HouseholdID;references:ID" json:"-"`
	PaidByID    uuid.UUID       `gorm:"type:uuid;not null;column:paid_by_id" json:"paid_by_id"`
	PaidBy      *User           `gorm:"foreignKey:PaidByID;references:ID" json:"paid_by,omitempty"`
	Amount      float64         `gorm:"not null;column:amount" json:"amount"`
	Description string          `gorm:"not null;column:description" json:"description"`
	DueDate     *time.Time      `gorm:"column:due_date" json:"due_date,omitempty"`
	Category    string          `gorm:"column:category" json:"category"`
	Splits      []*ExpenseSplit `gorm:"foreignKey:ExpenseID" json:"splits,omitempty"`
	Txns        []*Transaction  `gorm:"foreignKey:ExpenseID" json:"transactions,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (Expense) TableName() string { return "expense" }

type ExpenseSplit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID uuid.UUID `gorm:"type:uuid;not null;index" json:"expense_id"`
	Expense   *Expense  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExpenseID;references:ID" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Amount    float64   `gorm:"not null;column:amount" json:"amount"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ExpenseSplit) TableName() string { return "expense_split" }

// Transaction records a settlement between two users for one expense.
type Transaction struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"expense_id"`
	Expense    *Expense          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExpenseID;references:ID" json:"-"`
	FromUserID uuid.UUID         `gorm:"type:uuid;not null;column:from_user_id" json:"from_user_id"`
	ToUserID   uuid.UUID         `gorm:"type:uuid;not null;column:to_user_id" json:"to_user_id"`
	Amount     float64           `gorm:"not null;column:amount" json:"amount"`
	Status     TransactionStatus `gorm:"not null;default:PENDING;column:status" json:"status"`
	CreatedAt  time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null" json:"updated_at"`
}

func (Transaction) TableName() string { return "transaction" }
