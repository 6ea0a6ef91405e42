package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type ExpenseHandler struct {
	log      *logger.Logger
	expenses services.ExpenseService
}

func NewExpenseHandler(log *logger.Logger, expenses services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{log: log.With("handler", "ExpenseHandler"), expenses: expenses}
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	expense, err := h.expenses.Create(c.Request.Context(), userID, householdID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, expense)
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	expenseID, err := uuidParam(c, "expenseId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	expense, err := h.expenses.Get(c.Request.Context(), userID, householdID, expenseID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, expense)
}

func (h *ExpenseHandler) List(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	limit, offset := pagination(c)
	expenses, total, err := h.expenses.List(c.Request.Context(), userID, householdID, limit, offset)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	RespondList(c, expenses, total, limit, offset)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	expenseID, err := uuidParam(c, "expenseId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.UpdateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	expense, err := h.expenses.Update(c.Request.Context(), userID, householdID, expenseID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	expenseID, err := uuidParam(c, "expenseId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), userID, householdID, expenseID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExpenseHandler) ReplaceSplits(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	expenseID, err := uuidParam(c, "expenseId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var body struct {
		Splits []services.SplitInput `json:"splits"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	expense, err := h.expenses.ReplaceSplits(c.Request.Context(), userID, householdID, expenseID, body.Splits)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, expense)
}

func (h *ExpenseHandler) CreateTransaction(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	expenseID, err := uuidParam(c, "expenseId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var input services.CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	txn, err := h.expenses.CreateTransaction(c.Request.Context(), userID, householdID, expenseID, input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusCreated, txn)
}

func (h *ExpenseHandler) SettleTransaction(c *gin.Context) {
	userID, householdID, err := householdScope(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	expenseID, err := uuidParam(c, "expenseId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	txnID, err := uuidParam(c, "transactionId")
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	txn, err := h.expenses.SettleTransaction(c.Request.Context(), userID, householdID, expenseID, txnID)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	Respond(c, http.StatusOK, txn)
}
