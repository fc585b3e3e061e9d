package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/bizstack/bizledger-api/internal/application/service"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/bizstack/bizledger-api/internal/presentation/http/dto/request"
	"github.com/bizstack/bizledger-api/internal/presentation/http/dto/response"
	"github.com/bizstack/bizledger-api/pkg/pagination"
)

// LedgerHandler handles ledger-related HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List handles listing ledger transactions
func (h *LedgerHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Category:       enum.TransactionCategory(filter.Category),
		Account:        enum.Account(filter.Account),
		SkipUserFilter: IsAdmin(c),
	}

	if filter.DateFrom != "" {
		from, err := time.Parse("2006-01-02", filter.DateFrom)
		if err == nil {
			params.DateFrom = &from
		}
	}
	if filter.DateTo != "" {
		to, err := time.Parse("2006-01-02", filter.DateTo)
		if err == nil {
			params.DateTo = &to
		}
	}

	result, err := h.ledgerService.ListTransactions(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// Create handles appending a manual ledger entry
func (h *LedgerHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.BadRequest(c, "Invalid transaction date")
			return
		}
		date = parsed
	}

	transaction, err := h.ledgerService.AppendTransaction(c.Request.Context(), &service.AppendTransactionInput{
		UserID:      *userID,
		Type:        req.Type,
		Category:    enum.TransactionCategory(req.Category),
		Account:     enum.Account(req.Account),
		Amount:      req.Amount,
		Description: req.Description,
		CustomerID:  req.CustomerID,
		SupplierID:  req.SupplierID,
		InvoiceID:   req.InvoiceID,
		Date:        date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded successfully", transaction)
}

// Get handles getting a single transaction
func (h *LedgerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.ledgerService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// GetBalances handles getting the latest running balance per account
func (h *LedgerHandler) GetBalances(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	balances, err := h.ledgerService.GetAccountBalances(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account balances retrieved successfully", balances)
}

// RebuildChain handles replaying an account's running balances
func (h *LedgerHandler) RebuildChain(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	account := enum.Account(c.Param("account"))
	if !account.IsValid() {
		response.BadRequest(c, "Invalid account")
		return
	}

	result, err := h.ledgerService.RebuildAccountChain(c.Request.Context(), *userID, account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account chain rebuilt successfully", result)
}

// reportRange parses the date_from/date_to query parameters, defaulting to
// the last 30 days
func reportRange(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("date_from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			from = parsed
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			to = parsed
		}
	}

	return from, to
}

// GetCategoryTotals handles the per-category totals report
func (h *LedgerHandler) GetCategoryTotals(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	from, to := reportRange(c)
	totals, err := h.ledgerService.GetCategoryTotals(c.Request.Context(), *userID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category totals retrieved successfully", totals)
}

// GetCashFlow handles the cash flow report, grouped by day, week or month
func (h *LedgerHandler) GetCashFlow(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	from, to := reportRange(c)
	points, err := h.ledgerService.GetCashFlow(c.Request.Context(), *userID, from, to, c.DefaultQuery("group", "day"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash flow retrieved successfully", points)
}

// GetProfitLoss handles the profit and loss report
func (h *LedgerHandler) GetProfitLoss(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	from, to := reportRange(c)
	result, err := h.ledgerService.GetProfitLoss(c.Request.Context(), *userID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profit and loss retrieved successfully", result)
}
