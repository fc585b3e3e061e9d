package repository

import (
	"context"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/google/uuid"
)

// TransactionFilterParams contains filtering parameters for ledger queries
type TransactionFilterParams struct {
	Pagination     *pagination.PaginationParams
	Category       enum.TransactionCategory
	Account        enum.Account
	CustomerID     *uuid.UUID
	SupplierID     *uuid.UUID
	InvoiceID      *uuid.UUID
	DateFrom       *time.Time
	DateTo         *time.Time
	SkipUserFilter bool
}

// CategoryTotal is an aggregate of transaction amounts per category
type CategoryTotal struct {
	Category enum.TransactionCategory `json:"category"`
	Total    int64                    `json:"total"`
	Count    int64                    `json:"count"`
}

// CashFlowPoint is one bucket's inflow and outflow
type CashFlowPoint struct {
	Date    time.Time `json:"date"`
	Inflow  int64     `json:"inflow"`
	Outflow int64     `json:"outflow"`
}

// ProfitLossResult summarizes income against expenses over a period
type ProfitLossResult struct {
	TotalIncome   int64 `json:"total_income"`
	TotalExpenses int64 `json:"total_expenses"`
	NetProfit     int64 `json:"net_profit"`
}

// AccountBalance pairs an account with its latest chained balance
type AccountBalance struct {
	Account enum.Account `json:"account"`
	Balance int64        `json:"balance"`
}

// TransactionRepository defines the interface for ledger data operations.
// Transactions are append-only; there is no Update or Delete for individual
// rows. UpdateChainBalances exists solely for chain repair.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// GetLastByAccount returns the most recent transaction on an account,
	// ordered by date then creation time, or (nil, nil) when the account has
	// no history yet.
	GetLastByAccount(ctx context.Context, userID uuid.UUID, account enum.Account) (*entity.Transaction, error)
	// ListByAccountAsc returns an account's full history oldest first, for
	// chain verification and rebuild.
	ListByAccountAsc(ctx context.Context, userID uuid.UUID, account enum.Account) ([]entity.Transaction, error)
	// UpdateChainBalances rewrites balance_before/balance_after on the given
	// rows in a single transaction.
	UpdateChainBalances(ctx context.Context, transactions []entity.Transaction) error

	// Aggregates
	GetCategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]CategoryTotal, error)
	// GetCashFlow buckets inflow/outflow by "day", "week" or "month".
	GetCashFlow(ctx context.Context, userID uuid.UUID, from, to time.Time, bucket string) ([]CashFlowPoint, error)
	GetProfitLoss(ctx context.Context, userID uuid.UUID, from, to time.Time) (*ProfitLossResult, error)
	GetAccountBalances(ctx context.Context, userID uuid.UUID) ([]AccountBalance, error)
}
