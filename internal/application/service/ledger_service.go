package service

import (
	"context"
	"sync"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/bizstack/bizledger-api/pkg/apperror"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/google/uuid"
)

// LedgerService handles the append-only account ledger. Appends to the same
// (user, account) pair are serialized through an in-process mutex so the
// read-last/chain/insert sequence never interleaves.
type LedgerService struct {
	transactionRepo repository.TransactionRepository

	mu       sync.Mutex
	accounts map[string]*sync.Mutex
}

// NewLedgerService creates a new ledger service
func NewLedgerService(transactionRepo repository.TransactionRepository) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		accounts:        make(map[string]*sync.Mutex),
	}
}

func (s *LedgerService) accountLock(userID uuid.UUID, account enum.Account) *sync.Mutex {
	key := userID.String() + ":" + account.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.accounts[key]
	if !ok {
		lock = &sync.Mutex{}
		s.accounts[key] = lock
	}
	return lock
}

// AppendTransactionInput represents one ledger append
type AppendTransactionInput struct {
	UserID      uuid.UUID
	Type        string
	Category    enum.TransactionCategory
	Account     enum.Account
	Amount      float64
	Description string
	CustomerID  *uuid.UUID
	SupplierID  *uuid.UUID
	InvoiceID   *uuid.UUID
	Date        time.Time
}

// AppendTransaction chains a new entry onto the account: balance_before is
// the previous entry's balance_after (0 for the first entry) and
// balance_after applies the category-signed amount.
func (s *LedgerService) AppendTransaction(ctx context.Context, input *AppendTransactionInput) (*entity.Transaction, error) {
	if !input.Category.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid transaction category")
	}
	if !input.Account.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid account")
	}
	if input.Amount < 0 {
		return nil, apperror.NewBadRequestError("Amount cannot be negative")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &entity.Transaction{
		UserID:      input.UserID,
		Type:        input.Type,
		Category:    input.Category,
		Account:     input.Account,
		Amount:      int64(input.Amount * 100),
		Description: input.Description,
		CustomerID:  input.CustomerID,
		SupplierID:  input.SupplierID,
		InvoiceID:   input.InvoiceID,
		Date:        date,
	}

	if err := s.appendChained(ctx, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}

// AppendEntry chains a pre-built entry. Used by the invoice flow, which
// builds transactions in cents directly.
func (s *LedgerService) AppendEntry(ctx context.Context, transaction *entity.Transaction) error {
	return s.appendChained(ctx, transaction)
}

func (s *LedgerService) appendChained(ctx context.Context, transaction *entity.Transaction) error {
	lock := s.accountLock(transaction.UserID, transaction.Account)
	lock.Lock()
	defer lock.Unlock()

	last, err := s.transactionRepo.GetLastByAccount(ctx, transaction.UserID, transaction.Account)
	if err != nil {
		return err
	}

	var balanceBefore int64
	if last != nil {
		balanceBefore = last.BalanceAfter
	}
	transaction.Chain(balanceBefore)

	return s.transactionRepo.Create(ctx, transaction)
}

// GetTransaction retrieves a transaction by ID
func (s *LedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return transaction, nil
}

// ListTransactions lists ledger entries with filtering
func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	transactions, total, err := s.transactionRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(transactions, pag), nil
}

// ChainRepairResult summarizes a rebuild pass over one account
type ChainRepairResult struct {
	Account      enum.Account `json:"account"`
	Entries      int          `json:"entries"`
	Repaired     int          `json:"repaired"`
	FinalBalance int64        `json:"final_balance"`
}

// RebuildAccountChain replays an account's history oldest first and rewrites
// any balance pair that does not match the replay. Running it on an intact
// chain changes nothing, so the repair is safe to repeat.
func (s *LedgerService) RebuildAccountChain(ctx context.Context, userID uuid.UUID, account enum.Account) (*ChainRepairResult, error) {
	if !account.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid account")
	}

	lock := s.accountLock(userID, account)
	lock.Lock()
	defer lock.Unlock()

	transactions, err := s.transactionRepo.ListByAccountAsc(ctx, userID, account)
	if err != nil {
		return nil, err
	}

	var running int64
	var dirty []entity.Transaction
	for i := range transactions {
		expectedAfter := running + transactions[i].SignedAmount()
		if transactions[i].BalanceBefore != running || transactions[i].BalanceAfter != expectedAfter {
			transactions[i].BalanceBefore = running
			transactions[i].BalanceAfter = expectedAfter
			dirty = append(dirty, transactions[i])
		}
		running = expectedAfter
	}

	if len(dirty) > 0 {
		if err := s.transactionRepo.UpdateChainBalances(ctx, dirty); err != nil {
			return nil, err
		}
	}

	return &ChainRepairResult{
		Account:      account,
		Entries:      len(transactions),
		Repaired:     len(dirty),
		FinalBalance: running,
	}, nil
}

// GetAccountBalances returns each account's latest chained balance
func (s *LedgerService) GetAccountBalances(ctx context.Context, userID uuid.UUID) ([]repository.AccountBalance, error) {
	return s.transactionRepo.GetAccountBalances(ctx, userID)
}

// GetCategoryTotals returns per-category totals over a period
func (s *LedgerService) GetCategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.CategoryTotal, error) {
	return s.transactionRepo.GetCategoryTotals(ctx, userID, from, to)
}

// GetCashFlow returns inflow and outflow over a period, bucketed by day,
// week or month
func (s *LedgerService) GetCashFlow(ctx context.Context, userID uuid.UUID, from, to time.Time, bucket string) ([]repository.CashFlowPoint, error) {
	switch bucket {
	case "":
		bucket = "day"
	case "day", "week", "month":
	default:
		return nil, apperror.NewBadRequestError("Group must be day, week or month")
	}
	return s.transactionRepo.GetCashFlow(ctx, userID, from, to, bucket)
}

// GetProfitLoss returns income against expenses over a period
func (s *LedgerService) GetProfitLoss(ctx context.Context, userID uuid.UUID, from, to time.Time) (*repository.ProfitLossResult, error) {
	return s.transactionRepo.GetProfitLoss(ctx, userID, from, to)
}
