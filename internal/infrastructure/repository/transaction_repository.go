package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	domainRepo "github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transaction entity.Transaction
	err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &transaction, err
}

func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var transactions []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{})
	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Account != "" {
		query = query.Where("account = ?", params.Account)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if params.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *params.InvoiceID)
	}

	if params.DateFrom != nil {
		query = query.Where("date >= ?", *params.DateFrom)
	}

	if params.DateTo != nil {
		query = query.Where("date <= ?", *params.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error

	return transactions, total, err
}

// GetLastByAccount returns the chain head: the most recent entry on an
// account by (date, created_at), or (nil, nil) when the account is empty
func (r *transactionRepository) GetLastByAccount(ctx context.Context, userID uuid.UUID, account enum.Account) (*entity.Transaction, error) {
	var transaction entity.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND account = ?", userID, account).
		Order("date DESC, created_at DESC").
		First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &transaction, err
}

func (r *transactionRepository) ListByAccountAsc(ctx context.Context, userID uuid.UUID, account enum.Account) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND account = ?", userID, account).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

// UpdateChainBalances rewrites balance pairs during a chain rebuild. Only the
// two balance columns are touched; every other field stays immutable.
func (r *transactionRepository) UpdateChainBalances(ctx context.Context, transactions []entity.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range transactions {
			if err := tx.Model(&entity.Transaction{}).
				Where("id = ?", transactions[i].ID).
				Updates(map[string]interface{}{
					"balance_before": transactions[i].BalanceBefore,
					"balance_after":  transactions[i].BalanceAfter,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *transactionRepository) GetCategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domainRepo.CategoryTotal, error) {
	var results []domainRepo.CategoryTotal

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			category,
			COALESCE(SUM(amount), 0) as total,
			COUNT(*) as count
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		GROUP BY category
		ORDER BY total DESC
	`, userID, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *transactionRepository) GetCashFlow(ctx context.Context, userID uuid.UUID, from, to time.Time, bucket string) ([]domainRepo.CashFlowPoint, error) {
	// The unit lands in the SQL text, so it must come from the whitelist
	switch bucket {
	case "day", "week", "month":
	default:
		bucket = "day"
	}

	var results []domainRepo.CashFlowPoint

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE_TRUNC('`+bucket+`', date) as date,
			COALESCE(SUM(CASE WHEN category IN ('income', 'asset') THEN amount ELSE 0 END), 0) as inflow,
			COALESCE(SUM(CASE WHEN category IN ('expense', 'liability') THEN amount ELSE 0 END), 0) as outflow
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		GROUP BY DATE_TRUNC('`+bucket+`', date)
		ORDER BY date ASC
	`, userID, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *transactionRepository) GetProfitLoss(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domainRepo.ProfitLossResult, error) {
	var result domainRepo.ProfitLossResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN category = 'income' THEN amount ELSE 0 END), 0) as total_income,
			COALESCE(SUM(CASE WHEN category = 'expense' THEN amount ELSE 0 END), 0) as total_expenses
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
	`, userID, from, to).Scan(&result).Error

	if err != nil {
		return nil, err
	}

	result.NetProfit = result.TotalIncome - result.TotalExpenses
	return &result, nil
}

// GetAccountBalances returns each account's latest chained balance using the
// same (date, created_at) ordering the chain is built on
func (r *transactionRepository) GetAccountBalances(ctx context.Context, userID uuid.UUID) ([]domainRepo.AccountBalance, error) {
	var results []domainRepo.AccountBalance

	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (account)
			account,
			balance_after as balance
		FROM transactions
		WHERE user_id = ?
		ORDER BY account, date DESC, created_at DESC
	`, userID).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}
