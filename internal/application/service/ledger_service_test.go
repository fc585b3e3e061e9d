package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/internal/domain/repository"
)

// fakeTransactionRepo is an in-memory TransactionRepository keeping entries
// in insertion order.
type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []entity.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	f.transactions = append(f.transactions, *transaction)
	return nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.transactions {
		if f.transactions[i].ID == id {
			tx := f.transactions[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepo) List(ctx context.Context, userID uuid.UUID, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Transaction
	for _, tx := range f.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeTransactionRepo) sortedByAccount(userID uuid.UUID, account enum.Account) []entity.Transaction {
	var out []entity.Transaction
	for _, tx := range f.transactions {
		if tx.UserID == userID && tx.Account == account {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeTransactionRepo) GetLastByAccount(ctx context.Context, userID uuid.UUID, account enum.Account) (*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.sortedByAccount(userID, account)
	if len(entries) == 0 {
		return nil, nil
	}
	last := entries[len(entries)-1]
	return &last, nil
}

func (f *fakeTransactionRepo) ListByAccountAsc(ctx context.Context, userID uuid.UUID, account enum.Account) ([]entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedByAccount(userID, account), nil
}

func (f *fakeTransactionRepo) UpdateChainBalances(ctx context.Context, transactions []entity.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, updated := range transactions {
		for i := range f.transactions {
			if f.transactions[i].ID == updated.ID {
				f.transactions[i].BalanceBefore = updated.BalanceBefore
				f.transactions[i].BalanceAfter = updated.BalanceAfter
			}
		}
	}
	return nil
}

func (f *fakeTransactionRepo) GetCategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.CategoryTotal, error) {
	return nil, nil
}

func (f *fakeTransactionRepo) GetCashFlow(ctx context.Context, userID uuid.UUID, from, to time.Time, bucket string) ([]repository.CashFlowPoint, error) {
	return nil, nil
}

func (f *fakeTransactionRepo) GetProfitLoss(ctx context.Context, userID uuid.UUID, from, to time.Time) (*repository.ProfitLossResult, error) {
	return &repository.ProfitLossResult{}, nil
}

func (f *fakeTransactionRepo) GetAccountBalances(ctx context.Context, userID uuid.UUID) ([]repository.AccountBalance, error) {
	return nil, nil
}

func TestAppendTransaction_ChainsBalances(t *testing.T) {
	repo := newFakeTransactionRepo()
	svc := NewLedgerService(repo)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.AppendTransaction(ctx, &AppendTransactionInput{
		UserID:      userID,
		Category:    enum.CategoryIncome,
		Account:     enum.AccountCash,
		Amount:      100.50,
		Description: "Opening sale",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.BalanceBefore)
	assert.Equal(t, int64(10_050), first.BalanceAfter)

	second, err := svc.AppendTransaction(ctx, &AppendTransactionInput{
		UserID:      userID,
		Category:    enum.CategoryExpense,
		Account:     enum.AccountCash,
		Amount:      30.50,
		Description: "Supplies",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10_050), second.BalanceBefore)
	assert.Equal(t, int64(7_000), second.BalanceAfter)
}

func TestAppendTransaction_AccountsAreIndependent(t *testing.T) {
	repo := newFakeTransactionRepo()
	svc := NewLedgerService(repo)
	userID := uuid.New()
	ctx := context.Background()

	cash, err := svc.AppendTransaction(ctx, &AppendTransactionInput{
		UserID:   userID,
		Category: enum.CategoryIncome,
		Account:  enum.AccountCash,
		Amount:   100,
	})
	require.NoError(t, err)

	bank, err := svc.AppendTransaction(ctx, &AppendTransactionInput{
		UserID:   userID,
		Category: enum.CategoryIncome,
		Account:  enum.AccountBank,
		Amount:   200,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), cash.BalanceBefore)
	assert.Equal(t, int64(0), bank.BalanceBefore)
	assert.Equal(t, int64(10_000), cash.BalanceAfter)
	assert.Equal(t, int64(20_000), bank.BalanceAfter)
}

func TestAppendTransaction_Validation(t *testing.T) {
	svc := NewLedgerService(newFakeTransactionRepo())
	ctx := context.Background()

	_, err := svc.AppendTransaction(ctx, &AppendTransactionInput{
		Category: enum.TransactionCategory("equity"),
		Account:  enum.AccountCash,
		Amount:   10,
	})
	assert.Error(t, err)

	_, err = svc.AppendTransaction(ctx, &AppendTransactionInput{
		Category: enum.CategoryIncome,
		Account:  enum.Account("vault"),
		Amount:   10,
	})
	assert.Error(t, err)

	_, err = svc.AppendTransaction(ctx, &AppendTransactionInput{
		Category: enum.CategoryIncome,
		Account:  enum.AccountCash,
		Amount:   -10,
	})
	assert.Error(t, err)
}

func TestConcurrentAppendsKeepChainIntact(t *testing.T) {
	repo := newFakeTransactionRepo()
	svc := NewLedgerService(repo)
	userID := uuid.New()
	ctx := context.Background()

	const appends = 50
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AppendTransaction(ctx, &AppendTransactionInput{
				UserID:   userID,
				Category: enum.CategoryIncome,
				Account:  enum.AccountCash,
				Amount:   1,
				Date:     day,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := repo.ListByAccountAsc(ctx, userID, enum.AccountCash)
	require.NoError(t, err)
	require.Len(t, entries, appends)

	var running int64
	for _, tx := range entries {
		assert.Equal(t, running, tx.BalanceBefore)
		running += tx.SignedAmount()
		assert.Equal(t, running, tx.BalanceAfter)
	}
	assert.Equal(t, int64(appends*100), running)
}

func TestRebuildAccountChain_RepairsBackdatedEntry(t *testing.T) {
	repo := newFakeTransactionRepo()
	svc := NewLedgerService(repo)
	userID := uuid.New()
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.AppendTransaction(ctx, &AppendTransactionInput{
		UserID:   userID,
		Category: enum.CategoryIncome,
		Account:  enum.AccountCash,
		Amount:   100,
		Date:     base.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	_, err = svc.AppendTransaction(ctx, &AppendTransactionInput{
		UserID:   userID,
		Category: enum.CategoryExpense,
		Account:  enum.AccountCash,
		Amount:   40,
		Date:     base.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	// A backdated entry lands before the existing ones in date order but was
	// chained onto the newest balance, leaving the chain stale.
	_, err = svc.AppendTransaction(ctx, &AppendTransactionInput{
		UserID:   userID,
		Category: enum.CategoryIncome,
		Account:  enum.AccountCash,
		Amount:   10,
		Date:     base,
	})
	require.NoError(t, err)

	result, err := svc.RebuildAccountChain(ctx, userID, enum.AccountCash)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Entries)
	assert.Equal(t, 3, result.Repaired)
	assert.Equal(t, int64(7_000), result.FinalBalance)

	entries, err := repo.ListByAccountAsc(ctx, userID, enum.AccountCash)
	require.NoError(t, err)
	var running int64
	for _, tx := range entries {
		assert.Equal(t, running, tx.BalanceBefore)
		running += tx.SignedAmount()
		assert.Equal(t, running, tx.BalanceAfter)
	}
}

func TestRebuildAccountChain_IntactChainIsUntouched(t *testing.T) {
	repo := newFakeTransactionRepo()
	svc := NewLedgerService(repo)
	userID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.AppendTransaction(ctx, &AppendTransactionInput{
			UserID:   userID,
			Category: enum.CategoryIncome,
			Account:  enum.AccountBank,
			Amount:   50,
		})
		require.NoError(t, err)
	}

	result, err := svc.RebuildAccountChain(ctx, userID, enum.AccountBank)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Entries)
	assert.Equal(t, 0, result.Repaired)
	assert.Equal(t, int64(25_000), result.FinalBalance)

	// Repeating the rebuild still changes nothing
	again, err := svc.RebuildAccountChain(ctx, userID, enum.AccountBank)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Repaired)
}
