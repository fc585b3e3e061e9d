package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
)

func TestSignedAmount(t *testing.T) {
	income := &Transaction{Category: enum.CategoryIncome, Amount: 5_000}
	assert.Equal(t, int64(5_000), income.SignedAmount())

	expense := &Transaction{Category: enum.CategoryExpense, Amount: 5_000}
	assert.Equal(t, int64(-5_000), expense.SignedAmount())

	asset := &Transaction{Category: enum.CategoryAsset, Amount: 2_000}
	assert.Equal(t, int64(2_000), asset.SignedAmount())

	liability := &Transaction{Category: enum.CategoryLiability, Amount: 2_000}
	assert.Equal(t, int64(2_000), liability.SignedAmount())
}

func TestChain(t *testing.T) {
	first := &Transaction{Category: enum.CategoryIncome, Amount: 10_000}
	first.Chain(0)
	assert.Equal(t, int64(0), first.BalanceBefore)
	assert.Equal(t, int64(10_000), first.BalanceAfter)

	second := &Transaction{Category: enum.CategoryExpense, Amount: 3_000}
	second.Chain(first.BalanceAfter)
	assert.Equal(t, int64(10_000), second.BalanceBefore)
	assert.Equal(t, int64(7_000), second.BalanceAfter)

	// Balances may go negative; the chain records reality
	third := &Transaction{Category: enum.CategoryExpense, Amount: 9_000}
	third.Chain(second.BalanceAfter)
	assert.Equal(t, int64(-2_000), third.BalanceAfter)
}
