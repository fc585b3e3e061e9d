package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TransactionCategory classifies a ledger entry and fixes its sign: expense
// entries subtract from the account balance, every other category adds.
type TransactionCategory string

const (
	CategoryIncome    TransactionCategory = "income"
	CategoryExpense   TransactionCategory = "expense"
	CategoryAsset     TransactionCategory = "asset"
	CategoryLiability TransactionCategory = "liability"
)

func (c TransactionCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known category.
func (c TransactionCategory) IsValid() bool {
	switch c {
	case CategoryIncome, CategoryExpense, CategoryAsset, CategoryLiability:
		return true
	}
	return false
}

// Sign returns +1 for categories that add to the balance and -1 for expense.
func (c TransactionCategory) Sign() int64 {
	if c == CategoryExpense {
		return -1
	}
	return 1
}

func (c TransactionCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *TransactionCategory) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*c = TransactionCategory(str)
	return nil
}

func (c TransactionCategory) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *TransactionCategory) Scan(value interface{}) error {
	if value == nil {
		*c = CategoryIncome
		return nil
	}
	switch v := value.(type) {
	case string:
		*c = TransactionCategory(v)
	case []byte:
		*c = TransactionCategory(string(v))
	}
	return nil
}

// Account names one of the running-balance accounts in the ledger.
type Account string

const (
	AccountCash        Account = "cash"
	AccountBank        Account = "bank_account"
	AccountMobileMoney Account = "mobile_money"
	AccountReceivables Account = "receivables"
	AccountPayables    Account = "payables"
)

// Accounts lists every ledger account.
func Accounts() []Account {
	return []Account{AccountCash, AccountBank, AccountMobileMoney, AccountReceivables, AccountPayables}
}

func (a Account) String() string {
	return string(a)
}

// IsValid reports whether the value is a known account.
func (a Account) IsValid() bool {
	switch a {
	case AccountCash, AccountBank, AccountMobileMoney, AccountReceivables, AccountPayables:
		return true
	}
	return false
}

// IsPaymentMethod reports whether the account can be used as a payment
// method on an invoice (receivables/payables are bookkeeping accounts only).
func (a Account) IsPaymentMethod() bool {
	switch a {
	case AccountCash, AccountBank, AccountMobileMoney:
		return true
	}
	return false
}

func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*a = Account(str)
	return nil
}

func (a Account) Value() (driver.Value, error) {
	return string(a), nil
}

func (a *Account) Scan(value interface{}) error {
	if value == nil {
		*a = AccountCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*a = Account(v)
	case []byte:
		*a = Account(string(v))
	}
	return nil
}
