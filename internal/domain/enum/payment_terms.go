package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentTerms describes how a customer settles invoices.
type PaymentTerms string

const (
	TermsCash   PaymentTerms = "cash"
	TermsCredit PaymentTerms = "credit"
	TermsMixed  PaymentTerms = "mixed"
)

func (t PaymentTerms) String() string {
	return string(t)
}

// IsValid reports whether the value is a known customer payment term.
func (t PaymentTerms) IsValid() bool {
	switch t {
	case TermsCash, TermsCredit, TermsMixed:
		return true
	}
	return false
}

func (t PaymentTerms) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *PaymentTerms) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = PaymentTerms(str)
	return nil
}

func (t PaymentTerms) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *PaymentTerms) Scan(value interface{}) error {
	if value == nil {
		*t = TermsCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = PaymentTerms(v)
	case []byte:
		*t = PaymentTerms(string(v))
	}
	return nil
}

// SupplierTerms describes how a supplier expects to be paid. Credit days are
// fixed per term rather than stored on the supplier.
type SupplierTerms string

const (
	SupplierTermsImmediate SupplierTerms = "immediate"
	SupplierTermsNet15     SupplierTerms = "net15"
	SupplierTermsNet30     SupplierTerms = "net30"
	SupplierTermsNet60     SupplierTerms = "net60"
	SupplierTermsNet90     SupplierTerms = "net90"
)

func (t SupplierTerms) String() string {
	return string(t)
}

// IsValid reports whether the value is a known supplier payment term.
func (t SupplierTerms) IsValid() bool {
	switch t {
	case SupplierTermsImmediate, SupplierTermsNet15, SupplierTermsNet30, SupplierTermsNet60, SupplierTermsNet90:
		return true
	}
	return false
}

// CreditDays maps the term to its payment window in days.
func (t SupplierTerms) CreditDays() int {
	switch t {
	case SupplierTermsNet15:
		return 15
	case SupplierTermsNet30:
		return 30
	case SupplierTermsNet60:
		return 60
	case SupplierTermsNet90:
		return 90
	default:
		return 0
	}
}

func (t SupplierTerms) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *SupplierTerms) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = SupplierTerms(str)
	return nil
}

func (t SupplierTerms) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *SupplierTerms) Scan(value interface{}) error {
	if value == nil {
		*t = SupplierTermsImmediate
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = SupplierTerms(v)
	case []byte:
		*t = SupplierTerms(string(v))
	}
	return nil
}
