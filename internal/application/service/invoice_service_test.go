package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/bizstack/bizledger-api/pkg/pagination"
)

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]entity.Invoice)}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	f.invoices[invoice.ID] = *invoice
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv, ok := f.invoices[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			found := inv
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices[invoice.ID] = *invoice
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.invoices, id)
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, userID uuid.UUID, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return nil, 0, nil
}

func (f *fakeInvoiceRepo) ListOverdue(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, int64, error) {
	return nil, 0, nil
}

func (f *fakeInvoiceRepo) AddPayment(ctx context.Context, invoice *entity.Invoice, payment *entity.Payment) error {
	return f.Update(ctx, invoice)
}

func (f *fakeInvoiceRepo) ListPaymentsByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error) {
	return nil, 0, nil
}

type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[string]int64)}
}

func (f *fakeSequenceRepo) NextNumber(ctx context.Context, prefix, period string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := prefix + period
	f.counters[key]++
	return f.counters[key], nil
}

type fakeProductRepo struct {
	mu         sync.Mutex
	products   map[uuid.UUID]entity.Product
	activities []entity.StockActivity
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[uuid.UUID]entity.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.products[p.ID] = *p
	}
	return f
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeProductRepo) List(ctx context.Context, userID uuid.UUID, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) GetLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetCriticalStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) ApplyMovements(ctx context.Context, products []*entity.Product, activities []entity.StockActivity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range products {
		f.products[p.ID] = *p
	}
	f.activities = append(f.activities, activities...)
	return nil
}

func (f *fakeProductRepo) ListActivities(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockActivity, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) ListActivitiesWithCursor(ctx context.Context, productID uuid.UUID, params *pagination.CursorParams) ([]entity.StockActivity, error) {
	return nil, nil
}

func (f *fakeProductRepo) stock(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].StockCurrent
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	f := &fakeCustomerRepo{customers: make(map[uuid.UUID]entity.Customer)}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		f.customers[c.ID] = *c
	}
	return f
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers[customer.ID] = *customer
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[customer.ID] = *customer
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func (f *fakeCustomerRepo) GetWithOutstanding(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

type fakeSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]entity.Supplier
}

func newFakeSupplierRepo(suppliers ...*entity.Supplier) *fakeSupplierRepo {
	f := &fakeSupplierRepo{suppliers: make(map[uuid.UUID]entity.Supplier)}
	for _, s := range suppliers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		f.suppliers[s.ID] = *s
	}
	return f
}

func (f *fakeSupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	f.suppliers[supplier.ID] = *supplier
	return nil
}

func (f *fakeSupplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.suppliers[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeSupplierRepo) GetByEmail(ctx context.Context, email string) (*entity.Supplier, error) {
	return nil, nil
}

func (f *fakeSupplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suppliers[supplier.ID] = *supplier
	return nil
}

func (f *fakeSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeSupplierRepo) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Supplier, int64, error) {
	return nil, 0, nil
}

func (f *fakeSupplierRepo) GetWithPayables(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Supplier, int64, error) {
	return nil, 0, nil
}

// Failure-injection wrappers for unwind tests.
type failingInvoiceRepo struct{ *fakeInvoiceRepo }

func (f *failingInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	return errors.New("invoice insert failed")
}

type failingCustomerRepo struct{ *fakeCustomerRepo }

func (f *failingCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	return errors.New("customer update failed")
}

type failingTransactionRepo struct{ *fakeTransactionRepo }

func (f *failingTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	return errors.New("ledger append failed")
}

type invoiceFixture struct {
	svc          *InvoiceService
	invoiceRepo  *fakeInvoiceRepo
	productRepo  *fakeProductRepo
	customerRepo *fakeCustomerRepo
	supplierRepo *fakeSupplierRepo
	txRepo       *fakeTransactionRepo
}

func newInvoiceFixture(productRepo *fakeProductRepo, customerRepo *fakeCustomerRepo, supplierRepo *fakeSupplierRepo) *invoiceFixture {
	invoiceRepo := newFakeInvoiceRepo()
	txRepo := newFakeTransactionRepo()
	ledger := NewLedgerService(txRepo)
	svc := NewInvoiceService(invoiceRepo, newFakeSequenceRepo(), productRepo, customerRepo, supplierRepo, ledger)
	return &invoiceFixture{
		svc:          svc,
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		txRepo:       txRepo,
	}
}

func TestCreateInvoice_SaleFlow(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Widget", SKU: "WID-1", StockCurrent: 10, SellingPrice: 2_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash, CreditDays: 30}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(customer), newFakeSupplierRepo())
	userID := uuid.New()
	ctx := context.Background()

	invoice, err := fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:        userID,
		Type:          enum.InvoiceTypeSale,
		CustomerID:    &customer.ID,
		Date:          time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Items:         []InvoiceItemInput{{ProductID: product.ID, Quantity: 3, UnitPrice: 20}},
		PaymentAmount: 20,
		PaymentMethod: enum.AccountCash,
	})
	require.NoError(t, err)

	assert.Equal(t, "INV2024060001", invoice.InvoiceNumber)
	assert.Equal(t, int64(6_000), invoice.Total)
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, invoice.PaymentStatus)
	assert.Equal(t, enum.InvoiceStatusPartiallyPaid, invoice.Status)
	assert.Equal(t, int64(4_000), invoice.AmountDue())

	// Stock moved out and the activity row references the invoice
	assert.Equal(t, 7, fx.productRepo.stock(product.ID))
	require.Len(t, fx.productRepo.activities, 1)
	activity := fx.productRepo.activities[0]
	assert.Equal(t, enum.MovementSale, activity.Type)
	assert.Equal(t, "INV2024060001", activity.Reference)
	assert.Equal(t, 10, activity.StockBefore)
	assert.Equal(t, 7, activity.StockAfter)

	// Customer totals fold in the billed and paid amounts
	updated, err := fx.customerRepo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6_000), updated.TotalBilled)
	assert.Equal(t, int64(2_000), updated.TotalPaid)
	assert.Equal(t, int64(4_000), updated.OutstandingDue)

	// The paid portion landed on the cash ledger
	entries, err := fx.txRepo.ListByAccountAsc(ctx, userID, enum.AccountCash)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, enum.CategoryIncome, entries[0].Category)
	assert.Equal(t, int64(2_000), entries[0].Amount)
	assert.Equal(t, int64(2_000), entries[0].BalanceAfter)
	require.NotNil(t, entries[0].InvoiceID)
	assert.Equal(t, invoice.ID, *entries[0].InvoiceID)
}

func TestCreateInvoice_QuickMustSettleInFull(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Soda", StockCurrent: 20, SellingPrice: 500}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(), newFakeSupplierRepo())
	ctx := context.Background()

	input := &CreateInvoiceInput{
		UserID:        uuid.New(),
		Type:          enum.InvoiceTypeQuick,
		Date:          time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Items:         []InvoiceItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: 5}},
		PaymentMethod: enum.AccountCash,
	}

	_, err := fx.svc.CreateInvoice(ctx, input)
	assert.Error(t, err)
	assert.Equal(t, 20, fx.productRepo.stock(product.ID))

	input.PaymentAmount = 10
	invoice, err := fx.svc.CreateInvoice(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "QIK2024060001", invoice.InvoiceNumber)
	assert.Equal(t, enum.InvoiceStatusPaid, invoice.Status)
	assert.Nil(t, invoice.DueDate)
	assert.Equal(t, 18, fx.productRepo.stock(product.ID))
}

func TestCreateInvoice_QuickRejectsParty(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), StockCurrent: 5, SellingPrice: 500}
	customerID := uuid.New()
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(), newFakeSupplierRepo())

	_, err := fx.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID:        uuid.New(),
		Type:          enum.InvoiceTypeQuick,
		CustomerID:    &customerID,
		Items:         []InvoiceItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 5}},
		PaymentAmount: 5,
		PaymentMethod: enum.AccountCash,
	})
	assert.Error(t, err)
}

func TestCreateInvoice_CreditGate(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Drum", StockCurrent: 10, SellingPrice: 2_000}
	overLimit := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCredit, CreditLimit: 5_000, CreditDays: 30}
	blacklisted := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash, IsBlacklisted: true}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(overLimit, blacklisted), newFakeSupplierRepo())
	ctx := context.Background()

	// Total 60.00 against a 50.00 limit
	_, err := fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:     uuid.New(),
		Type:       enum.InvoiceTypeSale,
		CustomerID: &overLimit.ID,
		Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 3, UnitPrice: 20}},
	})
	assert.Error(t, err)

	_, err = fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:        uuid.New(),
		Type:          enum.InvoiceTypeSale,
		CustomerID:    &blacklisted.ID,
		Items:         []InvoiceItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 20}},
		PaymentAmount: 20,
		PaymentMethod: enum.AccountCash,
	})
	assert.Error(t, err)

	// Nothing was persisted on either refusal
	assert.Equal(t, 10, fx.productRepo.stock(product.ID))
	assert.Empty(t, fx.invoiceRepo.invoices)
	assert.Empty(t, fx.productRepo.activities)
}

func TestCreateInvoice_PayingDownClearsTheGate(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Drum", StockCurrent: 10, SellingPrice: 2_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCredit, CreditLimit: 5_000, CreditDays: 30}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(customer), newFakeSupplierRepo())

	// Same 60.00 total passes once 20.00 is paid up front
	invoice, err := fx.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID:        uuid.New(),
		Type:          enum.InvoiceTypeSale,
		CustomerID:    &customer.ID,
		Items:         []InvoiceItemInput{{ProductID: product.ID, Quantity: 3, UnitPrice: 20}},
		PaymentAmount: 20,
		PaymentMethod: enum.AccountCash,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4_000), invoice.AmountDue())
}

func TestCreateInvoice_InsufficientStock(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Rare", StockCurrent: 2, SellingPrice: 1_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(customer), newFakeSupplierRepo())

	_, err := fx.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID:     uuid.New(),
		Type:       enum.InvoiceTypeSale,
		CustomerID: &customer.ID,
		Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 3, UnitPrice: 10}},
	})
	assert.Error(t, err)
	assert.Equal(t, 2, fx.productRepo.stock(product.ID))
	assert.Empty(t, fx.invoiceRepo.invoices)
}

func TestCreateInvoice_PurchaseReceiptFlow(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Flour", StockCurrent: 4, CostPrice: 1_500, SellingPrice: 2_500}
	supplier := &entity.Supplier{ID: uuid.New(), PaymentTerms: enum.SupplierTermsNet30}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(), newFakeSupplierRepo(supplier))
	userID := uuid.New()
	ctx := context.Background()

	// Zero unit price falls back to the product's cost price on a purchase
	invoice, err := fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:     userID,
		Type:       enum.InvoiceTypePurchase,
		SupplierID: &supplier.ID,
		Date:       time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 6}},
	})
	require.NoError(t, err)

	assert.Equal(t, "PUR2024070001", invoice.InvoiceNumber)
	assert.Equal(t, int64(9_000), invoice.Total)
	// Purchases move stock in at receipt, not at creation
	assert.Equal(t, 4, fx.productRepo.stock(product.ID))

	updatedSupplier, err := fx.supplierRepo.GetByID(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9_000), updatedSupplier.TotalPurchased)
	assert.Equal(t, int64(9_000), updatedSupplier.OutstandingPayable)

	received, err := fx.svc.MarkReceived(ctx, userID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusReceived, received.Status)
	assert.Equal(t, 10, fx.productRepo.stock(product.ID))

	_, err = fx.svc.MarkReceived(ctx, userID, invoice.ID)
	assert.Error(t, err)
}

func TestAddPayment_SettlesInvoiceAndLedger(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Widget", StockCurrent: 10, SellingPrice: 2_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash, CreditDays: 30}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(customer), newFakeSupplierRepo())
	userID := uuid.New()
	ctx := context.Background()

	invoice, err := fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:     userID,
		Type:       enum.InvoiceTypeSale,
		CustomerID: &customer.ID,
		Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: 20}},
	})
	require.NoError(t, err)
	require.Equal(t, enum.PaymentStatusUnpaid, invoice.PaymentStatus)

	_, err = fx.svc.AddPayment(ctx, &AddPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    40,
		Method:    enum.Account("receivables"),
	})
	assert.Error(t, err)

	settled, err := fx.svc.AddPayment(ctx, &AddPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    40,
		Method:    enum.AccountBank,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusFullyPaid, settled.PaymentStatus)
	assert.Equal(t, enum.InvoiceStatusPaid, settled.Status)

	updated, err := fx.customerRepo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.OutstandingDue)

	entries, err := fx.txRepo.ListByAccountAsc(ctx, userID, enum.AccountBank)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4_000), entries[0].Amount)
}

func TestCancelInvoice_RestoresStockAndBilledTotals(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Widget", StockCurrent: 10, SellingPrice: 2_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash, CreditDays: 30}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(customer), newFakeSupplierRepo())
	userID := uuid.New()
	ctx := context.Background()

	invoice, err := fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:     userID,
		Type:       enum.InvoiceTypeSale,
		CustomerID: &customer.ID,
		Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 3, UnitPrice: 20}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, fx.productRepo.stock(product.ID))

	cancelled, err := fx.svc.CancelInvoice(ctx, userID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, fx.productRepo.stock(product.ID))

	// The unbilled remainder came back off the customer's books
	updated, err := fx.customerRepo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.TotalBilled)
	assert.Equal(t, int64(0), updated.OutstandingDue)

	_, err = fx.svc.CancelInvoice(ctx, userID, invoice.ID)
	assert.Error(t, err)
}

func TestCreateInvoice_NumbersIncrementPerPrefixAndMonth(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Widget", StockCurrent: 100, SellingPrice: 1_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash}
	supplier := &entity.Supplier{ID: uuid.New(), PaymentTerms: enum.SupplierTermsNet30}
	fx := newInvoiceFixture(newFakeProductRepo(product), newFakeCustomerRepo(customer), newFakeSupplierRepo(supplier))
	userID := uuid.New()
	ctx := context.Background()

	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	for i, want := range []string{"INV2024060001", "INV2024060002"} {
		inv, err := fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
			UserID:     userID,
			Type:       enum.InvoiceTypeSale,
			CustomerID: &customer.ID,
			Date:       june,
			Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 10}},
		})
		require.NoError(t, err, fmt.Sprintf("invoice %d", i))
		assert.Equal(t, want, inv.InvoiceNumber)
	}

	// A new month and a different prefix each restart at 0001
	julySale, err := fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:     userID,
		Type:       enum.InvoiceTypeSale,
		CustomerID: &customer.ID,
		Date:       july,
		Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV2024070001", julySale.InvoiceNumber)

	purchase, err := fx.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:     userID,
		Type:       enum.InvoiceTypePurchase,
		SupplierID: &supplier.ID,
		Date:       june,
		Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 1, UnitPrice: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PUR2024060001", purchase.InvoiceNumber)
}

func TestCreateInvoice_PartyUpdateFailureUnwinds(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Widget", StockCurrent: 10, SellingPrice: 2_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash, CreditDays: 30}
	invoiceRepo := newFakeInvoiceRepo()
	productRepo := newFakeProductRepo(product)
	customerRepo := &failingCustomerRepo{newFakeCustomerRepo(customer)}
	svc := NewInvoiceService(invoiceRepo, newFakeSequenceRepo(), productRepo, customerRepo,
		newFakeSupplierRepo(), NewLedgerService(newFakeTransactionRepo()))

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID:     uuid.New(),
		Type:       enum.InvoiceTypeSale,
		CustomerID: &customer.ID,
		Items:      []InvoiceItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: 20}},
	})
	require.Error(t, err)

	// Nothing the saga persisted survives the failed step
	assert.Empty(t, invoiceRepo.invoices)
	assert.Equal(t, 10, productRepo.stock(product.ID))
}

func TestCreateInvoice_LedgerFailureUnwinds(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Widget", StockCurrent: 10, SellingPrice: 2_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash, CreditDays: 30}
	invoiceRepo := newFakeInvoiceRepo()
	productRepo := newFakeProductRepo(product)
	customerRepo := newFakeCustomerRepo(customer)
	txRepo := &failingTransactionRepo{newFakeTransactionRepo()}
	svc := NewInvoiceService(invoiceRepo, newFakeSequenceRepo(), productRepo, customerRepo,
		newFakeSupplierRepo(), NewLedgerService(txRepo))
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:        uuid.New(),
		Type:          enum.InvoiceTypeSale,
		CustomerID:    &customer.ID,
		Items:         []InvoiceItemInput{{ProductID: product.ID, Quantity: 2, UnitPrice: 20}},
		PaymentAmount: 40,
		PaymentMethod: enum.AccountCash,
	})
	require.Error(t, err)

	assert.Empty(t, invoiceRepo.invoices)
	assert.Equal(t, 10, productRepo.stock(product.ID))

	// The party totals written before the ledger step are rolled back too
	restored, err := customerRepo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), restored.TotalBilled)
	assert.Equal(t, int64(0), restored.TotalPaid)
	assert.Equal(t, 0, restored.VisitCount)
	assert.Equal(t, 0, restored.LoyaltyPoints)
}

func TestCreateInvoice_DuplicateLinesRestoreOnce(t *testing.T) {
	product := &entity.Product{ID: uuid.New(), Name: "Widget", StockCurrent: 10, SellingPrice: 2_000}
	customer := &entity.Customer{ID: uuid.New(), PaymentTerms: enum.TermsCash, CreditDays: 30}
	invoiceRepo := &failingInvoiceRepo{newFakeInvoiceRepo()}
	productRepo := newFakeProductRepo(product)
	svc := NewInvoiceService(invoiceRepo, newFakeSequenceRepo(), productRepo,
		newFakeCustomerRepo(customer), newFakeSupplierRepo(), NewLedgerService(newFakeTransactionRepo()))

	// Two lines for the same product move 5 out; the restore must bring back
	// exactly 5, not 5 per line
	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		UserID:     uuid.New(),
		Type:       enum.InvoiceTypeSale,
		CustomerID: &customer.ID,
		Items: []InvoiceItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: 20},
			{ProductID: product.ID, Quantity: 3, UnitPrice: 20},
		},
	})
	require.Error(t, err)
	assert.Equal(t, 10, productRepo.stock(product.ID))
}
