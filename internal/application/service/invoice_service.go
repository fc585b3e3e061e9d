package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/bizstack/bizledger-api/pkg/apperror"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceService orchestrates invoicing across stock, parties and the ledger.
// Creation runs as a sequence with compensating actions: stock moved out for
// a sale is moved back in when a later step fails.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	sequenceRepo repository.InvoiceSequenceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
	ledger       *LedgerService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	sequenceRepo repository.InvoiceSequenceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	ledger *LedgerService,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		sequenceRepo: sequenceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		ledger:       ledger,
	}
}

// InvoiceItemInput represents a line item in a new invoice
type InvoiceItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice float64
	Discount  float64 // Percent
	Tax       float64
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	UserID     uuid.UUID
	Type       enum.InvoiceType
	CustomerID *uuid.UUID
	SupplierID *uuid.UUID
	Date       time.Time
	DueDate    *time.Time
	Discount   float64
	Tax        float64
	Notes      *string
	Items      []InvoiceItemInput
	// Optional payment recorded at creation. Quick invoices must settle in
	// full here.
	PaymentAmount float64
	PaymentMethod enum.Account
}

// CreateInvoice creates an invoice with its items, moves stock, updates the
// party's running totals and appends any immediate payment to the ledger.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if !input.Type.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid invoice type")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Invoice requires at least one item")
	}

	var customer *entity.Customer
	var supplier *entity.Supplier
	var err error

	switch input.Type {
	case enum.InvoiceTypeSale:
		if input.CustomerID == nil {
			return nil, apperror.NewBadRequestError("Sale invoice requires a customer")
		}
		customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	case enum.InvoiceTypePurchase:
		if input.SupplierID == nil {
			return nil, apperror.NewBadRequestError("Purchase invoice requires a supplier")
		}
		supplier, err = s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
	case enum.InvoiceTypeQuick:
		if input.CustomerID != nil || input.SupplierID != nil {
			return nil, apperror.NewBadRequestError("Quick invoice carries no customer or supplier")
		}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	items := make([]entity.InvoiceItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}

		unitPrice := int64(item.UnitPrice * 100)
		if item.UnitPrice == 0 {
			if input.Type == enum.InvoiceTypePurchase {
				unitPrice = product.CostPrice
			} else {
				unitPrice = product.SellingPrice
			}
		}

		items = append(items, entity.InvoiceItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			Discount:  item.Discount,
			Tax:       int64(item.Tax * 100),
		})
	}

	invoice := &entity.Invoice{
		UserID:     input.UserID,
		Type:       input.Type,
		CustomerID: input.CustomerID,
		SupplierID: input.SupplierID,
		Date:       date,
		DueDate:    input.DueDate,
		Discount:   int64(input.Discount * 100),
		Tax:        int64(input.Tax * 100),
		Notes:      input.Notes,
		Items:      items,
	}
	invoice.CalculateTotals()
	invoice.EnsureDueDate()

	paymentCents := int64(input.PaymentAmount * 100)
	if paymentCents < 0 {
		return nil, apperror.NewBadRequestError("Payment amount cannot be negative")
	}
	if paymentCents > invoice.Total {
		return nil, apperror.NewBadRequestError("Payment exceeds invoice total")
	}
	if paymentCents > 0 && !input.PaymentMethod.IsPaymentMethod() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}
	if input.Type == enum.InvoiceTypeQuick && paymentCents != invoice.Total {
		return nil, apperror.NewBadRequestError("Quick invoice must be paid in full at creation")
	}

	// Credit gate: blacklisted customers and customers over their limit are
	// refused before anything is persisted
	if customer != nil {
		creditAmount := invoice.Total - paymentCents
		if !customer.CanMakePurchase(creditAmount) {
			if customer.IsBlacklisted {
				return nil, apperror.NewUnprocessableError("Customer is blacklisted")
			}
			return nil, apperror.NewUnprocessableError("Purchase exceeds customer credit limit")
		}
	}

	// Sale and quick invoices move stock out at creation. Purchase invoices
	// move stock in later, on goods receipt.
	var movedProducts []*entity.Product
	var activities []entity.StockActivity
	if input.Type != enum.InvoiceTypePurchase {
		for _, item := range items {
			product := productMap[item.ProductID]
			activity, err := product.ApplyStockMovement(item.Quantity, enum.MovementSale,
				"", input.UserID.String(), "Invoice sale", date)
			if err != nil {
				if err == entity.ErrInsufficientStock {
					return nil, apperror.NewUnprocessableError("Insufficient stock for " + product.Name)
				}
				return nil, err
			}
			movedProducts = append(movedProducts, product)
			activities = append(activities, *activity)
		}
	}

	// Invoice number from the per-prefix monthly counter
	prefix := input.Type.NumberPrefix()
	period := date.Format("200601")
	counter, err := s.sequenceRepo.NextNumber(ctx, prefix, period)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = entity.FormatInvoiceNumber(prefix, period, counter)

	for i := range activities {
		activities[i].Reference = invoice.InvoiceNumber
	}

	if len(movedProducts) > 0 {
		if err := s.productRepo.ApplyMovements(ctx, movedProducts, activities); err != nil {
			return nil, err
		}
	}

	if paymentCents > 0 {
		payment := entity.Payment{
			Amount:     paymentCents,
			Method:     input.PaymentMethod,
			Date:       date,
			RecordedBy: input.UserID,
		}
		if err := invoice.AddPayment(payment, date); err != nil {
			s.compensateStock(ctx, invoice.InvoiceNumber, input.UserID, movedProducts, items)
			return nil, apperror.NewBadRequestError(err.Error())
		}
	} else {
		invoice.UpdateStatus(date)
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		// Stock was already moved out - restore it
		s.compensateStock(ctx, invoice.InvoiceNumber, input.UserID, movedProducts, items)
		return nil, err
	}

	// Party totals fold in the billed and paid amounts. From here on a failed
	// step unwinds everything persisted so far: the invoice is deleted, stock
	// moved back and party totals restored to their pre-event state.
	var customerBefore entity.Customer
	if customer != nil {
		customerBefore = *customer
		customer.RecordFinancialEvent(invoice.Total, paymentCents, date)
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			s.unwindInvoice(ctx, invoice, input.UserID, movedProducts, items)
			return nil, err
		}
	}
	var supplierBefore entity.Supplier
	if supplier != nil {
		supplierBefore = *supplier
		supplier.RecordFinancialEvent(invoice.Total, paymentCents, date)
		if err := s.supplierRepo.Update(ctx, supplier); err != nil {
			s.unwindInvoice(ctx, invoice, input.UserID, movedProducts, items)
			return nil, err
		}
	}

	// Ledger entry for the paid portion
	if paymentCents > 0 {
		if err := s.ledger.AppendEntry(ctx, s.paymentTransaction(invoice, paymentCents, input.PaymentMethod, date)); err != nil {
			if customer != nil {
				restored := customerBefore
				if uerr := s.customerRepo.Update(ctx, &restored); uerr != nil {
					log.Printf("invoice %s: customer rollback failed: %v", invoice.InvoiceNumber, uerr)
				}
			}
			if supplier != nil {
				restored := supplierBefore
				if uerr := s.supplierRepo.Update(ctx, &restored); uerr != nil {
					log.Printf("invoice %s: supplier rollback failed: %v", invoice.InvoiceNumber, uerr)
				}
			}
			s.unwindInvoice(ctx, invoice, input.UserID, movedProducts, items)
			return nil, err
		}
	}

	return s.invoiceRepo.GetByID(ctx, invoice.ID)
}

// unwindInvoice deletes a persisted invoice and moves its stock back after a
// later saga step failed
func (s *InvoiceService) unwindInvoice(ctx context.Context, invoice *entity.Invoice, userID uuid.UUID, products []*entity.Product, items []entity.InvoiceItem) {
	if err := s.invoiceRepo.Delete(ctx, invoice.ID); err != nil {
		log.Printf("invoice %s: rollback delete failed: %v", invoice.InvoiceNumber, err)
	}
	s.compensateStock(ctx, invoice.InvoiceNumber, userID, products, items)
}

// compensateStock moves previously decremented stock back in after a failed
// creation step
func (s *InvoiceService) compensateStock(ctx context.Context, reference string, userID uuid.UUID, products []*entity.Product, items []entity.InvoiceItem) {
	if len(products) == 0 {
		return
	}
	quantities := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		quantities[item.ProductID] += item.Quantity
	}

	// products holds one pointer per invoice line, so duplicate lines repeat
	// the same product; each restore must apply exactly once
	seen := make(map[uuid.UUID]bool, len(products))
	unique := make([]*entity.Product, 0, len(products))
	for _, product := range products {
		if seen[product.ID] {
			continue
		}
		seen[product.ID] = true
		unique = append(unique, product)
	}

	var activities []entity.StockActivity
	now := time.Now()
	for _, product := range unique {
		activity, err := product.ApplyStockMovement(quantities[product.ID], enum.MovementStockIn,
			reference, userID.String(), "Invoice creation rolled back", now)
		if err != nil {
			continue
		}
		activities = append(activities, *activity)
	}
	if err := s.productRepo.ApplyMovements(ctx, unique, activities); err != nil {
		log.Printf("invoice %s: stock rollback failed: %v", reference, err)
	}
}

func (s *InvoiceService) paymentTransaction(invoice *entity.Invoice, amount int64, method enum.Account, date time.Time) *entity.Transaction {
	category := enum.CategoryIncome
	txType := "invoice_payment"
	if invoice.Type == enum.InvoiceTypePurchase {
		category = enum.CategoryExpense
		txType = "supplier_payment"
	}
	return &entity.Transaction{
		UserID:      invoice.UserID,
		Type:        txType,
		Category:    category,
		Account:     method,
		Amount:      amount,
		Description: "Payment on " + invoice.InvoiceNumber,
		CustomerID:  invoice.CustomerID,
		SupplierID:  invoice.SupplierID,
		InvoiceID:   &invoice.ID,
		Date:        date,
	}
}

// GetInvoice retrieves an invoice by ID with items and payments
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, userID uuid.UUID, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ListOverdueInvoices returns unpaid invoices past their due date
func (s *InvoiceService) ListOverdueInvoices(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.ListOverdue(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// AddPaymentInput represents a payment against an existing invoice
type AddPaymentInput struct {
	UserID    uuid.UUID
	InvoiceID uuid.UUID
	Amount    float64
	Method    enum.Account
	Reference *string
	Notes     *string
}

// AddPayment records a payment on an invoice, updates the party's totals and
// appends the ledger entry
func (s *InvoiceService) AddPayment(ctx context.Context, input *AddPaymentInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if !input.Method.IsPaymentMethod() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}

	now := time.Now()
	amountCents := int64(input.Amount * 100)
	payment := entity.Payment{
		Amount:     amountCents,
		Method:     input.Method,
		Date:       now,
		RecordedBy: input.UserID,
		Reference:  input.Reference,
		Notes:      input.Notes,
	}

	if err := invoice.AddPayment(payment, now); err != nil {
		switch err {
		case entity.ErrInvoiceCancelled:
			return nil, apperror.NewUnprocessableError("Invoice is cancelled")
		case entity.ErrNonPositivePayment, entity.ErrPaymentExceedsDue:
			return nil, apperror.NewBadRequestError(err.Error())
		default:
			return nil, err
		}
	}

	persisted := invoice.Payments[len(invoice.Payments)-1]
	if err := s.invoiceRepo.AddPayment(ctx, invoice, &persisted); err != nil {
		return nil, err
	}

	if invoice.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *invoice.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			customer.RecordFinancialEvent(0, amountCents, now)
			if err := s.customerRepo.Update(ctx, customer); err != nil {
				return nil, err
			}
		}
	}
	if invoice.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *invoice.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier != nil {
			supplier.RecordFinancialEvent(0, amountCents, now)
			if err := s.supplierRepo.Update(ctx, supplier); err != nil {
				return nil, err
			}
		}
	}

	if err := s.ledger.AppendEntry(ctx, s.paymentTransaction(invoice, amountCents, input.Method, now)); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetByID(ctx, invoice.ID)
}

// CancelInvoice cancels an invoice and restores any stock it moved out. The
// unpaid remainder is taken back off the party's billed total; recorded
// payments stay on the books.
func (s *InvoiceService) CancelInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	received := wasReceived(invoice)
	if err := invoice.Cancel(); err != nil {
		return nil, apperror.NewUnprocessableError("Invoice is already cancelled")
	}

	// Restore stock for sale and quick invoices; reverse receipt for a
	// purchase invoice that was already received
	restock := invoice.Type != enum.InvoiceTypePurchase

	if restock || received {
		productIDs := make([]uuid.UUID, 0, len(invoice.Items))
		quantities := make(map[uuid.UUID]int, len(invoice.Items))
		for _, item := range invoice.Items {
			productIDs = append(productIDs, item.ProductID)
			quantities[item.ProductID] += item.Quantity
		}

		products, err := s.productRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}

		movementType := enum.MovementStockIn
		reason := "Invoice cancelled"
		if !restock {
			movementType = enum.MovementStockOut
			reason = "Goods receipt reversed"
		}

		moved := make([]*entity.Product, 0, len(products))
		var activities []entity.StockActivity
		now := time.Now()
		for i := range products {
			activity, err := products[i].ApplyStockMovement(quantities[products[i].ID], movementType,
				invoice.InvoiceNumber, userID.String(), reason, now)
			if err != nil {
				if err == entity.ErrInsufficientStock {
					return nil, apperror.NewUnprocessableError("Received stock already consumed; adjust stock first")
				}
				return nil, err
			}
			moved = append(moved, &products[i])
			activities = append(activities, *activity)
		}

		if err := s.productRepo.ApplyMovements(ctx, moved, activities); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	remainder := invoice.AmountDue()
	if remainder > 0 {
		now := time.Now()
		if invoice.CustomerID != nil {
			customer, err := s.customerRepo.GetByID(ctx, *invoice.CustomerID)
			if err == nil && customer != nil {
				customer.RecordFinancialEvent(-remainder, 0, now)
				err = s.customerRepo.Update(ctx, customer)
			}
			if err != nil {
				log.Printf("invoice %s: customer billed reversal failed: %v", invoice.InvoiceNumber, err)
			}
		}
		if invoice.SupplierID != nil {
			supplier, err := s.supplierRepo.GetByID(ctx, *invoice.SupplierID)
			if err == nil && supplier != nil {
				supplier.RecordFinancialEvent(-remainder, 0, now)
				err = s.supplierRepo.Update(ctx, supplier)
			}
			if err != nil {
				log.Printf("invoice %s: supplier billed reversal failed: %v", invoice.InvoiceNumber, err)
			}
		}
	}

	return invoice, nil
}

// MarkReceived records goods receipt on a purchase invoice and moves the
// purchased stock in
func (s *InvoiceService) MarkReceived(ctx context.Context, userID, invoiceID uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if invoice.Type != enum.InvoiceTypePurchase {
		return nil, apperror.NewBadRequestError("Only purchase invoices can be received")
	}
	if invoice.Status == enum.InvoiceStatusReceived {
		return nil, apperror.NewUnprocessableError("Invoice already received")
	}

	if err := invoice.MarkReceived(); err != nil {
		return nil, apperror.NewUnprocessableError("Invoice is cancelled")
	}

	productIDs := make([]uuid.UUID, 0, len(invoice.Items))
	quantities := make(map[uuid.UUID]int, len(invoice.Items))
	for _, item := range invoice.Items {
		productIDs = append(productIDs, item.ProductID)
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	moved := make([]*entity.Product, 0, len(products))
	var activities []entity.StockActivity
	now := time.Now()
	for i := range products {
		activity, err := products[i].ApplyStockMovement(quantities[products[i].ID], enum.MovementPurchase,
			invoice.InvoiceNumber, userID.String(), "Goods received", now)
		if err != nil {
			return nil, err
		}
		moved = append(moved, &products[i])
		activities = append(activities, *activity)
	}

	if err := s.productRepo.ApplyMovements(ctx, moved, activities); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

// wasReceived reports whether a purchase invoice's stock already landed
func wasReceived(invoice *entity.Invoice) bool {
	return invoice.Type == enum.InvoiceTypePurchase && invoice.Status == enum.InvoiceStatusReceived
}
