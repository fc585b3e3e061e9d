package service

import (
	"context"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/google/uuid"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	supplierRepo    repository.SupplierRepository
	invoiceRepo     repository.InvoiceRepository
	transactionRepo repository.TransactionRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	invoiceRepo repository.InvoiceRepository,
	transactionRepo repository.TransactionRepository,
) *DashboardService {
	return &DashboardService{
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		supplierRepo:    supplierRepo,
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalProducts      int64                       `json:"total_products"`
	TotalCustomers     int64                       `json:"total_customers"`
	TotalSuppliers     int64                       `json:"total_suppliers"`
	TotalInvoices      int64                       `json:"total_invoices"`
	OverdueInvoices    int64                       `json:"overdue_invoices"`
	LowStockCount      int64                       `json:"low_stock_count"`
	CriticalStockCount int64                       `json:"critical_stock_count"`
	MonthlyIncome      float64                     `json:"monthly_income"`
	MonthlyExpenses    float64                     `json:"monthly_expenses"`
	MonthlyNetProfit   float64                     `json:"monthly_net_profit"`
	AccountBalances    []repository.AccountBalance `json:"account_balances"`
	CashFlow           []repository.CashFlowPoint  `json:"cash_flow"`
}

// GetDashboardStats returns dashboard statistics for the current month
func (s *DashboardService) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	countParams := pagination.DefaultPagination()
	countParams.PerPage = 1 // We only need the count

	_, productCount, err := s.productRepo.List(ctx, userID, &repository.ProductFilterParams{Pagination: countParams})
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	_, customerCount, err := s.customerRepo.List(ctx, userID, countParams, "", false)
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	_, supplierCount, err := s.supplierRepo.List(ctx, userID, countParams, "", false)
	if err != nil {
		return nil, err
	}
	stats.TotalSuppliers = supplierCount

	_, invoiceCount, err := s.invoiceRepo.List(ctx, userID, &repository.InvoiceFilterParams{Pagination: countParams})
	if err != nil {
		return nil, err
	}
	stats.TotalInvoices = invoiceCount

	_, overdueCount, err := s.invoiceRepo.ListOverdue(ctx, userID, countParams)
	if err != nil {
		return nil, err
	}
	stats.OverdueInvoices = overdueCount

	lowStock, err := s.productRepo.GetLowStock(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))

	critical := 0
	for _, p := range lowStock {
		if p.IsCriticalStock() {
			critical++
		}
	}
	stats.CriticalStockCount = int64(critical)

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	profitLoss, err := s.transactionRepo.GetProfitLoss(ctx, userID, startOfMonth, now)
	if err != nil {
		return nil, err
	}
	stats.MonthlyIncome = float64(profitLoss.TotalIncome) / 100
	stats.MonthlyExpenses = float64(profitLoss.TotalExpenses) / 100
	stats.MonthlyNetProfit = float64(profitLoss.NetProfit) / 100

	balances, err := s.transactionRepo.GetAccountBalances(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.AccountBalances = balances

	cashFlow, err := s.transactionRepo.GetCashFlow(ctx, userID, now.AddDate(0, 0, -7), now, "day")
	if err != nil {
		return nil, err
	}
	stats.CashFlow = cashFlow

	return stats, nil
}

// LowStockAlert pairs a product with its alert level
type LowStockAlert struct {
	Product  entity.Product `json:"product"`
	Critical bool           `json:"critical"`
}

// GetLowStockAlerts returns products at or below their thresholds, critical
// first
func (s *DashboardService) GetLowStockAlerts(ctx context.Context, userID uuid.UUID) ([]LowStockAlert, error) {
	products, err := s.productRepo.GetLowStock(ctx, userID)
	if err != nil {
		return nil, err
	}

	alerts := make([]LowStockAlert, 0, len(products))
	for _, p := range products {
		if p.IsCriticalStock() {
			alerts = append(alerts, LowStockAlert{Product: p, Critical: true})
		}
	}
	for _, p := range products {
		if !p.IsCriticalStock() {
			alerts = append(alerts, LowStockAlert{Product: p, Critical: false})
		}
	}

	return alerts, nil
}
