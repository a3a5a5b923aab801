package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caretrack/internal/caching"
	"caretrack/internal/codegen"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTDS         = errors.New("tds percentage must be between 0 and 100")
	ErrInvalidAccountType = errors.New("unknown account type")
	ErrAmountRequired     = errors.New("amount must be greater than zero")
)

const financeCacheTTL = 5 * time.Minute

type FinanceService interface {
	CreateSale(ctx context.Context, sale *models.Sale, receivedAmount decimal.Decimal) error
	GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	UpdateSale(ctx context.Context, sale *models.Sale, receivedAmount decimal.Decimal) error
	DeleteSale(ctx context.Context, id uuid.UUID) error
	ListSales(ctx context.Context, status string, limit, offset int) ([]*models.Sale, error)

	CreatePurchase(ctx context.Context, purchase *models.Purchase) error
	GetPurchase(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	UpdatePurchase(ctx context.Context, purchase *models.Purchase) error
	DeletePurchase(ctx context.Context, id uuid.UUID) error
	ListPurchases(ctx context.Context, status string, limit, offset int) ([]*models.Purchase, error)

	CreatePaymentReceived(ctx context.Context, p *models.PaymentReceived) error
	UpdatePaymentReceived(ctx context.Context, p *models.PaymentReceived) error
	DeletePaymentReceived(ctx context.Context, id uuid.UUID) error
	ListPaymentsReceived(ctx context.Context, limit, offset int) ([]*models.PaymentReceived, error)

	CreatePaymentMade(ctx context.Context, p *models.PaymentMade) error
	UpdatePaymentMade(ctx context.Context, p *models.PaymentMade) error
	DeletePaymentMade(ctx context.Context, id uuid.UUID) error
	ListPaymentsMade(ctx context.Context, limit, offset int) ([]*models.PaymentMade, error)

	CreateAccount(ctx context.Context, account *models.ChartOfAccount) error
	UpdateAccount(ctx context.Context, account *models.ChartOfAccount) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ListAccounts(ctx context.Context) ([]*models.ChartOfAccount, error)

	Totals(ctx context.Context, from, to time.Time) (*repositories.FinanceTotals, error)
	MonthlyTotals(ctx context.Context, year int) ([]repositories.MonthlyTotal, error)
}

type financeService struct {
	pool         TxStarter
	saleRepo     repositories.SaleRepository
	purchaseRepo repositories.PurchaseRepository
	receivedRepo repositories.PaymentReceivedRepository
	madeRepo     repositories.PaymentMadeRepository
	accountRepo  repositories.AccountRepository
	summaryRepo  repositories.FinanceSummaryRepository
	cache        caching.CacheService
}

func NewFinanceService(
	pool TxStarter,
	saleRepo repositories.SaleRepository,
	purchaseRepo repositories.PurchaseRepository,
	receivedRepo repositories.PaymentReceivedRepository,
	madeRepo repositories.PaymentMadeRepository,
	accountRepo repositories.AccountRepository,
	summaryRepo repositories.FinanceSummaryRepository,
	cache caching.CacheService,
) FinanceService {
	return &financeService{
		pool:         pool,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		receivedRepo: receivedRepo,
		madeRepo:     madeRepo,
		accountRepo:  accountRepo,
		summaryRepo:  summaryRepo,
		cache:        cache,
	}
}

func deriveSale(sale *models.Sale) {
	sale.GSTAmount, sale.TotalAmount = DeriveGST(sale.Amount, sale.GSTPercentage, sale.GSTType)
}

func derivePurchase(purchase *models.Purchase) {
	purchase.GSTAmount, purchase.TotalAmount = DeriveGST(purchase.Amount, purchase.GSTPercentage, purchase.GSTType)
}

func validateTDS(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return ErrInvalidTDS
	}
	return nil
}

// CreateSale derives the GST amounts, allocates the year-scoped invoice
// number and, when the sale arrives already marked Received or Partial,
// records the matching settlement in the same transaction.
func (s *financeService) CreateSale(ctx context.Context, sale *models.Sale, receivedAmount decimal.Decimal) error {
	if !sale.Amount.IsPositive() {
		return ErrAmountRequired
	}
	sale.ID = uuid.New()
	deriveSale(sale)
	if sale.PaymentStatus == "" {
		sale.PaymentStatus = models.PaymentStatusPending
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	saleRepo := s.saleRepo.WithTx(tx)
	receivedRepo := s.receivedRepo.WithTx(tx)

	prefix := codegen.YearPrefix(codegen.InvoiceKind, sale.Date.Year())
	created := false
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := saleRepo.ListCodes(ctx, prefix)
		if err != nil {
			return err
		}
		sale.InvoiceNumber = codegen.Next(prefix, codegen.FinanceWidth, codes)
		err = saleRepo.Create(ctx, sale)
		if err == nil {
			created = true
			break
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	if !created {
		return ErrCodeExhausted
	}

	if err := s.syncSaleSettlement(ctx, receivedRepo, sale, receivedAmount); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	return s.saleRepo.GetByID(ctx, id)
}

func (s *financeService) UpdateSale(ctx context.Context, sale *models.Sale, receivedAmount decimal.Decimal) error {
	if !sale.Amount.IsPositive() {
		return ErrAmountRequired
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	saleRepo := s.saleRepo.WithTx(tx)
	receivedRepo := s.receivedRepo.WithTx(tx)

	existing, err := saleRepo.GetByID(ctx, sale.ID)
	if err != nil {
		return err
	}
	sale.InvoiceNumber = existing.InvoiceNumber
	deriveSale(sale)

	if err := saleRepo.Update(ctx, sale); err != nil {
		return err
	}
	if err := s.syncSaleSettlement(ctx, receivedRepo, sale, receivedAmount); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

// syncSaleSettlement keeps the auto-managed payments_received row in step
// with the sale's payment status: Received settles the full total, Partial
// settles the given amount, Pending removes the settlement.
func (s *financeService) syncSaleSettlement(ctx context.Context, receivedRepo repositories.PaymentReceivedRepository, sale *models.Sale, receivedAmount decimal.Decimal) error {
	switch sale.PaymentStatus {
	case models.PaymentStatusReceived:
		receivedAmount = sale.TotalAmount
	case models.PaymentStatusPartial:
		if !receivedAmount.IsPositive() {
			return ErrAmountRequired
		}
	default:
		return receivedRepo.DeleteBySale(ctx, sale.ID)
	}

	existing, err := receivedRepo.GetBySale(ctx, sale.ID)
	if err == nil {
		existing.Date = sale.Date
		existing.CustomerName = sale.CustomerName
		existing.CustomerID = sale.CustomerID
		existing.Amount = receivedAmount
		existing.TDSAmount, existing.NetAmount = DeriveTDS(receivedAmount, existing.TDSPercentage)
		existing.UpdatedBy = sale.UpdatedBy
		return receivedRepo.Update(ctx, existing)
	}

	p := &models.PaymentReceived{
		ID:            uuid.New(),
		Date:          sale.Date,
		CustomerName:  sale.CustomerName,
		CustomerID:    sale.CustomerID,
		Amount:        receivedAmount,
		PaymentMethod: "Other",
		InvoiceNumber: &sale.InvoiceNumber,
		SaleID:        &sale.ID,
		TDSPercentage: decimal.Zero,
		CreatedBy:     sale.CreatedBy,
		UpdatedBy:     sale.UpdatedBy,
	}
	p.TDSAmount, p.NetAmount = DeriveTDS(p.Amount, p.TDSPercentage)
	return s.createReceivedWithRef(ctx, receivedRepo, p)
}

func (s *financeService) createReceivedWithRef(ctx context.Context, repo repositories.PaymentReceivedRepository, p *models.PaymentReceived) error {
	prefix := codegen.YearPrefix(codegen.PaymentInKind, p.Date.Year())
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := repo.ListCodes(ctx, prefix)
		if err != nil {
			return err
		}
		p.ReferenceNumber = codegen.Next(prefix, codegen.FinanceWidth, codes)
		err = repo.Create(ctx, p)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

// DeleteSale removes the sale together with its auto-managed settlement.
func (s *financeService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.receivedRepo.WithTx(tx).DeleteBySale(ctx, id); err != nil {
		return err
	}
	if err := s.saleRepo.WithTx(tx).Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) ListSales(ctx context.Context, status string, limit, offset int) ([]*models.Sale, error) {
	return s.saleRepo.List(ctx, status, limit, offset)
}

func (s *financeService) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	if !purchase.Amount.IsPositive() {
		return ErrAmountRequired
	}
	purchase.ID = uuid.New()
	derivePurchase(purchase)
	if purchase.PaymentStatus == "" {
		purchase.PaymentStatus = models.PaymentStatusPending
	}
	prefix := codegen.YearPrefix(codegen.BillKind, purchase.Date.Year())
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.purchaseRepo.ListCodes(ctx, prefix)
		if err != nil {
			return err
		}
		purchase.BillNumber = codegen.Next(prefix, codegen.FinanceWidth, codes)
		err = s.purchaseRepo.Create(ctx, purchase)
		if err == nil {
			s.invalidateTotals(ctx)
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *financeService) GetPurchase(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	return s.purchaseRepo.GetByID(ctx, id)
}

func (s *financeService) UpdatePurchase(ctx context.Context, purchase *models.Purchase) error {
	if !purchase.Amount.IsPositive() {
		return ErrAmountRequired
	}
	existing, err := s.purchaseRepo.GetByID(ctx, purchase.ID)
	if err != nil {
		return err
	}
	purchase.BillNumber = existing.BillNumber
	derivePurchase(purchase)
	if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	if err := s.purchaseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) ListPurchases(ctx context.Context, status string, limit, offset int) ([]*models.Purchase, error) {
	return s.purchaseRepo.List(ctx, status, limit, offset)
}

// CreatePaymentReceived records an incoming payment, derives the TDS split
// and, when the payment references a sale, recomputes that sale's payment
// status from the settlement total.
func (s *financeService) CreatePaymentReceived(ctx context.Context, p *models.PaymentReceived) error {
	if !p.Amount.IsPositive() {
		return ErrAmountRequired
	}
	if err := validateTDS(p.TDSPercentage); err != nil {
		return err
	}
	p.ID = uuid.New()
	p.TDSAmount, p.NetAmount = DeriveTDS(p.Amount, p.TDSPercentage)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	receivedRepo := s.receivedRepo.WithTx(tx)
	if err := s.createReceivedWithRef(ctx, receivedRepo, p); err != nil {
		return err
	}
	if p.SaleID != nil {
		if err := s.refreshSaleStatus(ctx, tx, *p.SaleID); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) UpdatePaymentReceived(ctx context.Context, p *models.PaymentReceived) error {
	if !p.Amount.IsPositive() {
		return ErrAmountRequired
	}
	if err := validateTDS(p.TDSPercentage); err != nil {
		return err
	}
	p.TDSAmount, p.NetAmount = DeriveTDS(p.Amount, p.TDSPercentage)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	receivedRepo := s.receivedRepo.WithTx(tx)
	existing, err := receivedRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.ReferenceNumber = existing.ReferenceNumber
	if err := receivedRepo.Update(ctx, p); err != nil {
		return err
	}
	for _, saleID := range saleIDsToRefresh(existing.SaleID, p.SaleID) {
		if err := s.refreshSaleStatus(ctx, tx, saleID); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) DeletePaymentReceived(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	receivedRepo := s.receivedRepo.WithTx(tx)
	existing, err := receivedRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := receivedRepo.Delete(ctx, id); err != nil {
		return err
	}
	if existing.SaleID != nil {
		if err := s.refreshSaleStatus(ctx, tx, *existing.SaleID); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) ListPaymentsReceived(ctx context.Context, limit, offset int) ([]*models.PaymentReceived, error) {
	return s.receivedRepo.List(ctx, limit, offset)
}

// refreshSaleStatus recomputes a sale's payment status from its settlement
// total: Received when fully covered, Partial when partly, Pending when
// nothing remains.
func (s *financeService) refreshSaleStatus(ctx context.Context, tx repositories.Database, saleID uuid.UUID) error {
	saleRepo := s.saleRepo.WithTx(tx)
	receivedRepo := s.receivedRepo.WithTx(tx)

	sale, err := saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	sum, err := receivedRepo.SumBySale(ctx, saleID)
	if err != nil {
		return err
	}
	switch {
	case sum.GreaterThanOrEqual(sale.TotalAmount):
		sale.PaymentStatus = models.PaymentStatusReceived
	case sum.IsPositive():
		sale.PaymentStatus = models.PaymentStatusPartial
	default:
		sale.PaymentStatus = models.PaymentStatusPending
	}
	return saleRepo.Update(ctx, sale)
}

func saleIDsToRefresh(prev, curr *uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	if curr != nil {
		ids = append(ids, *curr)
	}
	if prev != nil && (curr == nil || *prev != *curr) {
		ids = append(ids, *prev)
	}
	return ids
}

func (s *financeService) CreatePaymentMade(ctx context.Context, p *models.PaymentMade) error {
	if !p.Amount.IsPositive() {
		return ErrAmountRequired
	}
	if err := validateTDS(p.TDSPercentage); err != nil {
		return err
	}
	p.ID = uuid.New()
	p.TDSAmount, p.NetAmount = DeriveTDS(p.Amount, p.TDSPercentage)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	madeRepo := s.madeRepo.WithTx(tx)
	prefix := codegen.YearPrefix(codegen.PaymentOutKind, p.Date.Year())
	created := false
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := madeRepo.ListCodes(ctx, prefix)
		if err != nil {
			return err
		}
		p.ReferenceNumber = codegen.Next(prefix, codegen.FinanceWidth, codes)
		err = madeRepo.Create(ctx, p)
		if err == nil {
			created = true
			break
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	if !created {
		return ErrCodeExhausted
	}
	if p.PurchaseID != nil {
		if err := s.refreshPurchaseStatus(ctx, tx, *p.PurchaseID); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) UpdatePaymentMade(ctx context.Context, p *models.PaymentMade) error {
	if !p.Amount.IsPositive() {
		return ErrAmountRequired
	}
	if err := validateTDS(p.TDSPercentage); err != nil {
		return err
	}
	p.TDSAmount, p.NetAmount = DeriveTDS(p.Amount, p.TDSPercentage)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	madeRepo := s.madeRepo.WithTx(tx)
	existing, err := madeRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.ReferenceNumber = existing.ReferenceNumber
	if err := madeRepo.Update(ctx, p); err != nil {
		return err
	}
	for _, purchaseID := range saleIDsToRefresh(existing.PurchaseID, p.PurchaseID) {
		if err := s.refreshPurchaseStatus(ctx, tx, purchaseID); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) DeletePaymentMade(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	madeRepo := s.madeRepo.WithTx(tx)
	existing, err := madeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := madeRepo.Delete(ctx, id); err != nil {
		return err
	}
	if existing.PurchaseID != nil {
		if err := s.refreshPurchaseStatus(ctx, tx, *existing.PurchaseID); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.invalidateTotals(ctx)
	return nil
}

func (s *financeService) ListPaymentsMade(ctx context.Context, limit, offset int) ([]*models.PaymentMade, error) {
	return s.madeRepo.List(ctx, limit, offset)
}

func (s *financeService) refreshPurchaseStatus(ctx context.Context, tx repositories.Database, purchaseID uuid.UUID) error {
	purchaseRepo := s.purchaseRepo.WithTx(tx)
	madeRepo := s.madeRepo.WithTx(tx)

	purchase, err := purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return err
	}
	sum, err := madeRepo.SumByPurchase(ctx, purchaseID)
	if err != nil {
		return err
	}
	switch {
	case sum.GreaterThanOrEqual(purchase.TotalAmount):
		purchase.PaymentStatus = models.PaymentStatusPaid
	case sum.IsPositive():
		purchase.PaymentStatus = models.PaymentStatusPartial
	default:
		purchase.PaymentStatus = models.PaymentStatusPending
	}
	return purchaseRepo.Update(ctx, purchase)
}

func (s *financeService) CreateAccount(ctx context.Context, account *models.ChartOfAccount) error {
	if !models.ValidAccountType(account.AccountType) {
		return ErrInvalidAccountType
	}
	account.ID = uuid.New()
	return s.accountRepo.Create(ctx, account)
}

func (s *financeService) UpdateAccount(ctx context.Context, account *models.ChartOfAccount) error {
	if !models.ValidAccountType(account.AccountType) {
		return ErrInvalidAccountType
	}
	return s.accountRepo.Update(ctx, account)
}

func (s *financeService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.accountRepo.Delete(ctx, id)
}

func (s *financeService) ListAccounts(ctx context.Context) ([]*models.ChartOfAccount, error) {
	return s.accountRepo.List(ctx)
}

func (s *financeService) Totals(ctx context.Context, from, to time.Time) (*repositories.FinanceTotals, error) {
	key := fmt.Sprintf("%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if s.cache != nil {
		if cached, err := s.cache.GetFinanceTotals(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}
	totals, err := s.summaryRepo.Totals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFinanceTotals(ctx, key, totals, financeCacheTTL)
	}
	return totals, nil
}

func (s *financeService) MonthlyTotals(ctx context.Context, year int) ([]repositories.MonthlyTotal, error) {
	return s.summaryRepo.MonthlyTotals(ctx, year)
}

func (s *financeService) invalidateTotals(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFinanceTotals(ctx)
	}
}
