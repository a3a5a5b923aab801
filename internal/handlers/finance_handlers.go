package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type FinanceHandlers struct {
	financeService services.FinanceService
}

func NewFinanceHandlers(financeService services.FinanceService) *FinanceHandlers {
	return &FinanceHandlers{financeService: financeService}
}

type saleRequest struct {
	Date           string     `json:"date"`
	CustomerName   string     `json:"customer_name"`
	CustomerID     *uuid.UUID `json:"customer_id"`
	ProductService string     `json:"product_service"`
	Amount         string     `json:"amount"`
	GSTType        string     `json:"gst_type"`
	GSTPercentage  string     `json:"gst_percentage"`
	PaymentStatus  string     `json:"payment_status"`
	ReceivedAmount string     `json:"received_amount"`
	Notes          *string    `json:"notes"`
}

func (h *FinanceHandlers) saleFromRequest(c echo.Context, req *saleRequest) (*models.Sale, decimal.Decimal, error) {
	zero := decimal.Zero
	if err := common.ValidateRequiredString(req.CustomerName, "customer_name"); err != nil {
		return nil, zero, err
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, zero, err
	}
	if date == nil {
		return nil, zero, errors.New("date is required")
	}
	amount, err := common.ParseAmount(req.Amount, "amount")
	if err != nil {
		return nil, zero, err
	}
	gstPct, err := common.ParseAmount(req.GSTPercentage, "gst_percentage")
	if err != nil {
		return nil, zero, err
	}
	received := decimal.Zero
	if req.ReceivedAmount != "" {
		received, err = common.ParseAmount(req.ReceivedAmount, "received_amount")
		if err != nil {
			return nil, zero, err
		}
	}
	sale := &models.Sale{
		CustomerName:   req.CustomerName,
		CustomerID:     req.CustomerID,
		ProductService: req.ProductService,
		Amount:         amount,
		GSTType:        req.GSTType,
		GSTPercentage:  gstPct,
		PaymentStatus:  req.PaymentStatus,
		Notes:          req.Notes,
	}
	sale.Date = *date
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		sale.UpdatedBy = &userID
	}
	return sale, received, nil
}

// CreateSale handles POST /finance/sales
func (h *FinanceHandlers) CreateSale(c echo.Context) error {
	var req saleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	sale, received, err := h.saleFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	sale.CreatedBy = sale.UpdatedBy
	if err := h.financeService.CreateSale(c.Request().Context(), sale, received); err != nil {
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, sale)
}

// GetSale handles GET /finance/sales/:id
func (h *FinanceHandlers) GetSale(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid sale id")
	}
	sale, err := h.financeService.GetSale(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Sale")
		}
		return common.SendServerError(c, "Failed to load sale")
	}
	return c.JSON(http.StatusOK, sale)
}

// UpdateSale handles PUT /finance/sales/:id
func (h *FinanceHandlers) UpdateSale(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid sale id")
	}
	var req saleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	sale, received, err := h.saleFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	sale.ID = id
	if err := h.financeService.UpdateSale(c.Request().Context(), sale, received); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Sale")
		}
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

// DeleteSale handles DELETE /finance/sales/:id
func (h *FinanceHandlers) DeleteSale(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid sale id")
	}
	if err := h.financeService.DeleteSale(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete sale")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSales handles GET /finance/sales?status=...
func (h *FinanceHandlers) ListSales(c echo.Context) error {
	limit, offset := listParams(c)
	sales, err := h.financeService.ListSales(c.Request().Context(), c.QueryParam("status"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list sales")
	}
	return c.JSON(http.StatusOK, sales)
}

type purchaseRequest struct {
	Date            string  `json:"date"`
	VendorName      string  `json:"vendor_name"`
	ItemDescription string  `json:"item_description"`
	Amount          string  `json:"amount"`
	GSTType         string  `json:"gst_type"`
	GSTPercentage   string  `json:"gst_percentage"`
	PaymentStatus   string  `json:"payment_status"`
	Notes           *string `json:"notes"`
}

func purchaseFromRequest(c echo.Context, req *purchaseRequest) (*models.Purchase, error) {
	if err := common.ValidateRequiredString(req.VendorName, "vendor_name"); err != nil {
		return nil, err
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, errors.New("date is required")
	}
	amount, err := common.ParseAmount(req.Amount, "amount")
	if err != nil {
		return nil, err
	}
	gstPct, err := common.ParseAmount(req.GSTPercentage, "gst_percentage")
	if err != nil {
		return nil, err
	}
	purchase := &models.Purchase{
		VendorName:      req.VendorName,
		ItemDescription: req.ItemDescription,
		Amount:          amount,
		GSTType:         req.GSTType,
		GSTPercentage:   gstPct,
		PaymentStatus:   req.PaymentStatus,
		Notes:           req.Notes,
	}
	purchase.Date = *date
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		purchase.UpdatedBy = &userID
	}
	return purchase, nil
}

// CreatePurchase handles POST /finance/purchases
func (h *FinanceHandlers) CreatePurchase(c echo.Context) error {
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	purchase, err := purchaseFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	purchase.CreatedBy = purchase.UpdatedBy
	if err := h.financeService.CreatePurchase(c.Request().Context(), purchase); err != nil {
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, purchase)
}

// GetPurchase handles GET /finance/purchases/:id
func (h *FinanceHandlers) GetPurchase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid purchase id")
	}
	purchase, err := h.financeService.GetPurchase(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Purchase")
		}
		return common.SendServerError(c, "Failed to load purchase")
	}
	return c.JSON(http.StatusOK, purchase)
}

// UpdatePurchase handles PUT /finance/purchases/:id
func (h *FinanceHandlers) UpdatePurchase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid purchase id")
	}
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	purchase, err := purchaseFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	purchase.ID = id
	if err := h.financeService.UpdatePurchase(c.Request().Context(), purchase); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Purchase")
		}
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, purchase)
}

// DeletePurchase handles DELETE /finance/purchases/:id
func (h *FinanceHandlers) DeletePurchase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid purchase id")
	}
	if err := h.financeService.DeletePurchase(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete purchase")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPurchases handles GET /finance/purchases?status=...
func (h *FinanceHandlers) ListPurchases(c echo.Context) error {
	limit, offset := listParams(c)
	purchases, err := h.financeService.ListPurchases(c.Request().Context(), c.QueryParam("status"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list purchases")
	}
	return c.JSON(http.StatusOK, purchases)
}

type paymentReceivedRequest struct {
	Date          string     `json:"date"`
	CustomerName  string     `json:"customer_name"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	Amount        string     `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	SaleID        *uuid.UUID `json:"sale_id"`
	TDSPercentage string     `json:"tds_percentage"`
	Remarks       *string    `json:"remarks"`
}

func paymentReceivedFromRequest(c echo.Context, req *paymentReceivedRequest) (*models.PaymentReceived, error) {
	if err := common.ValidateRequiredString(req.CustomerName, "customer_name"); err != nil {
		return nil, err
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, errors.New("date is required")
	}
	amount, err := common.ParseAmount(req.Amount, "amount")
	if err != nil {
		return nil, err
	}
	tdsPct := decimal.Zero
	if req.TDSPercentage != "" {
		tdsPct, err = common.ParseAmount(req.TDSPercentage, "tds_percentage")
		if err != nil {
			return nil, err
		}
	}
	p := &models.PaymentReceived{
		CustomerName:  req.CustomerName,
		CustomerID:    req.CustomerID,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		SaleID:        req.SaleID,
		TDSPercentage: tdsPct,
		Remarks:       req.Remarks,
	}
	p.Date = *date
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		p.UpdatedBy = &userID
	}
	return p, nil
}

// CreatePaymentReceived handles POST /finance/payments-received
func (h *FinanceHandlers) CreatePaymentReceived(c echo.Context) error {
	var req paymentReceivedRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	p, err := paymentReceivedFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	p.CreatedBy = p.UpdatedBy
	if err := h.financeService.CreatePaymentReceived(c.Request().Context(), p); err != nil {
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdatePaymentReceived handles PUT /finance/payments-received/:id
func (h *FinanceHandlers) UpdatePaymentReceived(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid payment id")
	}
	var req paymentReceivedRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	p, err := paymentReceivedFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	p.ID = id
	if err := h.financeService.UpdatePaymentReceived(c.Request().Context(), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Payment")
		}
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePaymentReceived handles DELETE /finance/payments-received/:id
func (h *FinanceHandlers) DeletePaymentReceived(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid payment id")
	}
	if err := h.financeService.DeletePaymentReceived(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete payment")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPaymentsReceived handles GET /finance/payments-received
func (h *FinanceHandlers) ListPaymentsReceived(c echo.Context) error {
	limit, offset := listParams(c)
	payments, err := h.financeService.ListPaymentsReceived(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

type paymentMadeRequest struct {
	Date          string     `json:"date"`
	PayeeName     string     `json:"payee_name"`
	Amount        string     `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	PurchaseID    *uuid.UUID `json:"purchase_id"`
	Category      *string    `json:"category"`
	TDSPercentage string     `json:"tds_percentage"`
	Remarks       *string    `json:"remarks"`
}

func paymentMadeFromRequest(c echo.Context, req *paymentMadeRequest) (*models.PaymentMade, error) {
	if err := common.ValidateRequiredString(req.PayeeName, "payee_name"); err != nil {
		return nil, err
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, errors.New("date is required")
	}
	amount, err := common.ParseAmount(req.Amount, "amount")
	if err != nil {
		return nil, err
	}
	tdsPct := decimal.Zero
	if req.TDSPercentage != "" {
		tdsPct, err = common.ParseAmount(req.TDSPercentage, "tds_percentage")
		if err != nil {
			return nil, err
		}
	}
	p := &models.PaymentMade{
		PayeeName:     req.PayeeName,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		PurchaseID:    req.PurchaseID,
		Category:      req.Category,
		TDSPercentage: tdsPct,
		Remarks:       req.Remarks,
	}
	p.Date = *date
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		p.UpdatedBy = &userID
	}
	return p, nil
}

// CreatePaymentMade handles POST /finance/payments-made
func (h *FinanceHandlers) CreatePaymentMade(c echo.Context) error {
	var req paymentMadeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	p, err := paymentMadeFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	p.CreatedBy = p.UpdatedBy
	if err := h.financeService.CreatePaymentMade(c.Request().Context(), p); err != nil {
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdatePaymentMade handles PUT /finance/payments-made/:id
func (h *FinanceHandlers) UpdatePaymentMade(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid payment id")
	}
	var req paymentMadeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	p, err := paymentMadeFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	p.ID = id
	if err := h.financeService.UpdatePaymentMade(c.Request().Context(), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Payment")
		}
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePaymentMade handles DELETE /finance/payments-made/:id
func (h *FinanceHandlers) DeletePaymentMade(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid payment id")
	}
	if err := h.financeService.DeletePaymentMade(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete payment")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPaymentsMade handles GET /finance/payments-made
func (h *FinanceHandlers) ListPaymentsMade(c echo.Context) error {
	limit, offset := listParams(c)
	payments, err := h.financeService.ListPaymentsMade(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

type accountRequest struct {
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	AccountType string  `json:"account_type"`
	Description *string `json:"description"`
}

func accountFromRequest(c echo.Context, req *accountRequest) (*models.ChartOfAccount, error) {
	if err := common.ValidateRequiredString(req.AccountCode, "account_code"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.AccountName, "account_name"); err != nil {
		return nil, err
	}
	account := &models.ChartOfAccount{
		AccountCode: req.AccountCode,
		AccountName: req.AccountName,
		AccountType: req.AccountType,
		Description: req.Description,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		account.UpdatedBy = &userID
	}
	return account, nil
}

// CreateAccount handles POST /finance/accounts
func (h *FinanceHandlers) CreateAccount(c echo.Context) error {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	account, err := accountFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	account.CreatedBy = account.UpdatedBy
	if err := h.financeService.CreateAccount(c.Request().Context(), account); err != nil {
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, account)
}

// UpdateAccount handles PUT /finance/accounts/:id
func (h *FinanceHandlers) UpdateAccount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid account id")
	}
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	account, err := accountFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	account.ID = id
	if err := h.financeService.UpdateAccount(c.Request().Context(), account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Account")
		}
		return financeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, account)
}

// DeleteAccount handles DELETE /finance/accounts/:id
func (h *FinanceHandlers) DeleteAccount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid account id")
	}
	if err := h.financeService.DeleteAccount(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete account")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAccounts handles GET /finance/accounts
func (h *FinanceHandlers) ListAccounts(c echo.Context) error {
	accounts, err := h.financeService.ListAccounts(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list accounts")
	}
	return c.JSON(http.StatusOK, accounts)
}

// Totals handles GET /finance/totals?from=...&to=...
func (h *FinanceHandlers) Totals(c echo.Context) error {
	from, to, err := parseRangeParams(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	totals, err := h.financeService.Totals(c.Request().Context(), from, to)
	if err != nil {
		return common.SendServerError(c, "Failed to compute totals")
	}
	return c.JSON(http.StatusOK, totals)
}

// MonthlyTotals handles GET /finance/monthly-totals?year=...
func (h *FinanceHandlers) MonthlyTotals(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 2000 || year > 2200 {
		return common.SendValidationError(c, "year", "year query parameter is required")
	}
	totals, err := h.financeService.MonthlyTotals(c.Request().Context(), year)
	if err != nil {
		return common.SendServerError(c, "Failed to compute monthly totals")
	}
	return c.JSON(http.StatusOK, totals)
}

func listParams(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return common.ValidatePaginationParams(limit, offset)
}

func financeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidTDS),
		errors.Is(err, services.ErrInvalidAccountType),
		errors.Is(err, services.ErrAmountRequired):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, services.ErrCodeExhausted):
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
	case errors.Is(err, pgx.ErrNoRows):
		return common.SendNotFoundError(c, "Record")
	}
	return common.SendServerError(c, "Operation failed")
}
