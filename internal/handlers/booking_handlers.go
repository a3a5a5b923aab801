package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
)

// BookingHandlers handles booking and booking-payment endpoints.
type BookingHandlers struct {
	bookingService services.BookingService
	expenseService services.ExpenseService
}

func NewBookingHandlers(bookingService services.BookingService, expenseService services.ExpenseService) *BookingHandlers {
	return &BookingHandlers{bookingService: bookingService, expenseService: expenseService}
}

type bookingRequest struct {
	CustomerID       *uuid.UUID `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	CustomerMob      string     `json:"customer_mob"`
	Services         string     `json:"services"`
	ChargeType       string     `json:"charge_type"`
	StartDate        string     `json:"start_date"`
	EndDate          string     `json:"end_date"`
	ShiftHours       *int       `json:"shift_hours"`
	ServiceCharge    string     `json:"service_charge"`
	OtherExpanse     string     `json:"other_expanse"`
	GSTType          string     `json:"gst_type"`
	GSTPercentage    int        `json:"gst_percentage"`
	EmployeeAssigned *uuid.UUID `json:"employee_assigned_id"`
	AmountPaid       string     `json:"amount_paid"`
}

// bookingFromRequest builds a booking from the request body. Derived
// amounts in the body are ignored; the service recomputes them. amount_paid
// is the one exception: on create it is the payment collected up front.
func bookingFromRequest(c echo.Context, req *bookingRequest) (*models.Booking, error) {
	if err := common.ValidateRequiredString(req.CustomerName, "customer_name"); err != nil {
		return nil, err
	}
	if req.ChargeType != models.ChargeTypeFixed && req.ChargeType != models.ChargeTypeRecurring {
		return nil, fmt.Errorf("charge_type must be %q or %q", models.ChargeTypeFixed, models.ChargeTypeRecurring)
	}
	if req.GSTType == "" {
		req.GSTType = models.GSTExclusive
	}
	if req.GSTType != models.GSTExclusive && req.GSTType != models.GSTInclusive {
		return nil, fmt.Errorf("gst_type must be %q or %q", models.GSTExclusive, models.GSTInclusive)
	}
	if req.GSTPercentage < 0 || req.GSTPercentage > 100 {
		return nil, fmt.Errorf("gst_percentage must be between 0 and 100")
	}
	startDate, err := common.ParseDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := common.ParseDate(req.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	serviceCharge, err := common.ParseAmount(req.ServiceCharge, "service_charge")
	if err != nil {
		return nil, err
	}
	otherExpanse, err := common.ParseAmount(req.OtherExpanse, "other_expanse")
	if err != nil {
		return nil, err
	}
	amountPaid, err := common.ParseAmount(req.AmountPaid, "amount_paid")
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		CustomerID:       req.CustomerID,
		CustomerName:     req.CustomerName,
		CustomerMob:      req.CustomerMob,
		Services:         req.Services,
		ChargeType:       req.ChargeType,
		StartDate:        startDate,
		EndDate:          endDate,
		ShiftHours:       req.ShiftHours,
		ServiceCharge:    serviceCharge,
		OtherExpanse:     otherExpanse,
		GSTType:          req.GSTType,
		GSTPercentage:    req.GSTPercentage,
		EmployeeAssigned: req.EmployeeAssigned,
		AmountPaid:       amountPaid,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		booking.UpdatedBy = &userID
	}
	return booking, nil
}

// CreateBooking handles POST /bookings
func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	booking, err := bookingFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	booking.CreatedBy = booking.UpdatedBy

	if err := h.bookingService.Create(c.Request().Context(), booking); err != nil {
		return bookingServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandlers) GetBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid booking id")
	}
	booking, err := h.bookingService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Booking")
		}
		return common.SendServerError(c, "Failed to load booking")
	}
	return c.JSON(http.StatusOK, booking)
}

// GetBookingByCode handles GET /bookings/code/:code
func (h *BookingHandlers) GetBookingByCode(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return common.SendValidationError(c, "code", "booking code is required")
	}
	booking, err := h.bookingService.GetByCode(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Booking")
		}
		return common.SendServerError(c, "Failed to load booking")
	}
	return c.JSON(http.StatusOK, booking)
}

// UpdateBooking handles PUT /bookings/:id
func (h *BookingHandlers) UpdateBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid booking id")
	}
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	booking, err := bookingFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	booking.ID = id

	if err := h.bookingService.Update(c.Request().Context(), booking); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Booking")
		}
		return bookingServiceError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// ListBookings handles GET /bookings
func (h *BookingHandlers) ListBookings(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	bookings, err := h.bookingService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

type paymentRequest struct {
	Amount string  `json:"amount"`
	Date   string  `json:"date"`
	Method *string `json:"method"`
	Notes  *string `json:"notes"`
}

// AddPayment handles POST /bookings/:id/payments
func (h *BookingHandlers) AddPayment(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid booking id")
	}
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	payment, err := paymentFromRequest(c, bookingID, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	payment.CreatedBy = payment.UpdatedBy

	booking, err := h.bookingService.AddPayment(c.Request().Context(), payment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Booking")
		}
		return bookingServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"payment": payment,
		"booking": booking,
	})
}

// UpdatePayment handles PUT /bookings/:id/payments/:paymentID. Changing the
// booking id in the body moves the payment and reconciles both bookings.
func (h *BookingHandlers) UpdatePayment(c echo.Context) error {
	paymentID, err := uuid.Parse(c.Param("paymentID"))
	if err != nil {
		return common.SendValidationError(c, "paymentID", "invalid payment id")
	}
	var req struct {
		paymentRequest
		BookingID *uuid.UUID `json:"booking_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid booking id")
	}
	if req.BookingID != nil {
		bookingID = *req.BookingID
	}
	payment, err := paymentFromRequest(c, bookingID, &req.paymentRequest)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	payment.ID = paymentID

	booking, err := h.bookingService.UpdatePayment(c.Request().Context(), payment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Payment")
		}
		return bookingServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"payment": payment,
		"booking": booking,
	})
}

// ListPayments handles GET /bookings/:id/payments
func (h *BookingHandlers) ListPayments(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid booking id")
	}
	payments, err := h.bookingService.ListPayments(c.Request().Context(), bookingID)
	if err != nil {
		return common.SendServerError(c, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

func paymentFromRequest(c echo.Context, bookingID uuid.UUID, req *paymentRequest) (*models.Payment, error) {
	amount, err := common.ParseAmount(req.Amount, "amount")
	if err != nil {
		return nil, err
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	payment := &models.Payment{
		BookingID: bookingID,
		Amount:    amount,
		Method:    req.Method,
		Notes:     req.Notes,
	}
	if date != nil {
		payment.Date = *date
	} else {
		payment.Date = time.Now()
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		payment.UpdatedBy = &userID
	}
	return payment, nil
}

// StatementPDF handles GET /bookings/:id/statement.pdf. It renders the
// booking's charges and payment history as a downloadable statement.
func (h *BookingHandlers) StatementPDF(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid booking id")
	}
	booking, err := h.bookingService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Booking")
		}
		return common.SendServerError(c, "Failed to load booking")
	}
	payments, err := h.bookingService.ListPayments(ctx, id)
	if err != nil {
		return common.SendServerError(c, "Failed to load payments")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "BOOKING STATEMENT")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Booking: %s", booking.BookingCode))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Customer: %s (%s)", booking.CustomerName, booking.CustomerMob))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Services: %s", booking.Services))
	pdf.Ln(8)
	if booking.StartDate != nil && booking.EndDate != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
			booking.StartDate.Format("02-Jan-2006"), booking.EndDate.Format("02-Jan-2006")))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "CHARGES")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Service charge: %s", booking.ServiceCharge.StringFixed(2)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Other expenses: %s", booking.OtherExpanse.StringFixed(2)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("GST (%d%% %s): %s", booking.GSTPercentage, booking.GSTType, booking.GSTValue.StringFixed(2)))
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %s", booking.TotalAmount.StringFixed(2)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "PAYMENTS")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for _, p := range payments {
		method := "-"
		if p.Method != nil {
			method = *p.Method
		}
		pdf.Cell(0, 6, fmt.Sprintf("%s  %s  %s", p.Date.Format("02-Jan-2006"), method, p.Amount.StringFixed(2)))
		pdf.Ln(6)
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Amount paid: %s", booking.AmountPaid.StringFixed(2)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Pending: %s", booking.PendingAmount.StringFixed(2)))

	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s-statement.pdf"`, booking.BookingCode))
	c.Response().WriteHeader(http.StatusOK)
	return pdf.Output(c.Response())
}

// ListBookingExpenses handles GET /bookings/:id/expenses
func (h *BookingHandlers) ListBookingExpenses(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid booking id")
	}
	expenses, err := h.expenseService.ListByBooking(c.Request().Context(), id)
	if err != nil {
		return common.SendServerError(c, "Failed to list expenses")
	}
	return c.JSON(http.StatusOK, expenses)
}

func bookingServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrBookingDates),
		errors.Is(err, services.ErrShiftHours),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidMethod):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, services.ErrCodeExhausted):
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
	}
	return common.SendServerError(c, "Operation failed")
}
