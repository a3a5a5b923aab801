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
)

type CustomerHandlers struct {
	customerService services.CustomerService
	bookingService  services.BookingService
}

func NewCustomerHandlers(customerService services.CustomerService, bookingService services.BookingService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService, bookingService: bookingService}
}

type customerRequest struct {
	CustomerName     string     `json:"customer_name"`
	ContactNo        string     `json:"contact_no"`
	Email            *string    `json:"email"`
	Services         *string    `json:"services"`
	ChannelPartnerID *uuid.UUID `json:"channel_partner_id"`
}

func customerFromRequest(c echo.Context, req *customerRequest) (*models.Customer, error) {
	if err := common.ValidateRequiredString(req.CustomerName, "customer_name"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.ContactNo, "contact_no"); err != nil {
		return nil, err
	}
	customer := &models.Customer{
		CustomerName:     req.CustomerName,
		ContactNo:        req.ContactNo,
		Email:            req.Email,
		Services:         req.Services,
		ChannelPartnerID: req.ChannelPartnerID,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		customer.UpdatedBy = &userID
	}
	return customer, nil
}

// CreateCustomer handles POST /customers
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	customer, err := customerFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	customer.CreatedBy = customer.UpdatedBy
	if err := h.customerService.Create(c.Request().Context(), customer); err != nil {
		if errors.Is(err, services.ErrCodeExhausted) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
		}
		return common.SendServerError(c, "Failed to create customer")
	}
	return c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid customer id")
	}
	customer, err := h.customerService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Customer")
		}
		return common.SendServerError(c, "Failed to load customer")
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid customer id")
	}
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	customer, err := customerFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	customer.ID = id
	if err := h.customerService.Update(c.Request().Context(), customer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Customer")
		}
		return common.SendServerError(c, "Failed to update customer")
	}
	return c.JSON(http.StatusOK, customer)
}

// ListCustomers handles GET /customers
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	customers, err := h.customerService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list customers")
	}
	return c.JSON(http.StatusOK, customers)
}

// ListCustomerBookings handles GET /customers/:id/bookings
func (h *CustomerHandlers) ListCustomerBookings(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid customer id")
	}
	bookings, err := h.bookingService.ListByCustomer(c.Request().Context(), id)
	if err != nil {
		return common.SendServerError(c, "Failed to list bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}
