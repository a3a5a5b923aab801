package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/repositories"
	"caretrack/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

type ExpenseHandlers struct {
	expenseService services.ExpenseService
}

func NewExpenseHandlers(expenseService services.ExpenseService) *ExpenseHandlers {
	return &ExpenseHandlers{expenseService: expenseService}
}

type expenseRequest struct {
	Date        string     `json:"date"`
	BookingID   *uuid.UUID `json:"booking_id"`
	OtherID     *string    `json:"other_id"`
	Category    string     `json:"category"`
	SubCategory *string    `json:"sub_category"`
	Amount      string     `json:"expense_amount"`
}

func expenseFromRequest(c echo.Context, req *expenseRequest) (*models.Expense, error) {
	if err := common.ValidateRequiredString(req.Category, "category"); err != nil {
		return nil, err
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, errors.New("date is required")
	}
	amount, err := common.ParseAmount(req.Amount, "expense_amount")
	if err != nil {
		return nil, err
	}
	expense := &models.Expense{
		BookingID:     req.BookingID,
		OtherID:       req.OtherID,
		Category:      req.Category,
		SubCategory:   req.SubCategory,
		ExpenseAmount: amount,
		Date:          *date,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		expense.UpdatedBy = &userID
	}
	return expense, nil
}

// CreateExpense handles POST /expenses
func (h *ExpenseHandlers) CreateExpense(c echo.Context) error {
	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	expense, err := expenseFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	expense.CreatedBy = expense.UpdatedBy
	if err := h.expenseService.Create(c.Request().Context(), expense); err != nil {
		return expenseServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, expense)
}

// GetExpense handles GET /expenses/:id
func (h *ExpenseHandlers) GetExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid expense id")
	}
	expense, err := h.expenseService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Expense")
		}
		return common.SendServerError(c, "Failed to load expense")
	}
	return c.JSON(http.StatusOK, expense)
}

// UpdateExpense handles PUT /expenses/:id
func (h *ExpenseHandlers) UpdateExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid expense id")
	}
	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	expense, err := expenseFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	expense.ID = id
	if err := h.expenseService.Update(c.Request().Context(), expense); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Expense")
		}
		return expenseServiceError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense handles DELETE /expenses/:id
func (h *ExpenseHandlers) DeleteExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid expense id")
	}
	if err := h.expenseService.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete expense")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListExpenses handles GET /expenses with optional category/from/to filters.
func (h *ExpenseHandlers) ListExpenses(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	filter := repositories.ExpenseFilter{
		Category: c.QueryParam("category"),
		Limit:    limit,
		Offset:   offset,
	}
	if from := c.QueryParam("from"); from != "" {
		t, err := common.ParseDate(from, "from")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		filter.From = t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := common.ParseDate(to, "to")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		filter.To = t
	}

	expenses, err := h.expenseService.List(c.Request().Context(), filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list expenses")
	}
	return c.JSON(http.StatusOK, expenses)
}

// CategoryTotals handles GET /expenses/category-totals?from=...&to=...
func (h *ExpenseHandlers) CategoryTotals(c echo.Context) error {
	from, to, err := parseRangeParams(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	totals, err := h.expenseService.CategoryTotals(c.Request().Context(), from, to)
	if err != nil {
		return common.SendServerError(c, "Failed to compute totals")
	}
	return c.JSON(http.StatusOK, totals)
}

// parseRangeParams reads from/to query params, defaulting to the current
// calendar month.
func parseRangeParams(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	if v := c.QueryParam("from"); v != "" {
		t, err := common.ParseDate(v, "from")
		if err != nil {
			return from, to, err
		}
		from = *t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := common.ParseDate(v, "to")
		if err != nil {
			return from, to, err
		}
		to = *t
	}
	if err := common.ValidateDateRange(from, to); err != nil {
		return from, to, err
	}
	return from, to, nil
}

func expenseServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrExpenseAmount):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return common.SendNotFoundError(c, "Booking")
	case errors.Is(err, services.ErrCodeExhausted):
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
	}
	return common.SendServerError(c, "Operation failed")
}
