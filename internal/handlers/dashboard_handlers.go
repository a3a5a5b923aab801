package handlers

import (
	"net/http"

	"caretrack/internal/common"
	"caretrack/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers serves the landing-page overview that every active
// user can see.
type DashboardHandlers struct {
	followUpService services.FollowUpService
	financeService  services.FinanceService
	expenseService  services.ExpenseService
}

func NewDashboardHandlers(followUpService services.FollowUpService, financeService services.FinanceService, expenseService services.ExpenseService) *DashboardHandlers {
	return &DashboardHandlers{
		followUpService: followUpService,
		financeService:  financeService,
		expenseService:  expenseService,
	}
}

// Overview handles GET /dashboard. It aggregates the follow-ups due today,
// finance totals and expense breakdown for the requested period.
func (h *DashboardHandlers) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	from, to, err := parseRangeParams(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	dueToday, err := h.followUpService.DueToday(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to load follow-ups")
	}
	totals, err := h.financeService.Totals(ctx, from, to)
	if err != nil {
		return common.SendServerError(c, "Failed to load finance totals")
	}
	expenseTotals, err := h.expenseService.CategoryTotals(ctx, from, to)
	if err != nil {
		return common.SendServerError(c, "Failed to load expense totals")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"from":               from,
		"to":                 to,
		"follow_ups_due":     dueToday,
		"finance_totals":     totals,
		"expense_categories": expenseTotals,
	})
}
