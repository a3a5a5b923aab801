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
	"github.com/labstack/echo/v4"
)

type CampHandlers struct {
	campService services.CampService
}

func NewCampHandlers(campService services.CampService) *CampHandlers {
	return &CampHandlers{campService: campService}
}

type campRequest struct {
	StaffID           *uuid.UUID `json:"staff_id"`
	CampDate          string     `json:"camp_date"`
	CampLocation      string     `json:"camp_location"`
	ReferredBy        *string    `json:"referred_by"`
	PatientName       string     `json:"patient_name"`
	Age               *int       `json:"age"`
	Gender            *string    `json:"gender"`
	TestDone          *string    `json:"test_done"`
	Package           *string    `json:"package"`
	DiagnosticPartner *string    `json:"diagnostic_partner"`
	PhoneNo           *string    `json:"phone_no"`
	Payment           string     `json:"payment"`
}

func campFromRequest(c echo.Context, req *campRequest) (*models.Camp, error) {
	if err := common.ValidateRequiredString(req.CampLocation, "camp_location"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.PatientName, "patient_name"); err != nil {
		return nil, err
	}
	date, err := common.ParseDate(req.CampDate, "camp_date")
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, errors.New("camp_date is required")
	}
	payment, err := common.ParseAmount(req.Payment, "payment")
	if err != nil {
		return nil, err
	}
	camp := &models.Camp{
		StaffID:           req.StaffID,
		CampLocation:      req.CampLocation,
		ReferredBy:        req.ReferredBy,
		PatientName:       req.PatientName,
		Age:               req.Age,
		Gender:            req.Gender,
		TestDone:          req.TestDone,
		Package:           req.Package,
		DiagnosticPartner: req.DiagnosticPartner,
		PhoneNo:           req.PhoneNo,
		Payment:           payment,
		CampDate:          *date,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		camp.UpdatedBy = &userID
	}
	return camp, nil
}

// CreateCamp handles POST /camps
func (h *CampHandlers) CreateCamp(c echo.Context) error {
	var req campRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	camp, err := campFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	camp.CreatedBy = camp.UpdatedBy
	if err := h.campService.Create(c.Request().Context(), camp); err != nil {
		if errors.Is(err, services.ErrCodeExhausted) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
		}
		return common.SendServerError(c, "Failed to create camp entry")
	}
	return c.JSON(http.StatusCreated, camp)
}

// GetCamp handles GET /camps/:id
func (h *CampHandlers) GetCamp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid camp id")
	}
	camp, err := h.campService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Camp entry")
		}
		return common.SendServerError(c, "Failed to load camp entry")
	}
	return c.JSON(http.StatusOK, camp)
}

// UpdateCamp handles PUT /camps/:id
func (h *CampHandlers) UpdateCamp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid camp id")
	}
	var req campRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	camp, err := campFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	camp.ID = id
	if err := h.campService.Update(c.Request().Context(), camp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Camp entry")
		}
		return common.SendServerError(c, "Failed to update camp entry")
	}
	return c.JSON(http.StatusOK, camp)
}

// DeleteCamp handles DELETE /camps/:id
func (h *CampHandlers) DeleteCamp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid camp id")
	}
	if err := h.campService.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete camp entry")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCamps handles GET /camps
func (h *CampHandlers) ListCamps(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	camps, err := h.campService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list camp entries")
	}
	return c.JSON(http.StatusOK, camps)
}

// ExportCamps handles GET /camps/export?from=...&to=... and streams a CSV.
func (h *CampHandlers) ExportCamps(c echo.Context) error {
	from, to, err := parseRangeParams(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	filename := fmt.Sprintf("camps-%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)
	return h.campService.ExportCSV(c.Request().Context(), from, to, c.Response())
}

// CollectionTotal handles GET /camps/collection-total?from=...&to=...
func (h *CampHandlers) CollectionTotal(c echo.Context) error {
	from, to, err := parseRangeParams(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	total, err := h.campService.CollectionTotal(c.Request().Context(), from, to)
	if err != nil {
		return common.SendServerError(c, "Failed to compute collection total")
	}
	return c.JSON(http.StatusOK, map[string]any{"from": from, "to": to, "total": total})
}
