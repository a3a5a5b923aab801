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

// LeadHandlers handles B2C and B2B lead endpoints, including CSV
// import/export.
type LeadHandlers struct {
	leadService     services.LeadService
	customerService services.CustomerService
}

func NewLeadHandlers(leadService services.LeadService, customerService services.CustomerService) *LeadHandlers {
	return &LeadHandlers{leadService: leadService, customerService: customerService}
}

type b2cLeadRequest struct {
	CustomerName string  `json:"customer_name"`
	ContactNo    string  `json:"contact_no"`
	Email        *string `json:"email"`
	EnquiryDate  string  `json:"enquiry_date"`
	Source       *string `json:"source"`
	Services     *string `json:"services"`
	ReferredBy   *string `json:"referred_by"`
	Status       string  `json:"status"`
	Comment      *string `json:"comment"`
}

func (h *LeadHandlers) b2cFromRequest(c echo.Context, req *b2cLeadRequest) (*models.B2CLead, error) {
	if err := common.ValidateRequiredString(req.CustomerName, "customer_name"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.ContactNo, "contact_no"); err != nil {
		return nil, err
	}
	lead := &models.B2CLead{
		CustomerName: req.CustomerName,
		ContactNo:    req.ContactNo,
		Email:        req.Email,
		EnquiryDate:  time.Now(),
		Source:       req.Source,
		Services:     req.Services,
		ReferredBy:   req.ReferredBy,
		Status:       req.Status,
		Comment:      req.Comment,
	}
	if d, err := common.ParseDate(req.EnquiryDate, "enquiry_date"); err != nil {
		return nil, err
	} else if d != nil {
		lead.EnquiryDate = *d
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		lead.UpdatedBy = &userID
	}
	return lead, nil
}

// CreateB2CLead handles POST /leads/b2c
func (h *LeadHandlers) CreateB2CLead(c echo.Context) error {
	var req b2cLeadRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	lead, err := h.b2cFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	lead.CreatedBy = lead.UpdatedBy
	if err := h.leadService.CreateB2C(c.Request().Context(), lead); err != nil {
		return leadServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, lead)
}

// GetB2CLead handles GET /leads/b2c/:id
func (h *LeadHandlers) GetB2CLead(c echo.Context) error {
	lead, err := h.leadService.GetB2C(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		return common.SendServerError(c, "Failed to load lead")
	}
	return c.JSON(http.StatusOK, lead)
}

// UpdateB2CLead handles PUT /leads/b2c/:id
func (h *LeadHandlers) UpdateB2CLead(c echo.Context) error {
	var req b2cLeadRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	lead, err := h.b2cFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	lead.EnquiryID = c.Param("id")
	if err := h.leadService.UpdateB2C(c.Request().Context(), lead); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		return leadServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// DeleteB2CLead handles DELETE /leads/b2c/:id
func (h *LeadHandlers) DeleteB2CLead(c echo.Context) error {
	if err := h.leadService.DeleteB2C(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		if errors.Is(err, services.ErrLeadConverted) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
		}
		return common.SendServerError(c, "Failed to delete lead")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListB2CLeads handles GET /leads/b2c
func (h *LeadHandlers) ListB2CLeads(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	leads, err := h.leadService.ListB2C(c.Request().Context(), c.QueryParam("status"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list leads")
	}
	return c.JSON(http.StatusOK, leads)
}

// ConvertB2CLead handles POST /leads/b2c/:id/convert
func (h *LeadHandlers) ConvertB2CLead(c echo.Context) error {
	ctx := c.Request().Context()
	var actorID *uuid.UUID
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		actorID = &userID
	}
	customer, err := h.customerService.ConvertFromB2CLead(ctx, c.Param("id"), actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		return common.SendServerError(c, "Failed to convert lead")
	}
	return c.JSON(http.StatusCreated, customer)
}

// ImportB2CLeads handles POST /leads/b2c/import with a multipart CSV file.
func (h *LeadHandlers) ImportB2CLeads(c echo.Context) error {
	ctx := c.Request().Context()
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "csv file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer file.Close()

	var actorID *uuid.UUID
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		actorID = &userID
	}
	result, err := h.leadService.ImportB2CCSV(ctx, file, actorID)
	if err != nil {
		if errors.Is(err, services.ErrMissingColumns) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendServerError(c, "Import failed")
	}
	return c.JSON(http.StatusOK, result)
}

// ExportB2CLeads handles GET /leads/b2c/export
func (h *LeadHandlers) ExportB2CLeads(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="b2c-leads-%s.csv"`, time.Now().Format("2006-01-02")))
	c.Response().WriteHeader(http.StatusOK)
	return h.leadService.ExportB2CCSV(c.Request().Context(), c.Response())
}

type b2bLeadRequest struct {
	Spoc                 *string `json:"spoc"`
	Date                 string  `json:"date"`
	OrganizationName     string  `json:"organization_name"`
	OrganizationEmail    *string `json:"organization_email"`
	Location             *string `json:"location"`
	TypeOfLeads          *string `json:"type_of_leads"`
	OrgPocNameAndRole    *string `json:"org_poc_name_and_role"`
	EmployeeSize         *string `json:"employee_size"`
	WellnessProgram      *string `json:"employee_wellness_program"`
	WellnessBudget       *string `json:"budget_of_wellness_program"`
	LastWellnessActivity *string `json:"last_wellness_activity_done"`
	Status               string  `json:"status"`
}

func (h *LeadHandlers) b2bFromRequest(c echo.Context, req *b2bLeadRequest) (*models.B2BLead, error) {
	if err := common.ValidateRequiredString(req.OrganizationName, "organization_name"); err != nil {
		return nil, err
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	lead := &models.B2BLead{
		Spoc:                 req.Spoc,
		Date:                 date,
		OrganizationName:     req.OrganizationName,
		OrganizationEmail:    req.OrganizationEmail,
		Location:             req.Location,
		TypeOfLeads:          req.TypeOfLeads,
		OrgPocNameAndRole:    req.OrgPocNameAndRole,
		EmployeeSize:         req.EmployeeSize,
		WellnessProgram:      req.WellnessProgram,
		WellnessBudget:       req.WellnessBudget,
		LastWellnessActivity: req.LastWellnessActivity,
		Status:               req.Status,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		lead.UpdatedBy = &userID
	}
	return lead, nil
}

// CreateB2BLead handles POST /leads/b2b
func (h *LeadHandlers) CreateB2BLead(c echo.Context) error {
	var req b2bLeadRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	lead, err := h.b2bFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	lead.CreatedBy = lead.UpdatedBy
	if err := h.leadService.CreateB2B(c.Request().Context(), lead); err != nil {
		return leadServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, lead)
}

// GetB2BLead handles GET /leads/b2b/:id
func (h *LeadHandlers) GetB2BLead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid lead id")
	}
	lead, err := h.leadService.GetB2B(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		return common.SendServerError(c, "Failed to load lead")
	}
	return c.JSON(http.StatusOK, lead)
}

// UpdateB2BLead handles PUT /leads/b2b/:id
func (h *LeadHandlers) UpdateB2BLead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid lead id")
	}
	var req b2bLeadRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	lead, err := h.b2bFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	lead.ID = id
	if err := h.leadService.UpdateB2B(c.Request().Context(), lead); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		return leadServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// DeleteB2BLead handles DELETE /leads/b2b/:id
func (h *LeadHandlers) DeleteB2BLead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid lead id")
	}
	if err := h.leadService.DeleteB2B(c.Request().Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		if errors.Is(err, services.ErrLeadConverted) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
		}
		return common.SendServerError(c, "Failed to delete lead")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListB2BLeads handles GET /leads/b2b
func (h *LeadHandlers) ListB2BLeads(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	leads, err := h.leadService.ListB2B(c.Request().Context(), c.QueryParam("status"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list leads")
	}
	return c.JSON(http.StatusOK, leads)
}

// ExportB2BLeads handles GET /leads/b2b/export
func (h *LeadHandlers) ExportB2BLeads(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="b2b-leads-%s.csv"`, time.Now().Format("2006-01-02")))
	c.Response().WriteHeader(http.StatusOK)
	return h.leadService.ExportB2BCSV(c.Request().Context(), c.Response())
}

func leadServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		return common.SendValidationError(c, "status", err.Error())
	case errors.Is(err, services.ErrCodeExhausted):
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
	}
	return common.SendServerError(c, "Operation failed")
}
