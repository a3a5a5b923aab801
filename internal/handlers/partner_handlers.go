package handlers

import (
	"errors"
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

type PartnerHandlers struct {
	partnerService services.PartnerService
}

func NewPartnerHandlers(partnerService services.PartnerService) *PartnerHandlers {
	return &PartnerHandlers{partnerService: partnerService}
}

type partnerRequest struct {
	Name        string  `json:"name"`
	ContactNo   string  `json:"contact_no"`
	Email       *string `json:"email"`
	CreatedDate string  `json:"created_date"`
	Notes       *string `json:"notes"`
}

func partnerFromRequest(c echo.Context, req *partnerRequest) (*models.ChannelPartner, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.ContactNo, "contact_no"); err != nil {
		return nil, err
	}
	partner := &models.ChannelPartner{
		Name:        req.Name,
		ContactNo:   req.ContactNo,
		Email:       req.Email,
		Notes:       req.Notes,
		CreatedDate: time.Now(),
	}
	if req.CreatedDate != "" {
		d, err := common.ParseDate(req.CreatedDate, "created_date")
		if err != nil {
			return nil, err
		}
		partner.CreatedDate = *d
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		partner.UpdatedBy = &userID
	}
	return partner, nil
}

// CreatePartner handles POST /channel-partners
func (h *PartnerHandlers) CreatePartner(c echo.Context) error {
	var req partnerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	partner, err := partnerFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	partner.CreatedBy = partner.UpdatedBy
	if err := h.partnerService.Create(c.Request().Context(), partner); err != nil {
		if errors.Is(err, services.ErrCodeExhausted) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
		}
		return common.SendServerError(c, "Failed to create partner")
	}
	return c.JSON(http.StatusCreated, partner)
}

// GetPartner handles GET /channel-partners/:id
func (h *PartnerHandlers) GetPartner(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid partner id")
	}
	partner, err := h.partnerService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Channel partner")
		}
		return common.SendServerError(c, "Failed to load partner")
	}
	return c.JSON(http.StatusOK, partner)
}

// UpdatePartner handles PUT /channel-partners/:id
func (h *PartnerHandlers) UpdatePartner(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid partner id")
	}
	var req partnerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	partner, err := partnerFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	partner.ID = id
	if err := h.partnerService.Update(c.Request().Context(), partner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Channel partner")
		}
		return common.SendServerError(c, "Failed to update partner")
	}
	return c.JSON(http.StatusOK, partner)
}

// DeletePartner handles DELETE /channel-partners/:id. A partner with
// referred customers cannot be removed.
func (h *PartnerHandlers) DeletePartner(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid partner id")
	}
	if err := h.partnerService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrPartnerHasCustomers) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
		}
		return common.SendServerError(c, "Failed to delete partner")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPartners handles GET /channel-partners
func (h *PartnerHandlers) ListPartners(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	partners, err := h.partnerService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list partners")
	}
	return c.JSON(http.StatusOK, partners)
}
