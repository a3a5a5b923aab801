package handlers

import (
	"errors"
	"net/http"

	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

type FollowUpHandlers struct {
	followUpService services.FollowUpService
}

func NewFollowUpHandlers(followUpService services.FollowUpService) *FollowUpHandlers {
	return &FollowUpHandlers{followUpService: followUpService}
}

type followUpRequest struct {
	B2CLeadID      *string    `json:"b2c_lead_id"`
	B2BLeadID      *uuid.UUID `json:"b2b_lead_id"`
	FollowUpOn     string     `json:"follow_up_on"`
	Notes          *string    `json:"notes"`
	Outcome        string     `json:"outcome"`
	NextFollowUpOn string     `json:"next_follow_up_on"`
}

func followUpFromRequest(c echo.Context, req *followUpRequest) (*models.FollowUp, error) {
	followUpOn, err := common.ParseDate(req.FollowUpOn, "follow_up_on")
	if err != nil {
		return nil, err
	}
	nextOn, err := common.ParseDate(req.NextFollowUpOn, "next_follow_up_on")
	if err != nil {
		return nil, err
	}
	fu := &models.FollowUp{
		B2CLeadID:      req.B2CLeadID,
		B2BLeadID:      req.B2BLeadID,
		Notes:          req.Notes,
		Outcome:        req.Outcome,
		NextFollowUpOn: nextOn,
	}
	if followUpOn != nil {
		fu.FollowUpOn = *followUpOn
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		fu.OwnerID = userID
	}
	return fu, nil
}

// CreateFollowUp handles POST /follow-ups
func (h *FollowUpHandlers) CreateFollowUp(c echo.Context) error {
	var req followUpRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	fu, err := followUpFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.followUpService.Create(c.Request().Context(), fu); err != nil {
		return followUpServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, fu)
}

// UpdateFollowUp handles PUT /follow-ups/:id
func (h *FollowUpHandlers) UpdateFollowUp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid follow-up id")
	}
	var req followUpRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	fu, err := followUpFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	fu.ID = id
	if err := h.followUpService.Update(c.Request().Context(), fu); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Follow-up")
		}
		return followUpServiceError(c, err)
	}
	return c.JSON(http.StatusOK, fu)
}

// DeleteFollowUp handles DELETE /follow-ups/:id
func (h *FollowUpHandlers) DeleteFollowUp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid follow-up id")
	}
	if err := h.followUpService.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete follow-up")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFollowUps handles GET /follow-ups?b2c_lead_id=...|b2b_lead_id=...
func (h *FollowUpHandlers) ListFollowUps(c echo.Context) error {
	ctx := c.Request().Context()
	if enquiryID := c.QueryParam("b2c_lead_id"); enquiryID != "" {
		followUps, err := h.followUpService.ListForB2C(ctx, enquiryID)
		if err != nil {
			return common.SendServerError(c, "Failed to list follow-ups")
		}
		return c.JSON(http.StatusOK, followUps)
	}
	if leadIDStr := c.QueryParam("b2b_lead_id"); leadIDStr != "" {
		leadID, err := uuid.Parse(leadIDStr)
		if err != nil {
			return common.SendValidationError(c, "b2b_lead_id", "invalid lead id")
		}
		followUps, err := h.followUpService.ListForB2B(ctx, leadID)
		if err != nil {
			return common.SendServerError(c, "Failed to list follow-ups")
		}
		return c.JSON(http.StatusOK, followUps)
	}
	return common.SendValidationError(c, "lead", "b2c_lead_id or b2b_lead_id query parameter is required")
}

// DueToday handles GET /follow-ups/due-today
func (h *FollowUpHandlers) DueToday(c echo.Context) error {
	followUps, err := h.followUpService.DueToday(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list due follow-ups")
	}
	return c.JSON(http.StatusOK, followUps)
}

func followUpServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrFollowUpTarget),
		errors.Is(err, services.ErrInvalidOutcome):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return common.SendNotFoundError(c, "Lead")
	}
	return common.SendServerError(c, "Operation failed")
}
