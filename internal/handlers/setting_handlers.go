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

type SettingHandlers struct {
	settingService services.SettingService
}

func NewSettingHandlers(settingService services.SettingService) *SettingHandlers {
	return &SettingHandlers{settingService: settingService}
}

type settingRequest struct {
	Group     string `json:"group"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// CreateSetting handles POST /settings
func (h *SettingHandlers) CreateSetting(c echo.Context) error {
	var req settingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Group, "group"); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := common.ValidateRequiredString(req.Key, "key"); err != nil {
		return common.SendClientError(c, err.Error())
	}
	setting := &models.Setting{
		Group:     req.Group,
		Key:       req.Key,
		Value:     req.Value,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if req.IsActive != nil {
		setting.IsActive = *req.IsActive
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		setting.CreatedBy = &userID
		setting.UpdatedBy = &userID
	}
	if err := h.settingService.Create(c.Request().Context(), setting); err != nil {
		return common.SendServerError(c, "Failed to create setting")
	}
	return c.JSON(http.StatusCreated, setting)
}

// UpdateSetting handles PUT /settings/:id. Group and key are fixed once
// created; only value, order and active flag change.
func (h *SettingHandlers) UpdateSetting(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid setting id")
	}
	var req settingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	setting := &models.Setting{
		ID:        id,
		Value:     req.Value,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if req.IsActive != nil {
		setting.IsActive = *req.IsActive
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		setting.UpdatedBy = &userID
	}
	if err := h.settingService.Update(c.Request().Context(), setting); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Setting")
		}
		return common.SendServerError(c, "Failed to update setting")
	}
	return c.JSON(http.StatusOK, setting)
}

// DeleteSetting handles DELETE /settings/:id
func (h *SettingHandlers) DeleteSetting(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid setting id")
	}
	if err := h.settingService.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete setting")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSettings handles GET /settings?group=...
func (h *SettingHandlers) ListSettings(c echo.Context) error {
	group := c.QueryParam("group")
	if group == "" {
		return common.SendValidationError(c, "group", "group query parameter is required")
	}
	settings, err := h.settingService.ListByGroup(c.Request().Context(), group)
	if err != nil {
		return common.SendServerError(c, "Failed to list settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// ListGroups handles GET /settings/groups
func (h *SettingHandlers) ListGroups(c echo.Context) error {
	groups, err := h.settingService.ListGroups(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list setting groups")
	}
	return c.JSON(http.StatusOK, groups)
}
