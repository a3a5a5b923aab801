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

// ServiceHandlers handles the offered-services catalog endpoints.
type ServiceHandlers struct {
	catalogService services.CatalogService
}

func NewServiceHandlers(catalogService services.CatalogService) *ServiceHandlers {
	return &ServiceHandlers{catalogService: catalogService}
}

type serviceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func serviceFromRequest(c echo.Context, req *serviceRequest) (*models.Service, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	service := &models.Service{
		Name:        req.Name,
		Description: req.Description,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		service.UpdatedBy = &userID
	}
	return service, nil
}

// CreateService handles POST /services
func (h *ServiceHandlers) CreateService(c echo.Context) error {
	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	service, err := serviceFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	service.CreatedBy = service.UpdatedBy
	if err := h.catalogService.Create(c.Request().Context(), service); err != nil {
		if errors.Is(err, services.ErrServiceName) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to create service")
	}
	return c.JSON(http.StatusCreated, service)
}

// GetService handles GET /services/:id
func (h *ServiceHandlers) GetService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid service id")
	}
	service, err := h.catalogService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Service")
		}
		return common.SendServerError(c, "Failed to load service")
	}
	return c.JSON(http.StatusOK, service)
}

// UpdateService handles PUT /services/:id
func (h *ServiceHandlers) UpdateService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid service id")
	}
	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	service, err := serviceFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	service.ID = id
	if err := h.catalogService.Update(c.Request().Context(), service); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Service")
		}
		return common.SendServerError(c, "Failed to update service")
	}
	return c.JSON(http.StatusOK, service)
}

// ListServices handles GET /services
func (h *ServiceHandlers) ListServices(c echo.Context) error {
	list, err := h.catalogService.List(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list services")
	}
	return c.JSON(http.StatusOK, list)
}
