package handlers

import (
	"errors"
	"net/http"

	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication and user management endpoints.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "email", "email and password are required")
	}

	tokens, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserInactive) {
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", err.Error(), nil))
		}
		return common.SendServerError(c, "Login failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tokens": tokens,
		"user": map[string]interface{}{
			"id":              user.ID,
			"email":           user.Email,
			"full_name":       user.FullName,
			"role":            user.Role,
			"allowed_modules": services.AllowedModules(user),
		},
	})
}

// Signup handles POST /auth/signup. The route is open: the very first
// account becomes an active ADMIN, which is the only way to bootstrap an
// empty deployment. Later signups get the requested role (VIEWER when
// omitted) and still need an admin to activate them.
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if len(req.Password) < 8 {
		return common.SendValidationError(c, "password", "must be at least 8 characters")
	}
	if req.Role == "" {
		req.Role = models.RoleViewer
	}

	user := &models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	}
	if err := h.authService.CreateUser(c.Request().Context(), user, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return common.SendClientError(c, "Email is already registered")
		case errors.Is(err, services.ErrUnknownRole):
			return common.SendValidationError(c, "role", "unknown role")
		}
		return common.SendServerError(c, "Signup failed")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
		"is_active": user.IsActive,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Invalid refresh token", nil))
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendServerError(c, "Logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Missing user context", nil))
	}
	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":              user.ID,
		"email":           user.Email,
		"full_name":       user.FullName,
		"role":            user.Role,
		"allowed_modules": services.AllowedModules(user),
		"last_login_at":   user.LastLoginAt,
	})
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Missing user context", nil))
	}
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if len(req.NewPassword) < 8 {
		return common.SendValidationError(c, "new_password", "must be at least 8 characters")
	}
	if err := h.authService.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.SendClientError(c, "Current password is incorrect")
		}
		return common.SendServerError(c, "Failed to change password")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateUser handles POST /users
func (h *AuthHandlers) CreateUser(c echo.Context) error {
	var req struct {
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		FullName    string  `json:"full_name"`
		Role        string  `json:"role"`
		Permissions *string `json:"permissions"`
		IsActive    bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if len(req.Password) < 8 {
		return common.SendValidationError(c, "password", "must be at least 8 characters")
	}

	user := &models.User{
		Email:       req.Email,
		FullName:    req.FullName,
		Role:        req.Role,
		Permissions: req.Permissions,
		IsActive:    req.IsActive,
	}
	if err := h.authService.CreateUser(c.Request().Context(), user, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return common.SendClientError(c, "Email is already registered")
		case errors.Is(err, services.ErrUnknownRole):
			return common.SendValidationError(c, "role", "unknown role")
		}
		return common.SendServerError(c, "Failed to create user")
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /users/:id
func (h *AuthHandlers) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid user id")
	}
	var req struct {
		Email       string  `json:"email"`
		FullName    string  `json:"full_name"`
		Role        string  `json:"role"`
		Permissions *string `json:"permissions"`
		IsActive    bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	user := &models.User{
		ID:          id,
		Email:       req.Email,
		FullName:    req.FullName,
		Role:        req.Role,
		Permissions: req.Permissions,
		IsActive:    req.IsActive,
	}
	if err := h.authService.UpdateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, services.ErrUnknownRole) {
			return common.SendValidationError(c, "role", "unknown role")
		}
		return common.SendServerError(c, "Failed to update user")
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /users
func (h *AuthHandlers) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}
