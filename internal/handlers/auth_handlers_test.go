package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"caretrack/internal/models"
	"caretrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.TokenResponse, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.TokenResponse), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockAuthService) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.User), args.Error(1)
}

type AuthHandlersTestSuite struct {
	suite.Suite
	authService *MockAuthService
	echo        *echo.Echo
}

func (suite *AuthHandlersTestSuite) SetupTest() {
	suite.authService = new(MockAuthService)
	h := NewAuthHandlers(suite.authService)

	// Signup is registered without any auth middleware, like login.
	suite.echo = echo.New()
	suite.echo.POST("/v1/auth/signup", h.Signup)
}

func TestAuthHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlersTestSuite))
}

func (suite *AuthHandlersTestSuite) postSignup(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *AuthHandlersTestSuite) TestSignup_CreatesUserWithoutToken() {
	var got *models.User
	suite.authService.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User"), "longenough1").
		Run(func(args mock.Arguments) { got = args.Get(1).(*models.User) }).
		Return(nil)

	rec := suite.postSignup(`{"email":"owner@caretrack.in","password":"longenough1","full_name":"Owner"}`)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(suite.T(), "owner@caretrack.in", got.Email)
	assert.Equal(suite.T(), models.RoleViewer, got.Role)
}

func (suite *AuthHandlersTestSuite) TestSignup_RejectsShortPassword() {
	rec := suite.postSignup(`{"email":"owner@caretrack.in","password":"short"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	suite.authService.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthHandlersTestSuite) TestSignup_DuplicateEmail() {
	suite.authService.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User"), "longenough1").
		Return(services.ErrEmailTaken)

	rec := suite.postSignup(`{"email":"owner@caretrack.in","password":"longenough1"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "already registered")
}
