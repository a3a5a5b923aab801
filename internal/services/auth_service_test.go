package services

import (
	"context"
	"testing"

	"caretrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) SetLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  AuthService
	ctx      context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = new(MockUserRepository)
	suite.service = NewAuthService(suite.userRepo, nil, "test-secret")
	suite.ctx = context.Background()
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestCreateUser_FirstUserBecomesAdmin() {
	user := &models.User{Email: "owner@caretrack.in", FullName: "Owner", Role: models.RoleViewer}

	suite.userRepo.On("GetByEmail", suite.ctx, user.Email).Return(nil, pgx.ErrNoRows)
	suite.userRepo.On("Count", suite.ctx).Return(0, nil)
	suite.userRepo.On("Create", suite.ctx, user).Return(nil)

	err := suite.service.CreateUser(suite.ctx, user, "s3cret-pass")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleAdmin, user.Role)
	assert.True(suite.T(), user.IsActive)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func (suite *AuthServiceTestSuite) TestCreateUser_LaterUsersKeepRequestedRole() {
	user := &models.User{Email: "staff@caretrack.in", Role: models.RoleSales}

	suite.userRepo.On("GetByEmail", suite.ctx, user.Email).Return(nil, pgx.ErrNoRows)
	suite.userRepo.On("Count", suite.ctx).Return(3, nil)
	suite.userRepo.On("Create", suite.ctx, user).Return(nil)

	err := suite.service.CreateUser(suite.ctx, user, "s3cret-pass")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleSales, user.Role)
	assert.False(suite.T(), user.IsActive)
}

func (suite *AuthServiceTestSuite) TestCreateUser_RejectsDuplicateEmail() {
	user := &models.User{Email: "owner@caretrack.in", Role: models.RoleViewer}

	suite.userRepo.On("GetByEmail", suite.ctx, user.Email).Return(&models.User{Email: user.Email}, nil)

	err := suite.service.CreateUser(suite.ctx, user, "s3cret-pass")
	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
	suite.userRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestCreateUser_RejectsUnknownRole() {
	user := &models.User{Email: "owner@caretrack.in", Role: "SUPERUSER"}

	err := suite.service.CreateUser(suite.ctx, user, "s3cret-pass")
	assert.ErrorIs(suite.T(), err, ErrUnknownRole)
}
