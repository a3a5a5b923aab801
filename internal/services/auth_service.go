package services

import (
	"context"
	"errors"
	"time"

	"caretrack/internal/caching"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is disabled")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUnknownRole        = errors.New("unknown role")
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

var roles = []string{models.RoleAdmin, models.RoleSales, models.RoleOps, models.RoleFinance, models.RoleViewer}

// Claims carried in the access token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	CreateUser(ctx context.Context, user *models.User, password string) error
	UpdateUser(ctx context.Context, user *models.User) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	cache     caching.CacheService
	jwtSecret []byte
}

func NewAuthService(userRepo repositories.UserRepository, cache caching.CacheService, jwtSecret string) AuthService {
	return &authService{userRepo: userRepo, cache: cache, jwtSecret: []byte(jwtSecret)}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := s.userRepo.SetLastLogin(ctx, user.ID); err != nil {
		return nil, nil, err
	}
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	// Refresh tokens are opaque and live in Redis keyed by their value, so
	// logout and user deactivation can revoke them immediately.
	refresh := uuid.NewString()
	if err := s.cache.SetRefreshToken(ctx, refresh, user.ID.String(), refreshTokenTTL); err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	userID, err := s.cache.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrInvalidRefresh
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	// Rotate: the presented token is consumed.
	if err := s.cache.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.cache.DeleteRefreshToken(ctx, refreshToken)
}

// CreateUser registers an account. The very first user becomes an active
// ADMIN regardless of the requested role; there is no other bootstrap path.
func (s *authService) CreateUser(ctx context.Context, user *models.User, password string) error {
	if !validRole(user.Role) {
		return ErrUnknownRole
	}
	if existing, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return ErrEmailTaken
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		user.Role = models.RoleAdmin
		user.IsActive = true
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.ID = uuid.New()
	user.PasswordHash = string(hash)
	return s.userRepo.Create(ctx, user)
}

func (s *authService) UpdateUser(ctx context.Context, user *models.User) error {
	if !validRole(user.Role) {
		return ErrUnknownRole
	}
	existing, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	user.PasswordHash = existing.PasswordHash
	return s.userRepo.Update(ctx, user)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.userRepo.Update(ctx, user)
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *authService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func validRole(role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
