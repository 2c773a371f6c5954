package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"retailing/internal/config"
	"retailing/internal/dto"
	"retailing/internal/model"
	"retailing/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	bcryptCost = 12
)

// TokenClaims are the custom claims embedded in every token. They carry the
// user id only; supplier membership is resolved per request.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HS256 token and checks its type.
func ParseToken(secret, raw, wantType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: token invalid or expired", ErrInvalidCredentials)
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: %s token expected", ErrInvalidCredentials, wantType)
	}
	return claims, nil
}

// AuthService covers credentials and the user directory.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)

	Register(ctx context.Context, req dto.RegisterUserRequest) (*dto.UserResponse, error)
	CreateSuperuser(ctx context.Context, email, password string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, caller Caller) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, caller Caller, id uint) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, caller Caller, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, caller Caller, id uint) error
}

type authService struct {
	repo      repository.UserRepository
	suppliers repository.SupplierRepository
	cfg       *config.Config
}

func NewAuthService(repo repository.UserRepository, suppliers repository.SupplierRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, suppliers: suppliers, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: wrong email or password", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: wrong email or password", ErrInvalidCredentials)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", ErrInvalidCredentials)
	}
	return s.issue(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := ParseToken(s.cfg.JWTSecret, refreshToken, TokenRefresh)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, fmt.Errorf("%w: user not found or inactive", ErrInvalidCredentials)
	}
	return s.issue(ctx, user)
}

func (s *authService) issue(ctx context.Context, user *model.User) (*dto.LoginResponse, error) {
	access, err := s.generateToken(user, TokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	resp := &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}
	if rec, err := s.repo.FindCaller(ctx, user.ID); err == nil && rec.SupplierType != nil {
		resp.User.SupplierType = *rec.SupplierType
	}
	return resp, nil
}

func (s *authService) generateToken(user *model.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ── Users ────────────────────────────────────────────────────────────────────

// Register creates an active, unprivileged user with no employer.
func (s *authService) Register(ctx context.Context, req dto.RegisterUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}
	user := &model.User{
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		Phone:          req.Phone,
		PasswordHash:   string(hash),
		IsActive:       true,
		IsPersonalData: req.IsPersonalData,
		TgChatID:       req.TgChatID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, dbError(err, "user "+user.Email)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) CreateSuperuser(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: email and a password of at least 8 characters are required", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}
	email = strings.ToLower(email)
	user := &model.User{
		Username:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, dbError(err, "user "+email)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context, caller Caller) ([]dto.UserResponse, error) {
	if !caller.IsSuperuser {
		return nil, fmt.Errorf("%w: administrators only", ErrUnauthorized)
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, dbError(err, "users")
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) GetUser(ctx context.Context, caller Caller, id uint) (*dto.UserResponse, error) {
	if !caller.IsSuperuser && caller.UserID != id {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("user %d", id))
	}
	resp := userToResponse(user)
	return &resp, nil
}

// UpdateUser applies a partial update to the caller's own account.
func (s *authService) UpdateUser(ctx context.Context, caller Caller, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if caller.UserID != id {
		return nil, fmt.Errorf("%w: users may only edit themselves", ErrUnauthorized)
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("user %d", id))
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.IsPersonalData != nil {
		user.IsPersonalData = *req.IsPersonalData
	}
	if req.TgChatID != nil {
		user.TgChatID = req.TgChatID
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("%w: hash password: %w", ErrInternal, err)
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, dbError(err, fmt.Sprintf("user %d", id))
	}
	resp := userToResponse(user)
	return &resp, nil
}

// DeleteUser removes a user. The creator of a supplier cannot be removed.
func (s *authService) DeleteUser(ctx context.Context, caller Caller, id uint) error {
	if !caller.IsSuperuser {
		return fmt.Errorf("%w: administrators only", ErrUnauthorized)
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dbError(err, fmt.Sprintf("user %d", id))
	}
	n, err := s.suppliers.CountCreatedBy(ctx, id)
	if err != nil {
		return dbError(err, "suppliers")
	}
	if n > 0 {
		return fmt.Errorf("%w: user %d registered a supplier", ErrInUse, id)
	}
	return dbError(s.repo.Delete(ctx, id), fmt.Sprintf("user %d", id))
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Phone:          u.Phone,
		IsActive:       u.IsActive,
		IsSuperuser:    u.IsSuperuser,
		IsPersonalData: u.IsPersonalData,
		TgChatID:       u.TgChatID,
		SupplierID:     u.SupplierID,
	}
}
