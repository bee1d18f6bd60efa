package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/types"
)

// ============================================
// Auth Service
// ============================================

// Claims are the JWT claims issued for a user: Subject is the user id and ID
// is a per-token id used for revocation.
type Claims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	IssueToken(userID string) (string, error)
	VerifyAndLoad(ctx context.Context, token string) (*repository.User, *Claims, error)
	Register(ctx context.Context, name, email, password string) (*repository.User, string, error)
	Login(ctx context.Context, email, password string) (*repository.User, string, error)
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error)
	Logout(ctx context.Context, claims *Claims) error
	HashPassword(password string) (string, error)
}

type AuthConfig struct {
	Secret     string
	Expiry     time.Duration
	BcryptCost int
}

type authService struct {
	cfg       AuthConfig
	userRepo  repository.UserRepository
	tokens    TokenStore
	dummyHash []byte
}

func NewAuthService(cfg AuthConfig, userRepo repository.UserRepository, tokens TokenStore) (AuthService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	// Used for the hash comparison when the email is unknown.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &authService{cfg: cfg, userRepo: userRepo, tokens: tokens, dummyHash: dummy}, nil
}

func (s *authService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperror.Wrap(err, apperror.KindUnauthenticated, "Token expired")
	default:
		return nil, apperror.Wrap(err, apperror.KindUnauthenticated, "Invalid token")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, apperror.Unauthenticated("Invalid token")
	}
	return claims, nil
}

func (s *authService) VerifyAndLoad(ctx context.Context, tokenString string) (*repository.User, *Claims, error) {
	if tokenString == "" {
		return nil, nil, apperror.Unauthenticated("Not authorized, no token")
	}
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.tokens.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, nil, apperror.Unauthenticated("Token has been revoked")
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, nil, apperror.Unauthenticated("User no longer exists")
		}
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*repository.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperror.Conflict("User already exists with this email")
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &repository.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     types.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", apperror.Wrap(err, apperror.KindConflict, "User already exists with this email")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*repository.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.Password)
	}
	if cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password)); cmpErr != nil || user == nil {
		return nil, "", apperror.InvalidCredentials("Invalid credentials")
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", notFound(err, "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return "", apperror.InvalidCredentials("Current password is incorrect")
	}

	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return "", notFound(err, "User not found")
	}
	return s.IssueToken(user.ID)
}

func (s *authService) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return nil
	}
	expiresAt := time.Now().Add(s.cfg.Expiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.tokens.RevokeToken(ctx, claims.ID, expiresAt)
}
