package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_inventory/internal/devapi/repo"
	"github.com/Skotchmaster/product_inventory/internal/hash"
	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/pkg/tokens"
)

const DefaultTokenTTL = time.Hour

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := check(in); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 400, "reason", "user already exist")
			return nil, ErrUserExists
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login returns a signed bearer token for valid credentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", in.Email)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := check(in); err != nil {
		return "", err
	}

	user, err := s.Repo.UserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "unknown email")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, in.Password) {
		l.Warn("login_failed", "status", 400, "reason", "wrong password")
		return "", ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	token, err := tokens.NewAccessToken(user.ID, user.Username, time.Now().Add(ttl), s.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate maps a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := tokens.AccessClaimsFromToken(token, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.Repo.UserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tokens.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
