package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"gorm.io/gorm"

	"github.com/teslo-shop/backend/internal/models"
	"github.com/teslo-shop/backend/internal/repo"
	"github.com/teslo-shop/backend/internal/tokens"
	"github.com/teslo-shop/backend/internal/transport"
	"github.com/teslo-shop/backend/pkg/hash"
)

type AuthService struct {
	Repo      *repo.GormRepo
	Log       *slog.Logger
	JWTSecret []byte
	TokenTTL  time.Duration
}

func NewAuthService(r *repo.GormRepo, l *slog.Logger, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{Repo: r, Log: l, JWTSecret: secret, TokenTTL: ttl}
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthResponse, error) {
	l := s.Log.With("svc", "auth.register")

	if req.Password == "" {
		return nil, fmt.Errorf("%w: password must not be empty", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, req.Email)
	}

	pwHash, err := hash.Password(req.Password)
	if err != nil {
		l.Error("hash error", "error", err)
		return nil, ErrInternal
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: pwHash,
		FullName:     req.FullName,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, classifyStoreError(l, err, fmt.Sprintf("email %q", req.Email))
	}

	return s.respondWithToken(l, &user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*transport.AuthResponse, error) {
	l := s.Log.With("svc", "auth.login")

	user, err := s.Repo.FindUserForLogin(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("store error", "error", err)
		return nil, ErrInternal
	}
	if !hash.Check(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.respondWithToken(l, user)
}

// Reissue mints a fresh token for an already-authenticated principal.
func (s *AuthService) Reissue(ctx context.Context, principal *models.User) (*transport.AuthResponse, error) {
	return s.respondWithToken(s.Log.With("svc", "auth.reissue"), principal)
}

func (s *AuthService) respondWithToken(l *slog.Logger, user *models.User) (*transport.AuthResponse, error) {
	token, err := tokens.Sign(user.ID.String(), s.TokenTTL, s.JWTSecret)
	if err != nil {
		l.Error("sign error", "error", err)
		return nil, ErrInternal
	}

	profile := *user
	profile.PasswordHash = ""

	return &transport.AuthResponse{User: profile, Token: token}, nil
}
