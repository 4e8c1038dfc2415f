package user

import (
	"context"
	"fmt"
	"strings"

	"organicstore-be/internal/apperr"
	"organicstore-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, fullName, email, password string) (string, User, error)
	Login(ctx context.Context, email, password string) (string, User, error)
	GetByID(ctx context.Context, id uint) (User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, fullName, email, password string) (string, User, error) {
	log := logger.FromCtx(ctx)

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || len(password) < 6 {
		return "", User{}, fmt.Errorf("%w: email and a password of at least 6 characters are required", apperr.ErrValidation)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", User{}, err
	}

	u, err := s.repo.Create(ctx, fullName, email, hashed, string(RoleUser))
	if err != nil {
		log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return "", User{}, err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return "", User{}, err
	}

	log.Info("register completed",
		zap.Uint("user_id", u.ID),
		zap.String("email", email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, User, error) {
	log := logger.FromCtx(ctx)

	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		log.Debug("email not found", zap.String("email", email))
		return "", User{}, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthenticated)
	}

	if !CheckPasswordHash(password, u.Password) {
		log.Debug("password mismatch", zap.Uint("user_id", u.ID))
		return "", User{}, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthenticated)
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return "", User{}, err
	}

	u.Password = ""
	return token, u, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (User, error) {
	return s.repo.FindByID(ctx, id)
}
