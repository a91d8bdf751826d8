package auth_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/model"
	user_repository "schoolpass-board-service/internal/repository/user"
)

type AuthService struct {
	userRepo user_repository.Repository
	log      *logger.Logger
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(userRepo user_repository.Repository, log *logger.Logger, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		log:      log,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, dto *model.RegisterDTO) (*model.User, error) {
	if dto.Password != dto.PasswordConfirm {
		s.log.Debug("Password confirmation mismatch", slog.String("username", dto.Username))
		return nil, custom_errors.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		Username: dto.Username,
		Password: string(hash),
		Nickname: dto.Nickname,
		Email:    dto.Email,
		School:   dto.School,
		Grade:    dto.Grade,
	})
	if err != nil {
		if errors.Is(err, custom_errors.ErrUsernameExists) {
			s.log.Debug("Username already taken", slog.String("username", dto.Username))
			return nil, custom_errors.ErrUsernameExists
		}
		s.log.Error("Failed to create user", slog.String("username", dto.Username), slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("User registered", slog.Int64("id", user.ID), slog.String("username", user.Username))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Login for unknown username", slog.String("username", username))
			return nil, "", custom_errors.ErrInvalidCredentials
		}
		s.log.Error("Failed to get user for login", slog.String("username", username), slog.String("error", err.Error()))
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Debug("Login with wrong password", slog.String("username", username))
		return nil, "", custom_errors.ErrInvalidCredentials
	}

	signed, err := GenerateToken(user, s.secret, s.tokenTTL)
	if err != nil {
		s.log.Error("Failed to sign token", slog.String("error", err.Error()))
		return nil, "", err
	}

	s.log.Info("User logged in", slog.Int64("id", user.ID), slog.String("username", user.Username))
	return user, signed, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("User not found", slog.Int64("id", id))
			return nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get user", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}
	return user, nil
}
