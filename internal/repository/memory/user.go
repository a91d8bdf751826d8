package memory

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/model"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (u *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, custom_errors.ErrUsernameExists
		}
	}

	newUser := &model.User{
		ID:        s.nextUserID,
		Username:  user.Username,
		Password:  user.Password,
		Nickname:  user.Nickname,
		Email:     user.Email,
		School:    user.School,
		Grade:     user.Grade,
		CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	s.nextUserID++
	s.users[newUser.ID] = newUser

	result := *newUser
	return &result, nil
}

func (u *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		s.log.Debug("User not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrUserNotFound
	}

	result := *user
	return &result, nil
}

func (u *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	s.log.Debug("User not found by username", slog.String("username", username))
	return nil, custom_errors.ErrUserNotFound
}
