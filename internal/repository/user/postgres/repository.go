package user_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	"schoolpass-board-service/internal/model"
	"schoolpass-board-service/internal/repository/postgres/db"
)

const uniqueViolationCode = "23505"

type UserRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.MetricsProvider
}

func NewUserRepository(db db.PgDB, log *logger.Logger, metrics metrics.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (u *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()
	args := pgx.NamedArgs{
		"username":   user.Username,
		"password":   user.Password,
		"nickname":   user.Nickname,
		"email":      user.Email,
		"school":     user.School,
		"grade":      user.Grade,
		"created_at": pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	query := `
		INSERT INTO users (username, password, nickname, email, school, grade, created_at)
		VALUES (@username, @password, @nickname, @email, @school, @grade, @created_at)
		RETURNING id, username, password, nickname, email, school, grade, created_at`

	var created model.User
	err := u.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.Username,
		&created.Password,
		&created.Nickname,
		&created.Email,
		&created.School,
		&created.Grade,
		&created.CreatedAt,
	)
	u.metrics.IncrementDatabaseQueries("user_create", err == nil)
	u.metrics.RecordDatabaseQueryDuration("user_create", time.Since(start))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			u.log.Debug("Username already taken", slog.String("username", user.Username))
			return nil, custom_errors.ErrUsernameExists
		}
		u.log.Error("Error creating user", slog.String("username", user.Username), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return &created, nil
}

func (u *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	start := time.Now()
	args := pgx.NamedArgs{"id": id}
	query := `SELECT id, username, password, nickname, email, school, grade, created_at
				FROM users WHERE id = @id`

	var user model.User
	err := u.db.QueryRow(ctx, query, args).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Nickname,
		&user.Email,
		&user.School,
		&user.Grade,
		&user.CreatedAt,
	)
	u.metrics.IncrementDatabaseQueries("user_get_by_id", err == nil)
	u.metrics.RecordDatabaseQueryDuration("user_get_by_id", time.Since(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			u.log.Debug("User not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrUserNotFound
		}
		u.log.Error("Error getting user by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return &user, nil
}

func (u *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	start := time.Now()
	args := pgx.NamedArgs{"username": username}
	query := `SELECT id, username, password, nickname, email, school, grade, created_at
				FROM users WHERE username = @username`

	var user model.User
	err := u.db.QueryRow(ctx, query, args).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Nickname,
		&user.Email,
		&user.School,
		&user.Grade,
		&user.CreatedAt,
	)
	u.metrics.IncrementDatabaseQueries("user_get_by_username", err == nil)
	u.metrics.RecordDatabaseQueryDuration("user_get_by_username", time.Since(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			u.log.Debug("User not found by username", slog.String("username", username))
			return nil, custom_errors.ErrUserNotFound
		}
		u.log.Error("Error getting user by username", slog.String("username", username), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return &user, nil
}
