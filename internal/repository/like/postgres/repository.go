package like_repository_postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	"schoolpass-board-service/internal/repository/postgres/db"
)

type LikeRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.MetricsProvider
}

func NewLikeRepository(db db.PgDB, log *logger.Logger, metrics metrics.MetricsProvider) *LikeRepository {
	return &LikeRepository{db: db, log: log, metrics: metrics}
}

// Add inserts the like row. The unique (post_id, user_id) index makes the
// conflict path the arbiter for concurrent likes: the loser sees zero rows
// affected and gets ErrAlreadyLiked.
func (l *LikeRepository) Add(ctx context.Context, postID, userID int64) error {
	start := time.Now()
	args := pgx.NamedArgs{
		"post_id":    postID,
		"user_id":    userID,
		"created_at": pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	query := `INSERT INTO likes (post_id, user_id, created_at)
				VALUES (@post_id, @user_id, @created_at)
				ON CONFLICT (post_id, user_id) DO NOTHING`

	result, err := l.db.Exec(ctx, query, args)
	l.metrics.IncrementDatabaseQueries("like_add", err == nil)
	l.metrics.RecordDatabaseQueryDuration("like_add", time.Since(start))
	if err != nil {
		l.log.Error("Error adding like", slog.Int64("post_id", postID), slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		return custom_errors.ErrAlreadyLiked
	}
	return nil
}

func (l *LikeRepository) Remove(ctx context.Context, postID, userID int64) (bool, error) {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID, "user_id": userID}
	query := `DELETE FROM likes WHERE post_id = @post_id AND user_id = @user_id`

	result, err := l.db.Exec(ctx, query, args)
	l.metrics.IncrementDatabaseQueries("like_remove", err == nil)
	l.metrics.RecordDatabaseQueryDuration("like_remove", time.Since(start))
	if err != nil {
		l.log.Error("Error removing like", slog.Int64("post_id", postID), slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}
	return result.RowsAffected() > 0, nil
}

func (l *LikeRepository) Exists(ctx context.Context, postID, userID int64) (bool, error) {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID, "user_id": userID}
	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE post_id = @post_id AND user_id = @user_id)`

	var exists bool
	err := l.db.QueryRow(ctx, query, args).Scan(&exists)
	l.metrics.IncrementDatabaseQueries("like_exists", err == nil)
	l.metrics.RecordDatabaseQueryDuration("like_exists", time.Since(start))
	if err != nil {
		l.log.Error("Error checking like existence", slog.Int64("post_id", postID), slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}
	return exists, nil
}

func (l *LikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID}
	query := `SELECT COUNT(*) FROM likes WHERE post_id = @post_id`

	var count int64
	err := l.db.QueryRow(ctx, query, args).Scan(&count)
	l.metrics.IncrementDatabaseQueries("like_count_by_post", err == nil)
	l.metrics.RecordDatabaseQueryDuration("like_count_by_post", time.Since(start))
	if err != nil {
		l.log.Error("Error counting likes by post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}
	return count, nil
}

func (l *LikeRepository) DeleteByPost(ctx context.Context, postID int64) error {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID}
	query := `DELETE FROM likes WHERE post_id = @post_id`

	_, err := l.db.Exec(ctx, query, args)
	l.metrics.IncrementDatabaseQueries("like_delete_by_post", err == nil)
	l.metrics.RecordDatabaseQueryDuration("like_delete_by_post", time.Since(start))
	if err != nil {
		l.log.Error("Error deleting likes by post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}
