package comment_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	"schoolpass-board-service/internal/model"
	"schoolpass-board-service/internal/repository/postgres/db"
)

type CommentRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.MetricsProvider
}

func NewCommentRepository(db db.PgDB, log *logger.Logger, metrics metrics.MetricsProvider) *CommentRepository {
	return &CommentRepository{db: db, log: log, metrics: metrics}
}

func (c *CommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	start := time.Now()
	args := pgx.NamedArgs{
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
		"content":    comment.Content,
		"created_at": pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	query := `
		INSERT INTO comments (post_id, author_id, content, created_at)
		VALUES (@post_id, @author_id, @content, @created_at)
		RETURNING id, post_id, author_id, content, created_at`

	var created model.Comment
	err := c.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.PostID,
		&created.AuthorID,
		&created.Content,
		&created.CreatedAt,
	)
	c.metrics.IncrementDatabaseQueries("comment_create", err == nil)
	c.metrics.RecordDatabaseQueryDuration("comment_create", time.Since(start))
	if err != nil {
		c.log.Error("Error creating comment", slog.Int64("post_id", comment.PostID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	created.AuthorNickname = comment.AuthorNickname
	return &created, nil
}

func (c *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	start := time.Now()
	args := pgx.NamedArgs{"id": id}
	query := `SELECT cm.id, cm.post_id, cm.author_id, u.nickname, cm.content, cm.created_at
				FROM comments cm
				JOIN users u ON u.id = cm.author_id
				WHERE cm.id = @id`

	var comment model.Comment
	err := c.db.QueryRow(ctx, query, args).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.AuthorNickname,
		&comment.Content,
		&comment.CreatedAt,
	)
	c.metrics.IncrementDatabaseQueries("comment_get_by_id", err == nil)
	c.metrics.RecordDatabaseQueryDuration("comment_get_by_id", time.Since(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.log.Debug("Comment not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrCommentNotFound
		}
		c.log.Error("Error getting comment by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return &comment, nil
}

func (c *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID}
	query := `SELECT cm.id, cm.post_id, cm.author_id, u.nickname, cm.content, cm.created_at
				FROM comments cm
				JOIN users u ON u.id = cm.author_id
				WHERE cm.post_id = @post_id
				ORDER BY cm.created_at ASC, cm.id ASC`

	rows, err := c.db.Query(ctx, query, args)
	c.metrics.IncrementDatabaseQueries("comment_list_by_post", err == nil)
	c.metrics.RecordDatabaseQueryDuration("comment_list_by_post", time.Since(start))
	if err != nil {
		c.log.Error("Error listing comments by post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		var comment model.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.AuthorID,
			&comment.AuthorNickname,
			&comment.Content,
			&comment.CreatedAt,
		)
		if err != nil {
			c.log.Error("Error scanning comment", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		c.log.Error("Error iterating comment rows", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return comments, nil
}

func (c *CommentRepository) ListRecent(ctx context.Context, limit int) ([]*model.RecentComment, error) {
	start := time.Now()
	args := pgx.NamedArgs{"limit": limit}
	query := `SELECT cm.content, u.nickname, cm.post_id, p.title, cm.created_at
				FROM comments cm
				JOIN posts p ON p.id = cm.post_id
				JOIN users u ON u.id = cm.author_id
				ORDER BY cm.created_at DESC, cm.id DESC
				LIMIT @limit`

	rows, err := c.db.Query(ctx, query, args)
	c.metrics.IncrementDatabaseQueries("comment_list_recent", err == nil)
	c.metrics.RecordDatabaseQueryDuration("comment_list_recent", time.Since(start))
	if err != nil {
		c.log.Error("Error listing recent comments", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	comments := []*model.RecentComment{}
	for rows.Next() {
		var comment model.RecentComment
		err := rows.Scan(
			&comment.Content,
			&comment.AuthorNickname,
			&comment.PostID,
			&comment.PostTitle,
			&comment.CreatedAt,
		)
		if err != nil {
			c.log.Error("Error scanning recent comment", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		c.log.Error("Error iterating recent comment rows", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return comments, nil
}

func (c *CommentRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	args := pgx.NamedArgs{"id": id}
	query := `DELETE FROM comments WHERE id = @id`

	result, err := c.db.Exec(ctx, query, args)
	c.metrics.IncrementDatabaseQueries("comment_delete", err == nil)
	c.metrics.RecordDatabaseQueryDuration("comment_delete", time.Since(start))
	if err != nil {
		c.log.Error("Error deleting comment", slog.Int64("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		return custom_errors.ErrCommentNotFound
	}
	return nil
}

func (c *CommentRepository) DeleteByPost(ctx context.Context, postID int64) error {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID}
	query := `DELETE FROM comments WHERE post_id = @post_id`

	_, err := c.db.Exec(ctx, query, args)
	c.metrics.IncrementDatabaseQueries("comment_delete_by_post", err == nil)
	c.metrics.RecordDatabaseQueryDuration("comment_delete_by_post", time.Since(start))
	if err != nil {
		c.log.Error("Error deleting comments by post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}
