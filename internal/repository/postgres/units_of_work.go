package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	comment_repository "schoolpass-board-service/internal/repository/comment"
	comment_repository_postgres "schoolpass-board-service/internal/repository/comment/postgres"
	like_repository "schoolpass-board-service/internal/repository/like"
	like_repository_postgres "schoolpass-board-service/internal/repository/like/postgres"
	post_repository "schoolpass-board-service/internal/repository/post"
	post_repository_postgres "schoolpass-board-service/internal/repository/post/postgres"
	tag_repository "schoolpass-board-service/internal/repository/tag"
	tag_repository_postgres "schoolpass-board-service/internal/repository/tag/postgres"
)

type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

type Transaction interface {
	PostRepository() post_repository.Repository
	TagRepository() tag_repository.Repository
	CommentRepository() comment_repository.Repository
	LikeRepository() like_repository.Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type PostgresUnitOfWork struct {
	pool    *pgxpool.Pool
	log     *logger.Logger
	metrics metrics.MetricsProvider
}

func NewPostgresUOW(pool *pgxpool.Pool, log *logger.Logger, metrics metrics.MetricsProvider) UnitOfWork {
	return &PostgresUnitOfWork{pool: pool, log: log, metrics: metrics}
}

func (uow *PostgresUnitOfWork) Begin(ctx context.Context) (Transaction, error) {
	tx, err := uow.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return &PostgresTransaction{tx: tx, log: uow.log, metrics: uow.metrics}, nil
}

type PostgresTransaction struct {
	tx      pgx.Tx
	log     *logger.Logger
	metrics metrics.MetricsProvider
}

func (t *PostgresTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *PostgresTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *PostgresTransaction) PostRepository() post_repository.Repository {
	return post_repository_postgres.NewPostRepository(t.tx, t.log, t.metrics)
}

func (t *PostgresTransaction) TagRepository() tag_repository.Repository {
	return tag_repository_postgres.NewTagRepository(t.tx, t.log, t.metrics)
}

func (t *PostgresTransaction) CommentRepository() comment_repository.Repository {
	return comment_repository_postgres.NewCommentRepository(t.tx, t.log, t.metrics)
}

func (t *PostgresTransaction) LikeRepository() like_repository.Repository {
	return like_repository_postgres.NewLikeRepository(t.tx, t.log, t.metrics)
}
