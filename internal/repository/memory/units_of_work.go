package memory

import (
	"context"

	comment_repository "schoolpass-board-service/internal/repository/comment"
	like_repository "schoolpass-board-service/internal/repository/like"
	post_repository "schoolpass-board-service/internal/repository/post"
	"schoolpass-board-service/internal/repository/postgres"
	tag_repository "schoolpass-board-service/internal/repository/tag"
)

// UnitOfWork hands out transactions over the shared store. Commit and
// Rollback are accepted but not replayed; mutations apply immediately, which
// is enough for exercising service flows.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (uow *UnitOfWork) Begin(ctx context.Context) (postgres.Transaction, error) {
	return &Transaction{store: uow.store}, nil
}

type Transaction struct {
	store *Store
}

func (t *Transaction) Commit(ctx context.Context) error   { return nil }
func (t *Transaction) Rollback(ctx context.Context) error { return nil }

func (t *Transaction) PostRepository() post_repository.Repository {
	return NewPostRepository(t.store)
}

func (t *Transaction) TagRepository() tag_repository.Repository {
	return NewTagRepository(t.store)
}

func (t *Transaction) CommentRepository() comment_repository.Repository {
	return NewCommentRepository(t.store)
}

func (t *Transaction) LikeRepository() like_repository.Repository {
	return NewLikeRepository(t.store)
}
