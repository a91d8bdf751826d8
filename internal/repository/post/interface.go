package post_repository

import (
	"context"

	"schoolpass-board-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	GetSummaryByID(ctx context.Context, id int64) (*model.PostSummary, error)
	GetByAuthor(ctx context.Context, authorID int64) ([]*model.PostSummary, error)
	List(ctx context.Context, filters model.PostFilters) ([]*model.PostSummary, error)
	ListRecent(ctx context.Context, limit int) ([]*model.PostSummary, error)
	ListTop(ctx context.Context, limit int) ([]*model.PostSummary, error)
	Update(ctx context.Context, id int64, update *model.PostUpdate) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*model.BoardStats, error)
}
