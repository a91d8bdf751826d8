package tag_repository

import (
	"context"

	"schoolpass-board-service/internal/model"
)

// Repository resolves curated tag names and maintains post-tag links. Tags are
// pre-seeded; names that resolve to no tag are skipped, never created.
type Repository interface {
	FindByNames(ctx context.Context, names []string) ([]*model.Tag, error)
	FindByPost(ctx context.Context, postID int64) ([]*model.Tag, error)
	All(ctx context.Context) ([]*model.Tag, error)
	LinkPost(ctx context.Context, postID int64, tagNames []string) error
	ClearPost(ctx context.Context, postID int64) error
}
