package board_service

import (
	"context"

	"schoolpass-board-service/internal/model"
)

// Service is the board workflow layer: listing and reading posts with their
// derived counts, and the mutations that keep posts, tags, comments and likes
// consistent with each other.
type Service interface {
	ListPosts(ctx context.Context, filters model.PostFilters) ([]*model.PostSummary, error)
	GetPost(ctx context.Context, id int64, viewerID *int64) (*model.PostDetailed, error)
	GetPostsByAuthor(ctx context.Context, authorID int64) ([]*model.PostSummary, error)
	CreatePost(ctx context.Context, dto *model.CreatePostDTO) (*model.PostSummary, error)
	UpdatePost(ctx context.Context, id, userID int64, dto *model.UpdatePostDTO) (*model.PostSummary, error)
	DeletePost(ctx context.Context, id, userID int64) error

	AddComment(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID int64) error

	ToggleLike(ctx context.Context, postID, userID int64) (*model.LikeStatus, error)

	Overview(ctx context.Context) (*model.BoardOverview, error)
	AllTags(ctx context.Context) ([]*model.Tag, error)
}
