package like_repository

import "context"

// Repository stores per-user post likes. The (post_id, user_id) pair is
// unique at the store level; Add reports ErrAlreadyLiked when the pair
// already exists, which is how concurrent toggles are kept to one row.
type Repository interface {
	Add(ctx context.Context, postID, userID int64) error
	Remove(ctx context.Context, postID, userID int64) (bool, error)
	Exists(ctx context.Context, postID, userID int64) (bool, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
	DeleteByPost(ctx context.Context, postID int64) error
}
