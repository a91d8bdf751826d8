package memory

import (
	"context"

	"schoolpass-board-service/internal/custom_errors"
)

type LikeRepository struct {
	store *Store
}

func NewLikeRepository(store *Store) *LikeRepository {
	return &LikeRepository{store: store}
}

func (l *LikeRepository) Add(ctx context.Context, postID, userID int64) error {
	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{postID: postID, userID: userID}
	if _, exists := s.likes[key]; exists {
		return custom_errors.ErrAlreadyLiked
	}
	s.likes[key] = struct{}{}
	return nil
}

func (l *LikeRepository) Remove(ctx context.Context, postID, userID int64) (bool, error) {
	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{postID: postID, userID: userID}
	if _, exists := s.likes[key]; !exists {
		return false, nil
	}
	delete(s.likes, key)
	return true, nil
}

func (l *LikeRepository) Exists(ctx context.Context, postID, userID int64) (bool, error) {
	s := l.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.likes[likeKey{postID: postID, userID: userID}]
	return exists, nil
}

func (l *LikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	s := l.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.likeCountLocked(postID), nil
}

func (l *LikeRepository) DeleteByPost(ctx context.Context, postID int64) error {
	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.likes {
		if key.postID == postID {
			delete(s.likes, key)
		}
	}
	return nil
}
