package memory

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/model"
)

type CommentRepository struct {
	store *Store
}

func NewCommentRepository(store *Store) *CommentRepository {
	return &CommentRepository{store: store}
}

func (c *CommentRepository) nicknameLocked(authorID int64) string {
	if author, ok := c.store.users[authorID]; ok {
		return author.Nickname
	}
	return ""
}

func (c *CommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	newComment := &model.Comment{
		ID:             s.nextCommentID,
		PostID:         comment.PostID,
		AuthorID:       comment.AuthorID,
		AuthorNickname: c.nicknameLocked(comment.AuthorID),
		Content:        comment.Content,
		CreatedAt:      pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	s.nextCommentID++
	s.comments[newComment.ID] = newComment

	result := *newComment
	return &result, nil
}

func (c *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, exists := s.comments[id]
	if !exists {
		s.log.Debug("Comment not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrCommentNotFound
	}

	result := *comment
	result.AuthorNickname = c.nicknameLocked(comment.AuthorID)
	return &result, nil
}

func (c *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []*model.Comment{}
	for _, comment := range s.comments {
		if comment.PostID != postID {
			continue
		}
		commentCopy := *comment
		commentCopy.AuthorNickname = c.nicknameLocked(comment.AuthorID)
		comments = append(comments, &commentCopy)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (c *CommentRepository) ListRecent(ctx context.Context, limit int) ([]*model.RecentComment, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := []*model.Comment{}
	for _, comment := range s.comments {
		all = append(all, comment)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if limit < len(all) {
		all = all[:limit]
	}

	recent := []*model.RecentComment{}
	for _, comment := range all {
		title := ""
		if post, ok := s.posts[comment.PostID]; ok {
			title = post.Title
		}
		recent = append(recent, &model.RecentComment{
			Content:        comment.Content,
			AuthorNickname: c.nicknameLocked(comment.AuthorID),
			PostID:         comment.PostID,
			PostTitle:      title,
			CreatedAt:      comment.CreatedAt,
		})
	}
	return recent, nil
}

func (c *CommentRepository) Delete(ctx context.Context, id int64) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.comments[id]; !exists {
		return custom_errors.ErrCommentNotFound
	}
	delete(s.comments, id)
	return nil
}

func (c *CommentRepository) DeleteByPost(ctx context.Context, postID int64) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, comment := range s.comments {
		if comment.PostID == postID {
			delete(s.comments, id)
		}
	}
	return nil
}
