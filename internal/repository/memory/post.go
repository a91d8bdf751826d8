package memory

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/model"
)

type PostRepository struct {
	store *Store
}

func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{store: store}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}

	newPost := &model.Post{
		ID:               s.nextPostID,
		AuthorID:         post.AuthorID,
		Title:            post.Title,
		Content:          post.Content,
		Filename:         post.Filename,
		OriginalFilename: post.OriginalFilename,
		ImageFilename:    post.ImageFilename,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.nextPostID++
	s.posts[newPost.ID] = newPost

	result := *newPost
	return &result, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	s := p.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		s.log.Debug("Post not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	result := *post
	return &result, nil
}

func (p *PostRepository) GetSummaryByID(ctx context.Context, id int64) (*model.PostSummary, error) {
	s := p.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		s.log.Debug("Post not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	return s.summaryLocked(post), nil
}

func (p *PostRepository) GetByAuthor(ctx context.Context, authorID int64) ([]*model.PostSummary, error) {
	s := p.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []*model.PostSummary{}
	for _, post := range s.posts {
		if post.AuthorID == authorID {
			summaries = append(summaries, s.summaryLocked(post))
		}
	}
	sortSummaries(summaries, model.SortLatest)
	return summaries, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.PostSummary, error) {
	s := p.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []*model.PostSummary{}
	for _, post := range s.posts {
		if s.matchesLocked(post, filters) {
			summaries = append(summaries, s.summaryLocked(post))
		}
	}
	sortSummaries(summaries, filters.Sort)
	return summaries, nil
}

func (p *PostRepository) ListRecent(ctx context.Context, limit int) ([]*model.PostSummary, error) {
	return p.listSorted(model.SortLatest, limit)
}

func (p *PostRepository) ListTop(ctx context.Context, limit int) ([]*model.PostSummary, error) {
	return p.listSorted(model.SortViews, limit)
}

func (p *PostRepository) listSorted(sortBy string, limit int) ([]*model.PostSummary, error) {
	s := p.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []*model.PostSummary{}
	for _, post := range s.posts {
		summaries = append(summaries, s.summaryLocked(post))
	}
	sortSummaries(summaries, sortBy)
	if limit < len(summaries) {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (p *PostRepository) Update(ctx context.Context, id int64, update *model.PostUpdate) (*model.Post, error) {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		s.log.Debug("Post not found by id during Update", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Content != nil {
		post.Content = update.Content
	}
	post.Filename = update.Filename
	post.OriginalFilename = update.OriginalFilename
	post.ImageFilename = update.ImageFilename
	post.UpdatedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}

	result := *post
	return &result, nil
}

func (p *PostRepository) Delete(ctx context.Context, id int64) error {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return custom_errors.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (p *PostRepository) IncrementViews(ctx context.Context, id int64) error {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return custom_errors.ErrPostNotFound
	}
	post.Views++
	return nil
}

func (p *PostRepository) Stats(ctx context.Context) (*model.BoardStats, error) {
	s := p.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &model.BoardStats{
		TotalPosts:    int64(len(s.posts)),
		TotalComments: int64(len(s.comments)),
		TotalUsers:    int64(len(s.users)),
	}
	today := time.Now().Truncate(24 * time.Hour)
	for _, post := range s.posts {
		if !post.CreatedAt.Time.Before(today) {
			stats.TodayPosts++
		}
	}
	return stats, nil
}
