package board_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	"schoolpass-board-service/internal/model"
	comment_repository "schoolpass-board-service/internal/repository/comment"
	like_repository "schoolpass-board-service/internal/repository/like"
	post_repository "schoolpass-board-service/internal/repository/post"
	"schoolpass-board-service/internal/repository/postgres"
	tag_repository "schoolpass-board-service/internal/repository/tag"
	"schoolpass-board-service/internal/storage"
)

const (
	overviewRecentPosts    = 4
	overviewTopPosts       = 5
	overviewRecentComments = 5
)

type BoardService struct {
	postRepo    post_repository.Repository
	tagRepo     tag_repository.Repository
	commentRepo comment_repository.Repository
	likeRepo    like_repository.Repository
	uow         postgres.UnitOfWork
	files       storage.FileStorage
	log         *logger.Logger
	metrics     metrics.MetricsProvider
}

func NewBoardService(
	postRepo post_repository.Repository,
	tagRepo tag_repository.Repository,
	commentRepo comment_repository.Repository,
	likeRepo like_repository.Repository,
	uow postgres.UnitOfWork,
	files storage.FileStorage,
	log *logger.Logger,
	metrics metrics.MetricsProvider,
) *BoardService {
	return &BoardService{
		postRepo:    postRepo,
		tagRepo:     tagRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		uow:         uow,
		files:       files,
		log:         log,
		metrics:     metrics,
	}
}

func (s *BoardService) rollbackUnlessCommitted(ctx context.Context, tx postgres.Transaction, committed *bool) {
	if *committed || tx == nil {
		return
	}
	if err := tx.Rollback(ctx); err != nil {
		if strings.Contains(err.Error(), "tx is closed") {
			s.log.Debug("Transaction already closed during rollback", slog.String("error", err.Error()))
			return
		}
		s.log.Error("Failed to rollback transaction", slog.String("error", err.Error()))
	}
}

func (s *BoardService) ListPosts(ctx context.Context, filters model.PostFilters) ([]*model.PostSummary, error) {
	posts, err := s.postRepo.List(ctx, filters)
	s.metrics.IncrementPostOperations("list", err == nil)
	if err != nil {
		s.log.Error("Failed to list posts",
			slog.String("tag", filters.Tag),
			slog.String("sort", filters.Sort),
			slog.String("error", err.Error()))
		return nil, err
	}
	return posts, nil
}

// GetPost assembles the detail view. The view counter bump runs detached so a
// failed increment never costs the reader the page; the count the reader sees
// is the value before their own visit.
func (s *BoardService) GetPost(ctx context.Context, id int64, viewerID *int64) (*model.PostDetailed, error) {
	summary, err := s.postRepo.GetSummaryByID(ctx, id)
	if err != nil {
		s.metrics.IncrementPostOperations("get", false)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		s.metrics.IncrementPostOperations("get", false)
		s.log.Error("Failed to list comments for post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}

	viewerLiked := false
	if viewerID != nil {
		viewerLiked, err = s.likeRepo.Exists(ctx, id, *viewerID)
		if err != nil {
			s.metrics.IncrementPostOperations("get", false)
			s.log.Error("Failed to check viewer like", slog.Int64("id", id), slog.String("error", err.Error()))
			return nil, err
		}
	}

	go func() {
		if err := s.postRepo.IncrementViews(context.Background(), id); err != nil {
			s.log.Error("Failed to increment post views", slog.Int64("id", id), slog.String("error", err.Error()))
		}
	}()

	s.metrics.IncrementPostOperations("get", true)
	return &model.PostDetailed{
		Post:        summary,
		Comments:    comments,
		LikeCount:   summary.LikeCount,
		ViewerLiked: viewerLiked,
	}, nil
}

func (s *BoardService) GetPostsByAuthor(ctx context.Context, authorID int64) ([]*model.PostSummary, error) {
	posts, err := s.postRepo.GetByAuthor(ctx, authorID)
	s.metrics.IncrementPostOperations("list_by_author", err == nil)
	if err != nil {
		s.log.Error("Failed to list posts by author", slog.Int64("author_id", authorID), slog.String("error", err.Error()))
		return nil, err
	}
	return posts, nil
}

func (s *BoardService) CreatePost(ctx context.Context, dto *model.CreatePostDTO) (result *model.PostSummary, err error) {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.metrics.IncrementPostOperations("create", false)
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer s.rollbackUnlessCommitted(ctx, tx, &txCommitted)

	createdPost, err := tx.PostRepository().Create(ctx, &model.Post{
		AuthorID:         dto.AuthorID,
		Title:            dto.Title,
		Content:          dto.Content,
		Filename:         dto.Filename,
		OriginalFilename: dto.OriginalFilename,
		ImageFilename:    dto.ImageFilename,
	})
	if err != nil {
		s.metrics.IncrementPostOperations("create", false)
		s.log.Error("Failed to create post", slog.String("error", err.Error()))
		return nil, err
	}

	if len(dto.Tags) > 0 {
		if err = tx.TagRepository().LinkPost(ctx, createdPost.ID, dto.Tags); err != nil {
			s.metrics.IncrementTagOperations("link", false)
			s.metrics.IncrementPostOperations("create", false)
			s.log.Error("Failed to link tags to post", slog.Int64("post_id", createdPost.ID), slog.String("error", err.Error()))
			return nil, err
		}
		s.metrics.IncrementTagOperations("link", true)
	}

	if err = tx.Commit(ctx); err != nil {
		s.metrics.IncrementPostOperations("create", false)
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	summary, err := s.postRepo.GetSummaryByID(ctx, createdPost.ID)
	if err != nil {
		s.metrics.IncrementPostOperations("create", false)
		s.log.Error("Failed to load created post", slog.Int64("id", createdPost.ID), slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.IncrementPostOperations("create", true)
	s.log.Info("Post created",
		slog.Int64("id", createdPost.ID),
		slog.Int64("author_id", dto.AuthorID),
		slog.Int("tags", len(dto.Tags)))
	return summary, nil
}

// resolveFileSlots applies the edit rules to the stored file columns: keep
// the current value, null it when the delete flag is set, and let a new
// upload override either outcome.
func resolveFileSlots(post *model.Post, dto *model.UpdatePostDTO) *model.PostUpdate {
	update := &model.PostUpdate{
		Title:            dto.Title,
		Content:          dto.Content,
		Filename:         post.Filename,
		OriginalFilename: post.OriginalFilename,
		ImageFilename:    post.ImageFilename,
	}
	if dto.DeleteFile {
		update.Filename = nil
		update.OriginalFilename = nil
	}
	if dto.DeleteImage {
		update.ImageFilename = nil
	}
	if dto.NewFilename != nil {
		update.Filename = dto.NewFilename
		update.OriginalFilename = dto.NewOriginalFilename
	}
	if dto.NewImageFilename != nil {
		update.ImageFilename = dto.NewImageFilename
	}
	return update
}

func (s *BoardService) UpdatePost(ctx context.Context, id, userID int64, dto *model.UpdatePostDTO) (result *model.PostSummary, err error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		s.metrics.IncrementPostOperations("update", false)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post for update", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}
	if post.AuthorID != userID {
		s.metrics.IncrementPostOperations("update", false)
		s.log.Debug("Post update forbidden",
			slog.Int64("id", id),
			slog.Int64("author_id", post.AuthorID),
			slog.Int64("user_id", userID))
		return nil, custom_errors.ErrForbidden
	}

	update := resolveFileSlots(post, dto)

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.metrics.IncrementPostOperations("update", false)
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer s.rollbackUnlessCommitted(ctx, tx, &txCommitted)

	if _, err = tx.PostRepository().Update(ctx, id, update); err != nil {
		s.metrics.IncrementPostOperations("update", false)
		s.log.Error("Failed to update post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}

	// Tags always replace the full set.
	if err = tx.TagRepository().ClearPost(ctx, id); err != nil {
		s.metrics.IncrementTagOperations("clear", false)
		s.metrics.IncrementPostOperations("update", false)
		s.log.Error("Failed to clear post tags", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}
	if len(dto.Tags) > 0 {
		if err = tx.TagRepository().LinkPost(ctx, id, dto.Tags); err != nil {
			s.metrics.IncrementTagOperations("link", false)
			s.metrics.IncrementPostOperations("update", false)
			s.log.Error("Failed to link tags to post", slog.Int64("id", id), slog.String("error", err.Error()))
			return nil, err
		}
	}
	s.metrics.IncrementTagOperations("replace", true)

	if err = tx.Commit(ctx); err != nil {
		s.metrics.IncrementPostOperations("update", false)
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.removeReplacedFiles(post, update)

	summary, err := s.postRepo.GetSummaryByID(ctx, id)
	if err != nil {
		s.metrics.IncrementPostOperations("update", false)
		s.log.Error("Failed to load updated post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.IncrementPostOperations("update", true)
	s.log.Info("Post updated", slog.Int64("id", id), slog.Int64("user_id", userID))
	return summary, nil
}

// removeReplacedFiles cleans up stored uploads whose slot no longer points at
// them. Runs after commit; failures are logged only.
func (s *BoardService) removeReplacedFiles(old *model.Post, update *model.PostUpdate) {
	s.removeObsoleteFile(old.Filename, update.Filename)
	s.removeObsoleteFile(old.ImageFilename, update.ImageFilename)
}

func (s *BoardService) removeObsoleteFile(old, current *string) {
	if old == nil {
		return
	}
	if current != nil && *current == *old {
		return
	}
	if err := s.files.Remove(*old); err != nil {
		s.log.Error("Failed to remove stored file", slog.String("file", *old), slog.String("error", err.Error()))
	}
}

func (s *BoardService) DeletePost(ctx context.Context, id, userID int64) (err error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		s.metrics.IncrementPostOperations("delete", false)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for delete", slog.Int64("id", id))
			return custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post for delete", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}
	if post.AuthorID != userID {
		s.metrics.IncrementPostOperations("delete", false)
		s.log.Debug("Post delete forbidden",
			slog.Int64("id", id),
			slog.Int64("author_id", post.AuthorID),
			slog.Int64("user_id", userID))
		return custom_errors.ErrForbidden
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.metrics.IncrementPostOperations("delete", false)
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer s.rollbackUnlessCommitted(ctx, tx, &txCommitted)

	// Children go first so the post row never outlives them mid-transaction.
	if err = tx.TagRepository().ClearPost(ctx, id); err != nil {
		s.metrics.IncrementPostOperations("delete", false)
		s.log.Error("Failed to clear post tags", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}
	if err = tx.CommentRepository().DeleteByPost(ctx, id); err != nil {
		s.metrics.IncrementPostOperations("delete", false)
		s.log.Error("Failed to delete post comments", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}
	if err = tx.LikeRepository().DeleteByPost(ctx, id); err != nil {
		s.metrics.IncrementPostOperations("delete", false)
		s.log.Error("Failed to delete post likes", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}
	if err = tx.PostRepository().Delete(ctx, id); err != nil {
		s.metrics.IncrementPostOperations("delete", false)
		s.log.Error("Failed to delete post", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.metrics.IncrementPostOperations("delete", false)
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.removeObsoleteFile(post.Filename, nil)
	s.removeObsoleteFile(post.ImageFilename, nil)

	s.metrics.IncrementPostOperations("delete", true)
	s.log.Info("Post deleted", slog.Int64("id", id), slog.Int64("user_id", userID))
	return nil
}

func (s *BoardService) AddComment(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		s.metrics.IncrementCommentOperations("create", false)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for comment", slog.Int64("post_id", postID))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post for comment", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, err
	}

	comment, err := s.commentRepo.Create(ctx, &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	})
	s.metrics.IncrementCommentOperations("create", err == nil)
	if err != nil {
		s.log.Error("Failed to create comment", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("Comment created", slog.Int64("id", comment.ID), slog.Int64("post_id", postID))
	return comment, nil
}

func (s *BoardService) DeleteComment(ctx context.Context, commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		s.metrics.IncrementCommentOperations("delete", false)
		if errors.Is(err, custom_errors.ErrCommentNotFound) {
			s.log.Debug("Comment not found for delete", slog.Int64("id", commentID))
			return custom_errors.ErrCommentNotFound
		}
		s.log.Error("Failed to get comment for delete", slog.Int64("id", commentID), slog.String("error", err.Error()))
		return err
	}
	if comment.AuthorID != userID {
		s.metrics.IncrementCommentOperations("delete", false)
		s.log.Debug("Comment delete forbidden",
			slog.Int64("id", commentID),
			slog.Int64("author_id", comment.AuthorID),
			slog.Int64("user_id", userID))
		return custom_errors.ErrForbidden
	}

	err = s.commentRepo.Delete(ctx, commentID)
	s.metrics.IncrementCommentOperations("delete", err == nil)
	if err != nil {
		s.log.Error("Failed to delete comment", slog.Int64("id", commentID), slog.String("error", err.Error()))
		return err
	}

	s.log.Info("Comment deleted", slog.Int64("id", commentID), slog.Int64("user_id", userID))
	return nil
}

// ToggleLike flips the viewer's like inside one transaction. The unique pair
// constraint resolves concurrent toggles: a racing insert surfaces as
// ErrAlreadyLiked and the toggle settles on the liked state.
func (s *BoardService) ToggleLike(ctx context.Context, postID, userID int64) (result *model.LikeStatus, err error) {
	if _, err = s.postRepo.GetByID(ctx, postID); err != nil {
		s.metrics.IncrementLikeOperations("toggle", false)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for like toggle", slog.Int64("post_id", postID))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post for like toggle", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, err
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.metrics.IncrementLikeOperations("toggle", false)
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer s.rollbackUnlessCommitted(ctx, tx, &txCommitted)

	likeRepo := tx.LikeRepository()

	removed, err := likeRepo.Remove(ctx, postID, userID)
	if err != nil {
		s.metrics.IncrementLikeOperations("toggle", false)
		s.log.Error("Failed to remove like", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, err
	}

	liked := false
	if !removed {
		err = likeRepo.Add(ctx, postID, userID)
		if err != nil && !errors.Is(err, custom_errors.ErrAlreadyLiked) {
			s.metrics.IncrementLikeOperations("toggle", false)
			s.log.Error("Failed to add like", slog.Int64("post_id", postID), slog.String("error", err.Error()))
			return nil, err
		}
		liked = true
	}

	count, err := likeRepo.CountByPost(ctx, postID)
	if err != nil {
		s.metrics.IncrementLikeOperations("toggle", false)
		s.log.Error("Failed to count likes", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.metrics.IncrementLikeOperations("toggle", false)
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.metrics.IncrementLikeOperations("toggle", true)
	return &model.LikeStatus{Liked: liked, LikeCount: count}, nil
}

func (s *BoardService) Overview(ctx context.Context) (*model.BoardOverview, error) {
	recentPosts, err := s.postRepo.ListRecent(ctx, overviewRecentPosts)
	if err != nil {
		s.log.Error("Failed to list recent posts", slog.String("error", err.Error()))
		return nil, err
	}
	topPosts, err := s.postRepo.ListTop(ctx, overviewTopPosts)
	if err != nil {
		s.log.Error("Failed to list top posts", slog.String("error", err.Error()))
		return nil, err
	}
	recentComments, err := s.commentRepo.ListRecent(ctx, overviewRecentComments)
	if err != nil {
		s.log.Error("Failed to list recent comments", slog.String("error", err.Error()))
		return nil, err
	}
	stats, err := s.postRepo.Stats(ctx)
	if err != nil {
		s.log.Error("Failed to load board stats", slog.String("error", err.Error()))
		return nil, err
	}

	return &model.BoardOverview{
		RecentPosts:    recentPosts,
		TopPosts:       topPosts,
		RecentComments: recentComments,
		Stats:          stats,
	}, nil
}

func (s *BoardService) AllTags(ctx context.Context) ([]*model.Tag, error) {
	tags, err := s.tagRepo.All(ctx)
	if err != nil {
		s.log.Error("Failed to list tags", slog.String("error", err.Error()))
		return nil, err
	}
	return tags, nil
}
