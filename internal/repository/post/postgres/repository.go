package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	"schoolpass-board-service/internal/model"
	"schoolpass-board-service/internal/repository/postgres/db"
)

type PostRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.MetricsProvider
}

func NewPostRepository(db db.PgDB, log *logger.Logger, metrics metrics.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

// summarySelect joins each post with its author's nickname, aggregates the
// linked tag names into one field, and derives comment/like counts through
// per-post subqueries so the tag join cannot fan the counts out.
const summarySelect = `
	SELECT p.id, p.author_id, u.nickname, p.title, p.content,
	       p.filename, p.original_filename, p.image_filename,
	       p.views, p.created_at,
	       COALESCE(string_agg(DISTINCT t.name, ','), '') AS tags,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_tags pt ON pt.post_id = p.id
	LEFT JOIN tags t ON t.id = pt.tag_id`

const summaryGroupBy = ` GROUP BY p.id, u.nickname`

func scanSummary(row pgx.Row) (*model.PostSummary, error) {
	var summary model.PostSummary
	var tags string
	err := row.Scan(
		&summary.ID,
		&summary.AuthorID,
		&summary.AuthorNickname,
		&summary.Title,
		&summary.Content,
		&summary.Filename,
		&summary.OriginalFilename,
		&summary.ImageFilename,
		&summary.Views,
		&summary.CreatedAt,
		&tags,
		&summary.CommentCount,
		&summary.LikeCount,
	)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		summary.Tags = strings.Split(tags, ",")
	} else {
		summary.Tags = []string{}
	}
	return &summary, nil
}

func (p *PostRepository) collectSummaries(rows pgx.Rows) ([]*model.PostSummary, error) {
	defer rows.Close()

	summaries := []*model.PostSummary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			p.log.Error("Error scanning post summary", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		p.log.Error("Error iterating post summary rows", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return summaries, nil
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}

	args := pgx.NamedArgs{
		"author_id":         post.AuthorID,
		"title":             post.Title,
		"content":           post.Content,
		"filename":          post.Filename,
		"original_filename": post.OriginalFilename,
		"image_filename":    post.ImageFilename,
		"created_at":        now,
		"updated_at":        now,
	}

	query := `
		INSERT INTO posts (author_id, title, content, filename, original_filename, image_filename, created_at, updated_at)
		VALUES (@author_id, @title, @content, @filename, @original_filename, @image_filename, @created_at, @updated_at)
		RETURNING id, author_id, title, content, filename, original_filename, image_filename, views, created_at, updated_at`

	var createdPost model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&createdPost.ID,
		&createdPost.AuthorID,
		&createdPost.Title,
		&createdPost.Content,
		&createdPost.Filename,
		&createdPost.OriginalFilename,
		&createdPost.ImageFilename,
		&createdPost.Views,
		&createdPost.CreatedAt,
		&createdPost.UpdatedAt,
	)

	p.metrics.IncrementDatabaseQueries("post_create", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))

	if err != nil {
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return &createdPost, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	start := time.Now()
	args := pgx.NamedArgs{"id": id}
	query := `SELECT id, author_id, title, content, filename, original_filename, image_filename, views, created_at, updated_at
				FROM posts WHERE id = @id`
	row := p.db.QueryRow(ctx, query, args)
	post := &model.Post{}
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Filename,
		&post.OriginalFilename,
		&post.ImageFilename,
		&post.Views,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	p.metrics.IncrementDatabaseQueries("post_get_by_id", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_get_by_id", time.Since(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return post, nil
}

func (p *PostRepository) GetSummaryByID(ctx context.Context, id int64) (*model.PostSummary, error) {
	start := time.Now()
	args := pgx.NamedArgs{"id": id}
	query := summarySelect + ` WHERE p.id = @id` + summaryGroupBy

	summary, err := scanSummary(p.db.QueryRow(ctx, query, args))
	p.metrics.IncrementDatabaseQueries("post_get_summary", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_get_summary", time.Since(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post summary", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return summary, nil
}

func (p *PostRepository) GetByAuthor(ctx context.Context, authorID int64) ([]*model.PostSummary, error) {
	start := time.Now()
	args := pgx.NamedArgs{"author_id": authorID}
	query := summarySelect + ` WHERE p.author_id = @author_id` + summaryGroupBy +
		` ORDER BY p.created_at DESC, p.id ASC`

	rows, err := p.db.Query(ctx, query, args)
	p.metrics.IncrementDatabaseQueries("post_get_by_author", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_get_by_author", time.Since(start))
	if err != nil {
		p.log.Error("Error getting posts by author", slog.Int64("author_id", authorID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return p.collectSummaries(rows)
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.PostSummary, error) {
	start := time.Now()
	args := pgx.NamedArgs{}
	query := summarySelect

	whereClauses := []string{}

	if filters.Tag != "" && filters.Tag != model.TagAny {
		// EXISTS keeps inner-join semantics for the filter while the outer
		// LEFT JOIN still aggregates every tag the post carries.
		whereClauses = append(whereClauses, `EXISTS (
			SELECT 1 FROM post_tags ptf
			JOIN tags tf ON tf.id = ptf.tag_id
			WHERE ptf.post_id = p.id AND tf.name = @tag)`)
		args["tag"] = filters.Tag
	}
	if filters.Search != "" {
		whereClauses = append(whereClauses, `(p.title ILIKE @search OR p.content ILIKE @search OR u.nickname ILIKE @search)`)
		args["search"] = "%" + filters.Search + "%"
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += summaryGroupBy

	// Ties resolve by id so equal counts order deterministically.
	switch filters.Sort {
	case model.SortViews:
		query += ` ORDER BY p.views DESC, p.id ASC`
	case model.SortLikes:
		query += ` ORDER BY like_count DESC, p.id ASC`
	case model.SortComments:
		query += ` ORDER BY comment_count DESC, p.id ASC`
	default:
		query += ` ORDER BY p.created_at DESC, p.id ASC`
	}

	rows, err := p.db.Query(ctx, query, args)
	p.metrics.IncrementDatabaseQueries("post_list", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
	if err != nil {
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return p.collectSummaries(rows)
}

func (p *PostRepository) ListRecent(ctx context.Context, limit int) ([]*model.PostSummary, error) {
	start := time.Now()
	args := pgx.NamedArgs{"limit": limit}
	query := summarySelect + summaryGroupBy + ` ORDER BY p.created_at DESC, p.id ASC LIMIT @limit`

	rows, err := p.db.Query(ctx, query, args)
	p.metrics.IncrementDatabaseQueries("post_list_recent", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_list_recent", time.Since(start))
	if err != nil {
		p.log.Error("Error listing recent posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return p.collectSummaries(rows)
}

func (p *PostRepository) ListTop(ctx context.Context, limit int) ([]*model.PostSummary, error) {
	start := time.Now()
	args := pgx.NamedArgs{"limit": limit}
	query := summarySelect + summaryGroupBy + ` ORDER BY p.views DESC, p.id ASC LIMIT @limit`

	rows, err := p.db.Query(ctx, query, args)
	p.metrics.IncrementDatabaseQueries("post_list_top", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_list_top", time.Since(start))
	if err != nil {
		p.log.Error("Error listing top posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return p.collectSummaries(rows)
}

func (p *PostRepository) Update(ctx context.Context, id int64, update *model.PostUpdate) (*model.Post, error) {
	start := time.Now()
	setClauses := []string{}
	args := pgx.NamedArgs{"id": id}

	if update.Title != nil {
		setClauses = append(setClauses, "title = @title")
		args["title"] = *update.Title
	}
	if update.Content != nil {
		setClauses = append(setClauses, "content = @content")
		args["content"] = *update.Content
	}

	// File slots are written unconditionally: nil clears the column.
	setClauses = append(setClauses, "filename = @filename", "original_filename = @original_filename", "image_filename = @image_filename")
	args["filename"] = update.Filename
	args["original_filename"] = update.OriginalFilename
	args["image_filename"] = update.ImageFilename

	setClauses = append(setClauses, "updated_at = @updated_at")
	args["updated_at"] = pgtype.Timestamptz{Time: time.Now(), Valid: true}

	query := "UPDATE posts SET " + strings.Join(setClauses, ", ") +
		" WHERE id = @id RETURNING id, author_id, title, content, filename, original_filename, image_filename, views, created_at, updated_at"

	var updatedPost model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&updatedPost.ID,
		&updatedPost.AuthorID,
		&updatedPost.Title,
		&updatedPost.Content,
		&updatedPost.Filename,
		&updatedPost.OriginalFilename,
		&updatedPost.ImageFilename,
		&updatedPost.Views,
		&updatedPost.CreatedAt,
		&updatedPost.UpdatedAt,
	)

	p.metrics.IncrementDatabaseQueries("post_update", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_update", time.Since(start))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id during Update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return &updatedPost, nil
}

func (p *PostRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	args := pgx.NamedArgs{"id": id}
	query := `DELETE FROM posts WHERE id = @id`
	result, err := p.db.Exec(ctx, query, args)
	p.metrics.IncrementDatabaseQueries("post_delete", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_delete", time.Since(start))
	if err != nil {
		p.log.Error("Error deleting post", slog.Int64("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		return custom_errors.ErrPostNotFound
	}
	return nil
}

// IncrementViews bumps the view counter. Callers run it detached from the
// detail read; a failure is logged and never propagated to the reader.
func (p *PostRepository) IncrementViews(ctx context.Context, id int64) error {
	start := time.Now()
	args := pgx.NamedArgs{"id": id}
	query := `UPDATE posts SET views = views + 1 WHERE id = @id`
	_, err := p.db.Exec(ctx, query, args)
	p.metrics.IncrementDatabaseQueries("post_increment_views", err == nil)
	p.metrics.RecordDatabaseQueryDuration("post_increment_views", time.Since(start))
	if err != nil {
		p.log.Error("Error incrementing post views", slog.Int64("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}

func (p *PostRepository) Stats(ctx context.Context) (*model.BoardStats, error) {
	start := time.Now()
	query := `
		SELECT
			(SELECT COUNT(*) FROM posts) AS total_posts,
			(SELECT COUNT(*) FROM comments) AS total_comments,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM posts WHERE created_at::date = CURRENT_DATE) AS today_posts`

	var stats model.BoardStats
	err := p.db.QueryRow(ctx, query).Scan(
		&stats.TotalPosts,
		&stats.TotalComments,
		&stats.TotalUsers,
		&stats.TodayPosts,
	)
	p.metrics.IncrementDatabaseQueries("board_stats", err == nil)
	p.metrics.RecordDatabaseQueryDuration("board_stats", time.Since(start))
	if err != nil {
		p.log.Error("Error loading board stats", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return &stats, nil
}
