package tag_repository_postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	"schoolpass-board-service/internal/model"
	"schoolpass-board-service/internal/repository/postgres/db"
)

type TagRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.MetricsProvider
}

func NewTagRepository(db db.PgDB, log *logger.Logger, metrics metrics.MetricsProvider) *TagRepository {
	return &TagRepository{db: db, log: log, metrics: metrics}
}

func (t *TagRepository) collectTags(rows pgx.Rows) ([]*model.Tag, error) {
	defer rows.Close()

	tags := []*model.Tag{}
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			t.log.Error("Error scanning tag", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		t.log.Error("Error iterating tag rows", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return tags, nil
}

func (t *TagRepository) FindByNames(ctx context.Context, names []string) ([]*model.Tag, error) {
	start := time.Now()
	args := pgx.NamedArgs{"names": names}
	query := `SELECT id, name FROM tags WHERE name = ANY(@names) ORDER BY id`

	rows, err := t.db.Query(ctx, query, args)
	t.metrics.IncrementDatabaseQueries("tag_find_by_names", err == nil)
	t.metrics.RecordDatabaseQueryDuration("tag_find_by_names", time.Since(start))
	if err != nil {
		t.log.Error("Error finding tags by names", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return t.collectTags(rows)
}

func (t *TagRepository) FindByPost(ctx context.Context, postID int64) ([]*model.Tag, error) {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID}
	query := `SELECT tg.id, tg.name FROM tags tg
				JOIN post_tags pt ON pt.tag_id = tg.id
				WHERE pt.post_id = @post_id ORDER BY tg.id`

	rows, err := t.db.Query(ctx, query, args)
	t.metrics.IncrementDatabaseQueries("tag_find_by_post", err == nil)
	t.metrics.RecordDatabaseQueryDuration("tag_find_by_post", time.Since(start))
	if err != nil {
		t.log.Error("Error finding tags by post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return t.collectTags(rows)
}

func (t *TagRepository) All(ctx context.Context) ([]*model.Tag, error) {
	start := time.Now()
	query := `SELECT id, name FROM tags ORDER BY id`

	rows, err := t.db.Query(ctx, query)
	t.metrics.IncrementDatabaseQueries("tag_all", err == nil)
	t.metrics.RecordDatabaseQueryDuration("tag_all", time.Since(start))
	if err != nil {
		t.log.Error("Error listing tags", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return t.collectTags(rows)
}

// LinkPost attaches each named tag to the post. Names that resolve to no
// curated tag insert zero rows and are skipped silently.
func (t *TagRepository) LinkPost(ctx context.Context, postID int64, tagNames []string) error {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID, "names": tagNames}
	query := `INSERT INTO post_tags (post_id, tag_id)
				SELECT @post_id, id FROM tags WHERE name = ANY(@names)
				ON CONFLICT DO NOTHING`

	_, err := t.db.Exec(ctx, query, args)
	t.metrics.IncrementDatabaseQueries("tag_link_post", err == nil)
	t.metrics.RecordDatabaseQueryDuration("tag_link_post", time.Since(start))
	if err != nil {
		t.log.Error("Error linking tags to post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}

func (t *TagRepository) ClearPost(ctx context.Context, postID int64) error {
	start := time.Now()
	args := pgx.NamedArgs{"post_id": postID}
	query := `DELETE FROM post_tags WHERE post_id = @post_id`

	_, err := t.db.Exec(ctx, query, args)
	t.metrics.IncrementDatabaseQueries("tag_clear_post", err == nil)
	t.metrics.RecordDatabaseQueryDuration("tag_clear_post", time.Since(start))
	if err != nil {
		t.log.Error("Error clearing tags for post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}
