package model

import "github.com/jackc/pgx/v5/pgtype"

// PostSummary is one listing row: the post joined with its author's nickname,
// the aggregated tag names, and the derived comment/like counts.
type PostSummary struct {
	ID               int64              `json:"id"`
	AuthorID         int64              `json:"author_id"`
	AuthorNickname   string             `json:"author_nickname"`
	Title            string             `json:"title"`
	Content          *string            `json:"content,omitempty"`
	Filename         *string            `json:"filename,omitempty"`
	OriginalFilename *string            `json:"original_filename,omitempty"`
	ImageFilename    *string            `json:"image_filename,omitempty"`
	Views            int64              `json:"views"`
	Tags             []string           `json:"tags"`
	CommentCount     int64              `json:"comment_count"`
	LikeCount        int64              `json:"like_count"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
}
