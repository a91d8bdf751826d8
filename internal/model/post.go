package model

import "github.com/jackc/pgx/v5/pgtype"

type Post struct {
	ID               int64              `json:"id"`
	AuthorID         int64              `json:"author_id"`
	Title            string             `json:"title"`
	Content          *string            `json:"content,omitempty"`
	Filename         *string            `json:"filename,omitempty"`
	OriginalFilename *string            `json:"original_filename,omitempty"`
	ImageFilename    *string            `json:"image_filename,omitempty"`
	Views            int64              `json:"views"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
}
