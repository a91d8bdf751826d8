package model

import "github.com/jackc/pgx/v5/pgtype"

type Comment struct {
	ID             int64              `json:"id"`
	PostID         int64              `json:"post_id"`
	AuthorID       int64              `json:"author_id"`
	AuthorNickname string             `json:"author_nickname"`
	Content        string             `json:"content"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

// RecentComment is a home-page feed row: a comment together with the post it
// belongs to.
type RecentComment struct {
	Content        string             `json:"content"`
	AuthorNickname string             `json:"author_nickname"`
	PostID         int64              `json:"post_id"`
	PostTitle      string             `json:"post_title"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}
