package model

import "github.com/jackc/pgx/v5/pgtype"

type User struct {
	ID        int64              `json:"id"`
	Username  string             `json:"username"`
	Password  string             `json:"-"`
	Nickname  string             `json:"nickname"`
	Email     string             `json:"email"`
	School    string             `json:"school"`
	Grade     string             `json:"grade"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
