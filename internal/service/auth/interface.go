package auth_service

import (
	"context"

	"schoolpass-board-service/internal/model"
)

type Service interface {
	Register(ctx context.Context, dto *model.RegisterDTO) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}
