package ports

import (
	"context"

	"helpdesk-web-server/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, newPasswordHash string) error
	UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error
	UpdateRole(ctx context.Context, id int64, role model.Role) error
	ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error)
}

type UserService interface {
	Register(ctx context.Context, login, password, fingerprint string) (*model.TokensPair, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, newPassword string) error
	SetStatus(ctx context.Context, id int64, status model.UserStatus) error
	SetRole(ctx context.Context, id int64, role model.Role) error
	ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error)
}
