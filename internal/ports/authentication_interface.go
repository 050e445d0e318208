package ports

import (
	"context"

	"helpdesk-web-server/internal/model"
)

type AuthenticationService interface {
	Login(ctx context.Context, login, password, fingerprint string) (*model.TokensPair, error)
	Refresh(ctx context.Context, refreshToken, fingerprint string) (*model.TokensPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID int64) error
}
