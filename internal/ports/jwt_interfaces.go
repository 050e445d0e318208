package ports

import (
	"context"
	"time"

	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/security"
)

type JWTServiceInterface interface {
	GenerateAccessToken(userID int64, role model.Role) (string, error)
	ValidateAccessToken(tokenStr string) (*security.Claims, error)
	AccessTokenTTL() time.Duration
}

type RefreshTokenRepositoryInterface interface {
	Issue(ctx context.Context, record *model.RefreshTokenRecord) (string, error)
	Rotate(ctx context.Context, opaqueToken, fingerprint string) (*model.RefreshTokenRecord, string, error)
	Revoke(ctx context.Context, opaqueToken string) error
	RevokeAll(ctx context.Context, userID int64) error
}
