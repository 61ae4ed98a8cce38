package token

import (
	"context"
	"time"
)

// Revoked records a bearer token id that must no longer be accepted.
type Revoked struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Revoke(ctx context.Context, token Revoked) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Purge deletes entries whose token expired before now; they can no longer be presented anyway.
	Purge(ctx context.Context, now time.Time) (int64, error)
}
