package token

import (
	"context"
	"testing"
	"time"

	"mini-shop/internal/repository/repotest"
)

func TestPostgres_RevokeAndPurge(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	userID := repotest.User(t, pool, "open-1")
	repo := NewPostgres(pool)
	now := time.Now()

	if err := repo.Revoke(ctx, Revoked{TokenID: "live", UserID: userID, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := repo.Revoke(ctx, Revoked{TokenID: "live", UserID: userID, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Revoke must be idempotent: %v", err)
	}
	if err := repo.Revoke(ctx, Revoked{TokenID: "old", UserID: userID, ExpiresAt: now.Add(-time.Hour)}); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err := repo.IsRevoked(ctx, "live")
	if err != nil || !revoked {
		t.Fatalf("expected live token to be revoked: %v", err)
	}
	revoked, err = repo.IsRevoked(ctx, "unknown")
	if err != nil || revoked {
		t.Fatalf("expected unknown token to be accepted: %v", err)
	}

	n, err := repo.Purge(ctx, now)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged entry, got %d", n)
	}
}
