package token

import (
	"context"
	"time"

	"mini-shop/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Revoke(ctx context.Context, token Revoked) error {
	const q = `
INSERT INTO revoked_tokens (token_id, user_id, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (token_id) DO NOTHING
`
	_, err := r.pool.Exec(ctx, q, token.TokenID, token.UserID, token.ExpiresAt)
	return repository.MapError(err)
}

func (r *postgresRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)`, tokenID).Scan(&revoked)
	if err != nil {
		return false, repository.MapError(err)
	}
	return revoked, nil
}

func (r *postgresRepo) Purge(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, repository.MapError(err)
	}
	return cmd.RowsAffected(), nil
}
