package user

import (
	"context"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository"
	"mini-shop/internal/telemetry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const columns = `id::text, open_id, nick_name, avatar_url, phone, addresses, shop_id::text, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: telemetry.OrNop(logger).Named("user_repo")}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id)
}

func (r *postgresRepo) GetByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM users WHERE open_id = $1`, openID)
}

func (r *postgresRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM users WHERE phone = $1 AND phone <> ''`, phone)
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	nick := u.NickName
	if nick == "" {
		nick = domain.DefaultNickName
	}
	addresses := u.Addresses
	if addresses == nil {
		addresses = []domain.Address{}
	}
	q := `
INSERT INTO users (open_id, nick_name, avatar_url, phone, addresses, shop_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + columns
	out, err := scanUser(r.pool.QueryRow(ctx, q, u.OpenID, nick, u.AvatarURL, u.Phone, addresses, u.ShopID))
	if err != nil {
		err = repository.MapError(err)
		r.logger.Warn("create", zap.Error(err))
		return nil, err
	}
	r.logger.Info("created", zap.String("id", out.ID))
	return out, nil
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error) {
	q := `
UPDATE users
SET nick_name = COALESCE($2, nick_name),
    avatar_url = COALESCE($3, avatar_url),
    phone = COALESCE($4, phone),
    updated_at = now()
WHERE id = $1
RETURNING ` + columns
	out, err := scanUser(r.pool.QueryRow(ctx, q, id, in.NickName, in.AvatarURL, in.Phone))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) SaveAddresses(ctx context.Context, id string, addresses []domain.Address) (*domain.User, error) {
	if addresses == nil {
		addresses = []domain.Address{}
	}
	q := `UPDATE users SET addresses = $2, updated_at = now() WHERE id = $1 RETURNING ` + columns
	out, err := scanUser(r.pool.QueryRow(ctx, q, id, addresses))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) getOne(ctx context.Context, q string, arg string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.OpenID, &u.NickName, &u.AvatarURL, &u.Phone, &u.Addresses, &u.ShopID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if u.Addresses == nil {
		u.Addresses = []domain.Address{}
	}
	return &u, nil
}
