package shop

import (
	"context"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository"
	"mini-shop/internal/telemetry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const columns = `id::text, name, description, logo, contact, phone, address, open_time, close_time, status,
min_free_order, delivery_fee, delivery_radius, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: telemetry.OrNop(logger).Named("shop_repo")}
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Shop, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM shops WHERE status = 'active' ORDER BY created_at ASC`)
	if err != nil {
		r.logger.Error("list", zap.Error(err))
		return nil, repository.MapError(err)
	}
	defer rows.Close()

	result := []domain.Shop{}
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	s, err := scanShop(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM shops WHERE id = $1`, id))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return s, nil
}

func (r *postgresRepo) Create(ctx context.Context, s domain.Shop) (*domain.Shop, error) {
	status := s.Status
	if status == "" {
		status = domain.ShopActive
	}
	q := `
INSERT INTO shops (id, name, description, logo, contact, phone, address, open_time, close_time, status,
                   min_free_order, delivery_fee, delivery_radius)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + columns
	out, err := scanShop(r.pool.QueryRow(ctx, q,
		s.ID, s.Name, s.Description, s.Logo, s.Contact, s.Phone, s.Address,
		s.BusinessHours.Open, s.BusinessHours.Close, status,
		s.Delivery.MinFreeOrder, s.Delivery.DeliveryFee, s.Delivery.DeliveryRadius,
	))
	if err != nil {
		r.logger.Error("create", zap.String("name", s.Name), zap.Error(err))
		return nil, repository.MapError(err)
	}
	r.logger.Info("created", zap.String("id", out.ID))
	return out, nil
}

func scanShop(row pgx.Row) (*domain.Shop, error) {
	var s domain.Shop
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Logo, &s.Contact, &s.Phone, &s.Address,
		&s.BusinessHours.Open, &s.BusinessHours.Close, &s.Status,
		&s.Delivery.MinFreeOrder, &s.Delivery.DeliveryFee, &s.Delivery.DeliveryRadius,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
