package cart

import (
	"context"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository"
	"mini-shop/internal/telemetry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const expandedSelect = `
SELECT cl.id::text, cl.user_id::text, cl.product_id::text, cl.quantity, cl.specs, cl.price, cl.product_name,
       cl.product_image, cl.created_at, cl.updated_at,
       p.id::text, p.name, p.price, p.cover_image, p.stock
FROM cart_lines cl
JOIN products p ON p.id = cl.product_id
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: telemetry.OrNop(logger).Named("cart_repo")}
}

func (r *postgresRepo) AddLine(ctx context.Context, in AddLineInput) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (user_id, product_id, quantity, specs, price, product_name, product_image)
VALUES ($1, $2, $3, COALESCE($4::jsonb, '{}'::jsonb), $5, $6, $7)
ON CONFLICT (user_id, product_id) DO UPDATE SET
    quantity = cart_lines.quantity + EXCLUDED.quantity,
    specs = COALESCE($4::jsonb, cart_lines.specs),
    updated_at = now()
RETURNING id::text
`
	var specs interface{}
	if in.Specs != nil {
		specs = in.Specs
	}
	var id string
	if err := r.pool.QueryRow(ctx, q, in.UserID, in.ProductID, in.Quantity, specs, in.Price, in.ProductName, in.ProductImage).Scan(&id); err != nil {
		err = repository.MapError(err)
		r.logger.Warn("add line", zap.String("user_id", in.UserID), zap.String("product_id", in.ProductID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("add line", zap.String("id", id), zap.Int("quantity", in.Quantity))
	return r.GetForUser(ctx, in.UserID, id)
}

func (r *postgresRepo) GetForUser(ctx context.Context, userID, id string) (*domain.CartLine, error) {
	line, err := scanLine(r.pool.QueryRow(ctx, expandedSelect+`WHERE cl.id = $1 AND cl.user_id = $2`, id, userID))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return line, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	rows, err := r.pool.Query(ctx, expandedSelect+`WHERE cl.user_id = $1 ORDER BY cl.updated_at DESC, cl.id`, userID)
	if err != nil {
		return nil, repository.MapError(err)
	}
	defer rows.Close()

	result := []domain.CartLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapError(err)
	}
	return result, nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartLine, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_lines
SET quantity = $3, updated_at = now()
WHERE id = $1 AND user_id = $2
`, id, userID, quantity)
	if err != nil {
		return nil, repository.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetForUser(ctx, userID, id)
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return repository.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1 AND id = ANY($2::uuid[])`, userID, ids)
	if err != nil {
		return 0, repository.MapError(err)
	}
	r.logger.Debug("delete many", zap.String("user_id", userID), zap.Int("requested", len(ids)), zap.Int64("deleted", cmd.RowsAffected()))
	return cmd.RowsAffected(), nil
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var (
		line domain.CartLine
		p    domain.CartProduct
	)
	if err := row.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.Specs, &line.Price,
		&line.ProductName, &line.ProductImage, &line.CreatedAt, &line.UpdatedAt,
		&p.ID, &p.Name, &p.Price, &p.CoverImage, &p.Stock); err != nil {
		return nil, err
	}
	if line.Specs == nil {
		line.Specs = map[string]interface{}{}
	}
	line.Product = &p
	return &line, nil
}
