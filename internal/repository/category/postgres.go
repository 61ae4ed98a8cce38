package category

import (
	"context"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id::text, shop_id::text, name, icon, description, sort_order, is_active, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListActiveByShop(ctx context.Context, shopID string) ([]domain.Category, error) {
	q := `SELECT ` + columns + `
FROM categories
WHERE shop_id = $1 AND is_active
ORDER BY sort_order ASC, created_at ASC
`
	rows, err := r.pool.Query(ctx, q, shopID)
	if err != nil {
		return nil, repository.MapError(err)
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return c, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	q := `
INSERT INTO categories (shop_id, name, icon, description, sort_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + columns
	out, err := scanCategory(r.pool.QueryRow(ctx, q, c.ShopID, c.Name, c.Icon, c.Description, c.SortOrder, c.IsActive))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	q := `
UPDATE categories
SET name = $2, icon = $3, description = $4, sort_order = $5, is_active = $6, updated_at = now()
WHERE id = $1
RETURNING ` + columns
	out, err := scanCategory(r.pool.QueryRow(ctx, q, c.ID, c.Name, c.Icon, c.Description, c.SortOrder, c.IsActive))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) SetActive(ctx context.Context, id string, active bool) (*domain.Category, error) {
	q := `UPDATE categories SET is_active = $2, updated_at = now() WHERE id = $1 RETURNING ` + columns
	out, err := scanCategory(r.pool.QueryRow(ctx, q, id, active))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return out, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.ShopID, &c.Name, &c.Icon, &c.Description, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
