package banner

import (
	"context"
	"time"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id::text, shop_id::text, image_url, title, description, link_type, link_target, sort_order,
is_active, start_date, end_date, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListActive(ctx context.Context, shopID string, now time.Time) ([]domain.Banner, error) {
	q := `SELECT ` + columns + `
FROM banners
WHERE shop_id = $1 AND is_active AND start_date <= $2 AND (end_date IS NULL OR end_date >= $2)
ORDER BY sort_order ASC, created_at DESC
`
	return r.list(ctx, q, shopID, now)
}

func (r *postgresRepo) ListAll(ctx context.Context, shopID string) ([]domain.Banner, error) {
	q := `SELECT ` + columns + ` FROM banners WHERE shop_id = $1 ORDER BY sort_order ASC, created_at DESC`
	return r.list(ctx, q, shopID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	b, err := scanBanner(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM banners WHERE id = $1`, id))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return b, nil
}

func (r *postgresRepo) Create(ctx context.Context, b domain.Banner) (*domain.Banner, error) {
	q := `
INSERT INTO banners (shop_id, image_url, title, description, link_type, link_target, sort_order, is_active, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()), $10)
RETURNING ` + columns
	out, err := scanBanner(r.pool.QueryRow(ctx, q, b.ShopID, b.ImageURL, b.Title, b.Description, b.LinkType,
		b.LinkTarget, b.SortOrder, b.IsActive, startDate(b.StartDate), b.EndDate))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, b domain.Banner) (*domain.Banner, error) {
	q := `
UPDATE banners
SET image_url = $2, title = $3, description = $4, link_type = $5, link_target = $6, sort_order = $7,
    is_active = $8, start_date = COALESCE($9, start_date), end_date = $10, updated_at = now()
WHERE id = $1
RETURNING ` + columns
	out, err := scanBanner(r.pool.QueryRow(ctx, q, b.ID, b.ImageURL, b.Title, b.Description, b.LinkType,
		b.LinkTarget, b.SortOrder, b.IsActive, startDate(b.StartDate), b.EndDate))
	if err != nil {
		return nil, repository.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return repository.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Banner, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, repository.MapError(err)
	}
	defer rows.Close()

	result := []domain.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func startDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func scanBanner(row pgx.Row) (*domain.Banner, error) {
	var b domain.Banner
	if err := row.Scan(&b.ID, &b.ShopID, &b.ImageURL, &b.Title, &b.Description, &b.LinkType, &b.LinkTarget,
		&b.SortOrder, &b.IsActive, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
