package product

import (
	"context"
	"fmt"
	"strings"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository"
	"mini-shop/internal/telemetry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const productColumns = `id::text, shop_id::text, category_id::text, name, description, price, original_price,
cover_image, images, stock, sales, specs, is_recommend, is_on_sale, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: telemetry.OrNop(logger).Named("product_repo")}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		err = repository.MapError(err)
		r.logger.Debug("get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, int, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.ShopID != "" {
		add("shop_id = $%d", f.ShopID)
	}
	if f.CategoryID != "" {
		add("category_id = $%d", f.CategoryID)
	}
	if f.Recommend != nil {
		add("is_recommend = $%d", *f.Recommend)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		add("name ILIKE '%%' || $%d || '%%'", escapeLike(kw))
	}
	if f.OnSaleOnly {
		where = append(where, "is_on_sale")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`+clause, args...).Scan(&total); err != nil {
		r.logger.Error("count", zap.Error(err))
		return nil, 0, repository.MapError(err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, f.Offset)
	q := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		productColumns, clause, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("list", zap.Error(err))
		return nil, 0, repository.MapError(err)
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, repository.MapError(err)
	}
	r.logger.Debug("list", zap.String("shop_id", f.ShopID), zap.Int("count", len(result)), zap.Int("total", total))
	return result, total, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, shop_id, category_id, name, description, price, original_price, cover_image,
                      images, stock, sales, specs, is_recommend, is_on_sale)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
    shop_id = EXCLUDED.shop_id,
    category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    original_price = EXCLUDED.original_price,
    cover_image = EXCLUDED.cover_image,
    images = EXCLUDED.images,
    stock = EXCLUDED.stock,
    specs = EXCLUDED.specs,
    is_recommend = EXCLUDED.is_recommend,
    is_on_sale = EXCLUDED.is_on_sale
RETURNING ` + productColumns
	images := p.Images
	if images == nil {
		images = []string{}
	}
	specs := p.Specs
	if specs == nil {
		specs = []domain.ProductSpec{}
	}
	var original decimal.NullDecimal
	if p.OriginalPrice != nil {
		original = decimal.NewNullDecimal(*p.OriginalPrice)
	}
	out, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.ShopID, p.CategoryID, p.Name, p.Description, p.Price, original, p.CoverImage,
		images, p.Stock, p.Sales, specs, p.IsRecommend, p.IsOnSale,
	))
	if err != nil {
		r.logger.Error("upsert", zap.String("name", p.Name), zap.Error(err))
		return nil, repository.MapError(err)
	}
	r.logger.Debug("upserted", zap.String("id", out.ID), zap.String("shop_id", out.ShopID))
	return out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p        domain.Product
		original decimal.NullDecimal
	)
	if err := row.Scan(&p.ID, &p.ShopID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &original,
		&p.CoverImage, &p.Images, &p.Stock, &p.Sales, &p.Specs, &p.IsRecommend, &p.IsOnSale, &p.CreatedAt); err != nil {
		return nil, err
	}
	if original.Valid {
		v := original.Decimal
		p.OriginalPrice = &v
	}
	return &p, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
