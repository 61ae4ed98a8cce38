package seed

import (
	"context"
	"fmt"

	"mini-shop/internal/domain"
	"mini-shop/internal/repository/product"
	"mini-shop/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DemoShopID is the fixed id of the seeded shop; point DEFAULT_SHOP_ID at it.
const DemoShopID = "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0001"

type categorySeed struct {
	ID        string
	Name      string
	Icon      string
	SortOrder int
}

type productSeed struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Price       string
	Original    string
	Stock       int
	Recommend   bool
	Specs       []domain.ProductSpec
}

var categories = []categorySeed{
	{ID: "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0101", Name: "时令水果", Icon: "/static/icons/fruit.png", SortOrder: 1},
	{ID: "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0102", Name: "新鲜蔬菜", Icon: "/static/icons/veg.png", SortOrder: 2},
	{ID: "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0103", Name: "乳品烘焙", Icon: "/static/icons/dairy.png", SortOrder: 3},
}

var products = []productSeed{
	{
		ID: "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0201", CategoryID: categories[0].ID,
		Name: "烟台红富士苹果", Description: "脆甜多汁，产地直发", Price: "5.00", Original: "6.50", Stock: 200, Recommend: true,
		Specs: []domain.ProductSpec{{Name: "重量", Values: []string{"500g", "1kg", "2.5kg"}}},
	},
	{
		ID: "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0202", CategoryID: categories[0].ID,
		Name: "海南香蕉", Description: "自然熟", Price: "3.80", Stock: 150,
	},
	{
		ID: "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0203", CategoryID: categories[1].ID,
		Name: "有机西兰花", Description: "基地直采", Price: "6.90", Stock: 80, Recommend: true,
	},
	{
		ID: "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0204", CategoryID: categories[2].ID,
		Name: "鲜牛奶 950ml", Description: "巴氏杀菌", Price: "12.50", Original: "14.00", Stock: 60,
	},
}

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT on fixed ids.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	logger = telemetry.OrNop(logger).Named("seed")

	if err := upsertShop(ctx, pool); err != nil {
		return fmt.Errorf("upsert shop: %w", err)
	}
	for _, c := range categories {
		if err := upsertCategory(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Name, err)
		}
	}

	repo := product.NewPostgres(pool, logger)
	for _, p := range products {
		if err := upsertProduct(ctx, repo, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	if err := upsertBanner(ctx, pool); err != nil {
		return fmt.Errorf("upsert banner: %w", err)
	}

	logger.Info("seeded", zap.String("shop_id", DemoShopID),
		zap.Int("categories", len(categories)), zap.Int("products", len(products)))
	return nil
}

func upsertShop(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO shops (id, name, description, contact, phone, address, min_free_order, delivery_fee)
VALUES ($1, '鲜果小铺', '社区生鲜便利店', '王店长', '13800000000', '深圳市南山区科技园', 39, 5)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
`
	_, err := pool.Exec(ctx, q, DemoShopID)
	return err
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) error {
	const q = `
INSERT INTO categories (id, shop_id, name, icon, sort_order)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    icon = EXCLUDED.icon,
    sort_order = EXCLUDED.sort_order,
    updated_at = now()
`
	_, err := pool.Exec(ctx, q, c.ID, DemoShopID, c.Name, c.Icon, c.SortOrder)
	return err
}

func upsertProduct(ctx context.Context, repo product.Repository, p productSeed) error {
	item := domain.Product{
		ID:          p.ID,
		ShopID:      DemoShopID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       decimal.RequireFromString(p.Price),
		Stock:       p.Stock,
		Specs:       p.Specs,
		IsRecommend: p.Recommend,
		IsOnSale:    true,
	}
	if p.Original != "" {
		original := decimal.RequireFromString(p.Original)
		item.OriginalPrice = &original
	}
	_, err := repo.Upsert(ctx, item)
	return err
}

func upsertBanner(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO banners (id, shop_id, image_url, title, link_type, link_target, sort_order)
VALUES ($1, $2, '/uploads/banner-apple.jpg', '红富士尝鲜价', 'product', $3, 1)
ON CONFLICT (id) DO UPDATE SET image_url = EXCLUDED.image_url, title = EXCLUDED.title, updated_at = now()
`
	_, err := pool.Exec(ctx, q, "7b0c2c4e-2f4a-4c55-9d1e-5a0f3d8c0301", DemoShopID, products[0].ID)
	return err
}
