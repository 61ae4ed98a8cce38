package seed

import (
	"context"
	"testing"

	"mini-shop/internal/repository/product"
	"mini-shop/internal/repository/repotest"
)

func TestApplyIsIdempotent(t *testing.T) {
	pool := repotest.Pool(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := Apply(ctx, pool, nil); err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
	}

	_, total, err := product.NewPostgres(pool, nil).List(ctx, product.Filter{ShopID: DemoShopID, OnSaleOnly: true, Limit: 50})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if total != len(products) {
		t.Fatalf("expected %d products after reseeding, got %d", len(products), total)
	}

	var banners int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM banners WHERE shop_id = $1`, DemoShopID).Scan(&banners); err != nil {
		t.Fatalf("count banners: %v", err)
	}
	if banners != 1 {
		t.Fatalf("expected 1 banner, got %d", banners)
	}
}
