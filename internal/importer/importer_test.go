package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"mini-shop/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

type stubCategoryRepo struct {
	existing []domain.Category
	created  []domain.Category
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func (s *stubCategoryRepo) ListActiveByShop(_ context.Context, _ string) ([]domain.Category, error) {
	return s.existing, nil
}

func (s *stubCategoryRepo) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	c.ID = fmt.Sprintf("new-cat-%d", len(s.created)+1)
	s.created = append(s.created, c)
	return &c, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,description,category,price,originalPrice,stock,coverImage,image,isRecommend,isOnSale,spec.name,spec.values
00000000-0000-0000-0000-000000000001,Apple,Crisp,Fruit,5.00,6.50,10,,https://example.com/a1.jpg,true,,weight,500g|1kg
,,,,,,,,https://example.com/a2.jpg,,,origin,Yantai
,Broccoli,,Vegetables,6.9,,20,https://example.com/b.jpg,,,false,,`

	products := &stubProductRepo{}
	categories := &stubCategoryRepo{existing: []domain.Category{{ID: "cat-fruit", Name: "Fruit"}}}
	imp := NewCSVImporter(strings.NewReader(csvData), products, categories, "shop-1", nil)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 || len(products.items) != 2 {
		t.Fatalf("expected 2 products imported, got %d/%d", count, len(products.items))
	}

	apple := products.items[0]
	if apple.ID != "00000000-0000-0000-0000-000000000001" || apple.ShopID != "shop-1" || apple.CategoryID != "cat-fruit" {
		t.Fatalf("unexpected apple identity %+v", apple)
	}
	if apple.Price.String() != "5" || apple.OriginalPrice == nil || apple.OriginalPrice.String() != "6.5" || apple.Stock != 10 {
		t.Fatalf("unexpected apple pricing %+v", apple)
	}
	if len(apple.Images) != 2 || apple.CoverImage != "https://example.com/a1.jpg" {
		t.Fatalf("expected continuation image and cover fallback, got %+v", apple.Images)
	}
	if len(apple.Specs) != 2 || len(apple.Specs[0].Values) != 2 || apple.Specs[1].Name != "origin" {
		t.Fatalf("unexpected specs %+v", apple.Specs)
	}
	if !apple.IsRecommend || !apple.IsOnSale {
		t.Fatalf("unexpected flags %+v", apple)
	}

	broccoli := products.items[1]
	if broccoli.CategoryID != "new-cat-1" || broccoli.IsOnSale {
		t.Fatalf("unexpected broccoli %+v", broccoli)
	}
	if len(categories.created) != 1 || categories.created[0].Name != "Vegetables" || categories.created[0].ShopID != "shop-1" {
		t.Fatalf("expected Vegetables category to be created, got %+v", categories.created)
	}
}

func TestCSVImporter_InvalidRows(t *testing.T) {
	cases := map[string]string{
		"missing price": "name,category,price\nApple,Fruit,\n",
		"bad price":     "name,category,price\nApple,Fruit,abc\n",
		"bad stock":     "name,category,price,stock\nApple,Fruit,1,-3\n",
		"bad id":        "id,name,category,price\n123,Apple,Fruit,1\n",
	}
	for name, data := range cases {
		imp := NewCSVImporter(strings.NewReader(data), &stubProductRepo{}, &stubCategoryRepo{}, "shop-1", nil)
		if _, err := imp.Run(context.Background()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestCSVImporter_MissingNameColumn(t *testing.T) {
	imp := NewCSVImporter(strings.NewReader("title,price\nx,1\n"), &stubProductRepo{}, &stubCategoryRepo{}, "shop-1", nil)
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected missing column error")
	}
}
