package product

import (
	"context"

	"mini-shop/internal/domain"
)

// Filter narrows a product listing. Zero values mean "any".
type Filter struct {
	ShopID     string
	CategoryID string
	Recommend  *bool
	Keyword    string
	OnSaleOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, f Filter) ([]domain.Product, int, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
