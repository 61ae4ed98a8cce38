package category

import (
	"context"

	"mini-shop/internal/domain"
)

type Repository interface {
	ListActiveByShop(ctx context.Context, shopID string) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Category, error)
}
