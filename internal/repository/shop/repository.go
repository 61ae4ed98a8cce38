package shop

import (
	"context"

	"mini-shop/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.Shop, error)
	GetByID(ctx context.Context, id string) (*domain.Shop, error)
	Create(ctx context.Context, s domain.Shop) (*domain.Shop, error)
}
