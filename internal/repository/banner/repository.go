package banner

import (
	"context"
	"time"

	"mini-shop/internal/domain"
)

type Repository interface {
	// ListActive returns banners of shopID that are active and inside their display window at now.
	ListActive(ctx context.Context, shopID string, now time.Time) ([]domain.Banner, error)
	ListAll(ctx context.Context, shopID string) ([]domain.Banner, error)
	GetByID(ctx context.Context, id string) (*domain.Banner, error)
	Create(ctx context.Context, b domain.Banner) (*domain.Banner, error)
	Update(ctx context.Context, b domain.Banner) (*domain.Banner, error)
	Delete(ctx context.Context, id string) error
}
