package order

import (
	"context"
	"fmt"

	"mini-shop/internal/domain"
)

// ErrDuplicateOrderNo is returned by Create when the order number is taken.
var ErrDuplicateOrderNo = fmt.Errorf("order number taken: %w", domain.ErrAlreadyExists)

// ListFilter selects a page of orders. Exactly one of UserID and ShopID is expected.
type ListFilter struct {
	UserID string
	ShopID string
	Status domain.OrderStatus
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// Save persists the mutable lifecycle fields when o.Version still matches
	// the stored row, returning ErrConflict otherwise.
	Save(ctx context.Context, o *domain.Order) error
	List(ctx context.Context, f ListFilter) ([]domain.Order, int, error)
}
